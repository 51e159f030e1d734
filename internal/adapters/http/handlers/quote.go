package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/summitpoint/quotedesk/internal/adapters/http/dto"
	"github.com/summitpoint/quotedesk/internal/app"
	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// QuoteHandler handles the persisted-quote endpoints: listing, retrieval,
// status changes, duplication and the export surface.
type QuoteHandler struct {
	service  *app.QuoteService
	exporter *app.ExportService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService, exporter *app.ExportService) *QuoteHandler {
	return &QuoteHandler{
		service:  service,
		exporter: exporter,
	}
}

// List handles GET /api/v1/quotes.
// Returns quote summaries newest first, optionally filtered by status.
func (h *QuoteHandler) List(c *gin.Context) {
	var req dto.ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	limit := req.GetLimit()
	filter := ports.QuoteFilter{
		Status: domain.Status(req.Status),
		Limit:  limit + 1, // one extra row signals another page
		Offset: req.GetOffset(),
	}

	summaries, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.QuoteSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.ToQuoteSummaryResponse(s))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, limit, req.GetOffset()))
}

// Get handles GET /api/v1/quotes/:number.
func (h *QuoteHandler) Get(c *gin.Context) {
	quote, err := h.service.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// Delete handles DELETE /api/v1/quotes/:number.
func (h *QuoteHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("number")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetStatus handles PUT /api/v1/quotes/:number/status.
// Any state may move to any other state; there is no one-way workflow.
func (h *QuoteHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.SetStatus(c.Request.Context(), c.Param("number"), status)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// Duplicate handles POST /api/v1/quotes/:number/duplicate.
// The copy gets a fresh number from the store and starts back in draft.
func (h *QuoteHandler) Duplicate(c *gin.Context) {
	quote, err := h.service.Duplicate(c.Request.Context(), c.Param("number"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToQuoteResponse(quote))
}

// ExportPDF handles GET /api/v1/quotes/:number/pdf.
// Renders the persisted snapshot without changing quote state, so a
// preview download never marks a quote as sent.
func (h *QuoteHandler) ExportPDF(c *gin.Context) {
	artifact, err := h.exporter.Export(c.Request.Context(), c.Param("number"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(artifact.PDF)))
	c.Data(http.StatusOK, "application/pdf", artifact.PDF)
}

// Notify handles POST /api/v1/quotes/:number/notify.
// Dispatches the customer notification without re-rendering the document.
func (h *QuoteHandler) Notify(c *gin.Context) {
	if err := h.exporter.Notify(c.Request.Context(), c.Param("number")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Finalize handles POST /api/v1/quotes/:number/send.
// Renders the document and dispatches the notification from one snapshot,
// then archives the quote as sent. On any failure the quote keeps its
// prior status.
func (h *QuoteHandler) Finalize(c *gin.Context) {
	number := c.Param("number")

	artifact, err := h.exporter.Finalize(c.Request.Context(), number)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExportResponse{
		Number:   number,
		Status:   string(domain.StatusSent),
		Filename: artifact.Filename,
	})
}

// RegisterRoutes registers the quote endpoints on the given router group.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.List)
	quotes.GET("/:number", h.Get)
	quotes.DELETE("/:number", h.Delete)
	quotes.PUT("/:number/status", h.SetStatus)
	quotes.POST("/:number/duplicate", h.Duplicate)
	quotes.GET("/:number/pdf", h.ExportPDF)
	quotes.POST("/:number/notify", h.Notify)
	quotes.POST("/:number/send", h.Finalize)
}
