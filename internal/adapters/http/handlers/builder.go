package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summitpoint/quotedesk/internal/adapters/http/dto"
	"github.com/summitpoint/quotedesk/internal/app"
	"github.com/summitpoint/quotedesk/internal/domain"
)

// maxPhotoBytes caps a single uploaded job photo. The server-wide body
// limit is the hard backstop; this keeps one upload from consuming it.
const maxPhotoBytes = 6 << 20

// BuilderHandler exposes the interactive quote-building sessions: open,
// edit, save, send, and the photo-suggestion flow.
type BuilderHandler struct {
	sessions    *app.SessionManager
	suggestions *app.SuggestionService
}

// NewBuilderHandler creates a new builder handler.
func NewBuilderHandler(sessions *app.SessionManager, suggestions *app.SuggestionService) *BuilderHandler {
	return &BuilderHandler{
		sessions:    sessions,
		suggestions: suggestions,
	}
}

// Open handles POST /api/v1/builder/sessions.
// An empty body opens a blank draft; a package key pre-populates from a
// quick package; a quote number reopens a persisted quote for editing.
func (h *BuilderHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	if req.Package != "" && req.Number != "" {
		dto.HandleError(c, domain.NewValidationError("package", "cannot combine a package key with a quote number"))
		return
	}

	var (
		sessionID string
		err       error
	)

	if req.Number != "" {
		sessionID, _, err = h.sessions.OpenExisting(c.Request.Context(), req.Number)
	} else {
		sessionID, _, err = h.sessions.OpenNew(req.Package)
	}

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusCreated, sessionID)
}

// GetState handles GET /api/v1/builder/sessions/:id.
func (h *BuilderHandler) GetState(c *gin.Context) {
	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// UpdateDraft handles PATCH /api/v1/builder/sessions/:id.
// Applies every present field as one edit, so the autosave quiet period
// restarts once for the whole request.
func (h *BuilderHandler) UpdateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	err = ctrl.Update(func(d *domain.QuoteDraft) error {
		return applyDraftUpdate(d, &req)
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// AddItem handles POST /api/v1/builder/sessions/:id/items.
func (h *BuilderHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quantity, err := dto.ParseDecimalField("quantity", req.Quantity)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	unitPrice, err := dto.ParseDecimalField("unitPrice", req.UnitPrice)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	err = ctrl.Update(func(d *domain.QuoteDraft) error {
		var item domain.LineItem
		if req.SourceRef != "" {
			item = domain.NewCatalogLineItem(req.SourceRef, req.Name, req.UnitLabel, quantity, unitPrice)
		} else {
			item = domain.NewLineItem(req.Name, req.UnitLabel, quantity, unitPrice)
		}

		d.Items.Add(item)

		return nil
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusCreated, c.Param("id"))
}

// UpdateItem handles PATCH /api/v1/builder/sessions/:id/items/:itemId.
func (h *BuilderHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateItemRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	itemID := c.Param("itemId")

	err = ctrl.Update(func(d *domain.QuoteDraft) error {
		if req.Quantity != nil {
			quantity, err := dto.ParseDecimalField("quantity", *req.Quantity)
			if err != nil {
				return err
			}

			if err := d.Items.SetQuantity(itemID, quantity); err != nil {
				return err
			}
		}

		if req.UnitPrice != nil {
			unitPrice, err := dto.ParseDecimalField("unitPrice", *req.UnitPrice)
			if err != nil {
				return err
			}

			if err := d.Items.SetUnitPrice(itemID, unitPrice); err != nil {
				return err
			}
		}

		if req.Name != nil {
			if err := d.Items.Rename(itemID, *req.Name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// RemoveItem handles DELETE /api/v1/builder/sessions/:id/items/:itemId.
func (h *BuilderHandler) RemoveItem(c *gin.Context) {
	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	err = ctrl.Update(func(d *domain.QuoteDraft) error {
		return d.Items.Remove(c.Param("itemId"))
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// Save handles POST /api/v1/builder/sessions/:id/save.
// An explicit save bypasses the quiet-period timer and saves even a
// clean draft.
func (h *BuilderHandler) Save(c *gin.Context) {
	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := ctrl.Save(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// Send handles POST /api/v1/builder/sessions/:id/send.
// Marks the draft sent and saves immediately.
func (h *BuilderHandler) Send(c *gin.Context) {
	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := ctrl.SaveAndSend(c.Request.Context()); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// Close handles DELETE /api/v1/builder/sessions/:id.
// Pending debounced work is dropped; clients flush with an explicit save
// first when they want the last edits kept.
func (h *BuilderHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AnalyzePhoto handles POST /api/v1/builder/sessions/:id/suggestions.
// Accepts a multipart "photo" part and returns proposed line items and a
// labor range. Nothing touches the draft until the user applies.
func (h *BuilderHandler) AnalyzePhoto(c *gin.Context) {
	if _, err := h.sessions.Controller(c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		dto.HandleError(c, domain.NewValidationError("photo", "a photo upload is required"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		dto.HandleError(c, domain.NewValidationError("photo", "could not read the uploaded photo"))
		return
	}

	if len(image) > maxPhotoBytes {
		dto.HandleError(c, domain.NewValidationError("photo", "photo exceeds the upload size limit"))
		return
	}

	result, err := h.suggestions.Analyze(c.Request.Context(), image, header.Header.Get("Content-Type"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSuggestionResultResponse(result))
}

// ApplySuggestions handles POST /api/v1/builder/sessions/:id/suggestions/apply.
// Folds the user-curated suggestion list into the draft: each item
// arrives unpriced and labor hours move to the midpoint of the range.
func (h *BuilderHandler) ApplySuggestions(c *gin.Context) {
	var req dto.ApplySuggestionsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	ctrl, err := h.sessions.Controller(c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	err = ctrl.Update(func(d *domain.QuoteDraft) error {
		d.ApplySuggestions(req.ToDomain())
		return nil
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, c.Param("id"))
}

// ListPackages handles GET /api/v1/builder/packages.
func (h *BuilderHandler) ListPackages(c *gin.Context) {
	packages := domain.QuickPackages()

	out := make([]dto.QuickPackageResponse, 0, len(packages))
	for _, p := range packages {
		out = append(out, dto.ToQuickPackageResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{"packages": out})
}

// respondSession writes the current session state.
func (h *BuilderHandler) respondSession(c *gin.Context, status int, sessionID string) {
	ctrl, err := h.sessions.Controller(sessionID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	snapshot := ctrl.Snapshot()

	c.JSON(status, dto.SessionResponse{
		SessionID:  sessionID,
		Draft:      dto.ToQuoteResponse(&snapshot),
		Dirty:      ctrl.Dirty(),
		SaveStatus: string(ctrl.Status()),
	})
}

// applyDraftUpdate applies the present fields of an update request to the
// draft. Runs inside the controller's mutation lock.
func applyDraftUpdate(d *domain.QuoteDraft, req *dto.UpdateDraftRequest) error {
	if req.Customer != nil {
		d.Customer = domain.Customer{
			CustomerID: req.Customer.CustomerID,
			Name:       req.Customer.Name,
			Email:      req.Customer.Email,
			Phone:      req.Customer.Phone,
			Address:    req.Customer.Address,
		}
	}

	if req.LaborHours != nil {
		hours, err := dto.ParseDecimalField("laborHours", *req.LaborHours)
		if err != nil {
			return err
		}

		d.LaborHours = domain.ClampNonNegative(hours)
	}

	if req.LaborRate != nil {
		rate, err := dto.ParseDecimalField("laborRate", *req.LaborRate)
		if err != nil {
			return err
		}

		d.LaborRate = domain.ClampNonNegative(rate)
	}

	if req.MarkupPercent != nil {
		markup, err := dto.ParseDecimalField("markupPercent", *req.MarkupPercent)
		if err != nil {
			return err
		}

		d.MarkupPercent = domain.ClampNonNegative(markup)
	}

	if req.Tier != nil {
		tier, err := domain.ParseTier(*req.Tier)
		if err != nil {
			return err
		}

		d.Tier = tier
	}

	if req.Notes != nil {
		d.Notes = *req.Notes
	}

	return nil
}

// RegisterRoutes registers the builder endpoints on the given router group.
func (h *BuilderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	builder := rg.Group("/builder")
	builder.GET("/packages", h.ListPackages)

	sessions := builder.Group("/sessions")
	sessions.POST("", h.Open)
	sessions.GET("/:id", h.GetState)
	sessions.PATCH("/:id", h.UpdateDraft)
	sessions.DELETE("/:id", h.Close)
	sessions.POST("/:id/items", h.AddItem)
	sessions.PATCH("/:id/items/:itemId", h.UpdateItem)
	sessions.DELETE("/:id/items/:itemId", h.RemoveItem)
	sessions.POST("/:id/save", h.Save)
	sessions.POST("/:id/send", h.Send)
	sessions.POST("/:id/suggestions", h.AnalyzePhoto)
	sessions.POST("/:id/suggestions/apply", h.ApplySuggestions)
}
