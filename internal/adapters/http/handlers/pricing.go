package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summitpoint/quotedesk/internal/adapters/http/dto"
	"github.com/summitpoint/quotedesk/internal/domain"
)

// PricingHandler exposes the stateless tier-pricing preview. It computes
// breakdowns from base figures supplied in the request and never reads or
// writes a stored quote.
type PricingHandler struct{}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler() *PricingHandler {
	return &PricingHandler{}
}

// Preview handles POST /api/v1/pricing/preview.
// With a tier set it returns that tier's breakdown; without one it
// returns all tiers, the shape the tier-comparison view renders from.
func (h *PricingHandler) Preview(c *gin.Context) {
	var req dto.PricingPreviewRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	materials, err := dto.ParseDecimalField("materialsSubtotal", req.MaterialsSubtotal)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	hours, err := dto.ParseDecimalField("laborHours", req.LaborHours)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	rate, err := dto.ParseDecimalField("laborRate", req.LaborRate)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	markup, err := dto.ParseDecimalField("markupPercent", req.MarkupPercent)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	labor := domain.LaborTotal(hours, rate)

	tiers := []domain.Tier{domain.TierStandard, domain.TierPremium, domain.TierElite}

	if req.Tier != "" {
		tier, err := domain.ParseTier(req.Tier)
		if err != nil {
			dto.HandleError(c, err)
			return
		}

		tiers = []domain.Tier{tier}
	}

	out := make(map[string]dto.PricingResponse, len(tiers))
	for _, tier := range tiers {
		out[string(tier)] = toPricingResponse(domain.ComputeTierPricing(tier, materials, labor, markup))
	}

	c.JSON(http.StatusOK, dto.PricingPreviewResponse{Tiers: out})
}

func toPricingResponse(p domain.TierPricing) dto.PricingResponse {
	return dto.PricingResponse{
		Materials: p.Materials,
		Labor:     p.Labor,
		Markup:    p.Markup,
		Total:     p.Total,
	}
}

// RegisterRoutes registers the pricing endpoints on the given router group.
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pricing/preview", h.Preview)
}
