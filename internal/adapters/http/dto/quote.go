package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// Money and quantity fields travel as JSON strings in both directions:
// decimal.Decimal marshals to a quoted string, and request payloads carry
// strings validated with the "decimal" tag. Binary floats never appear on
// the wire.

// CustomerPayload is the customer block on quote responses and updates.
type CustomerPayload struct {
	CustomerID string `json:"customerId,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"    validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

// LineItemResponse is one line item on a quote response.
type LineItemResponse struct {
	ID        string          `json:"id"`
	SourceRef string          `json:"sourceRef,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitLabel string          `json:"unitLabel"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PricingResponse is the tier-adjusted breakdown attached to every quote
// response. It is derived server-side on each render and never accepted
// back from clients.
type PricingResponse struct {
	Materials decimal.Decimal `json:"materials"`
	Labor     decimal.Decimal `json:"labor"`
	Markup    decimal.Decimal `json:"markup"`
	Total     decimal.Decimal `json:"total"`
}

// QuoteResponse is the full HTTP representation of a quote draft.
type QuoteResponse struct {
	Number        string             `json:"number,omitempty"`
	Customer      CustomerPayload    `json:"customer"`
	LineItems     []LineItemResponse `json:"lineItems"`
	LaborHours    decimal.Decimal    `json:"laborHours"`
	LaborRate     decimal.Decimal    `json:"laborRate"`
	MarkupPercent decimal.Decimal    `json:"markupPercent"`
	PricingTier   string             `json:"pricingTier"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes,omitempty"`
	Pricing       PricingResponse    `json:"pricing"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// ToQuoteResponse converts a domain draft to its HTTP representation,
// computing the tier-adjusted breakdown once for the payload.
func ToQuoteResponse(q *domain.QuoteDraft) *QuoteResponse {
	items := make([]LineItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, LineItemResponse{
			ID:        it.ID,
			SourceRef: it.SourceRef,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			UnitLabel: it.UnitLabel,
			Subtotal:  it.Subtotal,
		})
	}

	pricing := q.Pricing()

	return &QuoteResponse{
		Number: q.Number,
		Customer: CustomerPayload{
			CustomerID: q.Customer.CustomerID,
			Name:       q.Customer.Name,
			Email:      q.Customer.Email,
			Phone:      q.Customer.Phone,
			Address:    q.Customer.Address,
		},
		LineItems:     items,
		LaborHours:    q.LaborHours,
		LaborRate:     q.LaborRate,
		MarkupPercent: q.MarkupPercent,
		PricingTier:   string(q.Tier),
		Status:        string(q.Status),
		Notes:         q.Notes,
		Pricing: PricingResponse{
			Materials: pricing.Materials,
			Labor:     pricing.Labor,
			Markup:    pricing.Markup,
			Total:     pricing.Total,
		},
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// QuoteSummaryResponse is one row of the quote listing.
type QuoteSummaryResponse struct {
	Number       string          `json:"number"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToQuoteSummaryResponse converts a store summary to its HTTP shape.
func ToQuoteSummaryResponse(s ports.QuoteSummary) QuoteSummaryResponse {
	return QuoteSummaryResponse{
		Number:       s.Number,
		CustomerName: s.CustomerName,
		Status:       string(s.Status),
		Total:        s.Total,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ListQuotesRequest carries the listing filters from the query string.
type ListQuotesRequest struct {
	PaginationRequest

	// Status narrows the listing to one workflow state when set.
	Status string `form:"status" validate:"omitempty,oneof=draft sent accepted rejected"`
}

// SetStatusRequest updates a quote's workflow state.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft sent accepted rejected"`
}

// ExportResponse reports the outcome of a finalize without the binary
// document, which callers fetch from the pdf endpoint.
type ExportResponse struct {
	Number   string `json:"number"`
	Status   string `json:"status"`
	Filename string `json:"filename"`
}

// PricingPreviewRequest asks for a tier-adjusted breakdown from base
// figures without touching any stored quote.
type PricingPreviewRequest struct {
	MaterialsSubtotal string `json:"materialsSubtotal" validate:"required,decimal"`
	LaborHours        string `json:"laborHours"        validate:"omitempty,decimal"`
	LaborRate         string `json:"laborRate"         validate:"omitempty,decimal"`
	MarkupPercent     string `json:"markupPercent"     validate:"omitempty,decimal"`
	Tier              string `json:"tier"              validate:"omitempty,oneof=standard premium elite"`
}

// PricingPreviewResponse is the per-tier breakdown for a preview request.
type PricingPreviewResponse struct {
	Tiers map[string]PricingResponse `json:"tiers"`
}
