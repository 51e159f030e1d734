package dto

import (
	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/domain"
)

// OpenSessionRequest opens a builder session. At most one of Package and
// Number may be set: a package key pre-populates a new draft from a quick
// package, a quote number reopens a persisted quote, and neither starts
// from a blank draft.
type OpenSessionRequest struct {
	Package string `json:"package,omitempty"`
	Number  string `json:"number,omitempty"`
}

// SessionResponse is the state of a builder session after any operation:
// the current draft, whether unsaved edits exist, and the save indicator.
type SessionResponse struct {
	SessionID  string         `json:"sessionId"`
	Draft      *QuoteResponse `json:"draft"`
	Dirty      bool           `json:"dirty"`
	SaveStatus string         `json:"saveStatus"`
}

// AddItemRequest appends a line item to the session draft. A SourceRef
// marks the item as taken from the materials catalog, freezing its name.
type AddItemRequest struct {
	Name      string `json:"name"      validate:"required,notempty"`
	SourceRef string `json:"sourceRef,omitempty"`
	UnitLabel string `json:"unitLabel,omitempty"`
	Quantity  string `json:"quantity"  validate:"required,decimal"`
	UnitPrice string `json:"unitPrice" validate:"omitempty,decimal"`
}

// UpdateItemRequest mutates one line item. Nil fields are untouched.
type UpdateItemRequest struct {
	Name      *string `json:"name,omitempty"      validate:"omitempty,notempty"`
	Quantity  *string `json:"quantity,omitempty"  validate:"omitempty,decimal"`
	UnitPrice *string `json:"unitPrice,omitempty" validate:"omitempty,decimal"`
}

// UpdateDraftRequest mutates draft-level fields. Nil fields are untouched;
// everything present is applied as one edit, so the autosave quiet period
// restarts once per request.
type UpdateDraftRequest struct {
	Customer      *CustomerPayload `json:"customer,omitempty"`
	LaborHours    *string          `json:"laborHours,omitempty"    validate:"omitempty,decimal"`
	LaborRate     *string          `json:"laborRate,omitempty"     validate:"omitempty,decimal"`
	MarkupPercent *string          `json:"markupPercent,omitempty" validate:"omitempty,decimal"`
	Tier          *string          `json:"tier,omitempty"          validate:"omitempty,oneof=standard premium elite"`
	Notes         *string          `json:"notes,omitempty"`
}

// QuickPackageResponse describes one draft template.
type QuickPackageResponse struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	LaborHours  decimal.Decimal `json:"laborHours"`
}

// ToQuickPackageResponse converts a domain quick package.
func ToQuickPackageResponse(p domain.QuickPackage) QuickPackageResponse {
	return QuickPackageResponse{
		Key:         p.Key,
		Name:        p.Name,
		Description: p.Description,
		LaborHours:  p.LaborHours,
	}
}

// SuggestionPayload is one proposed line item, in both analysis responses
// and apply requests. The apply request carries the user-curated subset
// back, so the shapes match.
type SuggestionPayload struct {
	Name     string `json:"name"     validate:"required,notempty"`
	Quantity string `json:"quantity" validate:"omitempty,decimal"`
	Unit     string `json:"unit,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// SuggestionResultResponse is the outcome of a photo analysis.
type SuggestionResultResponse struct {
	Items         []SuggestionPayload `json:"items"`
	LaborHoursMin decimal.Decimal     `json:"laborHoursMin"`
	LaborHoursMax decimal.Decimal     `json:"laborHoursMax"`
	Summary       string              `json:"summary,omitempty"`
}

// ToSuggestionResultResponse converts a domain suggestion result.
func ToSuggestionResultResponse(r *domain.SuggestionResult) *SuggestionResultResponse {
	items := make([]SuggestionPayload, 0, len(r.Items))
	for _, s := range r.Items {
		items = append(items, SuggestionPayload{
			Name:     s.Name,
			Quantity: s.Quantity.String(),
			Unit:     s.Unit,
			Reason:   s.Reason,
		})
	}

	return &SuggestionResultResponse{
		Items:         items,
		LaborHoursMin: r.LaborHoursMin,
		LaborHoursMax: r.LaborHoursMax,
		Summary:       r.Summary,
	}
}

// ApplySuggestionsRequest folds a curated suggestion list into the draft.
type ApplySuggestionsRequest struct {
	Items         []SuggestionPayload `json:"items"         validate:"dive"`
	LaborHoursMin string              `json:"laborHoursMin" validate:"omitempty,decimal"`
	LaborHoursMax string              `json:"laborHoursMax" validate:"omitempty,decimal"`
}

// ToDomain converts the apply request into a domain suggestion result.
// Validation has already guaranteed the decimal fields parse.
func (r *ApplySuggestionsRequest) ToDomain() *domain.SuggestionResult {
	items := make([]domain.Suggestion, 0, len(r.Items))
	for _, s := range r.Items {
		items = append(items, domain.Suggestion{
			Name:     s.Name,
			Quantity: parseDecimalOrZero(s.Quantity),
			Unit:     s.Unit,
			Reason:   s.Reason,
		})
	}

	return &domain.SuggestionResult{
		Items:         items,
		LaborHoursMin: parseDecimalOrZero(r.LaborHoursMin),
		LaborHoursMax: parseDecimalOrZero(r.LaborHoursMax),
	}
}

// ParseDecimalField parses a wire decimal string, mapping failure to a
// field-scoped domain validation error.
func ParseDecimalField(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, "must be a valid decimal number")
	}

	return d, nil
}

func parseDecimalOrZero(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}

	return d
}
