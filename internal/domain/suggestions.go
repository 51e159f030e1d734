package domain

import "github.com/shopspring/decimal"

// Suggestion is one proposed line item from the external suggestion
// collaborator's analysis of a job photo.
type Suggestion struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Reason   string          `json:"reason,omitempty"`
}

// SuggestionResult is the structured output of a suggestion analysis.
// A malformed upstream payload degrades to a Summary with an empty item
// list rather than a hard failure.
type SuggestionResult struct {
	Items         []Suggestion    `json:"items"`
	LaborHoursMin decimal.Decimal `json:"laborHoursMin"`
	LaborHoursMax decimal.Decimal `json:"laborHoursMax"`
	Summary       string          `json:"summary,omitempty"`
}

var two = decimal.NewFromInt(2)

// LaborHoursMidpoint returns the midpoint of the suggested labor range.
func (r *SuggestionResult) LaborHoursMidpoint() decimal.Decimal {
	return r.LaborHoursMin.Add(r.LaborHoursMax).Div(two)
}

// ApplySuggestions folds an accepted suggestion list into the draft: each
// suggestion becomes an ad-hoc line item with a zero unit price (manual
// pricing required), and the draft's labor hours are set to the midpoint
// of the suggested range when one was returned.
func (q *QuoteDraft) ApplySuggestions(result *SuggestionResult) {
	if result == nil {
		return
	}

	for _, s := range result.Items {
		q.Items.Add(NewLineItem(s.Name, s.Unit, s.Quantity, decimal.Zero))
	}

	if result.LaborHoursMax.IsPositive() {
		q.LaborHours = ClampNonNegative(result.LaborHoursMidpoint())
	}

	q.Touch()
}
