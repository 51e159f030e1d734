package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is a quote's workflow state. Transitions are deliberately
// permissive: any authorized user may move a quote between any two states,
// forward or backward. There is no one-way state machine.
type Status string

// The four quote states.
const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the four quote states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", NewValidationError("status", "must be one of draft, sent, accepted, rejected")
	}

	return st, nil
}

// Customer holds the free-text customer fields on a quote draft. No
// cross-validation against a customer registry is required; the draft may
// optionally be linked to a customer record by ID.
type Customer struct {
	CustomerID string `json:"customerId,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
}

// QuoteDraft is the aggregate root being edited.
//
// Base figures (Items, LaborHours, LaborRate, MarkupPercent) are the source
// of truth; everything tier-adjusted is derived via Pricing() and never
// stored back onto the draft. The persisted snapshot carries the last
// computed grand total for historical display only.
type QuoteDraft struct {
	// Number is empty until first successful persistence, then a durable
	// human-readable quote number assigned once by the store.
	Number string `json:"number,omitempty"`

	Customer Customer `json:"customer"`
	Items    Items    `json:"lineItems"`

	LaborHours    decimal.Decimal `json:"laborHours"`
	LaborRate     decimal.Decimal `json:"laborRate"`
	MarkupPercent decimal.Decimal `json:"markupPercent"`

	Tier   Tier   `json:"pricingTier"`
	Status Status `json:"status"`
	Notes  string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDraft creates an empty draft on the standard tier.
func NewDraft() *QuoteDraft {
	now := time.Now().UTC()

	return &QuoteDraft{
		Tier:      TierStandard,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MaterialsSubtotal is the base (untiered) sum of line item subtotals.
func (q *QuoteDraft) MaterialsSubtotal() decimal.Decimal {
	return q.Items.MaterialsSubtotal()
}

// LaborTotal is the base (untiered) labor figure: hours * rate.
func (q *QuoteDraft) LaborTotal() decimal.Decimal {
	return LaborTotal(q.LaborHours, q.LaborRate)
}

// BaseMarkupAmount is the markup computed on the base materials subtotal.
func (q *QuoteDraft) BaseMarkupAmount() decimal.Decimal {
	return MarkupAmount(q.MaterialsSubtotal(), q.MarkupPercent)
}

// Pricing computes the tier-adjusted breakdown from the draft's base
// figures. Always derived fresh; see ComputeTierPricing.
func (q *QuoteDraft) Pricing() TierPricing {
	return ComputeTierPricing(q.Tier, q.MaterialsSubtotal(), q.LaborTotal(), q.MarkupPercent)
}

// GrandTotal is the tier-adjusted total.
func (q *QuoteDraft) GrandTotal() decimal.Decimal {
	return q.Pricing().Total
}

// CanPersist reports whether the draft meets the minimum-viable-draft
// condition for a remote save: a non-empty customer name.
func (q *QuoteDraft) CanPersist() error {
	if strings.TrimSpace(q.Customer.Name) == "" {
		return NewValidationError("customer.name", "required before the draft can be saved")
	}

	return nil
}

// Clone returns a deep copy independent of the receiver.
func (q *QuoteDraft) Clone() *QuoteDraft {
	out := *q
	out.Items = q.Items.Clone()

	return &out
}

// Duplicate produces a new unsaved draft with identical customer, line
// items, labor, markup, tier and notes. The copy has no quote number
// (the store allocates a fresh one at insert) and its status resets to
// draft regardless of the source state. Line items are copied by value,
// so mutating the copy never touches the original.
func (q *QuoteDraft) Duplicate() *QuoteDraft {
	out := q.Clone()
	out.Number = ""
	out.Status = StatusDraft

	now := time.Now().UTC()
	out.CreatedAt = now
	out.UpdatedAt = now

	return out
}

// Touch updates the modification timestamp.
func (q *QuoteDraft) Touch() {
	q.UpdatedAt = time.Now().UTC()
}
