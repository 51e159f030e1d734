package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one billable material or service unit on a quote.
//
// Subtotal is derived and never independently set: it always equals
// round(Quantity * UnitPrice, 2) and is recomputed on every mutation to
// Quantity or UnitPrice.
type LineItem struct {
	// ID is an opaque identifier generated on creation, stable for the
	// collection's lifetime. Duplicated quotes keep the same item IDs so
	// copies compare equal by value.
	ID string `json:"id"`

	// SourceRef references a catalog material; empty for ad-hoc items.
	SourceRef string `json:"sourceRef,omitempty"`

	// Name is the display label. Mutable for ad-hoc items; catalog items
	// carry an immutable copy taken when the item was added.
	Name string `json:"name"`

	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitLabel string          `json:"unitLabel"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// NewLineItem creates an ad-hoc line item. Quantity and unit price are
// clamped to zero and the subtotal is computed immediately.
func NewLineItem(name, unitLabel string, quantity, unitPrice decimal.Decimal) LineItem {
	return newItem("", name, unitLabel, quantity, unitPrice)
}

// NewCatalogLineItem creates a line item from a catalog material. The name
// is copied at add time and frozen for the life of the item.
func NewCatalogLineItem(sourceRef, name, unitLabel string, quantity, unitPrice decimal.Decimal) LineItem {
	return newItem(sourceRef, name, unitLabel, quantity, unitPrice)
}

func newItem(sourceRef, name, unitLabel string, quantity, unitPrice decimal.Decimal) LineItem {
	q := ClampNonNegative(quantity)
	p := ClampNonNegative(unitPrice)

	return LineItem{
		ID:        uuid.NewString(),
		SourceRef: sourceRef,
		Name:      name,
		Quantity:  q,
		UnitPrice: p,
		UnitLabel: unitLabel,
		Subtotal:  Subtotal(q, p),
	}
}

// Items is the ordered, keyed collection of line items on a quote draft.
// Order is insertion order and is stable across save/reload cycles.
type Items []LineItem

// Add appends an item, preserving insertion order.
func (it *Items) Add(item LineItem) {
	*it = append(*it, item)
}

// Find returns the item with the given ID.
func (it Items) Find(id string) (LineItem, bool) {
	for i := range it {
		if it[i].ID == id {
			return it[i], true
		}
	}

	return LineItem{}, false
}

// SetQuantity updates an item's quantity and recomputes its subtotal.
// Negative quantities clamp to exactly zero.
func (it Items) SetQuantity(id string, quantity decimal.Decimal) error {
	return it.mutate(id, func(item *LineItem) {
		item.Quantity = ClampNonNegative(quantity)
	})
}

// SetUnitPrice updates an item's unit price and recomputes its subtotal.
// Negative prices clamp to exactly zero.
func (it Items) SetUnitPrice(id string, unitPrice decimal.Decimal) error {
	return it.mutate(id, func(item *LineItem) {
		item.UnitPrice = ClampNonNegative(unitPrice)
	})
}

// Rename changes an ad-hoc item's display name. Catalog items keep the
// name copied at add time.
func (it Items) Rename(id, name string) error {
	for i := range it {
		if it[i].ID != id {
			continue
		}

		if it[i].SourceRef != "" {
			return NewValidationError("name", "catalog item names are fixed at add time")
		}

		it[i].Name = name

		return nil
	}

	return NewNotFoundError("line item", id)
}

// Remove deletes the item with the given ID, preserving the order of the
// remaining items.
func (it *Items) Remove(id string) error {
	items := *it
	for i := range items {
		if items[i].ID == id {
			*it = append(items[:i], items[i+1:]...)
			return nil
		}
	}

	return NewNotFoundError("line item", id)
}

// MaterialsSubtotal sums the item subtotals. This is the base (untiered)
// materials figure; tier multipliers are applied downstream.
func (it Items) MaterialsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range it {
		sum = sum.Add(it[i].Subtotal)
	}

	return sum
}

// Clone returns a deep copy independent of the receiver.
func (it Items) Clone() Items {
	if it == nil {
		return nil
	}

	out := make(Items, len(it))
	copy(out, it)

	return out
}

// mutate applies fn to the item with the given ID and restores the
// subtotal invariant afterwards.
func (it Items) mutate(id string, fn func(*LineItem)) error {
	for i := range it {
		if it[i].ID == id {
			fn(&it[i])
			it[i].Subtotal = Subtotal(it[i].Quantity, it[i].UnitPrice)

			return nil
		}
	}

	return NewNotFoundError("line item", id)
}
