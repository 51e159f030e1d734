package domain

import "github.com/shopspring/decimal"

// QuickPackage is a named draft template used to pre-populate a new quote
// with the line items and labor of a commonly sold job.
type QuickPackage struct {
	Key         string
	Name        string
	Description string
	Items       []packageItem
	LaborHours  decimal.Decimal
}

type packageItem struct {
	name      string
	unitLabel string
	quantity  decimal.Decimal
}

var quickPackages = []QuickPackage{
	{
		Key:         "exterior-refresh",
		Name:        "Exterior Refresh",
		Description: "Wash, prep and repaint of siding and trim",
		Items: []packageItem{
			{name: "Exterior paint", unitLabel: "gallon", quantity: decimal.NewFromInt(10)},
			{name: "Primer", unitLabel: "gallon", quantity: decimal.NewFromInt(4)},
			{name: "Caulk and sealant", unitLabel: "tube", quantity: decimal.NewFromInt(12)},
		},
		LaborHours: decimal.NewFromInt(24),
	},
	{
		Key:         "gutter-replacement",
		Name:        "Gutter Replacement",
		Description: "Remove and replace gutters and downspouts",
		Items: []packageItem{
			{name: "Seamless gutter", unitLabel: "meter", quantity: decimal.NewFromInt(30)},
			{name: "Downspout", unitLabel: "each", quantity: decimal.NewFromInt(4)},
			{name: "Hangers and fasteners", unitLabel: "box", quantity: decimal.NewFromInt(2)},
		},
		LaborHours: decimal.NewFromInt(10),
	},
	{
		Key:         "deck-build",
		Name:        "Deck Build",
		Description: "Ground-level composite deck with railing",
		Items: []packageItem{
			{name: "Composite decking", unitLabel: "board", quantity: decimal.NewFromInt(40)},
			{name: "Framing lumber", unitLabel: "board", quantity: decimal.NewFromInt(25)},
			{name: "Railing kit", unitLabel: "each", quantity: decimal.NewFromInt(3)},
		},
		LaborHours: decimal.NewFromInt(32),
	},
}

// QuickPackages lists the available draft templates.
func QuickPackages() []QuickPackage {
	out := make([]QuickPackage, len(quickPackages))
	copy(out, quickPackages)

	return out
}

// QuickPackageByKey looks up a template by its key.
func QuickPackageByKey(key string) (QuickPackage, bool) {
	for _, p := range quickPackages {
		if p.Key == key {
			return p, true
		}
	}

	return QuickPackage{}, false
}

// NewDraftFromPackage creates a draft pre-populated from a quick package.
// Items start with a zero unit price: pricing is filled in per job.
func NewDraftFromPackage(p QuickPackage) *QuoteDraft {
	draft := NewDraft()
	for _, item := range p.Items {
		draft.Items.Add(NewLineItem(item.name, item.unitLabel, item.quantity, decimal.Zero))
	}

	draft.LaborHours = p.LaborHours
	draft.Notes = p.Description

	return draft
}
