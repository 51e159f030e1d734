package domain

import "github.com/shopspring/decimal"

// Tier is a named pricing preset applying fixed multipliers to the
// materials and labor figures of a quote.
type Tier string

// The three supported pricing tiers. The set is fixed; tiers are not
// user-editable at runtime.
const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierElite    Tier = "elite"
)

// TierConfig holds the multipliers applied by a pricing tier.
type TierConfig struct {
	MaterialMultiplier decimal.Decimal
	LaborMultiplier    decimal.Decimal
}

var tierConfigs = map[Tier]TierConfig{
	TierStandard: {MaterialMultiplier: decimal.NewFromInt(1), LaborMultiplier: decimal.NewFromInt(1)},
	TierPremium:  {MaterialMultiplier: decimal.RequireFromString("1.15"), LaborMultiplier: decimal.RequireFromString("1.10")},
	TierElite:    {MaterialMultiplier: decimal.RequireFromString("1.30"), LaborMultiplier: decimal.RequireFromString("1.25")},
}

// Valid reports whether t is one of the supported tiers.
func (t Tier) Valid() bool {
	_, ok := tierConfigs[t]
	return ok
}

// Config returns the multiplier configuration for the tier.
// Unknown tiers fall back to standard multipliers.
func (t Tier) Config() TierConfig {
	if cfg, ok := tierConfigs[t]; ok {
		return cfg
	}

	return tierConfigs[TierStandard]
}

// ParseTier converts a string to a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", NewValidationError("pricingTier", "must be one of standard, premium, elite")
	}

	return t, nil
}

var hundred = decimal.NewFromInt(100)

// ClampNonNegative resolves any negative amount to exactly zero.
// Quantity decrements below zero clamp rather than going negative.
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// Subtotal computes a line item subtotal: quantity * unitPrice rounded to
// two decimal places with standard half-up rounding, never truncation.
// Both inputs are clamped to a minimum of zero.
func Subtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	q := ClampNonNegative(quantity)
	p := ClampNonNegative(unitPrice)

	return q.Mul(p).Round(2)
}

// LaborTotal computes hours * rate rounded to two decimal places.
// Both inputs are clamped to a minimum of zero.
func LaborTotal(hours, rate decimal.Decimal) decimal.Decimal {
	h := ClampNonNegative(hours)
	r := ClampNonNegative(rate)

	return h.Mul(r).Round(2)
}

// MarkupAmount computes the markup on a materials figure.
// Markup applies to materials only, never to labor.
func MarkupAmount(materials, markupPercent decimal.Decimal) decimal.Decimal {
	pct := ClampNonNegative(markupPercent)

	return materials.Mul(pct).Div(hundred).Round(2)
}

// TierPricing is the tier-adjusted breakdown of a quote's totals.
// All fields are derived values. They are recomputed from the draft's base
// figures on every call and must never be mutated in place or fed back as
// inputs: un-multiplying a previously multiplied value compounds error
// across repeated tier switches.
type TierPricing struct {
	Materials decimal.Decimal
	Labor     decimal.Decimal
	Markup    decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTierPricing applies a tier's multipliers to the base (untiered)
// materials and labor figures and recomputes the markup from the
// tier-adjusted materials, so higher tiers proportionally increase markup.
// It is a pure function: identical inputs always produce identical output.
func ComputeTierPricing(tier Tier, materialsSubtotal, laborTotal, markupPercent decimal.Decimal) TierPricing {
	cfg := tier.Config()

	materials := ClampNonNegative(materialsSubtotal).Mul(cfg.MaterialMultiplier).Round(2)
	labor := ClampNonNegative(laborTotal).Mul(cfg.LaborMultiplier).Round(2)
	markup := MarkupAmount(materials, markupPercent)

	return TierPricing{
		Materials: materials,
		Labor:     labor,
		Markup:    markup,
		Total:     materials.Add(labor).Add(markup),
	}
}
