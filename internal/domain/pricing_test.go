package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		unitPrice string
		want      string
	}{
		{name: "whole units", quantity: "3", unitPrice: "12.50", want: "37.50"},
		{name: "fractional quantity", quantity: "1.5", unitPrice: "9.99", want: "14.99"},
		{name: "rounds half up", quantity: "0.5", unitPrice: "0.05", want: "0.03"},
		{name: "zero quantity", quantity: "0", unitPrice: "100", want: "0"},
		{name: "negative quantity clamps to zero", quantity: "-2", unitPrice: "50", want: "0"},
		{name: "negative price clamps to zero", quantity: "4", unitPrice: "-1", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtotal(dec(tt.quantity), dec(tt.unitPrice))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestLaborTotal(t *testing.T) {
	got := LaborTotal(dec("4"), dec("85"))
	assert.True(t, got.Equal(dec("340")))

	clamped := LaborTotal(dec("-1"), dec("85"))
	assert.True(t, clamped.IsZero())
}

func TestComputeTierPricing_EndToEndExample(t *testing.T) {
	// materialsSubtotal=$1000, laborTotal=$340, markup 25%.
	materials := dec("1000")
	labor := dec("340")
	markup := dec("25")

	standard := ComputeTierPricing(TierStandard, materials, labor, markup)
	assert.True(t, standard.Materials.Equal(dec("1000")))
	assert.True(t, standard.Labor.Equal(dec("340")))
	assert.True(t, standard.Markup.Equal(dec("250")))
	assert.True(t, standard.Total.Equal(dec("1590")), "standard total = %s", standard.Total)

	premium := ComputeTierPricing(TierPremium, materials, labor, markup)
	assert.True(t, premium.Materials.Equal(dec("1150")))
	assert.True(t, premium.Labor.Equal(dec("374")))
	assert.True(t, premium.Markup.Equal(dec("287.50")))
	assert.True(t, premium.Total.Equal(dec("1811.50")), "premium total = %s", premium.Total)
}

func TestComputeTierPricing_Idempotent(t *testing.T) {
	first := ComputeTierPricing(TierElite, dec("523.17"), dec("212.40"), dec("18"))
	second := ComputeTierPricing(TierElite, dec("523.17"), dec("212.40"), dec("18"))

	assert.True(t, first.Materials.Equal(second.Materials))
	assert.True(t, first.Labor.Equal(second.Labor))
	assert.True(t, first.Markup.Equal(second.Markup))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestComputeTierPricing_NoCompoundingDrift(t *testing.T) {
	// Switching tiers any number of times and returning to standard must
	// reproduce the original untiered total exactly, because each call
	// derives from the base figures rather than the previous output.
	materials := dec("1000")
	labor := dec("340")
	markup := dec("25")

	original := ComputeTierPricing(TierStandard, materials, labor, markup)

	for _, tier := range []Tier{TierPremium, TierElite, TierPremium, TierElite} {
		_ = ComputeTierPricing(tier, materials, labor, markup)
	}

	back := ComputeTierPricing(TierStandard, materials, labor, markup)
	assert.True(t, back.Total.Equal(original.Total), "total drifted: %s != %s", back.Total, original.Total)
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input   string
		want    Tier
		wantErr bool
	}{
		{input: "standard", want: TierStandard},
		{input: "premium", want: TierPremium},
		{input: "elite", want: TierElite},
		{input: "platinum", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierConfig_UnknownFallsBackToStandard(t *testing.T) {
	cfg := Tier("bogus").Config()
	assert.True(t, cfg.MaterialMultiplier.Equal(decimal.NewFromInt(1)))
	assert.True(t, cfg.LaborMultiplier.Equal(decimal.NewFromInt(1)))
}
