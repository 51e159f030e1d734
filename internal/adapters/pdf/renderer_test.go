package pdf

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/summitpoint/quotedesk/internal/domain"
)

func testSnapshot() domain.QuoteDraft {
	draft := domain.NewDraft()
	draft.Number = "Q-180"
	draft.Customer = domain.Customer{
		Name:    "Dana Whitfield",
		Email:   "dana@example.com",
		Phone:   "555-0142",
		Address: "18 Ridgeline Dr",
	}
	draft.Items.Add(domain.NewLineItem("Exterior paint", "gallon", decimal.NewFromInt(6), decimal.RequireFromString("42.50")))
	draft.Items.Add(domain.NewLineItem("Primer", "gallon", decimal.NewFromInt(2), decimal.RequireFromString("28.00")))
	draft.LaborHours = decimal.NewFromInt(4)
	draft.LaborRate = decimal.NewFromInt(85)
	draft.MarkupPercent = decimal.NewFromInt(25)
	draft.Notes = "South wall needs two coats."

	return *draft
}

func newTestRenderer() *Renderer {
	return NewRenderer(RendererConfig{
		CompanyName: "Summit Point Services",
		Terms:       "Quote valid for 30 days. Half due on acceptance.",
	})
}

func TestRenderer_ProducesPDF(t *testing.T) {
	snapshot := testSnapshot()

	out, err := newTestRenderer().Render(snapshot, snapshot.Pricing())
	require.NoError(t, err)

	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF-", string(out[:5]), "output must be a PDF document")
}

func TestRenderer_LongItemListFlowsAcrossPages(t *testing.T) {
	snapshot := testSnapshot()
	for i := 0; i < 120; i++ {
		snapshot.Items.Add(domain.NewLineItem(
			fmt.Sprintf("Trim piece %d", i),
			"each",
			decimal.NewFromInt(1),
			decimal.RequireFromString("3.75"),
		))
	}

	out, err := newTestRenderer().Render(snapshot, snapshot.Pricing())
	require.NoError(t, err)

	baseline := testSnapshot()

	short, err := newTestRenderer().Render(baseline, baseline.Pricing())
	require.NoError(t, err)

	assert.Greater(t, len(out), len(short), "more rows must produce a larger document")
}

func TestRenderer_EmptyDraftStillRenders(t *testing.T) {
	draft := *domain.NewDraft()
	draft.Customer.Name = "Walk-in"

	out, err := newTestRenderer().Render(draft, draft.Pricing())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short name untouched", "Deck stain", 48, "Deck stain"},
		{"exact width untouched", "12345678", 8, "12345678"},
		{"long name shortened", "Exterior paint, premium weatherproof gallon", 20, "Exterior paint, p..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trim(tt.input, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), tt.max)

			// Core fonts write cp1252 bytes raw, so the shortened
			// name must stay single-byte clean.
			for _, r := range got {
				assert.Less(t, int(r), 128)
			}
		})
	}
}
