package acl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/adapters/clients"
	"github.com/summitpoint/quotedesk/internal/domain"
)

const analyzePath = "/v1/analyze"

// SuggestionAdapterConfig contains configuration for the suggestion adapter.
type SuggestionAdapterConfig struct {
	// Client is the instrumented HTTP client pointed at the analysis service.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// SuggestionAdapter implements ports.SuggestionClient against the
// photo-analysis service. The upstream model's output is best-effort
// structured: when the item payload is malformed the adapter degrades to
// a summary-only result instead of failing the analysis.
type SuggestionAdapter struct {
	BaseAdapter
	logger *slog.Logger
}

// NewSuggestionAdapter creates a new suggestion adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewSuggestionAdapter(cfg SuggestionAdapterConfig) *SuggestionAdapter {
	if cfg.Client == nil {
		panic("SuggestionAdapter: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SuggestionAdapter{
		BaseAdapter: NewBaseAdapter(cfg.Client, "photo-analysis"),
		logger:      logger.With(slog.String("component", "acl.SuggestionAdapter")),
	}
}

type analyzeRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// analyzeResponse keeps the loosely structured fields raw so one
// malformed value cannot sink the whole payload.
type analyzeResponse struct {
	Summary       string          `json:"summary"`
	Items         json.RawMessage `json:"items"`
	LaborHoursMin json.RawMessage `json:"laborHoursMin"`
	LaborHoursMax json.RawMessage `json:"laborHoursMax"`
}

type suggestionRecord struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Reason   string          `json:"reason"`
}

// Analyze submits the photo and translates the response. Implements
// ports.SuggestionClient.
func (a *SuggestionAdapter) Analyze(ctx context.Context, image []byte, mimeType string) (*domain.SuggestionResult, error) {
	payload, err := json.Marshal(analyzeRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		MimeType: mimeType,
	})
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	rc, err := a.post(ctx, analyzePath, bytes.NewReader(payload), "analyze photo", "")
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[analyzeResponse](rc)
	if err != nil {
		// The envelope itself is unreadable. Degrade rather than fail;
		// the editor keeps working without suggestions.
		a.logger.WarnContext(ctx, "unreadable analysis payload", slog.Any("error", err))

		return &domain.SuggestionResult{}, nil
	}

	result := &domain.SuggestionResult{
		Summary:       resp.Summary,
		LaborHoursMin: decodeDecimal(resp.LaborHoursMin),
		LaborHoursMax: decodeDecimal(resp.LaborHoursMax),
	}

	if len(resp.Items) > 0 {
		var records []suggestionRecord
		if err := json.Unmarshal(resp.Items, &records); err != nil {
			a.logger.WarnContext(ctx, "malformed suggestion items, degrading to summary only",
				slog.Any("error", err),
			)
		} else {
			for _, rec := range records {
				if rec.Name == "" {
					continue
				}

				result.Items = append(result.Items, domain.Suggestion{
					Name:     rec.Name,
					Quantity: rec.Quantity,
					Unit:     rec.Unit,
					Reason:   rec.Reason,
				})
			}
		}
	}

	a.logger.DebugContext(ctx, "photo analysis translated",
		slog.Int("suggested_items", len(result.Items)),
	)

	return result, nil
}

// decodeDecimal parses a raw JSON value as a decimal, tolerating both
// numeric and quoted forms. Malformed values decode to zero.
func decodeDecimal(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}

	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}

	return d
}
