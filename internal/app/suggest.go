package app

import (
	"context"
	"log/slog"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// SuggestionServiceConfig contains configuration for the suggestion service.
type SuggestionServiceConfig struct {
	// Client is the photo-analysis collaborator. Required.
	Client ports.SuggestionClient

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// SuggestionService turns uploaded site photos into line item and labor
// suggestions. The service is a thin pass-through: suggestions always
// arrive unpriced and the caller decides which ones to apply to a draft.
type SuggestionService struct {
	client ports.SuggestionClient
	logger *slog.Logger
}

// NewSuggestionService creates a new suggestion service.
// Panics if Client is nil.
func NewSuggestionService(cfg SuggestionServiceConfig) *SuggestionService {
	if cfg.Client == nil {
		panic("SuggestionService: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SuggestionService{
		client: cfg.Client,
		logger: logger.With(slog.String("component", "app.SuggestionService")),
	}
}

// Analyze submits a photo for analysis and returns the suggested items
// and labor range.
func (s *SuggestionService) Analyze(ctx context.Context, image []byte, mimeType string) (*domain.SuggestionResult, error) {
	if len(image) == 0 {
		return nil, domain.NewValidationError("image", "required")
	}

	result, err := s.client.Analyze(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "photo analyzed",
		slog.Int("suggested_items", len(result.Items)),
	)

	return result, nil
}
