package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// QuoteService orchestrates operations on persisted quotes. It depends on
// the QuoteStore port, not a concrete store implementation.
type QuoteService struct {
	store  ports.QuoteStore
	logger *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Store  ports.QuoteStore
	Logger *slog.Logger
}

// NewQuoteService creates a new quote service.
// Panics if Store is nil. Defaults logger to slog.Default() if nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("QuoteService: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		store:  cfg.Store,
		logger: logger.With(slog.String("component", "app.QuoteService")),
	}
}

// Get retrieves a persisted quote by number.
func (s *QuoteService) Get(ctx context.Context, number string) (*domain.QuoteDraft, error) {
	quote, err := s.store.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	return quote, nil
}

// List returns quote summaries, optionally filtered by status.
func (s *QuoteService) List(ctx context.Context, filter ports.QuoteFilter) ([]ports.QuoteSummary, error) {
	summaries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "listed quotes",
		slog.Int("count", len(summaries)),
		slog.String("status_filter", string(filter.Status)),
	)

	return summaries, nil
}

// Delete removes a persisted quote.
func (s *QuoteService) Delete(ctx context.Context, number string) error {
	if err := s.store.Delete(ctx, number); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "quote deleted", slog.String("quote_number", number))

	return nil
}

// SetStatus moves a persisted quote to any of the four states. The
// transition set is deliberately permissive, including backward moves.
func (s *QuoteService) SetStatus(ctx context.Context, number string, status domain.Status) (*domain.QuoteDraft, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of draft, sent, accepted, rejected")
	}

	quote, err := s.store.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	quote.Status = status
	quote.Touch()

	if _, err := s.store.Upsert(ctx, *quote); err != nil {
		return nil, fmt.Errorf("updating quote status: %w", err)
	}

	return quote, nil
}

// Duplicate copies a persisted quote into a brand-new one: identical
// customer, line items, labor, markup and notes; status reset to draft;
// a freshly allocated identity. This is a copy-then-insert, never a
// reference to the source.
func (s *QuoteService) Duplicate(ctx context.Context, number string) (*domain.QuoteDraft, error) {
	source, err := s.store.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	dup := source.Duplicate()

	newNumber, err := s.store.Upsert(ctx, *dup)
	if err != nil {
		return nil, fmt.Errorf("inserting duplicated quote: %w", err)
	}

	dup.Number = newNumber

	s.logger.InfoContext(ctx, "quote duplicated",
		slog.String("source_number", number),
		slog.String("new_number", newNumber),
	)

	return dup, nil
}
