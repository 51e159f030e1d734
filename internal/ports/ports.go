// Package ports defines the interfaces the quote builder core depends on.
// Ports are contracts that adapters implement, keeping the application
// layer independent of storage, delivery and analysis providers.
//
// Port design principles:
//   - Context as first parameter for cancellation and deadlines
//   - Accept and return domain types, never external DTOs
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, ...)
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/domain"
)

// QuoteStore is the remote store collaborator. The core never embeds
// storage logic; it only issues these four operation shapes.
type QuoteStore interface {
	// Upsert persists a snapshot of the draft. When the snapshot carries no
	// quote number the store inserts and allocates a durable human-readable
	// number; otherwise it updates the existing record. The returned number
	// is the ONLY value a caller may adopt from the response: local state
	// remains the source of truth between saves, so stale responses are
	// harmless rather than destructive.
	Upsert(ctx context.Context, snapshot domain.QuoteDraft) (string, error)

	// Get retrieves a persisted quote by its number.
	// Returns domain.ErrNotFound if the quote does not exist.
	Get(ctx context.Context, number string) (*domain.QuoteDraft, error)

	// Delete removes a quote by its number.
	// Returns domain.ErrNotFound if the quote does not exist.
	Delete(ctx context.Context, number string) error

	// List returns quote summaries, optionally filtered by status,
	// newest first.
	List(ctx context.Context, filter QuoteFilter) ([]QuoteSummary, error)
}

// QuoteFilter narrows a List call. The zero value lists everything.
type QuoteFilter struct {
	// Status filters to one workflow state when non-empty.
	Status domain.Status

	// Limit caps the number of summaries returned; 0 means no cap.
	Limit int

	// Offset skips that many summaries for pagination.
	Offset int
}

// QuoteSummary is the listing projection of a persisted quote. Total is
// the last computed grand total stored with the snapshot, shown
// historically without recomputation.
type QuoteSummary struct {
	Number       string          `json:"number"`
	CustomerName string          `json:"customerName"`
	Status       domain.Status   `json:"status"`
	Total        decimal.Decimal `json:"total"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Notification is the outbound payload handed to the delivery collaborator.
type Notification struct {
	RecipientEmail string          `json:"recipientEmail"`
	RecipientName  string          `json:"recipientName"`
	QuoteNumber    string          `json:"quoteNumber"`
	Total          decimal.Decimal `json:"total"`
	QuoteURL       string          `json:"quoteUrl"`
}

// Notifier delivers quote notifications. The core depends on
// success/failure only, never on provider details.
type Notifier interface {
	// Send delivers the notification.
	// Returns domain.ErrUnavailable if delivery could not be attempted.
	Send(ctx context.Context, n Notification) error
}

// SuggestionClient analyzes a job photo and proposes line items.
type SuggestionClient interface {
	// Analyze submits an image and returns structured suggestions. A
	// malformed upstream payload must degrade to a summary-only result
	// with an empty item list, never an error.
	Analyze(ctx context.Context, image []byte, mimeType string) (*domain.SuggestionResult, error)
}

// DocumentRenderer renders a finalized quote snapshot into a paginated
// fixed-layout document. The caller computes the tier pricing once and
// passes it in; implementations perform no recalculation of their own, so
// the exported figures can never disagree with the on-screen figures.
type DocumentRenderer interface {
	Render(snapshot domain.QuoteDraft, pricing domain.TierPricing) ([]byte, error)
}
