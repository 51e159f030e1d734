package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// ExportArtifact is the rendered document handed back to the caller.
type ExportArtifact struct {
	Filename string
	PDF      []byte
}

// ExportServiceConfig contains configuration for the export service.
type ExportServiceConfig struct {
	// Store is the remote store collaborator. Required.
	Store ports.QuoteStore

	// Renderer produces the fixed-layout document. Required.
	Renderer ports.DocumentRenderer

	// Notifier delivers the outbound payload. Required.
	Notifier ports.Notifier

	// CompanyName appears in the document header and the export filename.
	CompanyName string

	// QuoteBaseURL is the public base URL used to build the link back to
	// the live quote in notifications.
	QuoteBaseURL string

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// ExportService renders finalized quote snapshots and dispatches outbound
// notifications. Both artifacts of a finalize are produced from one
// snapshot and one tier-pricing computation, so their figures can never
// disagree with each other or with the persisted record.
type ExportService struct {
	store    ports.QuoteStore
	renderer ports.DocumentRenderer
	notifier ports.Notifier
	exec     *Executor
	company  string
	baseURL  string
	logger   *slog.Logger
}

// NewExportService creates a new export service.
// Panics if Store, Renderer or Notifier is nil.
func NewExportService(cfg ExportServiceConfig) *ExportService {
	if cfg.Store == nil {
		panic("ExportService: Store is required")
	}

	if cfg.Renderer == nil {
		panic("ExportService: Renderer is required")
	}

	if cfg.Notifier == nil {
		panic("ExportService: Notifier is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ExportService{
		store:    cfg.Store,
		renderer: cfg.Renderer,
		notifier: cfg.Notifier,
		exec:     NewExecutor(logger),
		company:  cfg.CompanyName,
		baseURL:  strings.TrimSuffix(cfg.QuoteBaseURL, "/"),
		logger:   logger.With(slog.String("component", "app.ExportService")),
	}
}

// Export renders the persisted quote into its document artifact without
// touching quote state.
func (s *ExportService) Export(ctx context.Context, number string) (*ExportArtifact, error) {
	snapshot, err := s.store.Get(ctx, number)
	if err != nil {
		return nil, err
	}

	pricing := snapshot.Pricing()

	pdf, err := s.renderer.Render(*snapshot, pricing)
	if err != nil {
		return nil, fmt.Errorf("rendering quote document: %w", err)
	}

	return &ExportArtifact{
		Filename: s.Filename(number),
		PDF:      pdf,
	}, nil
}

// Notify builds and dispatches the outbound notification for a persisted
// quote. The total in the payload is the same computed figure the
// document shows.
func (s *ExportService) Notify(ctx context.Context, number string) error {
	snapshot, err := s.store.Get(ctx, number)
	if err != nil {
		return err
	}

	notification, err := s.notification(*snapshot, snapshot.Pricing())
	if err != nil {
		return err
	}

	if err := s.notifier.Send(ctx, notification); err != nil {
		return fmt.Errorf("dispatching quote notification: %w", err)
	}

	return nil
}

// finalized groups the intermediate state of a Finalize run.
type finalized struct {
	snapshot domain.QuoteDraft
	pdf      []byte
}

// Finalize produces both export artifacts, the document and the
// notification, from a single snapshot of the persisted quote, then
// archives the quote as sent. The two artifacts are produced concurrently
// from the same already-computed pricing.
func (s *ExportService) Finalize(ctx context.Context, number string) (*ExportArtifact, error) {
	op := Operation[string, finalized, finalized, *ExportArtifact]{
		Name: "quote.finalize",
		Validate: func(_ context.Context, number string) error {
			if strings.TrimSpace(number) == "" {
				return domain.NewValidationError("number", "required")
			}

			return nil
		},
		Perform: func(ctx context.Context, number string) (finalized, error) {
			snapshot, err := s.store.Get(ctx, number)
			if err != nil {
				return finalized{}, err
			}

			pricing := snapshot.Pricing()

			notification, err := s.notification(*snapshot, pricing)
			if err != nil {
				return finalized{}, err
			}

			pdf, _, err := Parallel2(ctx,
				func(_ context.Context) ([]byte, error) {
					return s.renderer.Render(*snapshot, pricing)
				},
				func(ctx context.Context) (struct{}, error) {
					return struct{}{}, s.notifier.Send(ctx, notification)
				},
			)
			if err != nil {
				return finalized{}, err
			}

			return finalized{snapshot: *snapshot, pdf: pdf}, nil
		},
		Verify: func(_ context.Context, number string, performed finalized) (finalized, error) {
			if len(performed.pdf) == 0 {
				return finalized{}, fmt.Errorf("renderer produced an empty document for %s", number)
			}

			return performed, nil
		},
		Archive: func(ctx context.Context, _ string, verified finalized) error {
			verified.snapshot.Status = domain.StatusSent
			verified.snapshot.Touch()

			_, err := s.store.Upsert(ctx, verified.snapshot)

			return err
		},
		Respond: func(_ context.Context, number string, verified finalized) (*ExportArtifact, error) {
			return &ExportArtifact{
				Filename: s.Filename(number),
				PDF:      verified.pdf,
			}, nil
		},
	}

	return Execute(ctx, s.exec, op, number)
}

// Filename is the download name for an exported quote document.
func (s *ExportService) Filename(number string) string {
	company := strings.ReplaceAll(s.company, " ", "")
	if company == "" {
		return fmt.Sprintf("Quote-%s.pdf", number)
	}

	return fmt.Sprintf("%s-Quote-%s.pdf", company, number)
}

func (s *ExportService) notification(snapshot domain.QuoteDraft, pricing domain.TierPricing) (ports.Notification, error) {
	if strings.TrimSpace(snapshot.Customer.Email) == "" {
		return ports.Notification{}, domain.NewValidationError("customer.email", "required to send a quote notification")
	}

	return ports.Notification{
		RecipientEmail: snapshot.Customer.Email,
		RecipientName:  snapshot.Customer.Name,
		QuoteNumber:    snapshot.Number,
		Total:          pricing.Total,
		QuoteURL:       fmt.Sprintf("%s/quotes/%s", s.baseURL, snapshot.Number),
	}, nil
}
