package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/summitpoint/quotedesk/internal/adapters/clients"
	"github.com/summitpoint/quotedesk/internal/ports"
)

const notifyPath = "/v1/messages"

// NotifierAdapterConfig contains configuration for the notifier adapter.
type NotifierAdapterConfig struct {
	// Client is the instrumented HTTP client pointed at the relay.
	Client *clients.Client

	// Template names the relay-side message template to render.
	Template string

	// Logger is the structured logger.
	Logger *slog.Logger
}

// NotifierAdapter implements ports.Notifier against the hosted message
// relay. The relay owns rendering and delivery; this adapter only hands
// over the quote figures and the link back to the live quote.
type NotifierAdapter struct {
	BaseAdapter
	template string
	logger   *slog.Logger
}

// NewNotifierAdapter creates a new notifier adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewNotifierAdapter(cfg NotifierAdapterConfig) *NotifierAdapter {
	if cfg.Client == nil {
		panic("NotifierAdapter: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	template := cfg.Template
	if template == "" {
		template = "quote-ready"
	}

	return &NotifierAdapter{
		BaseAdapter: NewBaseAdapter(cfg.Client, "notifier"),
		template:    template,
		logger:      logger.With(slog.String("component", "acl.NotifierAdapter")),
	}
}

// messageRequest is the relay's wire shape.
type messageRequest struct {
	Template  string            `json:"template"`
	Recipient messageRecipient  `json:"recipient"`
	Variables map[string]string `json:"variables"`
}

type messageRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Send delivers the notification. Implements ports.Notifier.
func (a *NotifierAdapter) Send(ctx context.Context, n ports.Notification) error {
	req := messageRequest{
		Template: a.template,
		Recipient: messageRecipient{
			Email: n.RecipientEmail,
			Name:  n.RecipientName,
		},
		Variables: map[string]string{
			"quoteNumber": n.QuoteNumber,
			"total":       n.Total.StringFixed(2),
			"quoteUrl":    n.QuoteURL,
		},
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding message request: %w", err)
	}

	rc, err := a.post(ctx, notifyPath, bytes.NewReader(payload), "send notification", n.QuoteNumber)
	if err != nil {
		return err
	}

	_ = rc.Close()

	a.logger.InfoContext(ctx, "quote notification dispatched",
		slog.String("quote_number", n.QuoteNumber),
	)

	return nil
}
