package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/adapters/clients"
	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

const storeBasePath = "/v1/quotes"

// StoreAdapterConfig contains configuration for the store adapter.
type StoreAdapterConfig struct {
	// Client is the instrumented HTTP client pointed at the record store.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// StoreAdapter implements ports.QuoteStore against the hosted record
// store's REST API. A draft without a number is inserted and the store
// allocates the durable quote number; a draft with a number is updated
// in place.
type StoreAdapter struct {
	BaseAdapter
	logger *slog.Logger
}

// NewStoreAdapter creates a new store adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewStoreAdapter(cfg StoreAdapterConfig) *StoreAdapter {
	if cfg.Client == nil {
		panic("StoreAdapter: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &StoreAdapter{
		BaseAdapter: NewBaseAdapter(cfg.Client, "quote-store"),
		logger:      logger.With(slog.String("component", "acl.StoreAdapter")),
	}
}

// quoteRecord is the store's wire shape for a persisted quote. It wraps
// the serialized draft with the store-computed total so listings can show
// historical figures without recomputation.
type quoteRecord struct {
	Number string            `json:"number"`
	Total  decimal.Decimal   `json:"total"`
	Draft  domain.QuoteDraft `json:"draft"`
}

// summaryRecord is the store's listing projection.
type summaryRecord struct {
	Number       string          `json:"number"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type listResponse struct {
	Quotes []summaryRecord `json:"quotes"`
}

// Upsert persists a snapshot. Implements ports.QuoteStore: only the
// returned number may be adopted by the caller.
func (a *StoreAdapter) Upsert(ctx context.Context, snapshot domain.QuoteDraft) (string, error) {
	record := quoteRecord{
		Number: snapshot.Number,
		Total:  snapshot.GrandTotal(),
		Draft:  snapshot,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encoding quote record: %w", err)
	}

	var body = bytes.NewReader(payload)

	var resp *quoteRecord

	if snapshot.Number == "" {
		rc, reqErr := a.post(ctx, storeBasePath, body, "insert quote", "")
		if reqErr != nil {
			return "", reqErr
		}

		resp, err = DecodeResponse[quoteRecord](rc)
	} else {
		path := storeBasePath + "/" + url.PathEscape(snapshot.Number)

		rc, reqErr := a.put(ctx, path, body, "update quote", snapshot.Number)
		if reqErr != nil {
			return "", reqErr
		}

		resp, err = DecodeResponse[quoteRecord](rc)
	}

	if err != nil {
		return "", domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	if resp.Number == "" {
		return "", domain.NewUnavailableError(a.ServiceName(), "store returned no quote number")
	}

	a.logger.DebugContext(ctx, "quote persisted", slog.String("quote_number", resp.Number))

	return resp.Number, nil
}

// Get retrieves a persisted quote.
func (a *StoreAdapter) Get(ctx context.Context, number string) (*domain.QuoteDraft, error) {
	path := storeBasePath + "/" + url.PathEscape(number)

	rc, err := a.get(ctx, path, "get quote", number)
	if err != nil {
		return nil, err
	}

	record, err := DecodeResponse[quoteRecord](rc)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	draft := record.Draft
	draft.Number = record.Number

	return &draft, nil
}

// Delete removes a persisted quote.
func (a *StoreAdapter) Delete(ctx context.Context, number string) error {
	path := storeBasePath + "/" + url.PathEscape(number)

	rc, err := a.del(ctx, path, "delete quote", number)
	if err != nil {
		return err
	}

	_ = rc.Close()

	return nil
}

// List returns quote summaries, newest first.
func (a *StoreAdapter) List(ctx context.Context, filter ports.QuoteFilter) ([]ports.QuoteSummary, error) {
	query := url.Values{}

	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	if filter.Offset > 0 {
		query.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := storeBasePath
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	rc, err := a.get(ctx, path, "list quotes", "")
	if err != nil {
		return nil, err
	}

	resp, err := DecodeResponse[listResponse](rc)
	if err != nil {
		return nil, domain.NewUnavailableError(a.ServiceName(), err.Error())
	}

	summaries := make([]ports.QuoteSummary, 0, len(resp.Quotes))
	for _, rec := range resp.Quotes {
		summaries = append(summaries, ports.QuoteSummary{
			Number:       rec.Number,
			CustomerName: rec.CustomerName,
			Status:       domain.Status(rec.Status),
			Total:        rec.Total,
			UpdatedAt:    rec.UpdatedAt,
		})
	}

	return summaries, nil
}
