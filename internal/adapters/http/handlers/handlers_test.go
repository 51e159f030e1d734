package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/summitpoint/quotedesk/internal/app"
	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory QuoteStore with the same number-allocation
// contract as the real collaborators.
type fakeStore struct {
	mu      sync.Mutex
	quotes  map[string]domain.QuoteDraft
	nextNum int

	upsertErr error
	getErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes:  make(map[string]domain.QuoteDraft),
		nextNum: 100,
	}
}

func (s *fakeStore) Upsert(_ context.Context, snapshot domain.QuoteDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upsertErr != nil {
		return "", s.upsertErr
	}

	number := snapshot.Number
	if number == "" {
		number = fmt.Sprintf("Q-%d", s.nextNum)
		s.nextNum++
	}

	snapshot.Number = number
	s.quotes[number] = snapshot

	return number, nil
}

func (s *fakeStore) Get(_ context.Context, number string) (*domain.QuoteDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	q, ok := s.quotes[number]
	if !ok {
		return nil, domain.NewNotFoundError("quote", number)
	}

	out := q.Clone()

	return out, nil
}

func (s *fakeStore) Delete(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[number]; !ok {
		return domain.NewNotFoundError("quote", number)
	}

	delete(s.quotes, number)

	return nil
}

func (s *fakeStore) List(_ context.Context, filter ports.QuoteFilter) ([]ports.QuoteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]ports.QuoteSummary, 0, len(s.quotes))

	for _, q := range s.quotes {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}

		summaries = append(summaries, ports.QuoteSummary{
			Number:       q.Number,
			CustomerName: q.Customer.Name,
			Status:       q.Status,
			Total:        q.GrandTotal(),
			UpdatedAt:    q.UpdatedAt,
		})
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(summaries) {
			return nil, nil
		}

		summaries = summaries[filter.Offset:]
	}

	if filter.Limit > 0 && len(summaries) > filter.Limit {
		summaries = summaries[:filter.Limit]
	}

	return summaries, nil
}

func (s *fakeStore) seed(t *testing.T, number, customer string, status domain.Status) domain.QuoteDraft {
	t.Helper()

	draft := domain.NewDraft()
	draft.Number = number
	draft.Customer.Name = customer
	draft.Customer.Email = "customer@example.com"
	draft.Status = status
	draft.Items.Add(domain.NewLineItem("Exterior paint", "gallon", decimal.NewFromInt(10), decimal.RequireFromString("42.50")))
	draft.LaborHours = decimal.NewFromInt(12)
	draft.LaborRate = decimal.NewFromInt(85)

	s.mu.Lock()
	s.quotes[number] = *draft
	s.mu.Unlock()

	return *draft
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(domain.QuoteDraft, domain.TierPricing) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}

	return []byte("%PDF-1.4 fake"), nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, notification ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}

	n.sent = append(n.sent, notification)

	return nil
}

type fakeSuggestionClient struct {
	result *domain.SuggestionResult
	err    error
}

func (c *fakeSuggestionClient) Analyze(context.Context, []byte, string) (*domain.SuggestionResult, error) {
	if c.err != nil {
		return nil, c.err
	}

	if c.result != nil {
		return c.result, nil
	}

	return &domain.SuggestionResult{Summary: "no structured suggestions"}, nil
}

// testRig bundles a fully wired engine over in-memory collaborators.
type testRig struct {
	engine   *gin.Engine
	store    *fakeStore
	notifier *fakeNotifier
	renderer *fakeRenderer
	client   *fakeSuggestionClient
	sessions *app.SessionManager
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()

	store := newFakeStore()
	notifier := &fakeNotifier{}
	renderer := &fakeRenderer{}
	client := &fakeSuggestionClient{}
	logger := testLogger()

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:  store,
		Logger: logger,
	})

	exporter := app.NewExportService(app.ExportServiceConfig{
		Store:        store,
		Renderer:     renderer,
		Notifier:     notifier,
		CompanyName:  "SummitPoint Services",
		QuoteBaseURL: "https://quotes.summitpoint.example",
		Logger:       logger,
	})

	sessions := app.NewSessionManager(app.SessionManagerConfig{
		Store:       store,
		QuietPeriod: time.Hour, // autosave never fires during a test
		Logger:      logger,
	})
	t.Cleanup(sessions.CloseAll)

	suggestions := app.NewSuggestionService(app.SuggestionServiceConfig{
		Client: client,
		Logger: logger,
	})

	engine := gin.New()
	api := engine.Group("/api/v1")

	NewQuoteHandler(quoteService, exporter).RegisterRoutes(api)
	NewBuilderHandler(sessions, suggestions).RegisterRoutes(api)
	NewPricingHandler().RegisterRoutes(api)

	return &testRig{
		engine:   engine,
		store:    store,
		notifier: notifier,
		renderer: renderer,
		client:   client,
		sessions: sessions,
	}
}
