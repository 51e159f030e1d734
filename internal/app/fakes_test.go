package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// fakeStore is an in-memory ports.QuoteStore. Number allocation mirrors
// the real store's Q-<n> sequence so identity-adoption paths are
// exercised realistically.
type fakeStore struct {
	mu      sync.Mutex
	quotes  map[string]domain.QuoteDraft
	nextNum int
	upserts []domain.QuoteDraft

	upsertErr error
	getErr    error

	// entered receives a signal when an Upsert begins and blockUpsert,
	// when set, stalls the Upsert until the test closes it. Together they
	// let tests land edits while a save is in flight.
	entered     chan struct{}
	blockUpsert chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		quotes:  make(map[string]domain.QuoteDraft),
		nextNum: 100,
	}
}

func (f *fakeStore) Upsert(_ context.Context, snapshot domain.QuoteDraft) (string, error) {
	f.mu.Lock()
	entered := f.entered
	block := f.blockUpsert
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return "", f.upsertErr
	}

	number := snapshot.Number
	if number == "" {
		number = fmt.Sprintf("Q-%d", f.nextNum)
		f.nextNum++
	}

	stored := *snapshot.Clone()
	stored.Number = number
	f.quotes[number] = stored
	f.upserts = append(f.upserts, stored)

	return number, nil
}

func (f *fakeStore) Get(_ context.Context, number string) (*domain.QuoteDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}

	stored, ok := f.quotes[number]
	if !ok {
		return nil, domain.NewNotFoundError("quote", number)
	}

	return stored.Clone(), nil
}

func (f *fakeStore) Delete(_ context.Context, number string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.quotes[number]; !ok {
		return domain.NewNotFoundError("quote", number)
	}

	delete(f.quotes, number)

	return nil
}

func (f *fakeStore) List(_ context.Context, filter ports.QuoteFilter) ([]ports.QuoteSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var summaries []ports.QuoteSummary

	for _, q := range f.quotes {
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

	return summaries, nil
}

func (f *fakeStore) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.upserts)
}

func (f *fakeStore) lastUpsert() domain.QuoteDraft {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.upserts[len(f.upserts)-1]
}

func (f *fakeStore) stored(number string) (domain.QuoteDraft, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q, ok := f.quotes[number]

	return q, ok
}

// fakeRenderer records what it was asked to render.
type fakeRenderer struct {
	mu       sync.Mutex
	output   []byte
	err      error
	snapshot domain.QuoteDraft
	pricing  domain.TierPricing
	calls    int
}

func (f *fakeRenderer) Render(snapshot domain.QuoteDraft, pricing domain.TierPricing) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.snapshot = snapshot
	f.pricing = pricing
	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	if f.output == nil {
		return []byte("%PDF-1.4 fake"), nil
	}

	return f.output, nil
}

// fakeNotifier records sent notifications.
type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []ports.Notification
}

func (f *fakeNotifier) Send(_ context.Context, n ports.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, n)

	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.sent)
}

// fakeSuggestionClient returns a canned analysis result.
type fakeSuggestionClient struct {
	result *domain.SuggestionResult
	err    error

	gotImage []byte
	gotMIME  string
}

func (f *fakeSuggestionClient) Analyze(_ context.Context, image []byte, mimeType string) (*domain.SuggestionResult, error) {
	f.gotImage = image
	f.gotMIME = mimeType

	if f.err != nil {
		return nil, f.err
	}

	return f.result, nil
}
