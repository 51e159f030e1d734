package app

import (
	"context"
	"log/slog"
	"time"

	"sync"

	"github.com/google/uuid"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// SessionManagerConfig contains configuration for the session manager.
type SessionManagerConfig struct {
	// Store is the remote store collaborator. Required.
	Store ports.QuoteStore

	// QuietPeriod is passed through to each controller.
	QuietPeriod time.Duration

	// SaveTimeout is passed through to each controller.
	SaveTimeout time.Duration

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// SessionManager owns the builder's editing sessions. Each session wraps
// one DraftController; the authenticated tool state is session-scoped and
// injected here rather than held in any module-level global.
//
// A single quote is edited by a single logical editor: sessions are not
// shared, and there is no concurrent multi-user editing of one draft.
type SessionManager struct {
	store  ports.QuoteStore
	logger *slog.Logger
	quiet  time.Duration
	saveTO time.Duration

	mu       sync.Mutex
	sessions map[string]*DraftController
}

// NewSessionManager creates a session manager.
// Panics if Store is nil.
func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	if cfg.Store == nil {
		panic("SessionManager: Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionManager{
		store:    cfg.Store,
		logger:   logger.With(slog.String("component", "app.SessionManager")),
		quiet:    cfg.QuietPeriod,
		saveTO:   cfg.SaveTimeout,
		sessions: make(map[string]*DraftController),
	}
}

// OpenNew starts a session on a fresh draft, optionally pre-populated
// from a quick package template. Returns the session ID and a snapshot.
func (m *SessionManager) OpenNew(templateKey string) (string, domain.QuoteDraft, error) {
	draft := domain.NewDraft()

	if templateKey != "" {
		pkg, ok := domain.QuickPackageByKey(templateKey)
		if !ok {
			return "", domain.QuoteDraft{}, domain.NewNotFoundError("quick package", templateKey)
		}

		draft = domain.NewDraftFromPackage(pkg)
	}

	return m.register(draft)
}

// OpenExisting re-opens a persisted quote for editing.
func (m *SessionManager) OpenExisting(ctx context.Context, number string) (string, domain.QuoteDraft, error) {
	draft, err := m.store.Get(ctx, number)
	if err != nil {
		return "", domain.QuoteDraft{}, err
	}

	return m.register(draft)
}

// Controller returns the controller for a session.
// Returns domain.ErrNotFound for unknown or closed sessions.
func (m *SessionManager) Controller(sessionID string) (*DraftController, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.NewNotFoundError("session", sessionID)
	}

	return c, nil
}

// Close ends a session and stops its quiet-period timer.
func (m *SessionManager) Close(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.sessions[sessionID]
	if !ok {
		return domain.NewNotFoundError("session", sessionID)
	}

	c.Close()
	delete(m.sessions, sessionID)

	return nil
}

// CloseAll tears down every session. Called on shutdown so no background
// timer outlives the component owning the drafts.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.sessions {
		c.Close()
		delete(m.sessions, id)
	}
}

func (m *SessionManager) register(draft *domain.QuoteDraft) (string, domain.QuoteDraft, error) {
	controller := NewDraftController(DraftControllerConfig{
		Store:       m.store,
		Draft:       draft,
		QuietPeriod: m.quiet,
		SaveTimeout: m.saveTO,
		Logger:      m.logger,
	})

	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = controller
	m.mu.Unlock()

	m.logger.Debug("session opened",
		slog.String("session_id", id),
		slog.String("quote_number", draft.Number),
	)

	return id, controller.Snapshot(), nil
}
