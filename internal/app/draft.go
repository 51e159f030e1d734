// Package app contains application services that orchestrate the quote
// builder's use cases. It coordinates domain logic and infrastructure
// through ports; HTTP specifics live in adapters and storage behind the
// QuoteStore port.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/summitpoint/quotedesk/internal/domain"
	"github.com/summitpoint/quotedesk/internal/ports"
)

// SaveStatus is the persistence state surfaced for UI feedback.
type SaveStatus string

// Save statuses. A hung request leaves the status at saving until the
// request resolves or errors; there is no timeout escalation beyond the
// save context deadline.
const (
	SaveIdle   SaveStatus = "idle"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveError  SaveStatus = "error"
)

// ErrSessionClosed is returned when a controller is used after teardown.
var ErrSessionClosed = errors.New("draft session closed")

// Default persistence controller timing.
const (
	// DefaultQuietPeriod is how long edits must settle before a
	// debounced save fires.
	DefaultQuietPeriod = 5 * time.Second

	// DefaultSaveTimeout bounds a background save round trip.
	DefaultSaveTimeout = 30 * time.Second
)

// DraftControllerConfig contains configuration for a draft controller.
type DraftControllerConfig struct {
	// Store is the remote store collaborator. Required.
	Store ports.QuoteStore

	// Draft is the initial draft. Defaults to a fresh empty draft.
	Draft *domain.QuoteDraft

	// QuietPeriod overrides DefaultQuietPeriod when positive.
	QuietPeriod time.Duration

	// SaveTimeout overrides DefaultSaveTimeout when positive.
	SaveTimeout time.Duration

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// DraftController decouples rapid local edits from the cost of remote
// writes while guaranteeing no edit is silently lost.
//
// Every mutation marks the draft dirty and restarts a quiet-period timer;
// when the timer fires with a viable draft (non-empty customer name), the
// controller serializes a snapshot and upserts it. The save payload is
// always a snapshot taken at send time, and the only value ever adopted
// from a response is the quote number: in-memory state is the source of
// truth between saves, so a response that races a newer edit cannot
// clobber it.
//
// A failed save leaves the draft dirty with status error; nothing retries
// automatically, the next qualifying edit or manual save attempts again.
type DraftController struct {
	store  ports.QuoteStore
	logger *slog.Logger
	quiet  time.Duration
	saveTO time.Duration

	// saveMu serializes upserts so two first-inserts can never race and
	// allocate two identities for the same draft.
	saveMu sync.Mutex

	mu     sync.Mutex
	draft  *domain.QuoteDraft
	timer  *time.Timer
	dirty  bool
	status SaveStatus
	closed bool
}

// NewDraftController creates a controller owning one draft.
// Panics if Store is nil.
func NewDraftController(cfg DraftControllerConfig) *DraftController {
	if cfg.Store == nil {
		panic("DraftController: Store is required")
	}

	draft := cfg.Draft
	if draft == nil {
		draft = domain.NewDraft()
	}

	quiet := cfg.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	saveTO := cfg.SaveTimeout
	if saveTO <= 0 {
		saveTO = DefaultSaveTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &DraftController{
		store:  cfg.Store,
		logger: logger.With(slog.String("component", "app.DraftController")),
		quiet:  quiet,
		saveTO: saveTO,
		draft:  draft,
		status: SaveIdle,
	}
}

// Snapshot returns a deep copy of the current draft.
func (c *DraftController) Snapshot() domain.QuoteDraft {
	c.mu.Lock()
	defer c.mu.Unlock()

	return *c.draft.Clone()
}

// Dirty reports whether unsaved changes exist since the last successful save.
func (c *DraftController) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dirty
}

// Status returns the current save status.
func (c *DraftController) Status() SaveStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Update applies a mutation to the draft, marks the controller dirty and
// restarts the quiet-period timer. The mutation runs under the
// controller's lock and must not block.
func (c *DraftController) Update(mutate func(*domain.QuoteDraft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	if err := mutate(c.draft); err != nil {
		return err
	}

	c.draft.Touch()
	c.dirty = true
	c.restartTimerLocked()

	return nil
}

// Save performs the serialize-and-upsert synchronously, bypassing the
// quiet-period timer. It saves even when the draft is clean, mirroring an
// explicit "Save Draft" action.
func (c *DraftController) Save(ctx context.Context) error {
	return c.save(ctx, true)
}

// SaveAndSend transitions the draft's status to sent and saves
// immediately, mirroring the "Save & Preview" action.
func (c *DraftController) SaveAndSend(ctx context.Context) error {
	err := c.Update(func(d *domain.QuoteDraft) error {
		d.Status = domain.StatusSent
		return nil
	})
	if err != nil {
		return err
	}

	return c.save(ctx, true)
}

// Close tears the controller down: the quiet-period timer is stopped and
// no further writes reach the draft. Pending debounced work is dropped;
// unsaved edits are the caller's to flush beforehand.
func (c *DraftController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// restartTimerLocked resets the debounce timer. Callers must hold c.mu.
func (c *DraftController) restartTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}

	c.timer = time.AfterFunc(c.quiet, c.autosave)
}

// autosave runs on quiet-period expiry.
func (c *DraftController) autosave() {
	ctx, cancel := context.WithTimeout(context.Background(), c.saveTO)
	defer cancel()

	err := c.save(ctx, false)
	if err != nil {
		switch {
		case errors.Is(err, ErrSessionClosed):
			// Teardown raced the timer; nothing to do.
		case domain.IsValidation(err):
			// Not yet viable (no customer name). The next qualifying
			// edit restarts the timer.
			c.logger.Debug("autosave deferred", slog.String("reason", err.Error()))
		default:
			c.logger.Warn("autosave failed", slog.Any("error", err))
		}
	}
}

// save serializes a snapshot and upserts it. force distinguishes manual
// saves (always upsert) from debounced ones (skip when clean).
func (c *DraftController) save(ctx context.Context, force bool) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}

	if !force && !c.dirty {
		c.mu.Unlock()
		return nil
	}

	if err := c.draft.CanPersist(); err != nil {
		// Dirty state and status are left untouched: validation is
		// surfaced inline and the edits stay local.
		c.mu.Unlock()
		return err
	}

	snapshot := *c.draft.Clone()
	c.status = SaveSaving
	c.dirty = false
	c.mu.Unlock()

	number, err := c.store.Upsert(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	if err != nil {
		c.dirty = true
		c.status = SaveError

		return fmt.Errorf("saving draft: %w", err)
	}

	// Adopt the identity on first insert; never adopt field values.
	if c.draft.Number == "" && number != "" {
		c.draft.Number = number
	}

	if c.dirty {
		// A newer edit arrived while the save was in flight. Its
		// snapshot was not part of this save, so stay off "saved"; the
		// restarted timer will pick it up.
		c.status = SaveIdle
	} else {
		c.status = SaveSaved
	}

	return nil
}
