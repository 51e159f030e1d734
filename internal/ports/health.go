package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when a checker is registered under a
// name already taken.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker is implemented by components that can report their health.
// Adapters (the quote store, the notifier) register themselves with the
// HealthRegistry at startup so readiness reflects the collaborators the
// builder depends on.
type HealthChecker interface {
	// Name identifies the component in readiness responses.
	Name() string

	// Check returns nil when the component is healthy. Implementations
	// must respect context cancellation and deadlines.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates health checks from multiple components.
type HealthRegistry interface {
	// Register adds a checker. Fails on a duplicate name.
	Register(checker HealthChecker) error

	// CheckAll runs every registered check concurrently under ctx and
	// returns the aggregated result.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus represents the overall health state.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the aggregated outcome of one readiness probe.
type HealthResult struct {
	// Status is unhealthy as soon as any single check is.
	Status HealthStatus `json:"status"`

	// Checks holds per-component results keyed by checker name.
	Checks map[string]*CheckResult `json:"checks"`

	// Timestamp is when the probe ran.
	Timestamp time.Time `json:"timestamp"`
}

// CheckResult is the outcome of a single component's check.
type CheckResult struct {
	Status HealthStatus `json:"status"`

	// Message carries the failure cause, empty when healthy.
	Message string `json:"message,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is a concurrency-safe HealthRegistry.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{}
}

// Register adds a health checker, rejecting duplicate names so two
// adapters cannot shadow each other in probe output.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	for _, c := range r.checkers {
		if c.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
		}
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every registered check in its own goroutine. A registry
// with no checkers reports healthy, which covers a desk configured with
// no local store and only optional collaborators.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := make([]HealthChecker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	result := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult),
		Timestamp: time.Now(),
	}

	if len(checkers) == 0 {
		return result
	}

	outcomes := make([]*CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			start := time.Now()
			err := checker.Check(ctx)

			outcome := &CheckResult{
				Status:   HealthStatusHealthy,
				Duration: time.Since(start),
			}
			if err != nil {
				outcome.Status = HealthStatusUnhealthy
				outcome.Message = err.Error()
			}

			outcomes[i] = outcome
		}()
	}
	wg.Wait()

	for i, checker := range checkers {
		result.Checks[checker.Name()] = outcomes[i]
		if outcomes[i].Status == HealthStatusUnhealthy {
			result.Status = HealthStatusUnhealthy
		}
	}

	return result
}
