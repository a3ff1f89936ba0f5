// Package fallback routes reads between the live history API and local data.
//
// A Manager counts consecutive fallback-eligible API failures. Once the count
// reaches the configured threshold it enters the degraded state, in which
// Execute serves every call from the fallback operation without touching the
// API. The degraded state ends when it is deactivated manually or, lazily, on
// the first call after the configured duration has elapsed.
package fallback

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the mutable part of the manager.
type State struct {
	IsActive     bool             `json:"isActive"`
	ActivatedAt  time.Time        `json:"activatedAt"`
	FailureCount int              `json:"failureCount"`
	LastError    *ClassifiedError `json:"lastError"`
}

// Snapshot is a read-only copy of state and config.
type Snapshot struct {
	State
	Config Config `json:"config"`
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager is the shared breaker. One instance per process is created at
// startup and passed to every resource service.
type Manager struct {
	mu     sync.Mutex
	config Config
	state  State
	now    func() time.Time
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		config: cfg.clone(),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs apiOp unless the manager is degraded, in which case fallbackOp
// runs instead. A failing apiOp is classified and recorded; if that failure
// leaves the manager degraded the fallbackOp result is returned, otherwise
// the classified error is.
func Execute[T any](ctx context.Context, m *Manager, apiOp, fallbackOp func(context.Context) (T, error), label string) (T, error) {
	if m.shouldUseFallback() {
		m.logger.Debug("serving from fallback",
			zap.String("operation", label),
			zap.String("kind", KindCircuitBreakerOpen.String()),
		)
		return fallbackOp(ctx)
	}

	result, err := apiOp(ctx)
	if err == nil {
		m.recordSuccess(label)
		return result, nil
	}

	if errors.Is(err, context.Canceled) {
		var zero T
		return zero, err
	}

	classified := Classify(err)
	if m.recordFailure(classified, label) {
		m.logger.Info("api failed, serving from fallback",
			zap.String("operation", label),
			zap.String("kind", classified.Kind.String()),
		)
		return fallbackOp(ctx)
	}

	var zero T
	return zero, classified
}

// shouldUseFallback also performs the lazy timeout recovery.
func (m *Manager) shouldUseFallback() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsActive {
		return false
	}
	if m.now().Sub(m.state.ActivatedAt) > m.config.FallbackDuration {
		m.state.IsActive = false
		m.state.FailureCount = 0
		m.state.LastError = nil
		m.logger.Info("fallback expired, retrying api",
			zap.Duration("duration", m.config.FallbackDuration),
		)
		return false
	}
	return true
}

func (m *Manager) recordSuccess(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.FailureCount > 0 {
		m.logger.Info("api recovered",
			zap.String("operation", label),
			zap.Int("previous_failures", m.state.FailureCount),
		)
	}
	m.state.FailureCount = 0
	m.state.LastError = nil
}

// recordFailure returns true when the caller should serve the fallback.
func (m *Manager) recordFailure(err *ClassifiedError, label string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.config.EnableAutoFallback {
		return false
	}
	if m.config.Excludes(err.Kind) {
		m.logger.Debug("api error excluded from fallback",
			zap.String("operation", label),
			zap.String("kind", err.Kind.String()),
		)
		return false
	}

	m.state.FailureCount++
	m.state.LastError = err
	m.logger.Warn("api failure recorded",
		zap.String("operation", label),
		zap.String("kind", err.Kind.String()),
		zap.Int("failure_count", m.state.FailureCount),
		zap.Int("threshold", m.config.FallbackThreshold),
		zap.Error(err.Cause),
	)

	if !m.state.IsActive && m.state.FailureCount >= m.config.FallbackThreshold {
		m.activateLocked("failure threshold reached")
	}
	return m.state.IsActive
}

func (m *Manager) activateLocked(reason string) {
	m.state.IsActive = true
	m.state.ActivatedAt = m.now()
	m.logger.Warn("fallback activated",
		zap.String("reason", reason),
		zap.Int("failure_count", m.state.FailureCount),
		zap.Duration("duration", m.config.FallbackDuration),
	)
}

// ManualActivate forces the degraded state regardless of the failure count.
func (m *Manager) ManualActivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activateLocked("manual")
}

// ManualDeactivate returns to normal and clears the failure count.
func (m *Manager) ManualDeactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.IsActive = false
	m.state.FailureCount = 0
	m.state.LastError = nil
	m.logger.Info("fallback deactivated", zap.String("reason", "manual"))
}

// Reset restores the initial state. Config is kept.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{}
	m.logger.Info("fallback state reset")
}

// UpdateConfig merges u into the current config and returns the result.
// State is not touched.
func (m *Manager) UpdateConfig(u ConfigUpdate) Config {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.config = m.config.Merge(u)
	m.logger.Info("fallback config updated",
		zap.Bool("enabled", m.config.EnableAutoFallback),
		zap.Int("threshold", m.config.FallbackThreshold),
		zap.Duration("duration", m.config.FallbackDuration),
	)
	return m.config.clone()
}

func (m *Manager) GetState() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{State: m.state, Config: m.config.clone()}
}

func (m *Manager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsActive
}

func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config.clone()
}
