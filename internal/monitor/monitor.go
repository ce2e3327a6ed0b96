// Package monitor owns the dashboard's display state: the loaded history
// series and the most recently scored reading. It composes the three
// user-facing operations (reload history, simulate a reading, submit
// feedback) on top of the backend client, and is the only writer of that
// state.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/metrics"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/simulator"
)

// ErrNoReading is returned when feedback is requested before any reading
// has been scored in this session and the loaded history is empty.
var ErrNoReading = errors.New("no scored reading available; simulate a reading first")

// ErrUnknownLabel is returned for feedback labels outside the fixed set.
var ErrUnknownLabel = errors.New("unknown feedback label")

// Backend is the slice of the prediction service the monitor needs.
type Backend interface {
	History(ctx context.Context) ([]models.Reading, error)
	Predict(ctx context.Context, sample models.Sample) (models.Prediction, error)
	Feedback(ctx context.Context, index int, label string) (models.FeedbackResult, error)
}

// Monitor holds the display state and serializes writes to it.
type Monitor struct {
	backend Backend
	sim     *simulator.Simulator
	catalog *models.FeedbackCatalog
	log     *zap.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	history []models.Reading
	last    *models.ScoredReading
}

// New returns a Monitor with empty display state. metrics may be nil.
func New(backend Backend, sim *simulator.Simulator, catalog *models.FeedbackCatalog, log *zap.Logger, m *metrics.Metrics) *Monitor {
	return &Monitor{
		backend: backend,
		sim:     sim,
		catalog: catalog,
		log:     log,
		metrics: m,
	}
}

// LoadHistory fetches the reading series from the backend and replaces
// the local one wholesale. On failure the prior series stays untouched;
// the caller decides whether the error reaches the user.
func (m *Monitor) LoadHistory(ctx context.Context) error {
	readings, err := m.backend.History(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	m.mu.Lock()
	m.history = readings
	m.mu.Unlock()

	m.metrics.SetHistoryLength(len(readings))
	m.log.Debug("History reloaded", zap.Int("readings", len(readings)))
	return nil
}

// History returns a copy of the loaded series.
func (m *Monitor) History() []models.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Reading, len(m.history))
	copy(out, m.history)
	return out
}

// Last returns the most recently scored reading, or nil when none has
// been produced in this session.
func (m *Monitor) Last() *models.ScoredReading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return nil
	}
	scored := *m.last
	return &scored
}

// Simulate draws a synthetic sample, has the backend score it, and makes
// the result the new feedback target. History is refreshed afterwards; a
// failed refresh is logged and otherwise ignored, so the scored reading
// still shows. A failed predict leaves all displayed state unchanged.
func (m *Monitor) Simulate(ctx context.Context) (models.ScoredReading, error) {
	sample := m.sim.Sample()

	pred, err := m.backend.Predict(ctx, sample)
	if err != nil {
		return models.ScoredReading{}, fmt.Errorf("simulate: %w", err)
	}

	scored := models.ScoredReading{
		Sample:      sample,
		StressScore: pred.StressScore,
		Index:       pred.NewIndex,
		At:          time.Now().UTC(),
	}

	m.mu.Lock()
	m.last = &scored
	m.mu.Unlock()

	m.metrics.RecordSimulation(pred.StressScore)
	m.log.Info("Reading scored",
		zap.Float64("hrv", sample.HRV),
		zap.Float64("spo2", sample.SpO2),
		zap.Float64("stress_score", pred.StressScore),
		zap.Int("index", pred.NewIndex))

	if err := m.LoadHistory(ctx); err != nil {
		m.log.Warn("History refresh after simulate failed", zap.Error(err))
	}

	return scored, nil
}

// SubmitFeedback attaches a label from the fixed set to the current
// feedback target. The target is the index remembered from the last
// successful simulate; with none in this session it falls back to the
// last row of the loaded history. When the two could disagree (after a
// failed reload) the remembered index wins: it is the index the backend
// itself returned for the reading on screen. With no target at all the
// call fails before any network traffic.
func (m *Monitor) SubmitFeedback(ctx context.Context, label string) (models.FeedbackResult, error) {
	if !m.catalog.Valid(label) {
		return models.FeedbackResult{}, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}

	index, ok := m.feedbackTarget()
	if !ok {
		return models.FeedbackResult{}, ErrNoReading
	}

	res, err := m.backend.Feedback(ctx, index, label)
	if err != nil {
		return models.FeedbackResult{}, fmt.Errorf("feedback: %w", err)
	}

	m.metrics.RecordFeedback(label)
	m.log.Info("Feedback accepted",
		zap.String("label", label),
		zap.Int("index", res.Index),
		zap.Float64("new_score", res.NewScore))

	if err := m.LoadHistory(ctx); err != nil {
		m.log.Warn("History refresh after feedback failed", zap.Error(err))
	}

	return res, nil
}

func (m *Monitor) feedbackTarget() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last != nil {
		return m.last.Index, true
	}
	if n := len(m.history); n > 0 {
		return m.history[n-1].Index, true
	}
	return 0, false
}
