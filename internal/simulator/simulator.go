// Package simulator synthesizes sensor samples for the dashboard's
// "simulate reading" action. There is no real sensor in this build;
// samples are drawn uniformly from physiologically plausible ranges.
package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/avishkarchauhan001/stress-score-monitoring-system/internal/models"
)

// Sample ranges. HRV is drawn from [40,90) ms, SpO2 from [92,100) %.
const (
	hrvMin  = 40.0
	hrvSpan = 50.0

	spo2Min  = 92.0
	spo2Span = 8.0
)

// Simulator produces synthetic sensor samples.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Simulator seeded from the clock.
func New() *Simulator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Simulator, for tests.
func NewWithSeed(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one synthetic reading.
func (s *Simulator) Sample() models.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Sample{
		HRV:  hrvMin + s.rng.Float64()*hrvSpan,
		SpO2: spo2Min + s.rng.Float64()*spo2Span,
	}
}
