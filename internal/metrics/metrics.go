package metrics

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Emitter is a fire-and-forget sink for named counters and timers.
// Implementations must never block the caller or return errors; telemetry
// loss is always preferable to failing a quote.
type Emitter interface {
	Count(name string, delta int64)
	Timing(name string, d time.Duration)
}

// Nop discards all emissions.
type Nop struct{}

func (Nop) Count(string, int64)          {}
func (Nop) Timing(string, time.Duration) {}

// LogEmitter writes each emission as a structured debug event.
type LogEmitter struct {
	Logger *logrus.Logger
}

func (e *LogEmitter) Count(name string, delta int64) {
	if e.Logger == nil {
		return
	}
	e.Logger.WithFields(logrus.Fields{"metric": name, "delta": delta}).Debug("counter")
}

func (e *LogEmitter) Timing(name string, d time.Duration) {
	if e.Logger == nil {
		return
	}
	e.Logger.WithFields(logrus.Fields{"metric": name, "ms": d.Milliseconds()}).Debug("timer")
}

// Recorder accumulates emissions in memory. Intended for tests.
type Recorder struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		counters: map[string]int64{},
		timings:  map[string][]time.Duration{},
	}
}

func (r *Recorder) Count(name string, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[name] += delta
}

func (r *Recorder) Timing(name string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timings[name] = append(r.timings[name], d)
}

// Counter returns the accumulated value for a counter name.
func (r *Recorder) Counter(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[name]
}

// Timings returns all recorded samples for a timer name.
func (r *Recorder) Timings(name string) []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.timings[name]))
	copy(out, r.timings[name])
	return out
}
