// Package telemetry provides the injected metrics surface for the splitter:
// monotonic operation counters plus an optional JSONL event stream. The pure
// planning packages never touch it; only the CLI and the MCP server record
// through a Collector they were handed, so there is no process-wide mutable
// state inside the engine.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Counter names for the operations the splitter performs.
const (
	CounterAnalyses = "analyses_performed"
	CounterPlans    = "plans_generated"
	CounterSplits   = "splits_executed"
	CounterPRs      = "prs_created"
)

// Event kinds identify the type of telemetry event.
const (
	KindAnalyze       = "analyze"
	KindPlanGenerated = "plan_generated"
	KindSplitExecuted = "split_executed"
	KindPRCreated     = "pr_created"
)

// Event represents a single telemetry record: a timestamp, a kind tag, and
// arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Data      any       `json:"data,omitempty"`
}

// Stats is a point-in-time snapshot of a Collector.
type Stats struct {
	UptimeSeconds float64          `json:"uptime_seconds"`
	Counts        map[string]int64 `json:"counts"`
}

// Collector tracks operation counters since construction and optionally
// forwards events to a JSONL emitter. It is safe for concurrent use by
// multiple goroutines. A nil *Collector is a valid no-op collector.
type Collector struct {
	start   time.Time
	emitter *Emitter

	mu     sync.Mutex
	counts map[string]int64
}

// NewCollector creates a Collector. emitter may be nil to disable the event
// stream.
func NewCollector(emitter *Emitter) *Collector {
	return &Collector{
		start:   time.Now(),
		emitter: emitter,
		counts:  make(map[string]int64),
	}
}

// Add increments counter by n and, when an emitter is attached and kind is
// non-empty, records an event of that kind. Calling Add on a nil Collector is
// a no-op.
func (c *Collector) Add(counter, kind string, n int64, data any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.counts[counter] += n
	c.mu.Unlock()

	if c.emitter != nil && kind != "" {
		_ = c.emitter.Emit(Event{Timestamp: time.Now(), Kind: kind, Data: data})
	}
}

// Inc is Add with n=1.
func (c *Collector) Inc(counter, kind string, data any) {
	c.Add(counter, kind, 1, data)
}

// Snapshot returns the current uptime and a copy of the counter values. A nil
// Collector reports zero uptime and empty counts.
func (c *Collector) Snapshot() Stats {
	if c == nil {
		return Stats{Counts: map[string]int64{}}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[string]int64, len(c.counts))
	for k, v := range c.counts {
		counts[k] = v
	}
	return Stats{
		UptimeSeconds: time.Since(c.start).Seconds(),
		Counts:        counts,
	}
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes a single event to the JSONL file. It is safe for concurrent use.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
