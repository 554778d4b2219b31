package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/betti-rdl/bettirdl/internal/kernel"
)

// Domain prefix for trace identity hashing.
// Version suffix enables future algorithm migration.
const DomainTrace = "bettirdl/trace/v1"

// Snapshot captures the complete observable outcome of one kernel run:
// every processed event in order, plus the final counters.
type Snapshot struct {
	Name   string                  `json:"name,omitempty"`
	Grid   kernel.Space            `json:"grid"`
	Events []kernel.ProcessedEvent `json:"events"`
	Final  kernel.Telemetry        `json:"final"`
}

// toCanonicalMap converts a Snapshot to the map form MarshalCanonical
// accepts. MemoryUsed is excluded from identity: it reflects allocation
// capacity, not computation, and must not perturb replay comparison.
func (s *Snapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = map[string]any{
			"seq":         e.Seq,
			"time":        e.Time,
			"x":           e.Coord.X,
			"y":           e.Coord.Y,
			"z":           e.Coord.Z,
			"value":       e.Value,
			"state_after": e.StateAfter,
			"propagated":  e.Propagated,
		}
	}

	m := map[string]any{
		"grid": map[string]any{
			"width":  s.Grid.Width,
			"height": s.Grid.Height,
			"depth":  s.Grid.Depth,
		},
		"events": events,
		"final": map[string]any{
			"events_processed": s.Final.EventsProcessed,
			"current_time":     s.Final.CurrentTime,
			"process_count":    s.Final.ProcessCount,
		},
	}
	if s.Name != "" {
		m["name"] = s.Name
	}
	return m
}

// Canonical returns the snapshot's canonical JSON bytes.
func (s *Snapshot) Canonical() ([]byte, error) {
	b, err := MarshalCanonical(s.toCanonicalMap())
	if err != nil {
		return nil, fmt.Errorf("canonical snapshot: %w", err)
	}
	return b, nil
}

// Hash returns the snapshot's content-addressed identity: a
// domain-separated SHA-256 over the canonical JSON. Identical executions
// always hash identically; any divergence in event order, payloads, or
// final counters changes the hash.
func (s *Snapshot) Hash() (string, error) {
	canonical, err := s.Canonical()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(DomainTrace))
	h.Write([]byte{0x00}) // Null separator prevents domain/data ambiguity
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Recorder is a kernel.Observer that accumulates processed events for a
// later Snapshot.
type Recorder struct {
	events []kernel.ProcessedEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// OnEvent implements kernel.Observer.
func (r *Recorder) OnEvent(e kernel.ProcessedEvent) {
	r.events = append(r.events, e)
}

// Events returns the recorded events in processing order.
func (r *Recorder) Events() []kernel.ProcessedEvent {
	return r.events
}

// Snapshot assembles a Snapshot from the recorded events and the kernel's
// current counters.
func (r *Recorder) Snapshot(name string, k *kernel.Kernel) *Snapshot {
	return &Snapshot{
		Name:   name,
		Grid:   k.Space(),
		Events: r.events,
		Final:  k.Telemetry(),
	}
}
