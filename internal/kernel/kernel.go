package kernel

// Default grid dimensions.
//
// The width doubles as the propagation horizon: events walk +1 along x and
// the chain terminates once x+1 reaches the width. The native kernel
// hard-coded a horizon of 10, so 10 is the compatible default; callers
// wanting a larger lattice pass WithDimensions.
const (
	DefaultWidth  = 10
	DefaultHeight = 10
	DefaultDepth  = 10
)

// ProcessedEvent describes one event after the Run loop consumed it.
// Delivered to observers; see Observer.
type ProcessedEvent struct {
	Seq        uint64     // Enqueue sequence number
	Time       uint64     // Logical time after processing this event
	Coord      Coordinate // Target coordinate
	Value      int64      // Payload absorbed
	StateAfter int64      // Process counter after absorption
	Propagated bool       // Whether a successor event was enqueued
}

// Observer receives a callback for every processed event, in processing
// order. This is the attachment point for journaling and trace capture;
// the kernel itself persists nothing.
//
// Observers run synchronously inside Run and must not call back into the
// kernel.
type Observer interface {
	OnEvent(ProcessedEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ProcessedEvent)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e ProcessedEvent) { f(e) }

// Telemetry is a snapshot of the kernel's lifetime counters.
type Telemetry struct {
	EventsProcessed uint64 `json:"events_processed"`
	CurrentTime     uint64 `json:"current_time"`
	ProcessCount    uint64 `json:"process_count"`
	MemoryUsed      uint64 `json:"memory_used"`
}

// Kernel executes discrete events over a fixed 3D process lattice.
//
// One Kernel is one independent instance: all state is owned by the struct
// and nothing is process-global, so multiple kernels can coexist and be
// tested in isolation.
//
// INVARIANTS:
//   - EventsProcessed increases by exactly 1 per dequeued event
//   - CurrentTime advances by exactly 1 per dequeued event
//   - The event queue is strictly FIFO; propagation appends to the tail
//   - No out-of-bounds event is ever enqueued (validated at injection and
//     at propagation)
//   - The process table never reallocates after construction
type Kernel struct {
	space    Space
	table    *processTable
	queue    *eventQueue
	clock    *Clock
	observer Observer

	eventsProcessed uint64
}

// Option configures a Kernel at construction.
type Option func(*settings)

type settings struct {
	space    Space
	clock    *Clock
	observer Observer
}

// WithDimensions sets the grid dimensions.
// Dimensions must be positive; New panics otherwise, since a zero-sized
// grid can never accept an event and always indicates a wiring bug.
func WithDimensions(width, height, depth int) Option {
	return func(s *settings) {
		s.space = Space{Width: width, Height: height, Depth: depth}
	}
}

// WithClock sets a pre-positioned logical clock.
// Used by replay to resume logical time from a journaled position.
func WithClock(c *Clock) Option {
	return func(s *settings) {
		s.clock = c
	}
}

// WithObserver attaches an observer for processed events.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// New constructs a kernel. The grid defaults to
// DefaultWidth x DefaultHeight x DefaultDepth when WithDimensions is
// omitted. The process table is fully allocated here and never grows.
func New(opts ...Option) *Kernel {
	s := settings{
		space: Space{Width: DefaultWidth, Height: DefaultHeight, Depth: DefaultDepth},
	}
	for _, opt := range opts {
		opt(&s)
	}

	if s.space.Width <= 0 || s.space.Height <= 0 || s.space.Depth <= 0 {
		panic("kernel: grid dimensions must be positive")
	}
	if s.clock == nil {
		s.clock = NewClock()
	}

	return &Kernel{
		space:    s.space,
		table:    newProcessTable(s.space),
		queue:    newEventQueue(),
		clock:    s.clock,
		observer: s.observer,
	}
}

// Space returns the kernel's grid bounds.
func (k *Kernel) Space() Space {
	return k.space
}

// SpawnProcess registers a process at (x, y, z).
// Idempotent: spawning an existing coordinate is a no-op and does not
// reset its counter. Returns OutOfBoundsError for invalid coordinates,
// leaving all state unchanged.
func (k *Kernel) SpawnProcess(x, y, z int) error {
	c := Coordinate{X: x, Y: y, Z: z}
	if err := k.space.check(c); err != nil {
		return err
	}
	k.table.ensure(c)
	return nil
}

// InjectEvent enqueues an event targeting (x, y, z) with the given payload.
// The target process need not have been spawned; it materializes when the
// event is processed. Returns OutOfBoundsError for invalid coordinates,
// leaving all state unchanged.
func (k *Kernel) InjectEvent(x, y, z int, value int64) error {
	c := Coordinate{X: x, Y: y, Z: z}
	if err := k.space.check(c); err != nil {
		return err
	}
	k.queue.enqueue(c, value)
	return nil
}

// Run drains at most maxEvents events from the queue and returns the
// number actually processed. A return value below maxEvents means the
// queue was empty; a budget of 0 is a valid no-op.
//
// Each event is fully processed as one atomic step: the target process
// absorbs the payload, a successor event is enqueued at (x+1, y, z) with
// the same payload if x+1 is still inside the grid, and the logical clock
// and lifetime event counter advance by 1.
//
// All state persists across calls, so splitting a total budget across
// several Run calls is equivalent to one call with the combined budget.
// Run cannot fail: every queued event was validated at enqueue time.
func (k *Kernel) Run(maxEvents int) int {
	processed := 0
	for processed < maxEvents {
		e, ok := k.queue.dequeue()
		if !ok {
			break
		}

		state := k.table.apply(e.Coord, e.Value)

		// Propagation walks +1 along x, carrying the payload unchanged.
		// The chain terminates at the grid boundary.
		next := Coordinate{X: e.Coord.X + 1, Y: e.Coord.Y, Z: e.Coord.Z}
		propagated := next.X < k.space.Width
		if propagated {
			k.queue.enqueue(next, e.Value)
		}

		k.eventsProcessed++
		t := k.clock.Tick()
		processed++

		if k.observer != nil {
			k.observer.OnEvent(ProcessedEvent{
				Seq:        e.Seq,
				Time:       t,
				Coord:      e.Coord,
				Value:      e.Value,
				StateAfter: state,
				Propagated: propagated,
			})
		}
	}
	return processed
}

// EventsProcessed returns the lifetime count of processed events.
func (k *Kernel) EventsProcessed() uint64 {
	return k.eventsProcessed
}

// CurrentTime returns the current logical time.
func (k *Kernel) CurrentTime() uint64 {
	return k.clock.Current()
}

// ProcessCount returns the number of distinct materialized processes.
func (k *Kernel) ProcessCount() int {
	return k.table.Count()
}

// PendingEvents returns the current queue depth. Diagnostic only.
func (k *Kernel) PendingEvents() int {
	return k.queue.Len()
}

// ProcessState returns the accumulated counter of the process at (x, y, z).
// Coordinates that never received an event (and were never spawned) report
// 0. Returns OutOfBoundsError for invalid coordinates.
func (k *Kernel) ProcessState(x, y, z int) (int64, error) {
	c := Coordinate{X: x, Y: y, Z: z}
	if err := k.space.check(c); err != nil {
		return 0, err
	}
	state, _ := k.table.stateAt(c)
	return state, nil
}

// Telemetry returns a snapshot of the lifetime counters plus the kernel's
// fixed memory footprint. MemoryUsed covers the preallocated table and the
// queue's current backing array; it does not grow with event volume.
func (k *Kernel) Telemetry() Telemetry {
	return Telemetry{
		EventsProcessed: k.eventsProcessed,
		CurrentTime:     k.clock.Current(),
		ProcessCount:    uint64(k.table.Count()),
		MemoryUsed:      k.table.memoryBytes() + uint64(cap(k.queue.events))*uint64(eventSize),
	}
}

// eventSize is the in-memory size of one queued event.
const eventSize = 8 + 3*8 + 8 // seq + coordinate + value
