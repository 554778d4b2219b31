package kernel

// Event is one unit of pending work: a target coordinate, a payload, and
// the sequence number assigned at enqueue time. Immutable once created.
type Event struct {
	Seq   uint64
	Coord Coordinate
	Value int64
}

// eventQueue is a strict FIFO queue of pending events.
//
// Unbounded in principle but transient: propagation-created events append
// to the tail and the Run loop drains from the head, so steady-state depth
// tracks the in-flight wavefront, not lifetime event volume.
//
// The kernel is single-threaded, so the queue carries no locking. It does
// keep the memory hygiene a long-lived slice queue needs: dequeued slots
// are zeroed and the slice resets to its base when drained, so the backing
// array never retains stale events and head-reslicing cannot leak the
// front of the array across a long run.
type eventQueue struct {
	events  []Event
	nextSeq uint64
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 64), // Pre-allocate for typical workloads
	}
}

// enqueue appends an event for coord with the next sequence number and
// returns it. Coordinate validity is the caller's responsibility.
func (q *eventQueue) enqueue(coord Coordinate, value int64) Event {
	q.nextSeq++
	e := Event{Seq: q.nextSeq, Coord: coord, Value: value}
	q.events = append(q.events, e)
	return e
}

// dequeue removes and returns the head event.
// Returns (Event{}, false) if the queue is empty. Never blocks.
func (q *eventQueue) dequeue() (Event, bool) {
	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	q.events[0] = Event{}

	if len(q.events) == 1 {
		// Last element - reset to empty slice with original capacity
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Len returns the current pending count. Diagnostic only.
func (q *eventQueue) Len() int {
	return len(q.events)
}
