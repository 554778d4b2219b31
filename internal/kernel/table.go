package kernel

// processTable is the fixed-capacity directory of per-coordinate process
// state, indexed by flattened coordinate.
//
// It is sized once at construction to width*height*depth slots and never
// reallocates. This dense layout - rather than a map keyed by coordinate -
// is what gives the kernel its O(1) memory growth relative to event count:
// processing a billion events touches the same preallocated slots as
// processing ten.
//
// A slot is "materialized" once a process exists there, either via an
// explicit spawn or lazily when an event first targets the coordinate.
// Processes are never destroyed.
type processTable struct {
	space  Space
	states []int64
	active []bool
	count  int
}

func newProcessTable(space Space) *processTable {
	return &processTable{
		space:  space,
		states: make([]int64, space.Size()),
		active: make([]bool, space.Size()),
	}
}

// ensure registers a process at c if not already present.
// Idempotent: a second call on the same coordinate is a no-op and does not
// reset the accumulated counter. Returns true if a new process was
// materialized.
//
// Coordinate validity is the caller's responsibility.
func (t *processTable) ensure(c Coordinate) bool {
	idx := t.space.Flatten(c)
	if t.active[idx] {
		return false
	}
	t.active[idx] = true
	t.count++
	return true
}

// apply adds value to the accumulated counter at c, materializing the
// process on first access. Events may target coordinates that were never
// explicitly spawned. Returns the counter value after the update.
func (t *processTable) apply(c Coordinate, value int64) int64 {
	idx := t.space.Flatten(c)
	if !t.active[idx] {
		t.active[idx] = true
		t.count++
	}
	t.states[idx] += value
	return t.states[idx]
}

// stateAt returns the accumulated counter at c and whether a process has
// been materialized there. Unmaterialized slots report 0.
func (t *processTable) stateAt(c Coordinate) (int64, bool) {
	idx := t.space.Flatten(c)
	return t.states[idx], t.active[idx]
}

// Count returns the number of distinct materialized processes.
func (t *processTable) Count() int {
	return t.count
}

// memoryBytes reports the table's fixed footprint. Diagnostic only.
func (t *processTable) memoryBytes() uint64 {
	return uint64(len(t.states))*8 + uint64(len(t.active))
}
