package tabu

import "github.com/paiban/horario/pkg/model"

// Attr is a tabu memory attribute: an event together with the slot it
// moved away from in an accepted move. A candidate relocation targeting an
// event's recently-vacated slot is tabu (it would undo recent progress).
type Attr struct {
	EventID int
	Slot    model.Slot
}

// tabuFIFO is a fixed-capacity ring buffer of the last accepted moves'
// attributes, with O(1) membership testing. Allocated once in InitProblem
// and never resized.
type tabuFIFO struct {
	ring  []Attr
	count map[Attr]int
	head  int
	size  int
}

func newTabuFIFO(capacity int) *tabuFIFO {
	if capacity < 1 {
		capacity = 1
	}
	return &tabuFIFO{
		ring:  make([]Attr, capacity),
		count: make(map[Attr]int, capacity*2),
	}
}

// Add records attr, evicting the oldest entry once at capacity.
func (f *tabuFIFO) Add(attr Attr) {
	if f.size == len(f.ring) {
		old := f.ring[f.head]
		f.count[old]--
		if f.count[old] <= 0 {
			delete(f.count, old)
		}
	} else {
		f.size++
	}
	f.ring[f.head] = attr
	f.count[attr]++
	f.head = (f.head + 1) % len(f.ring)
}

// Contains reports whether attr is currently tabu.
func (f *tabuFIFO) Contains(attr Attr) bool {
	return f.count[attr] > 0
}
