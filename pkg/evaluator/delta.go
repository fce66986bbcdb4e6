package evaluator

import (
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

// MoveKind distinguishes the two neighborhood move types the tabu engine
// generates.
type MoveKind int

const (
	// Relocate moves a single event to a new slot.
	Relocate MoveKind = iota
	// SwapSlots exchanges the slots of two events.
	SwapSlots
)

// Move describes a candidate neighborhood move. For Relocate, EventID and
// NewSlot are set. For SwapSlots, EventID and EventID2 are set and each
// event takes on the other's current slot.
type Move struct {
	Kind     MoveKind
	EventID  int
	NewSlot  model.Slot
	EventID2 int
}

// Change is the incremental effect of applying a Move, expressed as signed
// deltas on the two objective components. Evaluate(apply(sol, move)) ==
// Result{HardConflicts: before.HardConflicts + Change.DeltaHard, ...}.
type Change struct {
	DeltaHard int
	DeltaSoft float64
}

// Delta computes the change in objective a Move would cause, without
// mutating sol or idx. idx must reflect sol's current (pre-move) state.
func Delta(sol *model.Solution, problem *model.Problem, idx *occupancy.Index, move Move) Change {
	switch move.Kind {
	case SwapSlots:
		return deltaSwap(sol, problem, idx, move.EventID, move.EventID2)
	default:
		return deltaRelocate(sol, problem, idx, move.EventID, move.NewSlot)
	}
}

func deltaRelocate(sol *model.Solution, problem *model.Problem, idx *occupancy.Index, eventID int, newSlot model.Slot) Change {
	e := sol.Events[eventID]
	oldSlot := e.Slot
	if oldSlot == newSlot {
		return Change{}
	}

	hard := hardDeltaOne(idx, oldSlot, newSlot, e.TeacherID, idx.TeacherCountAt, false)
	hard += hardDeltaOne(idx, oldSlot, newSlot, e.GroupID, idx.GroupCountAt, false)
	hard += hardDeltaOne(idx, oldSlot, newSlot, e.RoomID, idx.RoomCountAt, true)

	movedBefore := model.Event{ID: e.ID, TeacherID: e.TeacherID, Slot: oldSlot}
	movedAfter := model.Event{ID: e.ID, TeacherID: e.TeacherID, Slot: newSlot}
	soft := eventSoftTerm(movedAfter, problem) - eventSoftTerm(movedBefore, problem)

	overrides := []slotOverride{{eventID: e.ID, slot: newSlot}}
	days := uniqueDays(oldSlot.Day, newSlot.Day)
	for _, d := range days {
		soft += groupDaySoftTermWithOverride(sol, e.GroupID, d, overrides) - groupDaySoftTerm(sol, e.GroupID, d)
		soft += teacherDaySoftTermWithOverride(sol, problem, e.TeacherID, d, overrides) - teacherDaySoftTerm(sol, problem, e.TeacherID, d)
	}

	return Change{DeltaHard: hard, DeltaSoft: soft}
}

func deltaSwap(sol *model.Solution, problem *model.Problem, idx *occupancy.Index, id1, id2 int) Change {
	e1 := sol.Events[id1]
	e2 := sol.Events[id2]
	s1, s2 := e1.Slot, e2.Slot
	if s1 == s2 {
		return Change{}
	}

	hard := swapHardDeltaOne(idx, s1, s2, e1.TeacherID, e2.TeacherID, idx.TeacherCountAt, false)
	hard += swapHardDeltaOne(idx, s1, s2, e1.GroupID, e2.GroupID, idx.GroupCountAt, false)
	hard += swapHardDeltaOne(idx, s1, s2, e1.RoomID, e2.RoomID, idx.RoomCountAt, true)

	before1 := model.Event{ID: e1.ID, TeacherID: e1.TeacherID, Slot: s1}
	after1 := model.Event{ID: e1.ID, TeacherID: e1.TeacherID, Slot: s2}
	before2 := model.Event{ID: e2.ID, TeacherID: e2.TeacherID, Slot: s2}
	after2 := model.Event{ID: e2.ID, TeacherID: e2.TeacherID, Slot: s1}
	soft := eventSoftTerm(after1, problem) - eventSoftTerm(before1, problem)
	soft += eventSoftTerm(after2, problem) - eventSoftTerm(before2, problem)

	overrides := []slotOverride{{eventID: e1.ID, slot: s2}, {eventID: e2.ID, slot: s1}}

	for _, gd := range uniqueGroupDays(e1.GroupID, s1.Day, s2.Day, e2.GroupID, s1.Day, s2.Day) {
		soft += groupDaySoftTermWithOverride(sol, gd.id, gd.day, overrides) - groupDaySoftTerm(sol, gd.id, gd.day)
	}
	for _, td := range uniqueGroupDays(e1.TeacherID, s1.Day, s2.Day, e2.TeacherID, s1.Day, s2.Day) {
		soft += teacherDaySoftTermWithOverride(sol, problem, td.id, td.day, overrides) - teacherDaySoftTerm(sol, problem, td.id, td.day)
	}

	return Change{DeltaHard: hard, DeltaSoft: soft}
}

func uniqueDays(a, b int) []int {
	if a == b {
		return []int{a}
	}
	return []int{a, b}
}

type idDay struct {
	id  int
	day int
}

// uniqueGroupDays collects the (id, day) pairs affected on either side of a
// swap between two events, deduplicating when the two events share an id or
// a day.
func uniqueGroupDays(id1, day1a, day1b, id2, day2a, day2b int) []idDay {
	candidates := []idDay{{id1, day1a}, {id1, day1b}, {id2, day2a}, {id2, day2b}}
	var out []idDay
	for _, c := range candidates {
		dup := false
		for _, o := range out {
			if o == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// hardDeltaOne computes the change in (slot total - slot distinct) for one
// resource dimension when a single event relocates from oldSlot to newSlot.
// countAt must report the occupancy count BEFORE the move (idx is untouched).
func hardDeltaOne(idx *occupancy.Index, oldSlot, newSlot model.Slot, resourceID int, countAt func(model.Slot, int) int, skipNegative bool) int {
	if skipNegative && resourceID < 0 {
		return 0
	}
	delta := 0
	if c := countAt(oldSlot, resourceID); c != 1 {
		delta--
	}
	if c := countAt(newSlot, resourceID); c != 0 {
		delta++
	}
	return delta
}

// swapHardDeltaOne is the two-event analogue of hardDeltaOne: event with
// resourceID1 moves s1->s2 while event with resourceID2 moves s2->s1,
// simultaneously. It accounts for the case where resourceID1 == resourceID2
// (the two swapped events share a teacher, group, or room).
func swapHardDeltaOne(idx *occupancy.Index, s1, s2 model.Slot, resourceID1, resourceID2 int, countAt func(model.Slot, int) int, skipNegative bool) int {
	delta := 0
	skip1 := skipNegative && resourceID1 < 0
	skip2 := skipNegative && resourceID2 < 0

	if !skip1 {
		if c := countAt(s1, resourceID1); c != 1 {
			delta--
		}
	}
	if !skip2 {
		if c := countAt(s2, resourceID2); c != 1 {
			delta--
		}
	}

	if !skip1 {
		c := countAt(s2, resourceID1)
		if resourceID1 == resourceID2 {
			c--
		}
		if c != 0 {
			delta++
		}
	}
	if !skip2 {
		c := countAt(s1, resourceID2)
		if resourceID2 == resourceID1 {
			c--
		}
		if c != 0 {
			delta++
		}
	}
	return delta
}
