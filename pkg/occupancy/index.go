// Package occupancy provides the dense O(1) conflict-lookup index the
// tabu-search engine consults on every candidate move. It is a pure
// performance aid: it holds no state that cannot be recomputed from a
// model.Solution, and it is never observed outside the engine.
package occupancy

import "github.com/paiban/horario/pkg/model"

// Index is a triple of dense per-(slot,resource) occupancy counts plus
// per-slot aggregate counts, sized once at construction and reused across
// every iteration of a search.
type Index struct {
	numTeachers int
	numGroups   int
	numRooms    int

	teacherCount []int // [slot*numTeachers + teacherID] events using this teacher at this slot
	groupCount   []int // [slot*numGroups + groupID]
	roomCount    []int // [slot*numRooms + roomID], only for roomID >= 0

	slotEvents         []int // total events scheduled at slot (every event has a teacher and a group)
	slotRoomEvents      []int // events at slot with a non-negative room id
	slotDistinctTeacher []int // distinct teachers occupying slot
	slotDistinctGroup   []int // distinct groups occupying slot
	slotDistinctRoom    []int // distinct non-negative rooms occupying slot
}

// NewIndex allocates an Index sized for the given Problem. The arrays are
// allocated once; Rebuild/Apply never reallocate them.
func NewIndex(p *model.Problem) *Index {
	idx := &Index{
		numTeachers: max1(p.NumTeachers()),
		numGroups:   max1(p.NumGroups()),
		numRooms:    max1(p.NumRooms()),
	}
	idx.teacherCount = make([]int, model.NumSlots*idx.numTeachers)
	idx.groupCount = make([]int, model.NumSlots*idx.numGroups)
	idx.roomCount = make([]int, model.NumSlots*idx.numRooms)
	idx.slotEvents = make([]int, model.NumSlots)
	idx.slotRoomEvents = make([]int, model.NumSlots)
	idx.slotDistinctTeacher = make([]int, model.NumSlots)
	idx.slotDistinctGroup = make([]int, model.NumSlots)
	idx.slotDistinctRoom = make([]int, model.NumSlots)
	return idx
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Rebuild clears and repopulates the index from scratch in O(E). Reuses the
// existing backing arrays; never reallocates.
func (idx *Index) Rebuild(sol *model.Solution) {
	zero(idx.teacherCount)
	zero(idx.groupCount)
	zero(idx.roomCount)
	zero(idx.slotEvents)
	zero(idx.slotRoomEvents)
	zero(idx.slotDistinctTeacher)
	zero(idx.slotDistinctGroup)
	zero(idx.slotDistinctRoom)
	for _, e := range sol.Events {
		idx.add(e)
	}
}

func zero(s []int) {
	for i := range s {
		s[i] = 0
	}
}

func (idx *Index) add(e model.Event) {
	if e.Slot.IsUnassigned() {
		return
	}
	slot := e.Slot.Index()
	idx.slotEvents[slot]++

	if e.TeacherID >= 0 && e.TeacherID < idx.numTeachers {
		pos := slot*idx.numTeachers + e.TeacherID
		if idx.teacherCount[pos] == 0 {
			idx.slotDistinctTeacher[slot]++
		}
		idx.teacherCount[pos]++
	}
	if e.GroupID >= 0 && e.GroupID < idx.numGroups {
		pos := slot*idx.numGroups + e.GroupID
		if idx.groupCount[pos] == 0 {
			idx.slotDistinctGroup[slot]++
		}
		idx.groupCount[pos]++
	}
	if e.RoomID >= 0 && e.RoomID < idx.numRooms {
		idx.slotRoomEvents[slot]++
		pos := slot*idx.numRooms + e.RoomID
		if idx.roomCount[pos] == 0 {
			idx.slotDistinctRoom[slot]++
		}
		idx.roomCount[pos]++
	}
}

func (idx *Index) remove(e model.Event) {
	if e.Slot.IsUnassigned() {
		return
	}
	slot := e.Slot.Index()
	idx.slotEvents[slot]--

	if e.TeacherID >= 0 && e.TeacherID < idx.numTeachers {
		pos := slot*idx.numTeachers + e.TeacherID
		idx.teacherCount[pos]--
		if idx.teacherCount[pos] == 0 {
			idx.slotDistinctTeacher[slot]--
		}
	}
	if e.GroupID >= 0 && e.GroupID < idx.numGroups {
		pos := slot*idx.numGroups + e.GroupID
		idx.groupCount[pos]--
		if idx.groupCount[pos] == 0 {
			idx.slotDistinctGroup[slot]--
		}
	}
	if e.RoomID >= 0 && e.RoomID < idx.numRooms {
		idx.slotRoomEvents[slot]--
		pos := slot*idx.numRooms + e.RoomID
		idx.roomCount[pos]--
		if idx.roomCount[pos] == 0 {
			idx.slotDistinctRoom[slot]--
		}
	}
}

// TryMove reports whether the teacher and group are both free at newSlot
// for this event, ignoring the event's own current occupation.
func (idx *Index) TryMove(e model.Event, newSlot model.Slot) bool {
	if !newSlot.Valid() {
		return false
	}
	if newSlot == e.Slot {
		return true
	}
	return idx.TeacherFree(newSlot, e.TeacherID) && idx.GroupFree(newSlot, e.GroupID)
}

// TeacherFree reports whether teacherID is unoccupied at slot.
func (idx *Index) TeacherFree(slot model.Slot, teacherID int) bool {
	if teacherID < 0 || teacherID >= idx.numTeachers {
		return true
	}
	return idx.teacherCount[slot.Index()*idx.numTeachers+teacherID] == 0
}

// GroupFree reports whether groupID is unoccupied at slot.
func (idx *Index) GroupFree(slot model.Slot, groupID int) bool {
	if groupID < 0 || groupID >= idx.numGroups {
		return true
	}
	return idx.groupCount[slot.Index()*idx.numGroups+groupID] == 0
}

// RoomFree reports whether roomID is unoccupied at slot. A negative roomID
// (unassigned room) is always considered free.
func (idx *Index) RoomFree(slot model.Slot, roomID int) bool {
	if roomID < 0 || roomID >= idx.numRooms {
		return true
	}
	return idx.roomCount[slot.Index()*idx.numRooms+roomID] == 0
}

// Apply clears the three busy counts at the event's old slot and sets them
// at the new slot, returning the event with its slot updated.
func (idx *Index) Apply(e model.Event, newSlot model.Slot) model.Event {
	if !e.Slot.IsUnassigned() {
		idx.remove(e)
	}
	e.Slot = newSlot
	if !newSlot.IsUnassigned() {
		idx.add(e)
	}
	return e
}

// SlotEvents returns the total number of events scheduled at slot.
func (idx *Index) SlotEvents(slot model.Slot) int { return idx.slotEvents[slot.Index()] }

// SlotRoomEvents returns the number of events at slot with a non-negative room id.
func (idx *Index) SlotRoomEvents(slot model.Slot) int { return idx.slotRoomEvents[slot.Index()] }

// SlotDistinctTeachers returns the number of distinct teachers occupying slot.
func (idx *Index) SlotDistinctTeachers(slot model.Slot) int {
	return idx.slotDistinctTeacher[slot.Index()]
}

// SlotDistinctGroups returns the number of distinct groups occupying slot.
func (idx *Index) SlotDistinctGroups(slot model.Slot) int {
	return idx.slotDistinctGroup[slot.Index()]
}

// SlotDistinctRooms returns the number of distinct non-negative rooms occupying slot.
func (idx *Index) SlotDistinctRooms(slot model.Slot) int {
	return idx.slotDistinctRoom[slot.Index()]
}

// TeacherCountAt returns the raw number of events using teacherID at slot,
// counting multiplicity (unlike TeacherFree, which only reports zero/nonzero).
// Used by pkg/evaluator to compute incremental hard-conflict deltas.
func (idx *Index) TeacherCountAt(slot model.Slot, teacherID int) int {
	if teacherID < 0 || teacherID >= idx.numTeachers {
		return 0
	}
	return idx.teacherCount[slot.Index()*idx.numTeachers+teacherID]
}

// GroupCountAt returns the raw number of events using groupID at slot.
func (idx *Index) GroupCountAt(slot model.Slot, groupID int) int {
	if groupID < 0 || groupID >= idx.numGroups {
		return 0
	}
	return idx.groupCount[slot.Index()*idx.numGroups+groupID]
}

// RoomCountAt returns the raw number of events using roomID at slot. A
// negative roomID always reports zero.
func (idx *Index) RoomCountAt(slot model.Slot, roomID int) int {
	if roomID < 0 || roomID >= idx.numRooms {
		return 0
	}
	return idx.roomCount[slot.Index()*idx.numRooms+roomID]
}
