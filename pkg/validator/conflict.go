// Package validator provides an independent, read-only conflict check over
// a model.Solution. It walks sol.Events directly rather than consulting
// occupancy.Index or pkg/evaluator's bookkeeping, so it can serve as a
// cross-check against the engine's own incremental accounting.
package validator

import (
	"sort"

	"github.com/paiban/horario/pkg/model"
)

// ConflictType classifies a detected conflict.
type ConflictType string

const (
	ConflictTeacherOverlap ConflictType = "teacher_overlap" // same teacher, two events, same slot
	ConflictGroupOverlap   ConflictType = "group_overlap"   // same group, two events, same slot
	ConflictRoomOverlap    ConflictType = "room_overlap"    // same room, two events, same slot
	ConflictForbiddenSlot  ConflictType = "forbidden_slot"  // teacher scheduled on a forbidden slot
	ConflictMaxHours       ConflictType = "max_hours"       // teacher's weekly load exceeds MaxHours
)

// Conflict describes one detected problem with a Solution.
type Conflict struct {
	Type        ConflictType `json:"type"`
	Severity    string       `json:"severity"` // error/warning
	TeacherID   int          `json:"teacher_id,omitempty"`
	GroupID     int          `json:"group_id,omitempty"`
	RoomID      int          `json:"room_id,omitempty"`
	Slot        model.Slot   `json:"slot,omitempty"`
	Message     string       `json:"message"`
	EventIDs    []int        `json:"event_ids,omitempty"`
}

// ConflictDetector walks a Solution's events to find conflicts, independent
// of any occupancy bookkeeping the caller may also maintain.
type ConflictDetector struct{}

// NewConflictDetector constructs a ConflictDetector. It holds no state.
func NewConflictDetector() *ConflictDetector {
	return &ConflictDetector{}
}

// DetectAll runs every check against sol and returns every conflict found,
// hard (overlap) conflicts first, then soft-adjacent ones (forbidden slot,
// max hours).
func (d *ConflictDetector) DetectAll(sol *model.Solution, problem *model.Problem) []Conflict {
	var conflicts []Conflict
	conflicts = append(conflicts, d.detectOverlaps(sol)...)
	conflicts = append(conflicts, d.detectForbiddenSlots(sol, problem)...)
	conflicts = append(conflicts, d.detectMaxHoursViolations(sol, problem)...)
	return conflicts
}

// detectOverlaps groups events by slot and reports, for each slot, any
// teacher/group/room shared by more than one event there.
func (d *ConflictDetector) detectOverlaps(sol *model.Solution) []Conflict {
	var conflicts []Conflict

	bySlot := make(map[model.Slot][]model.Event)
	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		bySlot[e.Slot] = append(bySlot[e.Slot], e)
	}

	slots := make([]model.Slot, 0, len(bySlot))
	for s := range bySlot {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Index() < slots[j].Index() })

	for _, slot := range slots {
		events := bySlot[slot]
		if len(events) < 2 {
			continue
		}
		conflicts = append(conflicts, overlapsAtSlot(slot, events)...)
	}
	return conflicts
}

func overlapsAtSlot(slot model.Slot, events []model.Event) []Conflict {
	var conflicts []Conflict
	byTeacher := make(map[int][]int)
	byGroup := make(map[int][]int)
	byRoom := make(map[int][]int)
	for _, e := range events {
		byTeacher[e.TeacherID] = append(byTeacher[e.TeacherID], e.ID)
		byGroup[e.GroupID] = append(byGroup[e.GroupID], e.ID)
		if e.RoomID >= 0 {
			byRoom[e.RoomID] = append(byRoom[e.RoomID], e.ID)
		}
	}
	for teacherID, ids := range byTeacher {
		if len(ids) > 1 {
			conflicts = append(conflicts, Conflict{
				Type: ConflictTeacherOverlap, Severity: "error",
				TeacherID: teacherID, Slot: slot, EventIDs: ids,
				Message: "teacher double-booked at this slot",
			})
		}
	}
	for groupID, ids := range byGroup {
		if len(ids) > 1 {
			conflicts = append(conflicts, Conflict{
				Type: ConflictGroupOverlap, Severity: "error",
				GroupID: groupID, Slot: slot, EventIDs: ids,
				Message: "group double-booked at this slot",
			})
		}
	}
	for roomID, ids := range byRoom {
		if len(ids) > 1 {
			conflicts = append(conflicts, Conflict{
				Type: ConflictRoomOverlap, Severity: "error",
				RoomID: roomID, Slot: slot, EventIDs: ids,
				Message: "room double-booked at this slot",
			})
		}
	}
	return conflicts
}

// detectForbiddenSlots reports events scheduled on a slot their teacher has
// marked forbidden.
func (d *ConflictDetector) detectForbiddenSlots(sol *model.Solution, problem *model.Problem) []Conflict {
	var conflicts []Conflict
	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		t := problem.Teacher(e.TeacherID)
		if t != nil && t.ForbidsSlot(e.Slot.Index()) {
			conflicts = append(conflicts, Conflict{
				Type: ConflictForbiddenSlot, Severity: "warning",
				TeacherID: e.TeacherID, Slot: e.Slot, EventIDs: []int{e.ID},
				Message: "teacher scheduled on a forbidden slot",
			})
		}
	}
	return conflicts
}

// detectMaxHoursViolations reports teachers whose total assigned event count
// exceeds their declared MaxHours.
func (d *ConflictDetector) detectMaxHoursViolations(sol *model.Solution, problem *model.Problem) []Conflict {
	var conflicts []Conflict
	load := make(map[int]int)
	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		load[e.TeacherID]++
	}
	teacherIDs := make([]int, 0, len(load))
	for id := range load {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Ints(teacherIDs)
	for _, teacherID := range teacherIDs {
		t := problem.Teacher(teacherID)
		if t == nil || t.MaxHours <= 0 {
			continue
		}
		if hours := load[teacherID]; hours > t.MaxHours {
			conflicts = append(conflicts, Conflict{
				Type: ConflictMaxHours, Severity: "warning",
				TeacherID: teacherID,
				Message:   "teacher's weekly load exceeds max_hours",
			})
		}
	}
	return conflicts
}
