package occupancy

import (
	"testing"

	"github.com/paiban/horario/pkg/model"
)

func testProblem() *model.Problem {
	teachers := []model.Teacher{{ID: 0}, {ID: 1}}
	groups := []model.Group{{ID: 0}, {ID: 1}}
	rooms := []model.Room{{ID: 0}}
	subjects := []model.Subject{{ID: 0, WeeklyHours: 1}}
	return model.NewProblem(teachers, subjects, groups, rooms, model.Assignment{})
}

func TestRebuildDetectsConflict(t *testing.T) {
	p := testProblem()
	idx := NewIndex(p)
	slot := model.Slot{Day: 0, Period: 0}
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: slot},
		{ID: 1, TeacherID: 0, GroupID: 1, RoomID: -1, Slot: slot},
	}}
	idx.Rebuild(sol)

	if got := idx.SlotEvents(slot); got != 2 {
		t.Errorf("SlotEvents = %d, want 2", got)
	}
	if got := idx.SlotDistinctTeachers(slot); got != 1 {
		t.Errorf("SlotDistinctTeachers = %d, want 1 (both events share teacher 0)", got)
	}
	if got := idx.SlotDistinctGroups(slot); got != 2 {
		t.Errorf("SlotDistinctGroups = %d, want 2", got)
	}
	if got := idx.SlotRoomEvents(slot); got != 1 {
		t.Errorf("SlotRoomEvents = %d, want 1 (one event has no room)", got)
	}
}

func TestTryMoveAndApply(t *testing.T) {
	p := testProblem()
	idx := NewIndex(p)
	s1 := model.Slot{Day: 0, Period: 0}
	s2 := model.Slot{Day: 0, Period: 1}
	e := model.Event{ID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: s1}
	sol := &model.Solution{Events: []model.Event{e}}
	idx.Rebuild(sol)

	if !idx.TryMove(e, s2) {
		t.Error("TryMove to empty slot should succeed")
	}

	e2 := model.Event{ID: 1, TeacherID: 0, GroupID: 1, RoomID: -1, Slot: s2}
	sol.Events = append(sol.Events, e2)
	idx.Rebuild(sol)
	if idx.TryMove(e2, s1) {
		t.Error("TryMove into a slot where the same teacher is busy should fail")
	}

	moved := idx.Apply(e, s2)
	if moved.Slot != s2 {
		t.Errorf("Apply returned slot %+v, want %+v", moved.Slot, s2)
	}
	if !idx.TeacherFree(s1, e.TeacherID) {
		t.Error("old slot should be free for teacher after Apply")
	}
	if idx.TeacherFree(s2, e.TeacherID) {
		t.Error("new slot should be busy for teacher after Apply")
	}
}

func TestRoomFreeIgnoresNegativeRoom(t *testing.T) {
	p := testProblem()
	idx := NewIndex(p)
	slot := model.Slot{Day: 0, Period: 0}
	if !idx.RoomFree(slot, -1) {
		t.Error("RoomFree(-1) should always report free (unassigned room residue)")
	}
}
