package validator

import (
	"testing"

	"github.com/paiban/horario/pkg/model"
)

func TestDetectAllFindsTeacherOverlap(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 1}, {ID: 1, WeeklyHours: 1}},
		[]model.Group{{ID: 0}, {ID: 1}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}, 1: {1: 0}},
	)
	slot := model.Slot{Day: 0, Period: 0}
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: slot},
		{ID: 1, SubjectID: 1, TeacherID: 0, GroupID: 1, RoomID: 0, Slot: slot},
	}}

	conflicts := NewConflictDetector().DetectAll(sol, p)
	var sawTeacher, sawRoom bool
	for _, c := range conflicts {
		if c.Type == ConflictTeacherOverlap {
			sawTeacher = true
		}
		if c.Type == ConflictRoomOverlap {
			sawRoom = true
		}
	}
	if !sawTeacher {
		t.Error("expected a teacher overlap conflict")
	}
	if !sawRoom {
		t.Error("expected a room overlap conflict")
	}
}

func TestDetectAllCleanSolutionHasNoOverlaps(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20}, {ID: 1, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 1}},
		[]model.Group{{ID: 0}, {ID: 1}},
		[]model.Room{{ID: 0, Capacity: 10}, {ID: 1, Capacity: 10}},
		model.Assignment{0: {0: 0}, 1: {0: 1}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 1, GroupID: 1, RoomID: 1, Slot: model.Slot{Day: 0, Period: 0}},
	}}

	conflicts := NewConflictDetector().DetectAll(sol, p)
	for _, c := range conflicts {
		if c.Type == ConflictTeacherOverlap || c.Type == ConflictGroupOverlap || c.Type == ConflictRoomOverlap {
			t.Errorf("unexpected overlap conflict: %+v", c)
		}
	}
}

func TestDetectForbiddenSlot(t *testing.T) {
	forbidden := model.Slot{Day: 1, Period: 3}.Index()
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20, ForbiddenSlots: []int{forbidden}}},
		[]model.Subject{{ID: 0, WeeklyHours: 1}},
		[]model.Group{{ID: 0}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 1, Period: 3}},
	}}

	conflicts := NewConflictDetector().DetectAll(sol, p)
	found := false
	for _, c := range conflicts {
		if c.Type == ConflictForbiddenSlot {
			found = true
		}
	}
	if !found {
		t.Error("expected a forbidden-slot conflict")
	}
}

func TestDetectMaxHoursViolation(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 1}},
		[]model.Subject{{ID: 0, WeeklyHours: 2}},
		[]model.Group{{ID: 0}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 1, Period: 0}},
	}}

	conflicts := NewConflictDetector().DetectAll(sol, p)
	found := false
	for _, c := range conflicts {
		if c.Type == ConflictMaxHours {
			found = true
		}
	}
	if !found {
		t.Error("expected a max_hours conflict")
	}
}
