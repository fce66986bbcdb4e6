package model

import "testing"

func TestTeacherForbidsSlot(t *testing.T) {
	teacher := &Teacher{ID: 0, MaxHours: 20, ForbiddenSlots: []int{5, 12}}
	if !teacher.ForbidsSlot(5) {
		t.Error("expected slot 5 to be forbidden")
	}
	if teacher.ForbidsSlot(6) {
		t.Error("expected slot 6 to be allowed")
	}
	if teacher.MaxDailyLoad() != 4 {
		t.Errorf("MaxDailyLoad() = %d, want 4 (ceil(20/5))", teacher.MaxDailyLoad())
	}
}

func TestGroupShiftWindow(t *testing.T) {
	morning := Group{ID: 0, MorningShift: true}
	if morning.ShiftWindowStart() != 0 || morning.ShiftWindowEnd() != MorningWindowEnd {
		t.Errorf("morning window = [%d,%d], want [0,%d]", morning.ShiftWindowStart(), morning.ShiftWindowEnd(), MorningWindowEnd)
	}
	evening := Group{ID: 1, MorningShift: false}
	if evening.ShiftWindowStart() != MorningWindowEnd || evening.ShiftWindowEnd() != NumPeriods-1 {
		t.Errorf("evening window = [%d,%d], want [%d,%d]", evening.ShiftWindowStart(), evening.ShiftWindowEnd(), MorningWindowEnd, NumPeriods-1)
	}
	if !morning.InShiftWindow(0) || morning.InShiftWindow(13) {
		t.Error("morning group InShiftWindow boundary mismatch")
	}
}

func TestAssignmentTeacherFor(t *testing.T) {
	a := Assignment{
		0: {0: 2, 1: 3},
	}
	if teacherID, ok := a.TeacherFor(0, 0); !ok || teacherID != 2 {
		t.Errorf("TeacherFor(0,0) = (%d,%v), want (2,true)", teacherID, ok)
	}
	if _, ok := a.TeacherFor(0, 99); ok {
		t.Error("TeacherFor(0,99) should not be found")
	}
	if _, ok := a.TeacherFor(99, 0); ok {
		t.Error("TeacherFor(99,0) should not be found")
	}
}
