package auditor

import (
	"testing"

	"github.com/paiban/horario/pkg/model"
)

func TestBuildLoadReportFlagsOverMaxHours(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 1}, {ID: 1, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 2}},
		[]model.Group{{ID: 0}, {ID: 1}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}, 1: {0: 1}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 1, Period: 0}},
		{ID: 2, SubjectID: 0, TeacherID: 1, GroupID: 1, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
	}}

	report := BuildLoadReport(p, sol)
	if len(report.Teachers) != 2 {
		t.Fatalf("expected 2 teachers, got %d", len(report.Teachers))
	}
	var t0 TeacherLoad
	for _, tl := range report.Teachers {
		if tl.TeacherID == 0 {
			t0 = tl
		}
	}
	if !t0.OverMaxHours {
		t.Error("expected teacher 0 to be flagged over max hours")
	}
	if report.WorkloadGini < 0 || report.WorkloadGini > 1 {
		t.Errorf("WorkloadGini out of range: %f", report.WorkloadGini)
	}
}

func TestBuildLoadReportEvenSplitHasZeroGini(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20}, {ID: 1, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 1}},
		[]model.Group{{ID: 0}, {ID: 1}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}, 1: {0: 1}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 1, GroupID: 1, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
	}}
	report := BuildLoadReport(p, sol)
	if report.WorkloadGini != 0 {
		t.Errorf("expected gini 0 for an even split, got %f", report.WorkloadGini)
	}
}

func TestBuildIdleReportFindsGapBetweenClasses(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 2}},
		[]model.Group{{ID: 0, MorningShift: true}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 3}},
	}}

	report := BuildIdleReport(p, sol)
	if len(report.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(report.Groups))
	}
	gi := report.Groups[0]
	if gi.TotalIdleSlots != 2 {
		t.Errorf("TotalIdleSlots = %d, want 2 (periods 1,2 idle between 0 and 3)", gi.TotalIdleSlots)
	}
	if gi.WorstDay != 0 || gi.WorstDayGap != 2 {
		t.Errorf("worst day/gap = %d/%d, want 0/2", gi.WorstDay, gi.WorstDayGap)
	}
}

func TestBuildIdleReportBackToBackClassesHaveNoGap(t *testing.T) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 2}},
		[]model.Group{{ID: 0, MorningShift: true}},
		[]model.Room{{ID: 0, Capacity: 10}},
		model.Assignment{0: {0: 0}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 1}},
	}}

	report := BuildIdleReport(p, sol)
	if report.Groups[0].TotalIdleSlots != 0 {
		t.Errorf("expected no idle slots for back-to-back classes, got %d", report.Groups[0].TotalIdleSlots)
	}
}
