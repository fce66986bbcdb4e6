package swap

import (
	"testing"

	"github.com/paiban/horario/pkg/evaluator"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

func testSetup() (*model.Problem, *model.Solution, *occupancy.Index, evaluator.Result) {
	p := model.NewProblem(
		[]model.Teacher{{ID: 0, MaxHours: 20}, {ID: 1, MaxHours: 20}},
		[]model.Subject{{ID: 0, WeeklyHours: 1}},
		[]model.Group{{ID: 0}, {ID: 1}},
		[]model.Room{{ID: 0, Capacity: 10}, {ID: 1, Capacity: 10}},
		model.Assignment{0: {0: 0}, 1: {0: 1}},
	)
	sol := &model.Solution{Events: []model.Event{
		{ID: 0, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: 0, Slot: model.Slot{Day: 0, Period: 0}},
		{ID: 1, SubjectID: 0, TeacherID: 1, GroupID: 1, RoomID: 1, Slot: model.Slot{Day: 1, Period: 0}},
	}}
	idx := occupancy.NewIndex(p)
	idx.Rebuild(sol)
	current := evaluator.Evaluate(sol, p, idx)
	return p, sol, idx, current
}

func TestEvaluateRelocationToFreeSlotIsFeasible(t *testing.T) {
	p, sol, idx, current := testSetup()
	ev := NewEvaluator()
	req := Request{EventID: 0, TargetSlot: model.Slot{Day: 2, Period: 0}}
	result := ev.Evaluate(sol, p, idx, current, req)
	if !result.Feasible {
		t.Fatalf("expected feasible, got issues: %+v", result.Issues)
	}
	if result.Impact.DeltaHard != 0 {
		t.Errorf("DeltaHard = %d, want 0", result.Impact.DeltaHard)
	}
}

func TestEvaluateRelocationIntoTeacherConflictIsInfeasible(t *testing.T) {
	p, sol, idx, current := testSetup()
	ev := NewEvaluator()
	// Event 0 (teacher 0) relocating onto event... need same teacher collision:
	// relocate event 0 to slot where another event of teacher 0 exists — there
	// is none, so instead relocate event 1 (teacher 1) onto event 0's slot,
	// which only conflicts if teachers match; use a third event sharing
	// teacher 0 with event 0 to force a genuine conflict.
	sol.Events = append(sol.Events, model.Event{ID: 2, SubjectID: 0, TeacherID: 0, GroupID: 0, RoomID: -1, Slot: model.Slot{Day: 3, Period: 0}})
	idx.Apply(model.Event{ID: 2, TeacherID: 0, GroupID: 0, RoomID: -1, Slot: model.Unassigned}, model.Slot{Day: 3, Period: 0})

	req := Request{EventID: 2, TargetSlot: sol.Events[0].Slot}
	result := ev.Evaluate(sol, p, idx, current, req)
	if result.Feasible {
		t.Fatal("expected infeasible due to teacher/group double-booking")
	}
}

func TestRecommendRelocationsRanksFeasibleSlots(t *testing.T) {
	p, sol, idx, current := testSetup()
	r := NewRecommender()
	recs := r.RecommendRelocations(sol, p, idx, current, 0, DefaultOptions())
	if len(recs) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Errorf("recommendations not sorted by descending score: %+v", recs)
		}
	}
}
