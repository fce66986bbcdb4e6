package tabu

import (
	"context"
	"testing"

	"github.com/paiban/horario/pkg/model"
)

func conflictedProblem() *model.Problem {
	// Two groups sharing one teacher, who has 71 weekly events for 70 grid
	// slots: the builder's absolute fallback creates a starting conflict,
	// and at least one teacher conflict remains in every Solution.
	teachers := []model.Teacher{{ID: 0, MaxHours: 999}}
	subjects := []model.Subject{
		{ID: 0, WeeklyHours: model.NumSlots},
		{ID: 1, WeeklyHours: 1},
	}
	groups := []model.Group{
		{ID: 0, MorningShift: true, Size: 1},
		{ID: 1, MorningShift: true, Size: 1},
	}
	rooms := []model.Room{{ID: 0, Capacity: 10}}
	assignment := model.Assignment{0: {0: 0}, 1: {1: 0}}
	return model.NewProblem(teachers, subjects, groups, rooms, assignment)
}

func easyProblem() *model.Problem {
	teachers := []model.Teacher{{ID: 0, MaxHours: 20}, {ID: 1, MaxHours: 20}}
	subjects := []model.Subject{{ID: 0, WeeklyHours: 3}, {ID: 1, WeeklyHours: 2}}
	groups := []model.Group{{ID: 0, MorningShift: true, Size: 10}, {ID: 1, MorningShift: false, Size: 10}}
	rooms := []model.Room{{ID: 0, Capacity: 40}, {ID: 1, Capacity: 40}}
	assignment := model.Assignment{0: {0: 0}, 1: {1: 1}}
	return model.NewProblem(teachers, subjects, groups, rooms, assignment)
}

func TestEngineLifecycle(t *testing.T) {
	e := NewEngine(Config{MaxIter: 10}, nil)
	if e.State() != Created {
		t.Fatalf("new engine state = %v, want CREATED", e.State())
	}
	if err := e.InitProblem(easyProblem()); err != nil {
		t.Fatalf("InitProblem: %v", err)
	}
	if e.State() != Initialized {
		t.Fatalf("state after InitProblem = %v, want INITIALIZED", e.State())
	}
	if err := e.InitProblem(easyProblem()); err == nil {
		t.Error("second InitProblem call should be rejected (not in state CREATED)")
	}

	_, _, err := e.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	switch e.State() {
	case FinishedOptimal, FinishedBounded, FinishedStagnated:
	default:
		t.Errorf("state after Optimize = %v, want a FINISHED_* state", e.State())
	}

	e.Close()
	if e.State() != Closed {
		t.Errorf("state after Close = %v, want CLOSED", e.State())
	}
}

func TestOptimizeRejectedBeforeInit(t *testing.T) {
	e := NewEngine(Config{MaxIter: 10}, nil)
	_, _, err := e.Optimize(context.Background())
	if err == nil {
		t.Error("expected error calling Optimize before InitProblem")
	}
}

func TestEngineNeverWorsensInitialHardConflicts(t *testing.T) {
	e := NewEngine(Config{MaxIter: 500, TabuSize: 10, Mejoras: 100}, nil)
	p := conflictedProblem()
	if err := e.InitProblem(p); err != nil {
		t.Fatalf("InitProblem: %v", err)
	}
	initialHard := e.current.HardConflicts
	if initialHard == 0 {
		t.Fatal("test fixture should start with at least one hard conflict")
	}

	best, res, err := e.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.HardConflicts > initialHard {
		t.Errorf("HardConflicts = %d, should never exceed the initial %d (best-known is monotonic)", res.HardConflicts, initialHard)
	}
	if len(best.Events) != p.EventCount() {
		t.Errorf("len(best.Events) = %d, want %d", len(best.Events), p.EventCount())
	}
}

func TestEngineDeterministicGivenSeed(t *testing.T) {
	cfg := Config{MaxIter: 200, TabuSize: 10, Mejoras: 50, Seed: 42}
	p1 := conflictedProblem()
	p2 := conflictedProblem()

	e1 := NewEngine(cfg, nil)
	if err := e1.InitProblem(p1); err != nil {
		t.Fatalf("InitProblem: %v", err)
	}
	best1, res1, err := e1.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	e2 := NewEngine(cfg, nil)
	if err := e2.InitProblem(p2); err != nil {
		t.Fatalf("InitProblem: %v", err)
	}
	best2, res2, err := e2.Optimize(context.Background())
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if res1 != res2 {
		t.Errorf("results differ across identical runs: %+v vs %+v", res1, res2)
	}
	for i := range best1.Events {
		if best1.Events[i] != best2.Events[i] {
			t.Errorf("event %d differs across identical runs: %+v vs %+v", i, best1.Events[i], best2.Events[i])
		}
	}
}

func TestEngineCancellation(t *testing.T) {
	e := NewEngine(Config{MaxIter: 1000}, nil)
	if err := e.InitProblem(easyProblem()); err != nil {
		t.Fatalf("InitProblem: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.Optimize(ctx)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if e.State() != FinishedStagnated {
		t.Errorf("state after cancellation = %v, want FINISHED_STAGNATED", e.State())
	}
}

func TestProgressObserverCalledAtMostOncePerPercent(t *testing.T) {
	e := NewEngine(Config{MaxIter: 100, Mejoras: 100}, nil)
	if err := e.InitProblem(easyProblem()); err != nil {
		t.Fatalf("InitProblem: %v", err)
	}
	var percents []int
	e.SetObserver(Observer{OnProgress: func(p Progress) { percents = append(percents, p.Percent) }})

	if _, _, err := e.Optimize(context.Background()); err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] <= percents[i-1] {
			t.Errorf("progress percent did not strictly increase: %v", percents)
			break
		}
	}
}
