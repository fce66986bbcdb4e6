package model

import "testing"

func trivialProblem() *Problem {
	teachers := []Teacher{{ID: 0, Name: "T0", MaxHours: 10}}
	subjects := []Subject{{ID: 0, Name: "Algebra", WeeklyHours: 2}}
	groups := []Group{{ID: 0, Name: "G0", Size: 30, MorningShift: true}}
	rooms := []Room{{ID: 0, Name: "R0", Capacity: 40}}
	assignment := Assignment{0: {0: 0}}
	return NewProblem(teachers, subjects, groups, rooms, assignment)
}

func TestProblemLookups(t *testing.T) {
	p := trivialProblem()
	if p.Teacher(0) == nil {
		t.Fatal("Teacher(0) returned nil")
	}
	if p.Teacher(-1) != nil {
		t.Error("Teacher(-1) should be nil (unassigned room sentinel reused for teacher lookups)")
	}
	if p.Subject(0) == nil || p.Group(0) == nil || p.Room(0) == nil {
		t.Error("expected lookups for id 0 to succeed on every entity kind")
	}
}

func TestProblemEventCount(t *testing.T) {
	p := trivialProblem()
	if got := p.EventCount(); got != 2 {
		t.Errorf("EventCount() = %d, want 2 (weekly_hours)", got)
	}
}

func TestSolutionClone(t *testing.T) {
	sol := &Solution{Events: []Event{{ID: 0, Slot: Slot{0, 0}}}}
	clone := sol.Clone()
	clone.Events[0].Slot = Slot{1, 1}
	if sol.Events[0].Slot != (Slot{0, 0}) {
		t.Error("Clone() did not deep-copy events; mutation leaked into original")
	}
}
