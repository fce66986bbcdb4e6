// Package evaluator implements the pure hard-conflict/soft-penalty scoring
// function the tabu-search engine repeatedly calls, plus an incremental
// delta form used on the hot path.
package evaluator

import (
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

// Canonical soft-penalty weights. These are the only soft terms the
// evaluator applies; no other weight constant exists in this package.
const (
	PesoPreferencias     = 15.0 // per event whose slot is in the teacher's forbidden set
	PesoHorariosExtremos = 5.0  // per event at period 0 or 13
	PesoHorasLibres      = 10.0 // per idle period inside a group's day
	PesoDistribucion     = 8.0  // per day a group exceeds 5 events
	PesoDiasCompletos    = 7.0  // per day a teacher exceeds ceil(max_hours/5)
)

// Result is the outcome of evaluating a Solution: hard conflicts, weighted
// soft penalty, and the derived quality score.
type Result struct {
	HardConflicts int     `json:"conflictos_duros"`
	SoftPenalty   float64 `json:"penalizacion_blandas"`
	Quality       float64 `json:"calidad"`
}

// Less reports whether r is lexicographically better than other under the
// (hard, soft) objective — lower is better on both components.
func (r Result) Less(other Result) bool {
	if r.HardConflicts != other.HardConflicts {
		return r.HardConflicts < other.HardConflicts
	}
	return r.SoftPenalty < other.SoftPenalty
}

// Evaluate is a pure function of sol: it consults idx (which must already
// reflect sol) for hard-conflict counting and scans sol directly for the
// soft terms. No global state is read or written.
func Evaluate(sol *model.Solution, problem *model.Problem, idx *occupancy.Index) Result {
	hard := hardConflicts(idx)
	soft := softPenalty(sol, problem)
	return compose(hard, soft)
}

func hardConflicts(idx *occupancy.Index) int {
	hard := 0
	for s := 0; s < model.NumSlots; s++ {
		slot := model.SlotFromIndex(s)
		events := idx.SlotEvents(slot)
		hard += events - idx.SlotDistinctTeachers(slot)
		hard += events - idx.SlotDistinctGroups(slot)
		hard += idx.SlotRoomEvents(slot) - idx.SlotDistinctRooms(slot)
	}
	return hard
}

func softPenalty(sol *model.Solution, problem *model.Problem) float64 {
	var soft float64
	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		soft += eventSoftTerm(e, problem)
	}

	seenGroupDay := make(map[[2]int]bool)
	seenTeacherDay := make(map[[2]int]bool)
	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		gd := [2]int{e.GroupID, e.Slot.Day}
		if !seenGroupDay[gd] {
			seenGroupDay[gd] = true
			soft += groupDaySoftTerm(sol, e.GroupID, e.Slot.Day)
		}
		td := [2]int{e.TeacherID, e.Slot.Day}
		if !seenTeacherDay[td] {
			seenTeacherDay[td] = true
			soft += teacherDaySoftTerm(sol, problem, e.TeacherID, e.Slot.Day)
		}
	}
	return soft
}

// eventSoftTerm computes the per-event soft contribution (forbidden slot,
// extreme period) — it depends only on the event itself and the teacher.
func eventSoftTerm(e model.Event, problem *model.Problem) float64 {
	var soft float64
	if t := problem.Teacher(e.TeacherID); t != nil && t.ForbidsSlot(e.Slot.Index()) {
		soft += PesoPreferencias
	}
	if e.Slot.Period == 0 || e.Slot.Period == model.NumPeriods-1 {
		soft += PesoHorariosExtremos
	}
	return soft
}

// groupDaySoftTerm computes the idle-gap and distribution contribution for
// one (group, day) pair by scanning sol for events matching groupID/day.
func groupDaySoftTerm(sol *model.Solution, groupID, day int) float64 {
	return groupDaySoftTermWithOverride(sol, groupID, day, nil)
}

// slotOverride overrides a single event's effective slot, used by Delta to
// evaluate "what if this event were already moved" without mutating sol.
type slotOverride struct {
	eventID int
	slot    model.Slot
}

func effectiveSlot(e model.Event, overrides []slotOverride) model.Slot {
	for _, ov := range overrides {
		if ov.eventID == e.ID {
			return ov.slot
		}
	}
	return e.Slot
}

func groupDaySoftTermWithOverride(sol *model.Solution, groupID, day int, overrides []slotOverride) float64 {
	var used [model.NumPeriods]bool
	count := 0
	for _, e := range sol.Events {
		if e.GroupID != groupID {
			continue
		}
		slot := effectiveSlot(e, overrides)
		if slot.IsUnassigned() || slot.Day != day {
			continue
		}
		used[slot.Period] = true
		count++
	}
	if count == 0 {
		return 0
	}

	var soft float64
	first, last := -1, -1
	for p := 0; p < model.NumPeriods; p++ {
		if used[p] {
			if first == -1 {
				first = p
			}
			last = p
		}
	}
	for p := first; p <= last; p++ {
		if !used[p] {
			soft += PesoHorasLibres
		}
	}
	if count > 5 {
		soft += PesoDistribucion
	}
	return soft
}

func teacherDaySoftTerm(sol *model.Solution, problem *model.Problem, teacherID, day int) float64 {
	return teacherDaySoftTermWithOverride(sol, problem, teacherID, day, nil)
}

func teacherDaySoftTermWithOverride(sol *model.Solution, problem *model.Problem, teacherID, day int, overrides []slotOverride) float64 {
	t := problem.Teacher(teacherID)
	if t == nil {
		return 0
	}
	count := 0
	for _, e := range sol.Events {
		if e.TeacherID != teacherID {
			continue
		}
		slot := effectiveSlot(e, overrides)
		if slot.IsUnassigned() || slot.Day != day {
			continue
		}
		count++
	}
	if count > t.MaxDailyLoad() {
		return PesoDiasCompletos
	}
	return 0
}

// Compose derives Quality from a (hard, soft) pair, the same way Evaluate
// does internally. Exposed so pkg/tabu can recompute Quality after an
// incremental Delta without re-running a full Evaluate.
func Compose(hard int, soft float64) Result { return compose(hard, soft) }

func compose(hard int, soft float64) Result {
	quality := 100.0 - float64(hard)*10.0 - soft*0.1
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}
	return Result{HardConflicts: hard, SoftPenalty: soft, Quality: quality}
}
