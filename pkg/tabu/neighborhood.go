package tabu

import (
	"github.com/paiban/horario/pkg/evaluator"
	"github.com/paiban/horario/pkg/model"
)

// generateNeighborhood samples up to NeighborhoodSize candidate moves:
// relocations of events currently contributing to a hard conflict
// (priority), a random sample of relocations over the remaining events,
// and swaps between pairs of co-conflicting events (spec §4.4). The
// returned slice reuses e.neighScratch's backing array.
func (e *Engine) generateNeighborhood() []evaluator.Move {
	budget := cap(e.neighScratch)
	moves := e.neighScratch[:0]

	conflicted := e.conflictScratch[:0]
	for _, ev := range e.sol.Events {
		if e.eventHasConflict(ev) {
			conflicted = append(conflicted, ev.ID)
		}
	}
	e.conflictScratch = conflicted

	for _, id := range conflicted {
		if len(moves) >= budget {
			break
		}
		moves = e.appendRelocationCandidates(moves, id, 4, budget)
	}

	if remaining := budget - len(moves); remaining > 0 {
		sampleBudget := remaining / 2
		n := len(e.sol.Events)
		for i := 0; i < sampleBudget && len(moves) < budget && n > 0; i++ {
			id := e.rng.Intn(n)
			moves = e.appendRelocationCandidates(moves, id, 1, budget)
		}
	}

	for i := 0; i+1 < len(conflicted) && len(moves) < budget; i += 2 {
		moves = append(moves, evaluator.Move{Kind: evaluator.SwapSlots, EventID: conflicted[i], EventID2: conflicted[i+1]})
	}

	e.neighScratch = moves
	return moves
}

// eventHasConflict reports whether ev shares a hard-conflicting resource
// (teacher, group, or room) with another event at its current slot.
func (e *Engine) eventHasConflict(ev model.Event) bool {
	if e.idx.TeacherCountAt(ev.Slot, ev.TeacherID) > 1 {
		return true
	}
	if e.idx.GroupCountAt(ev.Slot, ev.GroupID) > 1 {
		return true
	}
	if ev.RoomID >= 0 && e.idx.RoomCountAt(ev.Slot, ev.RoomID) > 1 {
		return true
	}
	return false
}

// appendRelocationCandidates appends up to maxCandidates relocation moves
// for eventID, scanning the event's group shift window first and then the
// full grid (spec §4.4), stopping early once budget is reached.
func (e *Engine) appendRelocationCandidates(moves []evaluator.Move, eventID, maxCandidates, budget int) []evaluator.Move {
	ev := e.sol.Events[eventID]
	group := e.problem.Group(ev.GroupID)
	added := 0

	tryAdd := func(slot model.Slot) bool {
		if slot == ev.Slot {
			return false
		}
		moves = append(moves, evaluator.Move{Kind: evaluator.Relocate, EventID: eventID, NewSlot: slot})
		added++
		return added >= maxCandidates || len(moves) >= budget
	}

	if group != nil {
		for day := 0; day < model.NumDays && added < maxCandidates && len(moves) < budget; day++ {
			for period := 0; period < model.NumPeriods; period++ {
				if !group.InShiftWindow(period) {
					continue
				}
				if tryAdd(model.Slot{Day: day, Period: period}) {
					return moves
				}
			}
		}
	}

	for day := 0; day < model.NumDays && added < maxCandidates && len(moves) < budget; day++ {
		for period := 0; period < model.NumPeriods; period++ {
			if tryAdd(model.Slot{Day: day, Period: period}) {
				return moves
			}
		}
	}
	return moves
}

type candidate struct {
	move         evaluator.Move
	change       evaluator.Change
	tieEventID   int
	tieSlotIndex int
}

func candidateBetter(a, b candidate) bool {
	if a.change.DeltaHard != b.change.DeltaHard {
		return a.change.DeltaHard < b.change.DeltaHard
	}
	if a.change.DeltaSoft != b.change.DeltaSoft {
		return a.change.DeltaSoft < b.change.DeltaSoft
	}
	if a.tieEventID != b.tieEventID {
		return a.tieEventID < b.tieEventID
	}
	return a.tieSlotIndex < b.tieSlotIndex
}

// selectMove scores every candidate via evaluator.Delta, discards tabu
// candidates that don't satisfy aspiration, and deterministically picks
// the smallest (Δhard, Δsoft), ties broken by (event_id, target_slot).
func (e *Engine) selectMove(moves []evaluator.Move) (evaluator.Move, evaluator.Change, bool) {
	var chosen *candidate
	for _, mv := range moves {
		change := evaluator.Delta(e.sol, e.problem, e.idx, mv)
		if e.isTabu(mv) {
			newRes := evaluator.Result{
				HardConflicts: e.current.HardConflicts + change.DeltaHard,
				SoftPenalty:   e.current.SoftPenalty + change.DeltaSoft,
			}
			if !newRes.Less(e.bestRes) {
				continue
			}
		}
		tieEventID, tieSlotIndex := tieBreakKey(mv, e.sol)
		cand := candidate{move: mv, change: change, tieEventID: tieEventID, tieSlotIndex: tieSlotIndex}
		if chosen == nil || candidateBetter(cand, *chosen) {
			chosen = &cand
		}
	}
	if chosen == nil {
		return evaluator.Move{}, evaluator.Change{}, false
	}
	return chosen.move, chosen.change, true
}

func tieBreakKey(mv evaluator.Move, sol *model.Solution) (int, int) {
	if mv.Kind == evaluator.Relocate {
		return mv.EventID, mv.NewSlot.Index()
	}
	id1, id2 := mv.EventID, mv.EventID2
	if id1 > id2 {
		id1, id2 = id2, id1
	}
	var targetSlot model.Slot
	if id1 == mv.EventID {
		targetSlot = sol.Events[mv.EventID2].Slot
	} else {
		targetSlot = sol.Events[mv.EventID].Slot
	}
	return id1, targetSlot.Index()
}

// isTabu reports whether mv's attribute(s) are present in the tabu FIFO.
func (e *Engine) isTabu(mv evaluator.Move) bool {
	if mv.Kind == evaluator.Relocate {
		return e.tabu.Contains(Attr{EventID: mv.EventID, Slot: mv.NewSlot})
	}
	e1 := e.sol.Events[mv.EventID]
	e2 := e.sol.Events[mv.EventID2]
	return e.tabu.Contains(Attr{EventID: mv.EventID, Slot: e2.Slot}) ||
		e.tabu.Contains(Attr{EventID: mv.EventID2, Slot: e1.Slot})
}

// applyMove commits mv to e.sol/e.idx, updates the tabu FIFO with the
// attribute(s) of the slot(s) vacated, and recomputes e.current from the
// incremental change.
func (e *Engine) applyMove(mv evaluator.Move, change evaluator.Change) {
	if mv.Kind == evaluator.Relocate {
		ev := e.sol.Events[mv.EventID]
		oldSlot := ev.Slot
		moved := e.idx.Apply(ev, mv.NewSlot)
		e.sol.Events[mv.EventID] = moved
		e.tabu.Add(Attr{EventID: mv.EventID, Slot: oldSlot})
	} else {
		e1 := e.sol.Events[mv.EventID]
		e2 := e.sol.Events[mv.EventID2]
		s1, s2 := e1.Slot, e2.Slot
		moved1 := e.idx.Apply(e1, s2)
		moved2 := e.idx.Apply(e2, s1)
		e.sol.Events[mv.EventID] = moved1
		e.sol.Events[mv.EventID2] = moved2
		e.tabu.Add(Attr{EventID: mv.EventID, Slot: s1})
		e.tabu.Add(Attr{EventID: mv.EventID2, Slot: s2})
	}

	hard := e.current.HardConflicts + change.DeltaHard
	soft := e.current.SoftPenalty + change.DeltaSoft
	e.current = evaluator.Compose(hard, soft)
}
