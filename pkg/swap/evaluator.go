// Package swap evaluates the feasibility and impact of moving a single
// event to a new slot, or exchanging the slots of two events, outside the
// tabu-search loop — e.g. for an operator proposing a manual edit to an
// already-produced Solution.
package swap

import (
	"github.com/paiban/horario/pkg/evaluator"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

// Request describes a proposed manual edit to a Solution.
type Request struct {
	EventID    int        `json:"event_id"`
	TargetSlot model.Slot `json:"target_slot,omitempty"` // set for a relocation
	OtherEventID int      `json:"other_event_id,omitempty"` // set for a swap; TargetSlot is ignored
	IsSwap     bool       `json:"is_swap"`
}

// Evaluation is the outcome of evaluating a Request.
type Evaluation struct {
	Feasible       bool     `json:"feasible"`
	Score          float64  `json:"score"` // resulting Quality, 0-100
	Issues         []Issue  `json:"issues"`
	Impact         *Impact  `json:"impact"`
	Recommendation string   `json:"recommendation"`
}

// Issue is one problem found while evaluating a Request.
type Issue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"` // error/warning/info
	Message  string `json:"message"`
}

// Impact summarizes how a Request would change the objective.
type Impact struct {
	DeltaHard     int     `json:"delta_hard"`
	DeltaSoft     float64 `json:"delta_soft"`
	QualityBefore float64 `json:"quality_before"`
	QualityAfter  float64 `json:"quality_after"`
}

// Evaluator scores swap/relocation requests against a Solution already
// evaluated by pkg/evaluator, reusing its incremental Delta.
type Evaluator struct{}

// NewEvaluator constructs an Evaluator. It holds no state.
func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate scores req against sol/problem/idx, which must reflect sol's
// current (pre-edit) state. current is the Solution's already-computed
// Result, reused to avoid a redundant full Evaluate call.
func (ev *Evaluator) Evaluate(sol *model.Solution, problem *model.Problem, idx *occupancy.Index, current evaluator.Result, req Request) *Evaluation {
	result := &Evaluation{Feasible: true, Issues: make([]Issue, 0)}

	if req.EventID < 0 || req.EventID >= len(sol.Events) {
		result.Feasible = false
		result.Issues = append(result.Issues, Issue{Type: "invalid_request", Severity: "error", Message: "unknown event_id"})
		return result
	}
	if req.IsSwap && (req.OtherEventID < 0 || req.OtherEventID >= len(sol.Events)) {
		result.Feasible = false
		result.Issues = append(result.Issues, Issue{Type: "invalid_request", Severity: "error", Message: "unknown other_event_id"})
		return result
	}

	move := ev.toMove(req)
	change := evaluator.Delta(sol, problem, idx, move)
	after := evaluator.Compose(current.HardConflicts+change.DeltaHard, current.SoftPenalty+change.DeltaSoft)

	result.Impact = &Impact{
		DeltaHard:     change.DeltaHard,
		DeltaSoft:     change.DeltaSoft,
		QualityBefore: current.Quality,
		QualityAfter:  after.Quality,
	}
	result.Score = after.Quality

	if change.DeltaHard > 0 {
		result.Feasible = false
		result.Issues = append(result.Issues, Issue{
			Type: "new_hard_conflict", Severity: "error",
			Message: "this edit introduces a new teacher/group/room double-booking",
		})
	}
	if change.DeltaSoft > 0 {
		result.Issues = append(result.Issues, Issue{
			Type: "soft_penalty_increase", Severity: "warning",
			Message: "this edit increases the soft penalty",
		})
	}

	result.Recommendation = ev.recommend(result)
	return result
}

func (ev *Evaluator) toMove(req Request) evaluator.Move {
	if req.IsSwap {
		return evaluator.Move{Kind: evaluator.SwapSlots, EventID: req.EventID, EventID2: req.OtherEventID}
	}
	return evaluator.Move{Kind: evaluator.Relocate, EventID: req.EventID, NewSlot: req.TargetSlot}
}

func (ev *Evaluator) recommend(result *Evaluation) string {
	if !result.Feasible {
		return "not recommended: introduces a hard conflict"
	}
	switch {
	case result.Impact.DeltaSoft < 0:
		return "recommended: improves the schedule"
	case result.Impact.DeltaSoft == 0:
		return "neutral: no change to soft penalty"
	case result.Score >= 80:
		return "acceptable: minor soft penalty increase"
	default:
		return "use caution: noticeable soft penalty increase"
	}
}

// CanApply is a quick yes/no check, returning the first blocking issue's
// message when infeasible.
func (ev *Evaluator) CanApply(sol *model.Solution, problem *model.Problem, idx *occupancy.Index, current evaluator.Result, req Request) (bool, string) {
	result := ev.Evaluate(sol, problem, idx, current, req)
	if !result.Feasible {
		if len(result.Issues) > 0 {
			return false, result.Issues[0].Message
		}
		return false, "edit not feasible"
	}
	return true, ""
}
