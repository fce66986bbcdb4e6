package swap

import (
	"sort"

	"github.com/paiban/horario/pkg/evaluator"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

// Recommendation is one ranked relocation candidate for an event.
type Recommendation struct {
	TargetSlot model.Slot `json:"target_slot"`
	Score      float64    `json:"score"`
	Reason     string     `json:"reason"`
	Rank       int        `json:"rank"`
}

// Options bounds a recommendation search.
type Options struct {
	MaxRecommendations int
	MinScore           float64
}

// DefaultOptions returns sensible recommendation-search bounds.
func DefaultOptions() Options {
	return Options{MaxRecommendations: 5, MinScore: 60}
}

// Recommender ranks alternative target slots for relocating one event.
type Recommender struct {
	evaluator *Evaluator
}

// NewRecommender constructs a Recommender.
func NewRecommender() *Recommender {
	return &Recommender{evaluator: NewEvaluator()}
}

// RecommendRelocations scores every slot in the D×P grid as a relocation
// target for eventID and returns the top candidates by resulting Quality.
func (r *Recommender) RecommendRelocations(sol *model.Solution, problem *model.Problem, idx *occupancy.Index, current evaluator.Result, eventID int, opts Options) []Recommendation {
	if opts.MaxRecommendations <= 0 {
		opts = DefaultOptions()
	}
	if eventID < 0 || eventID >= len(sol.Events) {
		return nil
	}
	currentSlot := sol.Events[eventID].Slot

	var candidates []Recommendation
	for day := 0; day < model.NumDays; day++ {
		for period := 0; period < model.NumPeriods; period++ {
			slot := model.Slot{Day: day, Period: period}
			if slot == currentSlot {
				continue
			}
			req := Request{EventID: eventID, TargetSlot: slot}
			eval := r.evaluator.Evaluate(sol, problem, idx, current, req)
			if !eval.Feasible || eval.Score < opts.MinScore {
				continue
			}
			candidates = append(candidates, Recommendation{
				TargetSlot: slot,
				Score:      eval.Score,
				Reason:     eval.Recommendation,
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if len(candidates) > opts.MaxRecommendations {
		candidates = candidates[:opts.MaxRecommendations]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates
}
