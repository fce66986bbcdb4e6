// Package tabu implements the tabu-search engine: a deterministic,
// single-threaded local-search loop over an initial Solution produced by
// pkg/builder, using pkg/evaluator's incremental delta scoring and a fixed
// FIFO tabu memory with aspiration.
package tabu

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/paiban/horario/pkg/builder"
	"github.com/paiban/horario/pkg/errors"
	"github.com/paiban/horario/pkg/evaluator"
	"github.com/paiban/horario/pkg/logger"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

// State is one of the engine's lifecycle states (spec §4.4).
type State int

const (
	Created State = iota
	Initialized
	Running
	FinishedOptimal
	FinishedBounded
	FinishedStagnated
	Closed
)

func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Initialized:
		return "INITIALIZED"
	case Running:
		return "RUNNING"
	case FinishedOptimal:
		return "FINISHED_OPTIMAL"
	case FinishedBounded:
		return "FINISHED_BOUNDED"
	case FinishedStagnated:
		return "FINISHED_STAGNATED"
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Config tunes the search. Zero values are replaced with spec defaults by
// NewEngine (NeighborhoodSize by InitProblem, once E is known).
type Config struct {
	MaxIter          int   // max_iter, default 1000
	TabuSize         int   // tamano_tabu, default 20
	Mejoras          int   // stagnation window, default 50
	NeighborhoodSize int   // N_NEIGH, default min(200, 4*E) when 0
	Seed             int64 // RNG seed for the random-sample portion of the neighborhood
}

// DefaultConfig returns the spec's default tuning values.
func DefaultConfig() Config {
	return Config{MaxIter: 1000, TabuSize: 20, Mejoras: 50}
}

// Progress is a value-copy snapshot delivered to Observer.OnProgress.
type Progress struct {
	Percent int
	Hard    int
	Soft    float64
	Quality float64
	Iter    int
}

// Observer holds the two callback slots the engine invokes synchronously
// from its own goroutine (spec §4.5). Neither callback may call back into
// the same Engine instance.
type Observer struct {
	OnProgress func(Progress)
	OnLog      func(string)
}

// Engine runs the tabu search. It is single-use: InitProblem then Optimize
// once. The occupancy index, tabu FIFO and neighborhood/conflict scratch
// slices are allocated in InitProblem and reused across iterations; the
// best-known Solution is cloned on each improvement, and Delta builds small
// temporary slices per candidate.
type Engine struct {
	state State
	cfg   Config

	problem *model.Problem
	sol     *model.Solution
	idx     *occupancy.Index

	current evaluator.Result
	best    *model.Solution
	bestRes evaluator.Result

	tabu *tabuFIFO
	rng  *rand.Rand

	neighScratch    []evaluator.Move
	conflictScratch []int

	observer Observer
	log      *logger.EngineLogger
}

// NewEngine constructs an Engine in state CREATED. log may be nil.
func NewEngine(cfg Config, log *logger.EngineLogger) *Engine {
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = DefaultConfig().MaxIter
	}
	if cfg.TabuSize <= 0 {
		cfg.TabuSize = DefaultConfig().TabuSize
	}
	if cfg.Mejoras <= 0 {
		cfg.Mejoras = DefaultConfig().Mejoras
	}
	return &Engine{state: Created, cfg: cfg, log: log}
}

// SetObserver registers progress/log callbacks. Must be called before Optimize.
func (e *Engine) SetObserver(o Observer) { e.observer = o }

// State returns the engine's current lifecycle state.
func (e *Engine) State() State { return e.state }

// InitProblem builds the initial Solution via pkg/builder and transitions
// CREATED -> INITIALIZED. Malformed input aborts here with a classified
// error, before RUNNING is ever entered (spec §4.4 failure semantics).
func (e *Engine) InitProblem(problem *model.Problem) error {
	if e.state != Created {
		return errors.New(errors.InvariantViolated, "InitProblem called outside state CREATED")
	}
	sol, idx, err := builder.Build(problem, e.log)
	if err != nil {
		return err
	}

	e.problem = problem
	e.sol = sol
	e.idx = idx
	e.current = evaluator.Evaluate(sol, problem, idx)
	e.best = sol.Clone()
	e.bestRes = e.current
	e.tabu = newTabuFIFO(e.cfg.TabuSize)
	e.rng = rand.New(rand.NewSource(e.cfg.Seed))

	neighSize := e.cfg.NeighborhoodSize
	if neighSize <= 0 {
		neighSize = minInt(200, 4*len(sol.Events))
	}
	if neighSize < 1 {
		neighSize = 1
	}
	e.neighScratch = make([]evaluator.Move, 0, neighSize)
	e.conflictScratch = make([]int, 0, len(sol.Events))

	e.state = Initialized
	return nil
}

// Optimize runs the search to completion on the calling goroutine and
// returns the best-known Solution and its Result. ctx is checked at the
// top of every iteration; on cancellation the engine transitions to
// FINISHED_STAGNATED and returns the current best-known.
func (e *Engine) Optimize(ctx context.Context) (*model.Solution, evaluator.Result, error) {
	if e.state != Initialized {
		return nil, evaluator.Result{}, errors.New(errors.InvariantViolated, "Optimize called outside state INITIALIZED")
	}
	e.state = Running
	start := time.Now()
	if e.log != nil {
		e.log.SolveStart(len(e.sol.Events), e.cfg.MaxIter, e.cfg.TabuSize)
	}
	e.emitLog("category=solve_start events=%d max_iter=%d tabu_size=%d", len(e.sol.Events), e.cfg.MaxIter, e.cfg.TabuSize)

	lastImprovement := 0
	stagnantSoftRounds := 0
	lastPercent := -1
	iter := 0

	for ; iter < e.cfg.MaxIter; iter++ {
		select {
		case <-ctx.Done():
			e.state = FinishedStagnated
			if e.log != nil {
				e.log.Cancelled(iter)
			}
			e.emitLog("category=cancelled iter=%d status=cancelled", iter)
			return e.finish(start, iter)
		default:
		}

		moves := e.generateNeighborhood()
		move, change, ok := e.selectMove(moves)
		if ok {
			e.applyMove(move, change)
			if e.current.Less(e.bestRes) {
				e.bestRes = e.current
				e.best = e.sol.Clone()
				lastImprovement = iter
			}
			if e.log != nil {
				e.log.MoveAccepted(iter, e.current.HardConflicts, e.current.SoftPenalty, lastImprovement == iter)
			}
			if improvingMove(change) {
				stagnantSoftRounds = 0
			} else {
				stagnantSoftRounds++
			}
		} else {
			stagnantSoftRounds++
		}

		e.reportProgress(iter, &lastPercent)

		if iter-lastImprovement >= e.cfg.Mejoras {
			e.state = FinishedStagnated
			if e.log != nil {
				e.log.Stagnation(iter, iter-lastImprovement)
			}
			e.emitLog("category=stagnation iter=%d since_improvement=%d", iter, iter-lastImprovement)
			iter++
			break
		}
		if e.current.HardConflicts == 0 && stagnantSoftRounds >= 2 {
			e.state = FinishedOptimal
			iter++
			break
		}
	}

	if e.state == Running {
		e.state = FinishedBounded
	}
	return e.finish(start, iter)
}

// Close transitions a FINISHED_* engine to CLOSED. Idempotent once closed.
func (e *Engine) Close() {
	switch e.state {
	case FinishedOptimal, FinishedBounded, FinishedStagnated:
		e.state = Closed
	}
}

func (e *Engine) finish(start time.Time, iter int) (*model.Solution, evaluator.Result, error) {
	elapsed := time.Since(start)
	if e.log != nil {
		e.log.SolveComplete(e.state.String(), iter, e.bestRes.HardConflicts, e.bestRes.SoftPenalty, e.bestRes.Quality, elapsed)
	}
	e.emitLog("category=solve_complete state=%s iter=%d hard=%d soft=%.2f quality=%.2f elapsed=%s",
		e.state.String(), iter, e.bestRes.HardConflicts, e.bestRes.SoftPenalty, e.bestRes.Quality, elapsed)
	return e.best, e.bestRes, nil
}

func (e *Engine) emitLog(format string, args ...interface{}) {
	if e.observer.OnLog == nil {
		return
	}
	e.observer.OnLog(fmt.Sprintf(format, args...))
}

func (e *Engine) reportProgress(iter int, lastPercent *int) {
	if e.observer.OnProgress == nil {
		return
	}
	percent := (iter + 1) * 100 / e.cfg.MaxIter
	if percent <= *lastPercent {
		return
	}
	*lastPercent = percent
	e.observer.OnProgress(Progress{
		Percent: percent,
		Hard:    e.current.HardConflicts,
		Soft:    e.current.SoftPenalty,
		Quality: e.current.Quality,
		Iter:    iter,
	})
}

// improvingMove reports whether change strictly improves the lexicographic
// objective (hard, soft).
func improvingMove(change evaluator.Change) bool {
	return change.DeltaHard < 0 || (change.DeltaHard == 0 && change.DeltaSoft < 0)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
