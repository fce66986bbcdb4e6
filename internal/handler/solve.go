// Package handler wires gin routes to the tabu-search engine and its
// supporting stores.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/paiban/horario/internal/config"
	"github.com/paiban/horario/internal/metrics"
	"github.com/paiban/horario/internal/realtime"
	"github.com/paiban/horario/internal/store"
	"github.com/paiban/horario/internal/validation"
	apperrors "github.com/paiban/horario/pkg/errors"
	"github.com/paiban/horario/pkg/logger"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/response"
	"github.com/paiban/horario/pkg/tabu"
)

// SolveHandler exposes the tabu-search engine over HTTP.
type SolveHandler struct {
	validator *validation.Validator
	engineCfg config.EngineConfig
	runs      *store.RunStore // nil when no database is configured
	publisher func(uuid.UUID) *realtime.Publisher
	reg       *metrics.Registry
}

// NewSolveHandler constructs a SolveHandler. runs and publisherFactory may
// be nil, in which case run persistence and progress fan-out are skipped.
func NewSolveHandler(engineCfg config.EngineConfig, runs *store.RunStore, reg *metrics.Registry, publisherFactory func(uuid.UUID) *realtime.Publisher) *SolveHandler {
	return &SolveHandler{
		validator: validation.New(),
		engineCfg: engineCfg,
		runs:      runs,
		publisher: publisherFactory,
		reg:       reg,
	}
}

// solveResponse is the wire shape of a completed solve.
type solveResponse struct {
	RunID         uuid.UUID     `json:"run_id"`
	State         string        `json:"state"`
	HardConflicts int           `json:"hard_conflicts"`
	SoftPenalty   float64       `json:"soft_penalty"`
	Quality       float64       `json:"quality"`
	Events        []model.Event `json:"events"`
}

// Solve handles POST /api/v1/solve: builds a Problem from the request,
// runs the tabu-search engine to completion, and returns the best Solution
// found.
func (h *SolveHandler) Solve(c *gin.Context) {
	var req validation.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.InputMalformed, "malformed JSON body"))
		return
	}
	if err := h.validator.ValidateSolveRequest(&req); err != nil {
		response.Error(c, err)
		return
	}

	problem := req.ToProblem()
	ctx := logger.WithRunID(c.Request.Context(), problem.RunID)

	cfg := h.engineCfg.ToTabuConfig()
	if req.MaxIterations > 0 {
		cfg.MaxIter = req.MaxIterations
	}
	if req.TabuSize > 0 {
		cfg.TabuSize = req.TabuSize
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	engine := tabu.NewEngine(cfg, logger.NewEngineLogger())
	if h.publisher != nil {
		pub := h.publisher(problem.RunID)
		engine.SetObserver(tabu.Observer{
			OnProgress: pub.Publish,
			OnLog:      func(line string) { logger.WithContext(ctx).Debug().Msg(line) },
		})
	}

	if h.runs != nil {
		_ = h.runs.StartRun(c.Request.Context(), problem.RunID, len(problem.Teachers), len(problem.Groups), len(problem.Rooms), problem.EventCount())
	}
	start := time.Now()
	if err := engine.InitProblem(problem); err != nil {
		response.Error(c, err)
		return
	}
	if h.reg != nil {
		h.reg.EngineStarted()
	}
	sol, result, err := engine.Optimize(c.Request.Context())
	engine.Close()
	if err != nil {
		if h.reg != nil {
			h.reg.EngineFinished(engine.State().String(), time.Since(start), 0, 0)
		}
		response.Error(c, err)
		return
	}

	if h.reg != nil {
		h.reg.EngineFinished(engine.State().String(), time.Since(start), 0, result.Quality)
	}
	if h.runs != nil {
		_ = h.runs.FinishRun(c.Request.Context(), problem.RunID, engine.State().String(), 0, result.HardConflicts, result.SoftPenalty, result.Quality, nil)
	}

	response.JSON(c, http.StatusOK, solveResponse{
		RunID:         problem.RunID,
		State:         engine.State().String(),
		HardConflicts: result.HardConflicts,
		SoftPenalty:   result.SoftPenalty,
		Quality:       result.Quality,
		Events:        sol.Events,
	})
}
