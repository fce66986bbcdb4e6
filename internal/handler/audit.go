package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paiban/horario/internal/validation"
	"github.com/paiban/horario/pkg/auditor"
	apperrors "github.com/paiban/horario/pkg/errors"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/response"
	"github.com/paiban/horario/pkg/validator"
)

// AuditHandler cross-checks an already-produced Solution against its
// Problem, independent of the engine that produced it.
type AuditHandler struct {
	validator *validation.Validator
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler() *AuditHandler { return &AuditHandler{validator: validation.New()} }

type auditRequest struct {
	validation.SolveRequest
	Solution *model.Solution `json:"solution"`
}

type auditResponse struct {
	Conflicts []validator.Conflict `json:"conflicts"`
	Load      *auditor.LoadReport  `json:"load"`
	Idle      *auditor.IdleReport  `json:"idle"`
}

// Audit handles POST /api/v1/audit.
func (h *AuditHandler) Audit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Wrap(err, apperrors.InputMalformed, "malformed JSON body"))
		return
	}
	if req.Solution == nil {
		response.Error(c, apperrors.New(apperrors.InputMalformed, "solution is required"))
		return
	}
	if err := h.validator.ValidateSolveRequest(&req.SolveRequest); err != nil {
		response.Error(c, err)
		return
	}

	problem := req.SolveRequest.ToProblem()
	conflicts := validator.NewConflictDetector().DetectAll(req.Solution, problem)
	load := auditor.BuildLoadReport(problem, req.Solution)
	idle := auditor.BuildIdleReport(problem, req.Solution)

	response.JSON(c, http.StatusOK, auditResponse{Conflicts: conflicts, Load: load, Idle: idle})
}
