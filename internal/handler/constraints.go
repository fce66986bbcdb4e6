package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paiban/horario/internal/constraints"
	"github.com/paiban/horario/pkg/response"
)

// ConstraintsHandler serves the static constraint catalog.
type ConstraintsHandler struct{}

// NewConstraintsHandler constructs a ConstraintsHandler.
func NewConstraintsHandler() *ConstraintsHandler { return &ConstraintsHandler{} }

// List handles GET /api/v1/constraints.
func (h *ConstraintsHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, constraints.LibraryResponse{Library: constraints.GetLibrary()})
}
