package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paiban/horario/pkg/response"
)

// Health handles GET /healthz.
func Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"})
}
