// Package response defines the HTTP JSON envelope used across the API, so
// every handler reports success and failure the same way.
package response

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/paiban/horario/pkg/errors"
)

// Envelope is the common response contract for every endpoint.
type Envelope struct {
	Data  interface{}          `json:"data,omitempty"`
	Error *apperrors.AppError  `json:"error,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Data: data})
}

// Error converts err to an AppError and writes it with the matching HTTP
// status.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = &apperrors.AppError{Code: apperrors.Internal, Message: err.Error(), HTTPStatus: 500}
	}
	c.JSON(appErr.HTTPStatus, Envelope{Error: appErr})
}
