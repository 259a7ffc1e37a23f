package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"taskmanager/internal/auth"
	"taskmanager/internal/dto"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service and auth errors to status codes.
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var ce *service.ConflictError
	var pe *service.PersistenceError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: ve.Msg})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: ce.Msg})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &pe):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: pe.Op + " failed", Detail: pe.Err.Error()})
	default:
		// Recorded on the context so the request logger reports it.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// identity returns the caller set by the auth guard. A protected route
// reached without one is a wiring bug and answers 401.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: auth.ErrMissingToken.Error()})
	}
	return id, ok
}
