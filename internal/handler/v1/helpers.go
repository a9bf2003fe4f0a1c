package v1

import (
	"errors"
	"net/http"

	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/docpoint/docpoint-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Every response carries a success flag; clients key off it before the body.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ValidationErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Message: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Success: false,
			Message: "validation failed",
			Fields:  validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, appointment.ErrSlotTaken),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, doctor.ErrEmailTaken):
		respondError(c, http.StatusConflict, err.Error())

	case errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, user.ErrUserNotFound):
		respondError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, doctor.ErrDoctorUnavailable),
		errors.Is(err, appointment.ErrAlreadyCancelled),
		errors.Is(err, appointment.ErrInvalidSlotDate),
		errors.Is(err, appointment.ErrInvalidSlotTime),
		errors.Is(err, appointment.ErrInvalidAmount):
		respondError(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, appointment.ErrNotOwner),
		errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "access denied")

	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, service.ErrAccountLocked):
		respondError(c, http.StatusTooManyRequests, "account temporarily locked")

	default:
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+param+": must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
