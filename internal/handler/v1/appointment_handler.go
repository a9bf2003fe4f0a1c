package v1

import (
	"context"
	"net/http"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingService interface {
	Book(ctx context.Context, cmd *appointment.CreateAppointmentCommand, ip string) (*appointment.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, claims *domain.Claims, ip string) (*appointment.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*appointment.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*appointment.Appointment, error)
	Earnings(ctx context.Context, doctorID uuid.UUID) (*appointment.Earnings, error)
}

type AppointmentHandler struct {
	svc BookingService
}

func NewAppointmentHandler(svc BookingService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type createAppointmentRequest struct {
	DocID    string  `json:"docId" binding:"required,uuid"`
	SlotDate string  `json:"slotDate" binding:"required"`
	SlotTime string  `json:"slotTime" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// Create books a slot for the authenticated patient.
// POST /api/appointment/create
func (h *AppointmentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	docID, err := uuid.Parse(req.DocID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid docId: must be a valid UUID")
		return
	}

	a, err := h.svc.Book(c.Request.Context(), &appointment.CreateAppointmentCommand{
		UserID:   claims.PrincipalID,
		DoctorID: docID,
		SlotDate: req.SlotDate,
		SlotTime: req.SlotTime,
		Amount:   req.Amount,
	}, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

// ListForUser returns the patient's appointments, doctor populated.
// GET /api/appointment/user
func (h *AppointmentHandler) ListForUser(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	appts, err := h.svc.ListForUser(c.Request.Context(), claims.PrincipalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, appts)
}

// ListForDoctor returns the doctor's appointments, patient populated.
// GET /api/appointment/doctor
func (h *AppointmentHandler) ListForDoctor(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	appts, err := h.svc.ListForDoctor(c.Request.Context(), claims.PrincipalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, appts)
}

// Cancel soft-cancels the patient's own appointment.
// PUT /api/appointment/cancel/:appointmentId
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.cancel(c, "appointmentId")
}

// CancelByDoctor soft-cancels one of the doctor's own appointments.
// DELETE /api/doctor/cancel/:id
func (h *AppointmentHandler) CancelByDoctor(c *gin.Context) {
	h.cancel(c, "id")
}

func (h *AppointmentHandler) cancel(c *gin.Context, param string) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	id, ok := parseUUID(c, param)
	if !ok {
		return
	}

	a, err := h.svc.Cancel(c.Request.Context(), id, claims, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

// Earnings aggregates the doctor's non-cancelled bookings.
// GET /api/appointment/earnings
func (h *AppointmentHandler) Earnings(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	e, err := h.svc.Earnings(c.Request.Context(), claims.PrincipalID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, e)
}
