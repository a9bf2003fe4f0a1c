package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BookingService orchestrates slot reservation and cancellation. All
// cross-store atomicity lives in the repository transaction; the service
// validates input, records outcomes, and translates nothing.
type BookingService struct {
	repo     appointment.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	tracer   trace.Tracer
	log      *zap.Logger
}

func NewBookingService(
	repo appointment.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		auditSvc: auditSvc,
		metrics:  collector,
		tracer:   otel.Tracer("booking"),
		log:      log,
	}
}

func (s *BookingService) Book(ctx context.Context, cmd *appointment.CreateAppointmentCommand, ip string) (*appointment.Appointment, error) {
	if err := validateBookCommand(cmd); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "booking.reserve",
		trace.WithAttributes(
			attribute.String("doctor_id", cmd.DoctorID.String()),
			attribute.String("slot_date", cmd.SlotDate),
			attribute.String("slot_time", cmd.SlotTime),
		),
	)
	defer span.End()

	a := &appointment.Appointment{
		UserID:   cmd.UserID,
		DoctorID: cmd.DoctorID,
		SlotDate: cmd.SlotDate,
		SlotTime: cmd.SlotTime,
		Amount:   cmd.Amount,
	}

	if err := s.repo.Reserve(ctx, a); err != nil {
		s.recordBookingOutcome(err)
		span.SetStatus(codes.Error, err.Error())

		switch {
		case errors.Is(err, appointment.ErrSlotTaken):
			s.log.Info("slot conflict",
				zap.String("doctor_id", cmd.DoctorID.String()),
				zap.String("slot_date", cmd.SlotDate),
				zap.String("slot_time", cmd.SlotTime),
			)
			return nil, err
		case errors.Is(err, doctor.ErrDoctorNotFound), errors.Is(err, doctor.ErrDoctorUnavailable):
			return nil, err
		default:
			s.log.Error("reservation failed", zap.Error(err))
			return nil, fmt.Errorf("reserving slot: %w", err)
		}
	}

	s.metrics.BookingsTotal.WithLabelValues("booked").Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		PrincipalID:  cmd.UserID,
		Role:         string(domain.RolePatient),
		Action:       "create",
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", cmd.DoctorID.String()),
		zap.String("slot_date", cmd.SlotDate),
		zap.String("slot_time", cmd.SlotTime),
	)

	return a, nil
}

// Cancel soft-cancels an appointment on behalf of the given principal.
// Ownership is enforced inside the repository transaction and cannot be
// skipped by callers.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, claims *domain.Claims, ip string) (*appointment.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "booking.cancel",
		trace.WithAttributes(attribute.String("appointment_id", id.String())),
	)
	defer span.End()

	a, err := s.repo.Cancel(ctx, id, claims.PrincipalID, claims.Role)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, appointment.ErrAppointmentNotFound),
			errors.Is(err, appointment.ErrNotOwner),
			errors.Is(err, appointment.ErrAlreadyCancelled):
			return nil, err
		default:
			s.log.Error("cancellation failed", zap.Error(err))
			return nil, fmt.Errorf("cancelling appointment: %w", err)
		}
	}

	s.metrics.CancellationsTotal.WithLabelValues(string(claims.Role)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		PrincipalID:  claims.PrincipalID,
		Role:         string(claims.Role),
		Action:       "cancel",
		ResourceType: "appointment",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      `{"cancelled":true}`,
	})

	s.log.Info("appointment cancelled",
		zap.String("appointment_id", id.String()),
		zap.String("by", string(claims.Role)),
	)

	return a, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*appointment.Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BookingService) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*appointment.Appointment, error) {
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *BookingService) Earnings(ctx context.Context, doctorID uuid.UUID) (*appointment.Earnings, error) {
	return s.repo.Earnings(ctx, doctorID)
}

func (s *BookingService) recordBookingOutcome(err error) {
	switch {
	case errors.Is(err, appointment.ErrSlotTaken):
		s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		s.metrics.SlotConflictsTotal.Inc()
	case errors.Is(err, doctor.ErrDoctorNotFound), errors.Is(err, doctor.ErrDoctorUnavailable):
		s.metrics.BookingsTotal.WithLabelValues("rejected").Inc()
	default:
		s.metrics.BookingsTotal.WithLabelValues("error").Inc()
	}
}

func validateBookCommand(cmd *appointment.CreateAppointmentCommand) error {
	var errs []string

	if cmd.UserID == uuid.Nil {
		errs = append(errs, "userId is required")
	}
	if cmd.DoctorID == uuid.Nil {
		errs = append(errs, "docId is required")
	}
	if strings.TrimSpace(cmd.SlotDate) == "" {
		errs = append(errs, "slotDate is required")
	} else if !appointment.IsValidSlotDate(cmd.SlotDate) {
		errs = append(errs, appointment.ErrInvalidSlotDate.Error())
	}
	if strings.TrimSpace(cmd.SlotTime) == "" {
		errs = append(errs, "slotTime is required")
	} else if !appointment.IsValidSlotTime(cmd.SlotTime) {
		errs = append(errs, appointment.ErrInvalidSlotTime.Error())
	}
	if cmd.Amount <= 0 {
		errs = append(errs, appointment.ErrInvalidAmount.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
