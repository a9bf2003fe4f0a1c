package service

import (
	"context"
	"testing"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingService(repo *fakeAppointmentRepo) *BookingService {
	return NewBookingService(repo, newTestAuditService(), testCollector, zap.NewNop())
}

func validBookCommand() *appointment.CreateAppointmentCommand {
	return &appointment.CreateAppointmentCommand{
		UserID:   uuid.New(),
		DoctorID: uuid.New(),
		SlotDate: "2026-09-01",
		SlotTime: "10:00 AM",
		Amount:   50,
	}
}

func TestBookSuccess(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	svc := newBookingService(repo)

	cmd := validBookCommand()
	a, err := svc.Book(context.Background(), cmd, "203.0.113.7")
	require.NoError(t, err)

	require.Len(t, repo.reserved, 1)
	assert.Equal(t, cmd.UserID, a.UserID)
	assert.Equal(t, cmd.DoctorID, a.DoctorID)
	assert.Equal(t, "2026-09-01", a.SlotDate)
	assert.Equal(t, "10:00 AM", a.SlotTime)
	assert.Equal(t, float64(50), a.Amount)
	assert.False(t, a.Cancelled)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestBookValidation(t *testing.T) {
	svc := newBookingService(&fakeAppointmentRepo{})

	tests := []struct {
		name   string
		mutate func(*appointment.CreateAppointmentCommand)
		field  string
	}{
		{"missing user", func(c *appointment.CreateAppointmentCommand) { c.UserID = uuid.Nil }, "userId is required"},
		{"missing doctor", func(c *appointment.CreateAppointmentCommand) { c.DoctorID = uuid.Nil }, "docId is required"},
		{"empty date", func(c *appointment.CreateAppointmentCommand) { c.SlotDate = "" }, "slotDate is required"},
		{"malformed date", func(c *appointment.CreateAppointmentCommand) { c.SlotDate = "01-09-2026" }, appointment.ErrInvalidSlotDate.Error()},
		{"empty time", func(c *appointment.CreateAppointmentCommand) { c.SlotTime = "" }, "slotTime is required"},
		{"unknown time label", func(c *appointment.CreateAppointmentCommand) { c.SlotTime = "10:15 AM" }, appointment.ErrInvalidSlotTime.Error()},
		{"zero amount", func(c *appointment.CreateAppointmentCommand) { c.Amount = 0 }, "amount must be a positive number"},
		{"negative amount", func(c *appointment.CreateAppointmentCommand) { c.Amount = -5 }, "amount must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validBookCommand()
			tt.mutate(cmd)

			_, err := svc.Book(context.Background(), cmd, "203.0.113.7")

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}

func TestBookSlotConflict(t *testing.T) {
	repo := &fakeAppointmentRepo{reserveErr: appointment.ErrSlotTaken}
	svc := newBookingService(repo)

	_, err := svc.Book(context.Background(), validBookCommand(), "203.0.113.7")
	assert.ErrorIs(t, err, appointment.ErrSlotTaken)
	assert.Empty(t, repo.reserved)
}

func TestBookDoctorRejections(t *testing.T) {
	for _, repoErr := range []error{doctor.ErrDoctorNotFound, doctor.ErrDoctorUnavailable} {
		svc := newBookingService(&fakeAppointmentRepo{reserveErr: repoErr})

		_, err := svc.Book(context.Background(), validBookCommand(), "203.0.113.7")
		assert.ErrorIs(t, err, repoErr)
	}
}

func TestCancelPassesPrincipalToRepository(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	svc := newBookingService(repo)

	id := uuid.New()
	claims := &domain.Claims{PrincipalID: uuid.New(), Role: domain.RoleDoctor}

	a, err := svc.Cancel(context.Background(), id, claims, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, a.Cancelled)

	assert.Equal(t, id, repo.cancelCall.id)
	assert.Equal(t, claims.PrincipalID, repo.cancelCall.principalID)
	assert.Equal(t, domain.RoleDoctor, repo.cancelCall.role)
}

func TestCancelErrorsPassThrough(t *testing.T) {
	for _, repoErr := range []error{
		appointment.ErrAppointmentNotFound,
		appointment.ErrNotOwner,
		appointment.ErrAlreadyCancelled,
	} {
		svc := newBookingService(&fakeAppointmentRepo{cancelErr: repoErr})

		claims := &domain.Claims{PrincipalID: uuid.New(), Role: domain.RolePatient}
		_, err := svc.Cancel(context.Background(), uuid.New(), claims, "203.0.113.7")
		assert.ErrorIs(t, err, repoErr)
	}
}

func TestEarningsPassThrough(t *testing.T) {
	repo := &fakeAppointmentRepo{
		earnings: &appointment.Earnings{TotalEarnings: 150, AppointmentCount: 3},
	}
	svc := newBookingService(repo)

	e, err := svc.Earnings(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, float64(150), e.TotalEarnings)
	assert.Equal(t, int64(3), e.AppointmentCount)
}
