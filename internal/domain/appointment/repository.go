package appointment

import (
	"context"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/google/uuid"
)

type Repository interface {
	// Reserve atomically books the slot: it locks the doctor row, verifies
	// availability, checks the ledger and the active-appointment set, inserts
	// the appointment, and marks the ledger entry — all in one transaction.
	// Returns doctor.ErrDoctorNotFound, doctor.ErrDoctorUnavailable, or
	// ErrSlotTaken; ErrSlotTaken also covers the unique-index rejection when
	// two reservations race past the pre-checks.
	Reserve(ctx context.Context, a *Appointment) error

	// Cancel atomically soft-cancels the appointment and unsets its ledger
	// entry. Ownership is enforced inside the transaction: the principal must
	// be the booking patient (RolePatient) or the booked doctor (RoleDoctor).
	// Returns ErrAppointmentNotFound, ErrNotOwner, or ErrAlreadyCancelled.
	Cancel(ctx context.Context, id, principalID uuid.UUID, role domain.Role) (*Appointment, error)

	// GetByID retrieves an appointment by primary key.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// ListByUser returns a patient's appointments, doctor populated, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Appointment, error)

	// ListByDoctor returns a doctor's appointments, patient populated, newest first.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Appointment, error)

	// Earnings aggregates amount and count over non-cancelled appointments.
	Earnings(ctx context.Context, doctorID uuid.UUID) (*Earnings, error)
}
