package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/docpoint/docpoint-api/internal/domain/appointment"
	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolation is the SQLSTATE raised when the partial unique index on
// (doctor_id, slot_date, slot_time) WHERE cancelled = false rejects an insert.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// Reserve books a slot in a single transaction. The doctor row lock
// serialises concurrent reservations for the same doctor; the unique index
// is the backstop for anything that slips past the pre-checks.
func (r *AppointmentRepository) Reserve(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc doctor.Doctor
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doc, "id = ?", a.DoctorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return doctor.ErrDoctorNotFound
			}
			return fmt.Errorf("loading doctor: %w", err)
		}

		if !doc.Available {
			return doctor.ErrDoctorUnavailable
		}

		// Ledger pre-check. The ledger is a cache and may drift, so a miss
		// here proves nothing; a hit saves the insert attempt.
		if doc.SlotsBooked.IsBooked(a.SlotDate, a.SlotTime) {
			return appointment.ErrSlotTaken
		}

		// Authoritative pre-check against the appointment store.
		var active int64
		if err := tx.Model(&appointment.Appointment{}).
			Where("doctor_id = ? AND slot_date = ? AND slot_time = ? AND cancelled = false",
				a.DoctorID, a.SlotDate, a.SlotTime).
			Count(&active).Error; err != nil {
			return fmt.Errorf("checking active appointments: %w", err)
		}
		if active > 0 {
			return appointment.ErrSlotTaken
		}

		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			if isUniqueViolation(err) {
				// Two reservations raced past the pre-checks; expected under
				// contention, not exceptional.
				return appointment.ErrSlotTaken
			}
			return fmt.Errorf("inserting appointment: %w", err)
		}

		doc.SlotsBooked = doc.SlotsBooked.Set(a.SlotDate, a.SlotTime)
		if err := tx.Model(&doctor.Doctor{}).Where("id = ?", doc.ID).
			Update("slots_booked", doc.SlotsBooked).Error; err != nil {
			return fmt.Errorf("updating slot ledger: %w", err)
		}

		return nil
	})
}

// Cancel soft-cancels an appointment and frees its ledger entry in one
// transaction. The appointment row lock makes concurrent cancellations of
// the same appointment resolve to exactly one success.
func (r *AppointmentRepository) Cancel(ctx context.Context, id, principalID uuid.UUID, role domain.Role) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appointment.ErrAppointmentNotFound
			}
			return fmt.Errorf("loading appointment: %w", err)
		}

		owner := a.UserID
		if role == domain.RoleDoctor {
			owner = a.DoctorID
		}
		if owner != principalID {
			return appointment.ErrNotOwner
		}

		if err := a.Cancel(); err != nil {
			return err
		}
		if err := tx.Model(&appointment.Appointment{}).Where("id = ?", a.ID).
			Update("cancelled", true).Error; err != nil {
			return fmt.Errorf("cancelling appointment: %w", err)
		}

		var doc doctor.Doctor
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doc, "id = ?", a.DoctorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return doctor.ErrDoctorNotFound
			}
			return fmt.Errorf("loading doctor: %w", err)
		}

		doc.SlotsBooked.Unset(a.SlotDate, a.SlotTime)
		if err := tx.Model(&doctor.Doctor{}).Where("id = ?", doc.ID).
			Update("slots_booked", doc.SlotsBooked).Error; err != nil {
			return fmt.Errorf("updating slot ledger: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := r.db.WithContext(ctx).Preload("User").Preload("Doctor").
		First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	if err := r.db.WithContext(ctx).Preload("Doctor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("listing user appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*appointment.Appointment, error) {
	var appts []*appointment.Appointment
	if err := r.db.WithContext(ctx).Preload("User").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("listing doctor appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) Earnings(ctx context.Context, doctorID uuid.UUID) (*appointment.Earnings, error) {
	var row struct {
		Total float64
		Cnt   int64
	}
	if err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS cnt").
		Where("doctor_id = ? AND cancelled = false", doctorID).
		Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("aggregating earnings: %w", err)
	}
	return &appointment.Earnings{
		TotalEarnings:    row.Total,
		AppointmentCount: row.Cnt,
	}, nil
}
