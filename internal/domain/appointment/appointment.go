package appointment

import (
	"time"

	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/google/uuid"
)

// Appointment is the authoritative booking record. For any
// (doctor_id, slot_date, slot_time) at most one row with cancelled = false
// may exist; a partial unique index backstops the in-transaction checks.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_appointments_user_date" json:"userId"`
	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index:idx_appointments_doctor_date" json:"docId"`

	SlotDate string `gorm:"column:slot_date;type:varchar(10);not null;index:idx_appointments_user_date;index:idx_appointments_doctor_date" json:"slotDate"`
	SlotTime string `gorm:"column:slot_time;type:varchar(10);not null" json:"slotTime"`

	// Snapshot of the doctor's fee at booking time.
	Amount float64 `gorm:"column:amount;not null" json:"amount"`

	Cancelled   bool `gorm:"column:cancelled;not null;default:false;index" json:"cancelled"`
	Payment     bool `gorm:"column:payment;not null;default:false" json:"payment"`
	IsCompleted bool `gorm:"column:is_completed;not null;default:false" json:"isCompleted"`

	User   *user.User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Doctor *doctor.Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "booking.appointments"
}

func (a *Appointment) IsActive() bool {
	return !a.Cancelled
}

// Cancel marks the appointment cancelled. The transition is terminal:
// there is no path back to active.
func (a *Appointment) Cancel() error {
	if a.Cancelled {
		return ErrAlreadyCancelled
	}
	a.Cancelled = true
	return nil
}

type CreateAppointmentCommand struct {
	UserID   uuid.UUID
	DoctorID uuid.UUID
	SlotDate string
	SlotTime string
	Amount   float64
}

// Earnings aggregates a doctor's non-cancelled bookings.
type Earnings struct {
	TotalEarnings    float64 `json:"totalEarnings"`
	AppointmentCount int64   `json:"appointmentCount"`
}
