package doctor

import (
	"time"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/google/uuid"
)

// SlotLedger is the denormalized cache of booked slots, keyed by date
// (YYYY-MM-DD) then by time label. It is maintained transactionally
// alongside the appointment store and is never treated as the source of
// truth on its own; the partial unique index on appointments is.
type SlotLedger map[string]map[string]bool

func (l SlotLedger) IsBooked(date, timeLabel string) bool {
	return l[date][timeLabel]
}

func (l SlotLedger) Set(date, timeLabel string) SlotLedger {
	if l == nil {
		l = SlotLedger{}
	}
	if l[date] == nil {
		l[date] = map[string]bool{}
	}
	l[date][timeLabel] = true
	return l
}

// Unset removes the entry so a freed slot is indistinguishable from one
// that was never booked. Empty date maps are dropped.
func (l SlotLedger) Unset(date, timeLabel string) {
	if l[date] == nil {
		return
	}
	delete(l[date], timeLabel)
	if len(l[date]) == 0 {
		delete(l, date)
	}
}

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Name         string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email,omitempty"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`

	Image      string  `gorm:"column:image;type:text" json:"image"`
	Speciality string  `gorm:"column:speciality;type:varchar(100);not null" json:"speciality"`
	Degree     string  `gorm:"column:degree;type:varchar(100);not null" json:"degree"`
	Experience string  `gorm:"column:experience;type:varchar(50);not null" json:"experience"`
	About      string  `gorm:"column:about;type:text" json:"about"`
	Fee        float64 `gorm:"column:fee;not null" json:"fees"`

	Available bool `gorm:"column:available;not null;default:true" json:"available"`

	Address     *domain.Address `gorm:"column:address;serializer:json" json:"address,omitempty"`
	SlotsBooked SlotLedger      `gorm:"column:slots_booked;serializer:json" json:"slots_booked"`
}

func (Doctor) TableName() string {
	return "booking.doctors"
}

// Public strips credential and contact fields for the unauthenticated
// directory listing.
func (d *Doctor) Public() *Doctor {
	pub := *d
	pub.Email = ""
	pub.PasswordHash = ""
	return &pub
}

type UpdateDoctorCommand struct {
	Fee       *float64
	About     *string
	Address   *domain.Address
	Available *bool
}
