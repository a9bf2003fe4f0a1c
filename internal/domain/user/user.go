package user

import (
	"time"

	"github.com/docpoint/docpoint-api/internal/domain"
	"github.com/google/uuid"
)

const defaultImage = "https://cdn-icons-png.flaticon.com/512/149/149071.png"

// User is a patient account. Doctors live in their own aggregate.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	Name         string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`

	Image   string          `gorm:"column:image;type:text" json:"image"`
	Phone   string          `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Address *domain.Address `gorm:"column:address;serializer:json" json:"address,omitempty"`
	Gender  string          `gorm:"column:gender;type:varchar(20)" json:"gender"`
	DOB     string          `gorm:"column:dob;type:varchar(10)" json:"dob"`

	FailedLoginCount int        `gorm:"column:failed_login_count;default:0" json:"-"`
	LockedUntil      *time.Time `gorm:"column:locked_until" json:"-"`
	LastLoginAt      *time.Time `gorm:"column:last_login_at" json:"-"`
}

func (User) TableName() string {
	return "booking.users"
}

// IsLocked returns true if the account is temporarily locked due to failed logins.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// NewDefaults fills the placeholder profile values the original product
// assigns at registration.
func (u *User) NewDefaults() {
	if u.Image == "" {
		u.Image = defaultImage
	}
	if u.Gender == "" {
		u.Gender = "Not Selected"
	}
	if u.DOB == "" {
		u.DOB = "Not Selected"
	}
	if u.Address == nil {
		u.Address = &domain.Address{}
	}
}

type UpdateUserCommand struct {
	Name    *string
	Phone   *string
	Address *domain.Address
	DOB     *string
	Gender  *string
}
