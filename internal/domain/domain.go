package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is the two-line postal shape shared by patient and doctor profiles.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	}
	return false
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionCancel AuditAction = "cancel"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	// Who
	PrincipalID uuid.UUID `gorm:"column:principal_id;type:uuid;not null;index"`
	Role        Role      `gorm:"column:role;type:varchar(20);not null"`
	IPAddress   string    `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	Changes string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

// Claims is the authenticated principal attached to every request.
// Role is an explicit token claim, not inferred from the route that
// accepted the token.
type Claims struct {
	PrincipalID uuid.UUID `json:"sub"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
}
