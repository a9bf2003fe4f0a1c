package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrForbidden = errors.New("forbidden: insufficient permissions")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	PrincipalID  uuid.UUID
	Role         string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	Changes      string
}
