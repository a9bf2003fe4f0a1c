package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor. Returns ErrEmailTaken on duplicate email.
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a doctor by primary key. Returns ErrDoctorNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByEmail retrieves a doctor by login email.
	GetByEmail(ctx context.Context, email string) (*Doctor, error)

	// List returns all doctors for the public directory.
	List(ctx context.Context) ([]*Doctor, error)

	// Update applies partial profile updates.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateDoctorCommand) (*Doctor, error)

	// SetAvailability flips the booking flag.
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
}
