package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/docpoint/docpoint-api/internal/domain/doctor"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if isUniqueViolation(err) {
			return doctor.ErrEmailTaken
		}
		return fmt.Errorf("creating doctor: %w", err)
	}
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("loading doctor: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) GetByEmail(ctx context.Context, email string) (*doctor.Doctor, error) {
	var d doctor.Doctor
	if err := r.db.WithContext(ctx).First(&d, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, doctor.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("loading doctor: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]*doctor.Doctor, error) {
	var docs []*doctor.Doctor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	return docs, nil
}

func (r *DoctorRepository) Update(ctx context.Context, id uuid.UUID, cmd *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	updates := map[string]any{}
	if cmd.Fee != nil {
		updates["fee"] = *cmd.Fee
	}
	if cmd.About != nil {
		updates["about"] = *cmd.About
	}
	if cmd.Address != nil {
		updates["address"] = cmd.Address
	}
	if cmd.Available != nil {
		updates["available"] = *cmd.Available
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating doctor: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, doctor.ErrDoctorNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *DoctorRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	res := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("id = ?", id).
		Update("available", available)
	if res.Error != nil {
		return fmt.Errorf("updating availability: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return doctor.ErrDoctorNotFound
	}
	return nil
}
