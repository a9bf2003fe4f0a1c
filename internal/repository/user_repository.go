package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docpoint/docpoint-api/internal/domain/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 5
	lockDuration    = 15 * time.Minute
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, cmd *user.UpdateUserCommand) (*user.User, error) {
	updates := map[string]any{}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Phone != nil {
		updates["phone"] = *cmd.Phone
	}
	if cmd.Address != nil {
		updates["address"] = cmd.Address
	}
	if cmd.DOB != nil {
		updates["dob"] = *cmd.DOB
	}
	if cmd.Gender != nil {
		updates["gender"] = *cmd.Gender
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("updating user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, user.ErrUserNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// UpdateLoginAttempt records a login outcome. A successful login clears the
// failure counter; repeated failures lock the account for lockDuration.
func (r *UserRepository) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	if success {
		now := time.Now()
		return r.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", id).
			Updates(map[string]any{
				"failed_login_count": 0,
				"locked_until":       nil,
				"last_login_at":      now,
			}).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		updates := map[string]any{"failed_login_count": u.FailedLoginCount + 1}
		if u.FailedLoginCount+1 >= maxFailedLogins {
			updates["locked_until"] = time.Now().Add(lockDuration)
		}
		return tx.Model(&user.User{}).Where("id = ?", id).Updates(updates).Error
	})
}
