// Package userrepo persists the customer profile read model consumed by
// order intake.
package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodorders/internal/core/domain/model/user"
	"foodorders/internal/pkg/errs"
)

// UserDTO represents the database structure for customer profiles.
type UserDTO struct {
	ID          string `gorm:"type:text;primaryKey"`
	FirstName   string `gorm:"type:text"`
	LastName    string `gorm:"type:text"`
	Email       string `gorm:"type:text"`
	PhoneNumber string `gorm:"type:text"`
	Address     string `gorm:"type:text"`
}

// TableName specifies the database table name for customer profiles.
func (UserDTO) TableName() string {
	return "users"
}

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add saves a customer profile. Used by identity sync and test fixtures.
func (r *GormUserRepository) Add(ctx context.Context, profile *user.User) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	dto := UserDTO{
		ID:          profile.ID(),
		FirstName:   profile.FirstName(),
		LastName:    profile.LastName(),
		Email:       profile.Email(),
		PhoneNumber: profile.PhoneNumber(),
		Address:     profile.Address(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a customer profile by identifier.
func (r *GormUserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("userId", id)
		}
		return nil, err
	}

	return user.NewUser(dto.ID, dto.FirstName, dto.LastName, dto.Email, dto.PhoneNumber, dto.Address)
}
