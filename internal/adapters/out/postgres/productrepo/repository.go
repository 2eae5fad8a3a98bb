// Package productrepo persists the tenant catalog read model consumed by
// order intake.
package productrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/product"
	"foodorders/internal/pkg/errs"
)

// ProductDTO represents the database structure for catalog entries.
type ProductDTO struct {
	ID                     string `gorm:"type:text;primaryKey"`
	TenantID               string `gorm:"type:text;primaryKey"`
	Name                   string `gorm:"type:text"`
	PriceCents             int64
	PreparationTimeMinutes int
	Available              bool
}

// TableName specifies the database table name for catalog entries.
func (ProductDTO) TableName() string {
	return "products"
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Add saves a catalog entry. Used by catalog sync and test fixtures.
func (r *GormProductRepository) Add(ctx context.Context, entry *product.Product) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a catalog entry by tenant and product identifier.
func (r *GormProductRepository) Get(ctx context.Context, tenantID, productID string) (*product.Product, error) {
	var dto ProductDTO
	err := r.db.WithContext(ctx).
		First(&dto, "tenant_id = ? AND id = ?", tenantID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("productId", productID)
		}
		return nil, err
	}

	return toDomain(dto)
}

func fromDomain(entry *product.Product) ProductDTO {
	return ProductDTO{
		ID:                     entry.ID(),
		TenantID:               entry.TenantID(),
		Name:                   entry.Name(),
		PriceCents:             entry.Price().Cents(),
		PreparationTimeMinutes: entry.PreparationTimeMinutes(),
		Available:              entry.IsAvailable(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	price, err := kernel.NewMoneyFromCents(dto.PriceCents)
	if err != nil {
		return nil, err
	}

	return product.NewProduct(
		dto.ID,
		dto.TenantID,
		dto.Name,
		price,
		dto.PreparationTimeMinutes,
		dto.Available,
	)
}
