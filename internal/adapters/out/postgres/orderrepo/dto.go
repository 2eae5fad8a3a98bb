// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Item lines, the status timeline and the customer snapshot are document-like
// and stored as JSONB; the columns queried by the read side (tenant, status,
// timestamps) stay relational and indexed.
type OrderDTO struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantID        string       `gorm:"type:text;index:idx_orders_tenant_status"`
	UserID          string       `gorm:"type:text;index"`
	UserInfo        UserInfoJSON `gorm:"type:jsonb"`
	Items           ItemsJSON    `gorm:"type:jsonb"`
	Status          string       `gorm:"type:text;index:idx_orders_tenant_status"`
	Timeline        TimelineJSON `gorm:"type:jsonb"`
	CookID          *string      `gorm:"type:text"`
	DispatcherID    *string      `gorm:"type:text"`
	ResolvedAt      *time.Time
	TotalCents      int64
	Notes           string `gorm:"type:text"`
	PaymentMethod   string `gorm:"type:text"`
	DeliveryAddress string `gorm:"type:text"`
	EstimatedPrep   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is the JSON shape of a single order line inside the items column.
type ItemDTO struct {
	ProductID              string `json:"productId"`
	Name                   string `json:"name"`
	Quantity               int    `json:"quantity"`
	UnitPriceCents         int64  `json:"unitPriceCents"`
	SubtotalCents          int64  `json:"subtotalCents"`
	PreparationTimeMinutes int    `json:"preparationTimeMinutes"`
}

// ItemsJSON stores order lines as a JSONB array.
type ItemsJSON []ItemDTO

func (j ItemsJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *ItemsJSON) Scan(src any) error {
	return scanJSON(src, j)
}

// TimelineJSON stores the status timeline as a JSONB object keyed by status
// token.
type TimelineJSON map[string]time.Time

func (j TimelineJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *TimelineJSON) Scan(src any) error {
	return scanJSON(src, j)
}

// UserInfoJSON stores the customer snapshot as a JSONB object.
type UserInfoJSON struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

func (j UserInfoJSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *UserInfoJSON) Scan(src any) error {
	return scanJSON(src, j)
}

func scanJSON(src, dst any) error {
	switch raw := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(raw, dst)
	case string:
		return json.Unmarshal([]byte(raw), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make(ItemsJSON, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			ProductID:              item.ProductID(),
			Name:                   item.Name(),
			Quantity:               item.Quantity(),
			UnitPriceCents:         item.UnitPrice().Cents(),
			SubtotalCents:          item.Subtotal().Cents(),
			PreparationTimeMinutes: item.PreparationTimeMinutes(),
		})
	}

	timeline := make(TimelineJSON, len(aggregate.Timeline()))
	for status, at := range aggregate.Timeline() {
		timeline[status.String()] = at
	}

	info := aggregate.UserInfo()

	return OrderDTO{
		ID:       aggregate.ID().Bytes(),
		TenantID: aggregate.TenantID(),
		UserID:   aggregate.UserID(),
		UserInfo: UserInfoJSON{
			FirstName:   info.FirstName,
			LastName:    info.LastName,
			Email:       info.Email,
			PhoneNumber: info.PhoneNumber,
			Address:     info.Address,
		},
		Items:           items,
		Status:          aggregate.Status().String(),
		Timeline:        timeline,
		CookID:          aggregate.CookID(),
		DispatcherID:    aggregate.DispatcherID(),
		ResolvedAt:      aggregate.ResolvedAt(),
		TotalCents:      aggregate.Total().Cents(),
		Notes:           aggregate.Notes(),
		PaymentMethod:   aggregate.PaymentMethod(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		EstimatedPrep:   aggregate.EstimatedPreparationTimeMinutes(),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
		Version:         aggregate.Version(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate via RestoreOrder; totals and the
// preparation estimate are re-derived from the stored item lines.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		unitPrice, priceErr := kernel.NewMoneyFromCents(itemDTO.UnitPriceCents)
		if priceErr != nil {
			return nil, priceErr
		}

		item, itemErr := order.NewItem(
			itemDTO.ProductID,
			itemDTO.Name,
			itemDTO.Quantity,
			unitPrice,
			itemDTO.PreparationTimeMinutes,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	timeline := make(map[order.Status]time.Time, len(dto.Timeline))
	for token, at := range dto.Timeline {
		timelineStatus, tlErr := order.StatusFromString(token)
		if tlErr != nil {
			return nil, tlErr
		}
		timeline[timelineStatus] = at
	}

	return order.RestoreOrder(
		id,
		dto.TenantID,
		dto.UserID,
		order.UserInfo{
			FirstName:   dto.UserInfo.FirstName,
			LastName:    dto.UserInfo.LastName,
			Email:       dto.UserInfo.Email,
			PhoneNumber: dto.UserInfo.PhoneNumber,
			Address:     dto.UserInfo.Address,
		},
		items,
		status,
		timeline,
		dto.CookID,
		dto.DispatcherID,
		dto.ResolvedAt,
		dto.Notes,
		dto.PaymentMethod,
		dto.DeliveryAddress,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.Version,
	)
}
