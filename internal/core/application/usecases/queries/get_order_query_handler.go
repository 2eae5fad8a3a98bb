package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/pkg/errs"
)

// GetOrderQueryHandler retrieves a single order directly from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup and enforces visibility: customers see only
// their own orders, staff see orders of their tenant. A visibility
// violation is reported as permission denied, not as absence, so a
// customer probing foreign order IDs learns the order exists but nothing
// else.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tenant_id,
			user_id,
			items,
			status,
			timeline,
			cook_id,
			dispatcher_id,
			resolved_at,
			total_cents,
			notes,
			payment_method,
			delivery_address,
			estimated_prep,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	response, err := scanOrderRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
		}
		return OrderResponse{}, err
	}

	requester := query.Requester()
	if requester.Role.IsStaff() {
		if response.TenantID != requester.TenantID {
			return OrderResponse{}, errs.NewPermissionDeniedError("order belongs to another tenant")
		}
	} else if response.UserID != requester.UserID {
		return OrderResponse{}, errs.NewPermissionDeniedError("order belongs to another customer")
	}

	return response, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderRow(row rowScanner) (OrderResponse, error) {
	var (
		id           uuid.UUID
		response     OrderResponse
		itemsRaw     []byte
		timelineRaw  []byte
		resolvedAt   sql.NullTime
		cookID       sql.NullString
		dispatcherID sql.NullString
		totalCents   int64
	)

	err := row.Scan(
		&id,
		&response.TenantID,
		&response.UserID,
		&itemsRaw,
		&response.Status,
		&timelineRaw,
		&cookID,
		&dispatcherID,
		&resolvedAt,
		&totalCents,
		&response.Notes,
		&response.PaymentMethod,
		&response.DeliveryAddress,
		&response.EstimatedPreparationTimeMinutes,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	response.ID = id.String()

	var itemDTOs []struct {
		ProductID      string `json:"productId"`
		Name           string `json:"name"`
		Quantity       int    `json:"quantity"`
		UnitPriceCents int64  `json:"unitPriceCents"`
		SubtotalCents  int64  `json:"subtotalCents"`
	}
	if err := json.Unmarshal(itemsRaw, &itemDTOs); err != nil {
		return OrderResponse{}, err
	}

	response.Items = make([]OrderItemResponse, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		unitPrice, priceErr := kernel.NewMoneyFromCents(itemDTO.UnitPriceCents)
		if priceErr != nil {
			return OrderResponse{}, priceErr
		}
		subtotal, subErr := kernel.NewMoneyFromCents(itemDTO.SubtotalCents)
		if subErr != nil {
			return OrderResponse{}, subErr
		}

		response.Items = append(response.Items, OrderItemResponse{
			ProductID: itemDTO.ProductID,
			Name:      itemDTO.Name,
			Quantity:  itemDTO.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}

	response.Timeline = make(map[string]time.Time)
	if err := json.Unmarshal(timelineRaw, &response.Timeline); err != nil {
		return OrderResponse{}, err
	}

	total, err := kernel.NewMoneyFromCents(totalCents)
	if err != nil {
		return OrderResponse{}, err
	}
	response.Total = total

	if cookID.Valid {
		response.CookID = &cookID.String
	}
	if dispatcherID.Valid {
		response.DispatcherID = &dispatcherID.String
	}
	if resolvedAt.Valid {
		response.ResolvedAt = &resolvedAt.Time
	}

	return response, nil
}
