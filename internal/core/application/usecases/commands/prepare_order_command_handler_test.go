package commands_test

import (
	"testing"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/domain/model/product"
	"foodorders/internal/core/domain/model/user"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalogEntry(t *testing.T, id, price string, prepMinutes int, available bool) *product.Product {
	t.Helper()
	money, err := kernel.ParseMoney(price)
	require.NoError(t, err)
	entry, err := product.NewProduct(id, "tenant-1", "Dish "+id, money, prepMinutes, available)
	require.NoError(t, err)
	return entry
}

func customer(t *testing.T) *user.User {
	t.Helper()
	u, err := user.NewUser("user-1", "Ada", "Lovelace", "ada@example.com", "+94771234567", "42 Galle Road")
	require.NoError(t, err)
	return u
}

func TestPrepareOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPrepareOrderCommand(
		kernel.NewUUID(), "tenant-1", "user-1",
		[]commands.OrderLine{
			{ProductID: "p-1", Quantity: 1},
			{ProductID: "p-2", Quantity: 2},
		},
		"extra spicy", "", "")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("Get", ctx, "user-1").Return(customer(t), nil).Once()

	catalog := new(MockProductRepository)
	catalog.On("Get", ctx, "tenant-1", "p-1").Return(catalogEntry(t, "p-1", "12.99", 20, true), nil).Once()
	catalog.On("Get", ctx, "tenant-1", "p-2").Return(catalogEntry(t, "p-2", "3.50", 0, true), nil).Once()

	h := commands.NewPrepareOrderCommandHandler(catalog, users)
	prepared, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.StatusCreated, prepared.Status())
	assert.Equal(t, "19.99", prepared.Total().String())
	assert.Equal(t, 20, prepared.EstimatedPreparationTimeMinutes())
	assert.Equal(t, commands.DefaultPaymentMethod, prepared.PaymentMethod())
	assert.Equal(t, "42 Galle Road", prepared.DeliveryAddress())
	assert.Equal(t, "Ada", prepared.UserInfo().FirstName)
	users.AssertExpectations(t)
	catalog.AssertExpectations(t)
}

func TestPrepareOrderCommandHandler_Handle_DefaultPreparationTime(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPrepareOrderCommand(
		kernel.NewUUID(), "tenant-1", "user-1",
		[]commands.OrderLine{{ProductID: "p-2", Quantity: 1}}, "", "", "")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("Get", ctx, "user-1").Return(customer(t), nil).Once()
	catalog := new(MockProductRepository)
	catalog.On("Get", ctx, "tenant-1", "p-2").Return(catalogEntry(t, "p-2", "3.50", 0, true), nil).Once()

	h := commands.NewPrepareOrderCommandHandler(catalog, users)
	prepared, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, commands.DefaultPreparationTimeMinutes, prepared.EstimatedPreparationTimeMinutes())
}

func TestPrepareOrderCommandHandler_Handle_UnknownProduct(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPrepareOrderCommand(
		kernel.NewUUID(), "tenant-1", "user-1",
		[]commands.OrderLine{{ProductID: "p-404", Quantity: 1}}, "", "", "")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("Get", ctx, "user-1").Return(customer(t), nil).Once()
	catalog := new(MockProductRepository)
	catalog.On("Get", ctx, "tenant-1", "p-404").
		Return(nil, errs.NewObjectNotFoundError("productId", "p-404")).Once()

	h := commands.NewPrepareOrderCommandHandler(catalog, users)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.NotErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestPrepareOrderCommandHandler_Handle_UnavailableProduct(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPrepareOrderCommand(
		kernel.NewUUID(), "tenant-1", "user-1",
		[]commands.OrderLine{{ProductID: "p-1", Quantity: 1}}, "", "", "")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("Get", ctx, "user-1").Return(customer(t), nil).Once()
	catalog := new(MockProductRepository)
	catalog.On("Get", ctx, "tenant-1", "p-1").Return(catalogEntry(t, "p-1", "12.99", 20, false), nil).Once()

	h := commands.NewPrepareOrderCommandHandler(catalog, users)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.ErrorIs(t, err, commands.ErrProductIsUnavailable)
}

func TestPrepareOrderCommandHandler_Handle_UnknownUser(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPrepareOrderCommand(
		kernel.NewUUID(), "tenant-1", "user-404", validLines(), "", "", "")
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("Get", ctx, "user-404").
		Return(nil, errs.NewObjectNotFoundError("userId", "user-404")).Once()
	catalog := new(MockProductRepository)
	catalog.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)

	h := commands.NewPrepareOrderCommandHandler(catalog, users)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.NotErrorIs(t, err, errs.ErrObjectNotFound)
}
