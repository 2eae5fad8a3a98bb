package commands_test

import (
	"testing"

	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/domain/events"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cook() order.Actor {
	return order.Actor{UserID: "cook-1", TenantID: "tenant-1", Role: kernel.RoleCook}
}

func changeStatusCmd(t *testing.T, o *order.Order, newStatus order.Status, actor order.Actor) commands.ChangeOrderStatusCommand {
	t.Helper()
	cmd, err := commands.NewChangeOrderStatusCommand(o.ID(), newStatus, actor)
	require.NoError(t, err)
	return cmd
}

func newChangeStatusHandler(factory commands.OrderUoWFactory, publisher *MockEventPublisher) commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		factory, order.NewPermissivePolicy(), publisher, zap.NewNop())
}

func TestChangeOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := preparedOrder(t)
	cmd := changeStatusCmd(t, o, order.StatusCooking, cook())

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	publisher := new(MockEventPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once(),
		repo.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, mock.MatchedBy(func(e events.LifecycleEvent) bool {
			return e.EventType == events.EventTypeOrderStatusChanged &&
				e.PreviousStatus == "CREATED" && e.NewStatus == "COOKING" &&
				e.ChangedBy == "cook-1"
		})).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newChangeStatusHandler(factory, publisher)
	updated, change, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCreated, change.Previous)
	assert.Equal(t, order.StatusCooking, change.New)
	assert.Equal(t, order.StatusCooking, updated.Status())
	require.NotNil(t, updated.CookID())
	assert.Equal(t, "cook-1", *updated.CookID())
	publisher.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_CustomerForbidden(t *testing.T) {
	ctx := t.Context()
	o := preparedOrder(t)
	actor := order.Actor{UserID: "user-1", TenantID: "tenant-1", Role: kernel.RoleUser}
	cmd := changeStatusCmd(t, o, order.StatusCancelled, actor)

	factory := new(MockOrderUoWFactory)
	publisher := new(MockEventPublisher)

	h := newChangeStatusHandler(factory, publisher)
	_, _, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestChangeOrderStatusCommandHandler_Handle_RetriesOnVersionRace(t *testing.T) {
	ctx := t.Context()
	o := preparedOrder(t)
	cmd := changeStatusCmd(t, o, order.StatusCooking, cook())

	casErr := errs.NewConcurrentModificationError("orderId", o.ID().String())

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Twice()
	repo.On("Update", mock.Anything, o).Return(casErr).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(repo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Twice()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(nil).Once()

	h := newChangeStatusHandler(factory, publisher)
	updated, _, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCooking, updated.Status())
	repo.AssertExpectations(t)
}

func TestChangeOrderStatusCommandHandler_Handle_GivesUpAfterRetries(t *testing.T) {
	ctx := t.Context()
	o := preparedOrder(t)
	cmd := changeStatusCmd(t, o, order.StatusCooking, cook())

	casErr := errs.NewConcurrentModificationError("orderId", o.ID().String())

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Times(3)
	repo.On("Update", mock.Anything, o).Return(casErr).Times(3)

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("OrderRepository").Return(repo).Times(3)
	uow.On("Rollback", ctx).Return(nil).Times(3)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	publisher := new(MockEventPublisher)

	h := newChangeStatusHandler(factory, publisher)
	_, _, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_Handle_PublishFailureIsSwallowed(t *testing.T) {
	ctx := t.Context()
	o := preparedOrder(t)
	cmd := changeStatusCmd(t, o, order.StatusReady, cook())

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
	repo.On("Update", mock.Anything, o).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.Anything).Return(assert.AnError).Once()

	h := newChangeStatusHandler(factory, publisher)
	updated, change, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.StatusReady, change.New)
	assert.Equal(t, order.StatusReady, updated.Status())
}

func TestChangeOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewChangeOrderStatusCommand(id, order.StatusCooking, cook())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("orderId", id.String())).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	h := newChangeStatusHandler(factory, publisher)
	_, _, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
