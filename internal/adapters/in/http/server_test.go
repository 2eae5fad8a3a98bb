package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httpin "foodorders/internal/adapters/in/http"
	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/events"
	"foodorders/internal/core/domain/model/connection"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/core/domain/model/product"
	"foodorders/internal/core/domain/model/user"
	"foodorders/internal/core/ports"
	"foodorders/internal/pkg/errs"
	"foodorders/internal/workflow"
)

type mockConnectionRegistry struct{ mock.Mock }

func (m *mockConnectionRegistry) Register(ctx context.Context, conn *connection.Connection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *mockConnectionRegistry) Unregister(ctx context.Context, connectionID string) error {
	args := m.Called(ctx, connectionID)
	return args.Error(0)
}

func (m *mockConnectionRegistry) FindByUser(ctx context.Context, userID string) ([]*connection.Connection, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*connection.Connection), args.Error(1)
}

func (m *mockConnectionRegistry) FindByTenant(ctx context.Context, tenantID string) ([]*connection.Connection, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*connection.Connection), args.Error(1)
}

func (m *mockConnectionRegistry) PurgeExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockOrderRepository struct{ mock.Mock }

func (m *mockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *mockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type mockOrderUoW struct{ mock.Mock }

func (m *mockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type mockOrderUoWFactory struct{ mock.Mock }

func (m *mockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) Publish(ctx context.Context, event events.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockProductRepository struct{ mock.Mock }

func (m *mockProductRepository) Get(ctx context.Context, tenantID, productID string) (*product.Product, error) {
	args := m.Called(ctx, tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type serverFixture struct {
	registry  *mockConnectionRegistry
	repo      *mockOrderRepository
	uow       *mockOrderUoW
	factory   *mockOrderUoWFactory
	publisher *mockEventPublisher
	echo      *echo.Echo
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		registry:  new(mockConnectionRegistry),
		repo:      new(mockOrderRepository),
		uow:       new(mockOrderUoW),
		factory:   new(mockOrderUoWFactory),
		publisher: new(mockEventPublisher),
		echo:      echo.New(),
	}

	// The intake's catalog and customer lookups are irrelevant to the
	// HTTP contract tests; the async flow simply fails against a silent
	// logger when exercised.
	catalog := new(mockProductRepository)
	catalog.On("Get", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("productId", "any")).Maybe()
	users := new(mockUserRepository)
	users.On("Get", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("userId", "any")).Maybe()
	intake := workflow.NewOrderIntake(
		commands.NewPrepareOrderCommandHandler(catalog, users),
		commands.NewCreateOrderCommandHandler(f.factory, f.publisher),
		zap.NewNop(),
	)

	changeStatusHandler := commands.NewChangeOrderStatusCommandHandler(
		f.factory, order.NewPermissivePolicy(), f.publisher, zap.NewNop())
	registerHandler := commands.NewRegisterConnectionCommandHandler(f.registry)
	unregisterHandler := commands.NewUnregisterConnectionCommandHandler(f.registry)

	server := httpin.NewServer(
		intake,
		changeStatusHandler,
		registerHandler,
		unregisterHandler,
		queries.GetOrderQueryHandler{},
		queries.GetActiveOrdersQueryHandler{},
	)
	server.RegisterRoutes(f.echo)
	return f
}

func (f *serverFixture) do(method, target string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func staffHeaders() map[string]string {
	return map[string]string{
		httpin.HeaderUserID:   "cook-1",
		httpin.HeaderUserRole: "COOK",
		httpin.HeaderTenantID: "tenant-1",
	}
}

func customerHeaders() map[string]string {
	return map[string]string{
		httpin.HeaderUserID:   "user-1",
		httpin.HeaderUserRole: "USER",
		httpin.HeaderTenantID: "tenant-1",
	}
}

func storedOrder(t *testing.T) *order.Order {
	t.Helper()

	price, err := kernel.ParseMoney("12.99")
	require.NoError(t, err)
	item, err := order.NewItem("p-1", "Kottu", 1, price, 20)
	require.NoError(t, err)

	now := time.Now().UTC()
	o, err := order.NewOrder(
		kernel.NewUUID(), "tenant-1", "user-1",
		order.UserInfo{FirstName: "Ada", LastName: "Lovelace"},
		[]order.Item{item},
		"", "CASH", "42 Galle Road",
		now,
	)
	require.NoError(t, err)
	return o
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body httpin.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestServer_ChangeOrderStatus(t *testing.T) {
	t.Run("staff transition returns the updated order", func(t *testing.T) {
		f := newServerFixture(t)
		o := storedOrder(t)

		f.factory.On("Create").Return(f.uow).Once()
		f.uow.On("Begin", mock.Anything).Return(nil).Once()
		f.uow.On("OrderRepository").Return(f.repo).Once()
		f.uow.On("Commit", mock.Anything).Return(nil).Once()
		f.uow.On("Rollback", mock.Anything).Return(nil).Once()
		f.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
		f.repo.On("Update", mock.Anything, o).Return(nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

		rec := f.do(http.MethodPut,
			"/api/v1/orders/"+o.ID().String()+"/status",
			`{"status":"COOKING"}`, staffHeaders())

		require.Equal(t, http.StatusOK, rec.Code)
		var response httpin.ChangeOrderStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, o.ID().String(), response.OrderID)
		assert.Equal(t, "CREATED", response.PreviousStatus)
		assert.Equal(t, "COOKING", response.NewStatus)
		assert.False(t, response.UpdatedAt.IsZero())
		f.repo.AssertExpectations(t)
	})

	t.Run("customer role is forbidden", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodPut,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/status",
			`{"status":"COOKING"}`, customerHeaders())

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
		f.factory.AssertNotCalled(t, "Create")
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodPut,
			"/api/v1/orders/"+kernel.NewUUID().String()+"/status",
			`{"status":"TELEPORTED"}`, staffHeaders())

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("malformed order id is a validation error", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodPut, "/api/v1/orders/not-a-uuid/status",
			`{"status":"COOKING"}`, staffHeaders())

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})
}

func TestServer_CreateOrder(t *testing.T) {
	t.Run("accepted requests answer 202 with a tracking id", func(t *testing.T) {
		f := newServerFixture(t)

		// The intake runs asynchronously after the response; only the
		// acknowledgement contract is asserted here.
		rec := f.do(http.MethodPost, "/api/v1/orders",
			`{"items":[{"productId":"p-1","quantity":2}],"deliveryAddress":"42 Galle Road"}`,
			customerHeaders())

		require.Equal(t, http.StatusAccepted, rec.Code)
		var response httpin.CreateOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "ACCEPTED", response.Status)
		_, err := kernel.UUIDFromString(response.OrderID)
		assert.NoError(t, err)
	})

	t.Run("missing identity header is a validation error", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders",
			`{"items":[{"productId":"p-1","quantity":1}]}`, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})

	t.Run("empty item list is rejected before acknowledgement", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders",
			`{"items":[]}`, customerHeaders())

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
	})
}

func TestServer_Connections(t *testing.T) {
	t.Run("register stores the connection", func(t *testing.T) {
		f := newServerFixture(t)
		f.registry.On("Register", mock.Anything, mock.MatchedBy(func(conn *connection.Connection) bool {
			return conn.ID() == "conn-1" && conn.UserID() == "user-1"
		})).Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/connections",
			`{"connectionId":"conn-1"}`, customerHeaders())

		require.Equal(t, http.StatusCreated, rec.Code)
		f.registry.AssertExpectations(t)
	})

	t.Run("unregister answers no content", func(t *testing.T) {
		f := newServerFixture(t)
		f.registry.On("Unregister", mock.Anything, "conn-1").Return(nil).Once()

		rec := f.do(http.MethodDelete, "/api/v1/connections/conn-1", "", nil)

		require.Equal(t, http.StatusNoContent, rec.Code)
		f.registry.AssertExpectations(t)
	})
}

func TestServer_GetActiveOrders(t *testing.T) {
	t.Run("customer role is forbidden", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/active", "", customerHeaders())

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
	})
}

func TestServer_Health(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}
