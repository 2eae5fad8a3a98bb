package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"foodorders/internal/adapters/out/postgres/orderrepo"
	"foodorders/internal/core/domain/model/kernel"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// GormOrderRepository using PostgreSQL containers to verify persistence
// behavior, including the optimistic concurrency check.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	price, err := kernel.ParseMoney("12.99")
	suite.Require().NoError(err)
	item1, err := order.NewItem("p-1", "Kottu", 1, price, 15)
	suite.Require().NoError(err)

	price2, err := kernel.ParseMoney("3.50")
	suite.Require().NoError(err)
	item2, err := order.NewItem("p-2", "Faluda", 2, price2, 5)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		"tenant-1",
		"user-1",
		order.UserInfo{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			Email:       "ada@example.com",
			PhoneNumber: "+94771234567",
			Address:     "42 Galle Road",
		},
		[]order.Item{item1, item2},
		"extra spicy",
		"CASH",
		"42 Galle Road",
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))
	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsAggregate() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(restored.IsEqual(testOrder))
	suite.Equal(testOrder.TenantID(), restored.TenantID())
	suite.Equal(testOrder.UserID(), restored.UserID())
	suite.Equal(testOrder.UserInfo(), restored.UserInfo())
	suite.Equal(order.StatusCreated, restored.Status())
	suite.Equal("19.99", restored.Total().String())
	suite.Equal(15, restored.EstimatedPreparationTimeMinutes())
	suite.Equal(1, restored.Version())
	suite.Len(restored.Items(), 2)
	suite.Contains(restored.Timeline(), order.StatusCreated)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_UnknownOrder_ReturnsNotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransitionAndBumpsVersion() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	actor := order.Actor{UserID: "cook-1", TenantID: "tenant-1", Role: kernel.RoleCook}
	_, err := testOrder.ChangeStatus(order.NewPermissivePolicy(), order.StatusCooking, actor,
		time.Now().UTC().Truncate(time.Microsecond))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusCooking, restored.Status())
	suite.Require().NotNil(restored.CookID())
	suite.Equal("cook-1", *restored.CookID())
	suite.Equal(2, restored.Version())
	suite.Contains(restored.Timeline(), order.StatusCooking)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_SameAggregateTwice_Succeeds() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	policy := order.NewPermissivePolicy()
	actor := order.Actor{UserID: "cook-1", TenantID: "tenant-1", Role: kernel.RoleCook}

	_, err := testOrder.ChangeStatus(policy, order.StatusCooking, actor, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))
	suite.Equal(2, testOrder.Version())

	// the same loaded aggregate carries the persisted version forward
	_, err = testOrder.ChangeStatus(policy, order.StatusReady, actor, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusReady, restored.Status())
	suite.Equal(3, restored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConcurrentModification() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	policy := order.NewPermissivePolicy()
	cookActor := order.Actor{UserID: "cook-1", TenantID: "tenant-1", Role: kernel.RoleCook}

	// Two writers load the same version
	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	_, err = first.ChangeStatus(policy, order.StatusCooking, cookActor, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.ChangeStatus(policy, order.StatusReady, cookActor, time.Now().UTC())
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)
	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)

	// The first writer's transition won
	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusCooking, restored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ResolvedOrderKeepsResolution() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	actor := order.Actor{UserID: "disp-1", TenantID: "tenant-1", Role: kernel.RoleDispatcher}
	resolvedAt := time.Now().UTC().Truncate(time.Microsecond)
	_, err := testOrder.ChangeStatus(order.NewPermissivePolicy(), order.StatusDelivered, actor, resolvedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(restored.ResolvedAt())
	suite.Equal(resolvedAt, restored.ResolvedAt().UTC())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
