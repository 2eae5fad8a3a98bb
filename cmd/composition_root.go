package cmd

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	eventsin "foodorders/internal/adapters/in/events"
	"foodorders/internal/adapters/out/postgres"
	"foodorders/internal/adapters/out/postgres/productrepo"
	"foodorders/internal/adapters/out/postgres/userrepo"
	"foodorders/internal/adapters/out/push"
	"foodorders/internal/adapters/out/redis/connregistry"
	"foodorders/internal/adapters/out/redis/eventbus"
	"foodorders/internal/core/application/usecases/commands"
	"foodorders/internal/core/application/usecases/queries"
	"foodorders/internal/core/domain/model/order"
	"foodorders/internal/jobs"
	"foodorders/internal/workflow"
)

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	redisClient *redis.Client
	uowFactory  postgres.GormUnitOfWorkFactory
	registry    *connregistry.RedisConnectionRegistry
	publisher   *eventbus.RedisEventPublisher
	logger      *zap.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *zap.Logger) CompositionRoot {
	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		redisClient: redisClient,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:    connregistry.NewRedisConnectionRegistry(redisClient),
		publisher:   eventbus.NewRedisEventPublisher(redisClient, config.EventStream),
		logger:      logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePrepareOrderCommandHandler() commands.PrepareOrderCommandHandler {
	return commands.NewPrepareOrderCommandHandler(
		productrepo.NewGormProductRepository(c.gormDB),
		userrepo.NewGormUserRepository(c.gormDB),
	)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.orderUoWFactory(),
		order.NewPermissivePolicy(),
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateRegisterConnectionCommandHandler() commands.RegisterConnectionCommandHandler {
	return commands.NewRegisterConnectionCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateUnregisterConnectionCommandHandler() commands.UnregisterConnectionCommandHandler {
	return commands.NewUnregisterConnectionCommandHandler(c.registry)
}

func (c *CompositionRoot) CreateNotifyOrderEventCommandHandler() commands.NotifyOrderEventCommandHandler {
	return commands.NewNotifyOrderEventCommandHandler(
		c.registry,
		push.NewGatewaySender(c.config.PushGatewayURL),
		c.logger,
		commands.DefaultSendTimeout,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOrderIntake() *workflow.OrderIntake {
	return workflow.NewOrderIntake(
		c.CreatePrepareOrderCommandHandler(),
		c.CreateCreateOrderCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateStreamSubscriber() *eventsin.StreamSubscriber {
	return eventsin.NewStreamSubscriber(
		c.redisClient,
		c.CreateNotifyOrderEventCommandHandler(),
		c.logger,
		c.publisher.Stream(),
		c.config.EventConsumerGroup,
		c.config.EventConsumerName,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.registry, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
