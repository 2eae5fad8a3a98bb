package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"foodorders/cmd"
	httpin "foodorders/internal/adapters/in/http"
	"foodorders/internal/adapters/out/postgres/orderrepo"
	"foodorders/internal/adapters/out/postgres/productrepo"
	"foodorders/internal/adapters/out/postgres/userrepo"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	configs := getConfigs(logger)

	gormDB := mustConnectDB(configs, logger)
	redisClient := mustConnectRedis(configs, logger)

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)

	subscriber := app.CreateStreamSubscriber()
	if err := subscriber.Start(context.Background()); err != nil {
		logger.Fatal("failed to start event subscriber", zap.Error(err))
	}
	defer subscriber.Stop()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Fatal("failed to start jobs", zap.Error(err))
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort, logger)
}

func getConfigs(logger *zap.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file loaded, relying on process environment", zap.Error(err))
	}

	return cmd.Config{
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		DBHost:             os.Getenv("DB_HOST"),
		DBPort:             envOrDefault("DB_PORT", "5432"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBSslMode:          envOrDefault("DB_SSLMODE", "disable"),
		RedisAddr:          envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		EventStream:        os.Getenv("EVENT_STREAM"),
		EventConsumerGroup: os.Getenv("EVENT_CONSUMER_GROUP"),
		EventConsumerName:  envOrDefault("EVENT_CONSUMER_NAME", hostnameConsumer()),
		PushGatewayURL:     os.Getenv("PUSH_GATEWAY_URL"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// hostnameConsumer derives a stable consumer name so redeliveries after a
// restart go back to the same consumer.
func hostnameConsumer() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "foodorders-consumer"
	}
	return "foodorders-" + hostname
}

func mustConnectDB(configs cmd.Config, logger *zap.Logger) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&productrepo.ProductDTO{},
		&userrepo.UserDTO{},
	); err != nil {
		logger.Fatal("failed to migrate database schema", zap.Error(err))
	}

	return gormDB
}

func mustConnectRedis(configs cmd.Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	return client
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *zap.Logger) {
	e := echo.New()
	e.HideBanner = true

	server := httpin.NewServer(
		app.CreateOrderIntake(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateRegisterConnectionCommandHandler(),
		app.CreateUnregisterConnectionCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetActiveOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil {
			logger.Info("web server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := e.Shutdown(context.Background()); err != nil {
		logger.Error("web server shutdown failed", zap.Error(err))
	}
}
