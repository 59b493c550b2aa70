package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"agrimarket/cmd"
	httpin "agrimarket/internal/adapters/in/http"
	"agrimarket/internal/adapters/out/kafka"
	"agrimarket/internal/adapters/out/postgres/chatrepo"
	"agrimarket/internal/adapters/out/postgres/courierrepo"
	"agrimarket/internal/adapters/out/postgres/deliveryrepo"
	"agrimarket/internal/adapters/out/postgres/inventoryrepo"
	"agrimarket/internal/adapters/out/postgres/orderrepo"
	"agrimarket/internal/adapters/out/push"
	"agrimarket/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	pusher, err := push.NewRedisPusher(configs.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer pusher.Close()

	publisher := kafka.NewOrderEventProducer(
		strings.Split(configs.KafkaHost, ","),
		configs.KafkaOrderChangedTopic,
	)
	defer publisher.Close()

	root := cmd.NewCompositionRoot(configs, gormDB, pusher, publisher, logger)

	jobManager := jobs.NewJobManager(root.CreateDispatchPendingOrdersCommandHandler(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&root, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		RedisURL:               goDotEnvVariable("REDIS_URL"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		JWTSecret:              goDotEnvVariable("JWT_SECRET"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&deliveryrepo.DeliveryDTO{},
		&inventoryrepo.ItemDTO{},
		&chatrepo.ConversationDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func startWebServer(root *cmd.CompositionRoot, configs cmd.Config) {
	handlers := httpin.Handlers{
		CreateOrder:           root.CreateCreateOrderCommandHandler(),
		RegisterCourier:       root.CreateRegisterCourierCommandHandler(),
		AssignCourier:         root.CreateAssignCourierCommandHandler(),
		AdvanceOrderStatus:    root.CreateAdvanceOrderStatusCommandHandler(),
		CancelOrder:           root.CreateCancelOrderCommandHandler(),
		UpdateCourierLocation: root.CreateUpdateCourierLocationCommandHandler(),
		SendMessage:           root.CreateSendMessageCommandHandler(),
		MarkConversationRead:  root.CreateMarkConversationReadCommandHandler(),
		SetPresence:           root.CreateSetPresenceCommandHandler(),
		ListEligibleCouriers:  root.CreateListEligibleCouriersQueryHandler(),
		GetConversation:       root.CreateGetConversationQueryHandler(),
		GetTracking:           root.CreateGetTrackingQueryHandler(),
	}

	tokens := httpin.NewTokenService(configs.JWTSecret, tokenTTL)
	server := httpin.NewServer(handlers, tokens)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
