package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	httpapi "renthub-backend/internal/api/http"
	"renthub-backend/internal/config"
	"renthub-backend/internal/events"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/otp"
	"renthub-backend/internal/render"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local overrides; absence of the file is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentHub Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply migrations
	if err := runMigrations(db, cfg.Database.MigrationsDir); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email)

	// OTP store: Redis when configured, in-memory otherwise. Redis expires
	// challenges by TTL; the in-memory store needs the periodic sweeper.
	var otpStore otp.Store
	sweepMemoryStore := false
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		otpStore = otp.NewRedisStore(client)
		logger.Info("Using Redis OTP store", "addr", cfg.Redis.Addr)
	} else {
		otpStore = otp.NewMemoryStore()
		sweepMemoryStore = true
		logger.Info("Using in-memory OTP store")
	}
	otpSvc := otp.NewService(otpStore, emailSvc)
	if sweepMemoryStore {
		go otpSvc.RunSweeper(context.Background(), otp.SweepInterval)
	}

	// Event publisher: Kafka when brokers are configured.
	var publisher events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			logger.Error("Failed to connect Kafka producer", "error", err)
			log.Fatalf("Failed to connect Kafka producer: %v", err)
		}
		logger.Info("Publishing events to Kafka", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	// Contract document generator
	pdfGen, err := render.NewFilePDFGenerator(cfg.Contracts.PDFOutputDir, cfg.Contracts.PDFBaseURL)
	if err != nil {
		logger.Error("Failed to initialize contract document generator", "error", err)
		log.Fatalf("Failed to initialize contract document generator: %v", err)
	}

	// Initialize Services
	authSvc := service.NewAuthService(store.UserRepository, store.WalletRepository, tokenManager)
	productSvc := service.NewProductService(store.ProductRepository)
	orderSvc := service.NewOrderService(
		store.OrderRepository,
		store.ProductRepository,
		store.UserRepository,
		store.ContractRepository,
		store.WalletRepository,
		store.PaymentRepository,
		store.NotificationRepository,
		emailSvc,
		pdfGen,
		publisher,
	)
	contractSvc := service.NewContractService(
		store.ContractRepository,
		store.OrderRepository,
		store.UserRepository,
		store.SignatureRepository,
		store.NotificationRepository,
		otpSvc,
		emailSvc,
		publisher,
	)
	walletSvc := service.NewWalletService(store.WalletRepository, store.PaymentRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// HTTP API
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Product:      httpapi.NewProductHandler(productSvc),
		Order:        httpapi.NewOrderHandler(orderSvc),
		Contract:     httpapi.NewContractHandler(contractSvc),
		Wallet:       httpapi.NewWalletHandler(walletSvc),
		Notification: httpapi.NewNotificationHandler(noteSvc),
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", "error", err)
		log.Fatalf("HTTP server failed: %v", err)
	}
}

// runMigrations applies pending SQL migrations with goose.
func runMigrations(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, dir)
}
