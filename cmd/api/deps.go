package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"driverfinance/internal/domain/analytics"
	"driverfinance/internal/domain/category"
	"driverfinance/internal/domain/transaction"
	"driverfinance/internal/domain/user"
	"driverfinance/internal/infrastructure/postgres"
	httphandlers "driverfinance/internal/interfaces/http"
	"driverfinance/internal/shared/auth"
	"driverfinance/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	Users *user.Service

	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	CategoryHandler    *httphandlers.CategoryHandler
	TransactionHandler *httphandlers.TransactionHandler
	AnalyticsHandler   *httphandlers.AnalyticsHandler
	HealthHandler      *httphandlers.HealthHandler
}

// NewDependencies connects to the database, applies migrations when enabled,
// seeds the system categories and builds the services and handlers.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	connStr := cfg.Database.ConnectionString()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(connStr); err != nil {
			return nil, err
		}
		log.Println("Database migrations applied")
	}

	db, err := postgres.Open(connStr)
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	userService := user.NewService(userRepo, auth.BcryptHasher{}, tokens)
	categoryService := category.NewService(categoryRepo)
	transactionService := transaction.NewService(transactionRepo, categoryService)
	fuel := category.NewFuelResolver(categoryRepo, cfg.Analytics.FuelCategoryName)
	analyticsService := analytics.NewService(analyticsRepo, fuel)

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	added, err := categoryService.EnsureSystem(seedCtx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed system categories: %w", err)
	}
	if added > 0 {
		log.Printf("Seeded %d system categories", added)
	}

	loc := cfg.Analytics.DefaultTimezone

	return &Dependencies{
		DB:                 db,
		Users:              userService,
		AuthHandler:        httphandlers.NewAuthHandler(userService),
		UserHandler:        httphandlers.NewUserHandler(userService),
		CategoryHandler:    httphandlers.NewCategoryHandler(categoryService),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService, analyticsService, loc),
		AnalyticsHandler:   httphandlers.NewAnalyticsHandler(analyticsService, loc),
		HealthHandler:      httphandlers.NewHealthHandler(db),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
