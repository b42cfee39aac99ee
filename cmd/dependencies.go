package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/checkout"
	"github.com/frahmantamala/plan-checkout/internal/core/events"
	"github.com/frahmantamala/plan-checkout/internal/coupon"
	"github.com/frahmantamala/plan-checkout/internal/order"
	"github.com/frahmantamala/plan-checkout/internal/paymentgateway"
	"github.com/frahmantamala/plan-checkout/internal/plan"
	"github.com/frahmantamala/plan-checkout/internal/plan/contentful"
	planpostgres "github.com/frahmantamala/plan-checkout/internal/plan/postgres"
	"github.com/frahmantamala/plan-checkout/pkg/logger"
)

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	EventBus *events.EventBus
	Checkout *checkout.Service
	Logger   *slog.Logger
}

// Close drains pending audit events and releases the database.
func (d *Dependencies) Close(ctx context.Context) {
	if err := d.EventBus.Close(ctx); err != nil {
		d.Logger.Error("event bus close error", "error", err)
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	deps := &Dependencies{
		Config: config,
		Logger: lg,
	}

	var plans plan.RepositoryAPI
	switch config.PlanStore.Driver {
	case internal.PlanStorePostgres:
		db, err := initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize gorm: %w", err)
		}
		deps.DB = db
		plans = planpostgres.NewPlanRepository(gdb)
	default:
		plans = contentful.NewClient(contentful.Config{
			BaseURL:     config.Contentful.BaseURL,
			SpaceID:     config.Contentful.SpaceID,
			Environment: config.Contentful.Environment,
			AccessToken: config.Contentful.AccessToken,
			Timeout:     config.PlanStore.Timeout,
		}, lg)
	}

	deps.EventBus = events.NewEventBus(lg)
	audit := events.AuditLogger(lg)
	for _, eventType := range []string{
		events.EventTypeCheckoutAmountComputed,
		events.EventTypeCheckoutSucceeded,
		events.EventTypeCheckoutFailed,
	} {
		deps.EventBus.Subscribe(eventType, audit)
	}

	deps.Checkout = checkout.NewService(
		plans,
		coupon.NewValidator(coupon.Config{
			AllowedHosts: config.Coupon.AllowedHosts,
			Timeout:      config.Coupon.Timeout,
		}, lg),
		paymentgateway.NewClient(paymentgateway.Config{Timeout: config.Gateway.Timeout}, lg),
		order.NewIDGenerator(),
		deps.EventBus,
		checkout.Config{
			DefaultCredentials: checkout.Credentials{
				APIKey:    config.Gateway.APIKey,
				SecretKey: config.Gateway.SecretKey,
			},
			DefaultCouponEndpoint: config.Coupon.DefaultEndpoint,
			PlanStoreTimeout:      config.PlanStore.Timeout,
		},
		lg,
	)

	return deps, nil
}

// initDB opens the pgx-backed pool shared by gorm and the seeder.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Open(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
