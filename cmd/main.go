package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/marine-pms/internal/activity"
	"github.com/ukydev/marine-pms/internal/auth"
	"github.com/ukydev/marine-pms/internal/config"
	"github.com/ukydev/marine-pms/internal/crm"
	"github.com/ukydev/marine-pms/internal/db"
	"github.com/ukydev/marine-pms/internal/handlers"
	"github.com/ukydev/marine-pms/internal/inventory"
	"github.com/ukydev/marine-pms/internal/middleware"
	"github.com/ukydev/marine-pms/internal/models"
	"github.com/ukydev/marine-pms/internal/notifications"
	"github.com/ukydev/marine-pms/internal/notify"
	"github.com/ukydev/marine-pms/internal/pms"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := cfg.Log.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
	log.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	client, err := db.ConnectMongo(ctx, cfg.Mongo.URI)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.Mongo.Database).Info("Connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	store := db.NewStore(database)

	notifier, closeNotifier, err := newNotifier(ctx, cfg.MQTT, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	// The notification inbox and the stock service refer to each other.
	var stock *inventory.Service
	inbox := notifications.NewService(store.Notifications, store.Users,
		notifications.WithLowStockSource(notifications.LowStockFunc(func(ctx context.Context) ([]models.InventoryView, error) {
			return stock.LowStock(ctx)
		})),
		notifications.WithLogger(log),
	)
	stock = inventory.NewService(inventory.Stores{
		Parts:     store.Parts,
		Inventory: store.Inventory,
	}, inventory.WithAlerter(inbox), inventory.WithLogger(log))

	svc := pms.NewService(pms.Stores{
		Vessels:      store.Vessels,
		Equipment:    store.Equipment,
		RunningHours: store.RunningHours,
		WorkOrders:   store.WorkOrders,
		Plans:        store.Plans,
	}, pms.WithNotifier(notify.Fanout{notifier, inbox}), pms.WithLogger(log))

	customers := crm.NewService(crm.Stores{
		Customers:     store.Customers,
		ServiceOrders: store.ServiceOrders,
		Inquiries:     store.Inquiries,
		Users:         store.Users,
	}, crm.WithNotifier(inbox), crm.WithLogger(log))

	trail := activity.NewService(store.Activity, activity.WithLogger(log))

	authService, err := auth.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	resetCodes := auth.NewResetCodeStore(cfg.ResetCode.TTL)
	limiter := middleware.NewRateLimitMiddleware()

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:          handlers.NewAuthHandler(authService, store.Users, resetCodes, nil, log).WithActivity(trail),
		PMS:           handlers.NewPMSHandler(svc, log),
		AuthMW:        middleware.NewAuthMiddleware(authService, nil),
		Inventory:     handlers.NewInventoryHandler(stock, log),
		CRM:           handlers.NewCRMHandler(customers, log),
		Notifications: handlers.NewNotificationHandler(inbox, log),
		Activity:      handlers.NewActivityHandler(trail, log),
		Audit:         trail,
		RateLimit:     limiter,
		MaxRequests:   cfg.RateLimit.Requests,
		Window:        cfg.RateLimit.Window,
		TrustProxy:    cfg.TrustProxy,
		Ping:          func(ctx context.Context) error { return client.Ping(ctx, nil) },
		Log:           log,
	})

	go sweep(ctx, sweepInterval, func() {
		codes := resetCodes.Sweep(time.Now())
		clients := limiter.Sweep(cfg.RateLimit.Window)
		if codes+clients > 0 {
			log.WithFields(logrus.Fields{"reset_codes": codes, "clients": clients}).Debug("Swept expired entries")
		}
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return serve(ctx, srv, log)
}

// newNotifier picks the status-change sink. Without a broker, changes are
// only logged.
func newNotifier(ctx context.Context, cfg config.MQTTConfig, log logrus.FieldLogger) (pms.StatusNotifier, func(), error) {
	if cfg.Broker == "" {
		log.Info("No MQTT broker configured, status changes are logged only")
		return notify.LogNotifier{Log: log}, func() {}, nil
	}
	pub, err := notify.NewMQTTPublisher(ctx, notify.Config{
		Broker:      cfg.Broker,
		ClientID:    cfg.ClientID,
		TopicPrefix: cfg.TopicPrefix,
		Username:    cfg.Username,
		Password:    cfg.Password,
	}, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}
	log.WithField("broker", cfg.Broker).Info("Publishing status changes over MQTT")
	return pub, pub.Close, nil
}

// sweep runs fn every interval until ctx is done.
func sweep(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
