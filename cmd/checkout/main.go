package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ktosdespidoras/roblox/internal/adapter/auth"
	"github.com/ktosdespidoras/roblox/internal/adapter/client/events"
	"github.com/ktosdespidoras/roblox/internal/adapter/client/notify"
	"github.com/ktosdespidoras/roblox/internal/adapter/config"
	"github.com/ktosdespidoras/roblox/internal/adapter/handler/http"
	"github.com/ktosdespidoras/roblox/internal/adapter/logger"
	"github.com/ktosdespidoras/roblox/internal/adapter/metrics"
	"github.com/ktosdespidoras/roblox/internal/adapter/storage"
	"github.com/ktosdespidoras/roblox/internal/adapter/storage/cache"
	"github.com/ktosdespidoras/roblox/internal/adapter/storage/repository"
	"github.com/ktosdespidoras/roblox/internal/core/catalog"
	"github.com/ktosdespidoras/roblox/internal/core/port"
	"github.com/ktosdespidoras/roblox/internal/core/service"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const drainTimeout = 15 * time.Second

func main() {
	conf, err := config.NewConfig(os.Args[1:])
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		fmt.Printf("error creating log: %s", err)
		return
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote, closeRemote, err := newRemoteStore(ctx, conf.Database, log)
	if err != nil {
		log.Error("remote store error", zap.Error(err))
		return
	}
	defer closeRemote()

	local, err := cache.New(conf.Cache.Path)
	if err != nil {
		log.Error("local cache error", zap.Error(err))
		return
	}
	defer func() {
		if err := local.Close(); err != nil {
			log.Error("local cache close error", zap.Error(err))
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	var publisher port.EventPublisher
	if p := events.NewPublisher(conf.Kafka); p != nil {
		publisher = p
		defer func() {
			if err := p.Close(); err != nil {
				log.Error("kafka writer close error", zap.Error(err))
			}
		}()
		log.Info("publishing order events", zap.String("topic", conf.Kafka.Topic))
	}

	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	ledger, err := service.NewLedger(remote, local, m, log.Named("Ledger"))
	if err != nil {
		log.Error("ledger creating error", zap.Error(err))
		return
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := ledger.Drain(drainCtx); err != nil {
			log.Warn("remote writes still pending at exit", zap.Error(err))
		}
	}()

	dispatcher, err := notify.NewDispatcher(conf.Notify, publisher, m, log.Named("Notify"))
	if err != nil {
		log.Error("dispatcher creating error", zap.Error(err))
		return
	}
	defer func() {
		drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		if err := dispatcher.Drain(drainCtx); err != nil {
			log.Warn("notifications still pending at exit", zap.Error(err))
		}
	}()

	products, err := catalog.New()
	if err != nil {
		log.Error("catalog creating error", zap.Error(err))
		return
	}

	sessions, err := service.NewSessionService(remote, local, tokenService, log.Named("Session"))
	if err != nil {
		log.Error("session service creating error", zap.Error(err))
		return
	}
	checkouts, err := service.NewCheckoutService(products, ledger, dispatcher, m, log.Named("Checkout"))
	if err != nil {
		log.Error("checkout service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(sessions, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	catalogHandler, err := http.NewCatalogHandler(products, log.Named("Catalog handler"))
	if err != nil {
		log.Error("catalog handler creating error", zap.Error(err))
		return
	}
	checkoutHandler, err := http.NewCheckoutHandler(checkouts, log.Named("Checkout handler"))
	if err != nil {
		log.Error("checkout handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(log.Named("Router"), tokenService, sessions, m, prometheus.DefaultGatherer,
		userHandler, catalogHandler, checkoutHandler)
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	log.Info("serving", zap.String("address", conf.HTTP.HostString))
	err = r.Serve(ctx, conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}

// newRemoteStore picks the remote store for the configured driver. An empty
// DSN runs offline.
func newRemoteStore(ctx context.Context, conf *config.Database, log *zap.Logger) (port.RemoteStore, func(), error) {
	if conf.DSN == "" {
		log.Warn("no database configured, orders stay local")
		return repository.Offline{}, func() {}, nil
	}

	if conf.Driver == config.DriverSQLite {
		repo, err := repository.NewGormRepository(conf.DSN)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	}

	db, err := storage.NewDBStorage(ctx, conf)
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}
	err = db.RunMigrations()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("database migration error: %w", err)
	}
	repo, err := repository.NewRepository(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db.Close, nil
}
