package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Sn1ff3hr/chabella/internal/config"
	"github.com/Sn1ff3hr/chabella/internal/entity"
	"github.com/Sn1ff3hr/chabella/internal/repository/memory"
	mongorepo "github.com/Sn1ff3hr/chabella/internal/repository/mongo"
	pgrepo "github.com/Sn1ff3hr/chabella/internal/repository/postgres"
	"github.com/Sn1ff3hr/chabella/internal/seed"
	"github.com/Sn1ff3hr/chabella/internal/service"
	"github.com/Sn1ff3hr/chabella/internal/sheetlog"
	httpt "github.com/Sn1ff3hr/chabella/internal/transport/http"
	kafkat "github.com/Sn1ff3hr/chabella/internal/transport/kafka"
	"github.com/Sn1ff3hr/chabella/internal/validation"
	"github.com/Sn1ff3hr/chabella/pkg/cache"
	"github.com/Sn1ff3hr/chabella/pkg/kafka"
	"github.com/Sn1ff3hr/chabella/pkg/kafka/dlq"
	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"
	"github.com/Sn1ff3hr/chabella/pkg/sheets"
	mongostore "github.com/Sn1ff3hr/chabella/pkg/storage/mongo"
	"github.com/Sn1ff3hr/chabella/pkg/storage/postgres"
	"github.com/Sn1ff3hr/chabella/pkg/storage/postgres/transaction"

	"golang.org/x/sync/errgroup"
)

const _closeTimeout = 5 * time.Second

type storage struct {
	products service.ProductRepository
	profiles service.ProfileRepository
	close    func()
}

// Run wires the storefront service and blocks until ctx is cancelled or a
// component fails.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(ctx, eg, &cfg.Metrics, log)

	store, err := initStorage(ctx, cfg, log, metrics)
	if err != nil {
		return err
	}
	defer store.close()

	productCache, err := initCache(&cfg.Cache, log, metrics)
	if err != nil {
		return err
	}
	defer productCache.StopCleanup()

	publisher, closePublisher, err := initSheetLog(ctx, eg, cfg, log, metrics)
	if err != nil {
		return err
	}
	defer closePublisher()

	validator := validation.New()

	productOpts := []service.ProductOption{
		service.WithAssetPrefix(cfg.App.AssetPrefix),
		service.WithCacheTTL(cfg.Cache.TTL),
	}
	if publisher != nil {
		productOpts = append(productOpts, service.WithLogPublisher(publisher))
	}

	productService := service.NewProductService(
		store.products,
		validator,
		productCache,
		log.With("component", "product service"),
		productOpts...,
	)
	profileService := service.NewProfileService(
		store.profiles,
		validator,
		log.With("component", "profile service"),
	)

	initHTTPServer(ctx, eg, &cfg.HTTP, productService, profileService, validator, log, metrics)

	return waitForShutdown(eg)
}

func initMetrics(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	metricsServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _closeTimeout)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	return metrics
}

func initStorage(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (*storage, error) {
	data, err := seed.Load()
	if err != nil {
		return nil, fmt.Errorf("app.initStorage: %w", err)
	}

	log.Infow("initializing storage", "driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return initPostgres(ctx, &cfg.Postgres, data, log, metrics)
	case config.DriverMongo:
		return initMongo(ctx, &cfg.Mongo, data, log)
	default:
		return &storage{
			products: memory.NewProductRepository(data),
			profiles: memory.NewProfileRepository(data),
			close:    func() {},
		}, nil
	}
}

func initPostgres(
	ctx context.Context,
	cfg *config.Postgres,
	data *seed.Data,
	log logger.Logger,
	metrics metric.Factory,
) (*storage, error) {
	const op = "app.initPostgres"

	db, err := postgres.NewPostgres(
		ctx,
		*cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
		postgres.MaxConnAttempts(cfg.ConnAttempts),
		postgres.BaseRetryDelay(cfg.BaseRetryDelay),
		postgres.MaxRetryDelay(cfg.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	txManager, err := transaction.NewManager(
		db.Pool,
		log.With("component", "transaction manager"),
		metrics.Transaction(),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products := pgrepo.NewProductRepository(db, txManager)
	profiles := pgrepo.NewProfileRepository(db, txManager)

	if err = seedStores(ctx, data, products.Seed, profiles.Seed); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage{products: products, profiles: profiles, close: db.Close}, nil
}

func initMongo(
	ctx context.Context,
	cfg *config.Mongo,
	data *seed.Data,
	log logger.Logger,
) (*storage, error) {
	const op = "app.initMongo"

	db, err := mongostore.NewMongo(ctx, *cfg, log.With("component", "database"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	closeDB := func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _closeTimeout)
		defer cancel()
		if closeErr := db.Close(closeCtx); closeErr != nil {
			log.Errorw("failed to disconnect from mongo", "error", closeErr)
		}
	}

	products := mongorepo.NewProductRepository(db)
	profiles := mongorepo.NewProfileRepository(db)

	if err = products.EnsureIndexes(ctx); err != nil {
		closeDB()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = seedStores(ctx, data, products.Seed, profiles.Seed); err != nil {
		closeDB()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage{products: products, profiles: profiles, close: closeDB}, nil
}

func seedStores(
	ctx context.Context,
	data *seed.Data,
	seedProducts func(context.Context, *seed.Data) error,
	seedProfile func(context.Context, *entity.BusinessProfile) error,
) error {
	if err := seedProducts(ctx, data); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := seedProfile(ctx, data.Profile); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}
	return nil
}

func initCache(
	cfg *config.Cache,
	log logger.Logger,
	metrics metric.Factory,
) (*cache.LRUCache[string, *entity.Product], error) {
	productCache, err := cache.NewLRUCache[string, *entity.Product](
		"products",
		cfg.Capacity,
		log.With("component", "cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initCache: %w", err)
	}
	productCache.StartCleanup(cfg.CleanupInterval)
	return productCache, nil
}

// initSheetLog returns a nil publisher when no sheet is configured.
func initSheetLog(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) (service.LogPublisher, func(), error) {
	const op = "app.initSheetLog"

	if !cfg.SheetLogEnabled() {
		log.Warnw("GOOGLE_SHEET_ID is not set, product sheet logging is disabled")
		return nil, func() {}, nil
	}

	client := sheets.NewClient(cfg.Sheets, log.With("component", "sheets"), metrics.SheetLog())
	writer := sheetlog.NewWriter(cfg.Sheets, client, log.With("component", "sheetlog-writer"))

	if cfg.SheetLog.Transport == config.TransportKafka {
		reader, err := kafka.NewKafkaReader(ctx, cfg.Kafka, log.With("component", "kafka reader"))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: kafka reader creation: %w", op, err)
		}

		deadLetterQueue, err := dlq.NewDLQ(cfg.DLQ, log, metrics.DLQ())
		if err != nil {
			_ = reader.Close()
			return nil, nil, fmt.Errorf("%s: dead letter queue creation: %w", op, err)
		}

		consumer := kafkat.NewProductLogConsumer(reader, deadLetterQueue, writer, metrics.Kafka(), log)
		eg.Go(func() error {
			return consumer.Start(ctx)
		})

		publisher := kafkat.NewProductLogPublisher(cfg.Kafka, log, metrics.SheetLog())

		return publisher, func() {
			if err := publisher.Close(); err != nil {
				log.Errorw("failed to close product log publisher", "error", err)
			}
			if err := deadLetterQueue.Close(); err != nil {
				log.Errorw("failed to close dead letter queue", "error", err)
			}
		}, nil
	}

	queue, err := sheetlog.NewLocalQueue(cfg.SheetLog, writer, log, metrics.SheetLog())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	eg.Go(func() error {
		return queue.Start(ctx)
	})

	return queue, func() {}, nil
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.HTTP,
	products *service.ProductService,
	profiles *service.ProfileService,
	validator *validation.Validator,
	log logger.Logger,
	metrics metric.Factory,
) {
	handler := httpt.NewOwnerHandler(
		products,
		profiles,
		validator,
		*cfg,
		log.With("component", "http handler"),
		metrics.HTTP(),
	)

	httpServer := httpt.NewHTTPServer(handler.Engine(), cfg, log)

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}
