package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/config"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/entity"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/repository"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/service"
	httpt "github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/transport/http"
	kafkat "github.com/afrhgsdhst534/AsiatekWeb-sub000/internal/transport/kafka"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/cache"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/kafka"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/kafka/dlq"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/logger"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/mailer"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/metric"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres"
	"github.com/afrhgsdhst534/AsiatekWeb-sub000/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	eg, ctx := errgroup.WithContext(ctx)

	metrics := initMetrics(eg, &cfg.Metrics, log)

	db, dbErr := initDatabase(&cfg.Postgres, log)
	if dbErr != nil {
		return dbErr
	}
	defer closeDB(db)

	txManager, txErr := initTransactionManager(
		db,
		log,
		metrics,
	)
	if txErr != nil {
		return txErr
	}

	draftCache, orderCache, cacheErr := initCaches(&cfg.Drafts, log, metrics)
	if cacheErr != nil {
		return cacheErr
	}
	defer stopCaches(draftCache, orderCache)

	notifier, notifierErr := initNotifier(cfg, log)
	if notifierErr != nil {
		return notifierErr
	}
	defer closeNotifier(notifier, log)

	userRepo := repository.NewUserRepository(db)

	authService := service.NewAuthService(
		userRepo,
		txManager,
		log.With("component", "auth service"),
		cfg.Auth,
	)

	orderService := initOrderService(
		cfg,
		db,
		userRepo,
		txManager,
		notifier,
		authService,
		draftCache,
		orderCache,
		log,
	)

	if serverErr := initHTTPServer(ctx, eg, &cfg.HTTP, orderService, authService, log, metrics); serverErr != nil {
		return serverErr
	}

	if kafkaErr := initKafkaComponents(ctx, eg, cfg, log, metrics); kafkaErr != nil {
		return kafkaErr
	}

	return waitForShutdown(eg)
}

func initMetrics(
	eg *errgroup.Group,
	cfg *config.Metrics,
	log logger.Logger,
) metric.Factory {
	metrics := metric.NewFactory()

	hostPort := net.JoinHostPort(cfg.Host, cfg.Port)
	metricsServer := &http.Server{
		Addr:              hostPort,
		Handler:           metrics.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	eg.Go(func() error {
		log.Infow("starting metrics server", "port", cfg.Port)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("app.initMetrics: %w", err)
		}
		return nil
	})

	return metrics
}

func initDatabase(cfg *config.Postgres, log logger.Logger) (*postgres.Postgres, error) {
	db, err := postgres.NewPostgres(
		cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}
	return db, nil
}

func closeDB(db *postgres.Postgres) {
	if db != nil {
		db.Close()
	}
}

func initTransactionManager(
	db *postgres.Postgres,
	log logger.Logger,
	metrics metric.Factory,
) (transaction.Manager, error) {
	txManager, err := transaction.NewManager(
		db,
		log.With("component", "transaction manager"),
		metrics.Transaction(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initTransactionManager: %w", err)
	}
	return txManager, nil
}

func initCaches(
	cfg *config.Drafts,
	log logger.Logger,
	metrics metric.Factory,
) (cache.Cache[uuid.UUID, *service.Draft], cache.Cache[uuid.UUID, *entity.Order], error) {
	draftCache, err := cache.NewLRUCache[uuid.UUID, *service.Draft](
		cfg.Capacity,
		"draft",
		log.With("component", "draft cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("app.initCaches: %w", err)
	}
	draftCache.StartCleanup(cfg.CleanupInterval)

	orderCache, err := cache.NewLRUCache[uuid.UUID, *entity.Order](
		cfg.Capacity,
		"order",
		log.With("component", "order cache"),
		metrics.Cache(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("app.initCaches: %w", err)
	}
	orderCache.StartCleanup(cfg.CleanupInterval)

	return draftCache, orderCache, nil
}

func stopCaches(
	draftCache cache.Cache[uuid.UUID, *service.Draft],
	orderCache cache.Cache[uuid.UUID, *entity.Order],
) {
	if draftCache != nil {
		draftCache.StopCleanup()
	}
	if orderCache != nil {
		orderCache.StopCleanup()
	}
}

func initNotifier(cfg *config.Config, log logger.Logger) (*kafkat.OrderNotifier, error) {
	writer, err := kafka.NewKafkaWriter(cfg.Kafka, log.With("component", "kafka writer"))
	if err != nil {
		return nil, fmt.Errorf("app.initNotifier: %w", err)
	}
	return kafkat.NewOrderNotifier(writer, log.With("component", "notifier")), nil
}

func closeNotifier(notifier *kafkat.OrderNotifier, log logger.Logger) {
	if notifier == nil {
		return
	}
	if err := notifier.Close(); err != nil {
		log.Errorw("failed to close notifier", "error", err)
	}
}

func initOrderService(
	cfg *config.Config,
	db *postgres.Postgres,
	userRepo *repository.UserRepository,
	txManager transaction.Manager,
	notifier service.Notifier,
	hasher service.PasswordHasher,
	draftCache cache.Cache[uuid.UUID, *service.Draft],
	orderCache cache.Cache[uuid.UUID, *entity.Order],
	log logger.Logger,
) *service.OrderService {
	orderRepo := repository.NewOrderRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	partRepo := repository.NewPartRepository(db)
	contactRepo := repository.NewContactRepository(db)

	return service.NewOrderService(
		orderRepo,
		vehicleRepo,
		partRepo,
		contactRepo,
		userRepo,
		txManager,
		notifier,
		hasher,
		log.With("component", "order service"),
		draftCache,
		cfg.Drafts.TTL,
		orderCache,
		cfg.Drafts.TTL,
	)
}

func initHTTPServer(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.HTTP,
	orderService *service.OrderService,
	authService *service.AuthService,
	log logger.Logger,
	metrics metric.Factory,
) error {
	httpServer, err := httpt.NewHTTPServer(
		httpt.NewOrderHandler(orderService, authService, log, metrics.HTTP(), metrics.Wizard()),
		cfg,
		log.With("component", "http server"),
	)
	if err != nil {
		return fmt.Errorf("app.initHTTPServer: %w", err)
	}

	eg.Go(func() error {
		return httpServer.Start(ctx)
	})
	return nil
}

func initKafkaComponents(
	ctx context.Context,
	eg *errgroup.Group,
	cfg *config.Config,
	log logger.Logger,
	metrics metric.Factory,
) error {
	kafkaReader, err := kafka.NewKafkaReader(cfg.Kafka, log.With("component", "kafka reader"))
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: kafka reader creation: %w", err)
	}

	deadLetterQueue, err := dlq.NewDLQ(
		cfg.DLQ,
		log.With("component", "dlq"),
		metrics.DLQ(),
		dlq.MaxAttemptsCount(cfg.DLQ.MaxRetryCount),
	)
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: dead letter queue creation: %w", err)
	}

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, log.With("component", "mailer"))

	notifyConsumer := kafkat.NewNotifyConsumer(
		kafkaReader,
		deadLetterQueue,
		smtpMailer,
		metrics.Kafka(),
		log,
	)
	eg.Go(func() error {
		return notifyConsumer.Start(ctx)
	})

	dlqReader, err := kafka.NewKafkaReader(config.Kafka{
		GroupID: cfg.DLQ.GroupID,
		Brokers: cfg.DLQ.Brokers,
		Topic:   cfg.DLQ.Topic,
	}, log.With("component", "dlq reader"))
	if err != nil {
		return fmt.Errorf("app.initKafkaComponents: dlq reader creation: %w", err)
	}

	dlqProcessor := kafkat.NewDLQProcessor(
		dlqReader,
		deadLetterQueue,
		smtpMailer,
		cfg.DLQ.MaxRetryCount,
		log,
	)
	eg.Go(func() error {
		return dlqProcessor.Start(ctx)
	})

	return nil
}

func waitForShutdown(eg *errgroup.Group) error {
	if err := eg.Wait(); err != nil && !isShutdownSignal(err) {
		return fmt.Errorf("app.waitForShutdown: application failed: %w", err)
	}
	return nil
}

func isShutdownSignal(err error) bool {
	return err != nil && err.Error() == "shutdown signal"
}
