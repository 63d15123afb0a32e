package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cronicas-api/internal/app"
	"cronicas-api/internal/cache"
	"cronicas-api/internal/config"
	"cronicas-api/internal/platform/database"
	rabbitmqClient "cronicas-api/internal/platform/rabbitmq"
	redisClient "cronicas-api/internal/platform/redis"
	"cronicas-api/internal/repository"
	"cronicas-api/internal/worker"
)

// App holds process-wide resources. Redis and RabbitMQ are nil when not configured.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	AuditPublisher *rabbitmqClient.EventPublisher
	AuditWorker    *worker.AuditPersistWorker
	Throttle       *cache.LoginThrottle

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	if cfg.Redis.Addr != "" {
		client, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Redis = client
		a.Throttle = cache.NewLoginThrottle(client, cfg.Redis.LoginMaxFailures, cfg.LoginWindow())
	} else {
		log.Info("bootstrap.redis_disabled", "reason", "redis.addr not set, login throttling off")
	}

	if cfg.RabbitMQ.URL != "" {
		conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.AuditQueue)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.MQConn = conn
		a.AuditPublisher = rabbitmqClient.NewEventPublisher(conn, cfg.RabbitMQ.AuditQueue)

		a.AuditWorker = worker.NewAuditPersistWorker(conn, repository.NewAuditRepository(db), cfg.RabbitMQ.AuditQueue, log)
		if err := a.AuditWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start audit worker failed: %w", err)
		}
	} else {
		log.Info("bootstrap.rabbitmq_disabled", "reason", "rabbitmq.url not set, audit events off")
	}

	return a, nil
}

// LoginThrottle returns nil when Redis is not configured.
func (a *App) LoginThrottle() app.LoginThrottle {
	if a.Throttle == nil {
		return nil
	}
	return a.Throttle
}

// EventPublisher returns nil when RabbitMQ is not configured.
func (a *App) EventPublisher() app.EventPublisher {
	if a.AuditPublisher == nil {
		return nil
	}
	return a.AuditPublisher
}

func (a *App) Close() error {
	var errs []error
	if a.AuditPublisher != nil {
		if err := a.AuditPublisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.AuditWorker != nil {
		a.AuditWorker.Close()
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
