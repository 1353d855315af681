package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/domain/shared/events"
	"github.com/ticketsync/ticketsync/internal/infrastructure/auth"
	"github.com/ticketsync/ticketsync/internal/infrastructure/config"
	"github.com/ticketsync/ticketsync/internal/infrastructure/metrics"
	"github.com/ticketsync/ticketsync/internal/infrastructure/permission"
	"github.com/ticketsync/ticketsync/internal/infrastructure/ratelimit"
	"github.com/ticketsync/ticketsync/internal/infrastructure/realtime"
	"github.com/ticketsync/ticketsync/internal/interfaces/http/middleware"
	"github.com/ticketsync/ticketsync/internal/shared/goroutine"
	"github.com/ticketsync/ticketsync/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases and
// handlers. It wires everything together and owns the background relay.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Realtime fan-out. redisBroadcaster is nil on a single instance.
	hub              *realtime.Hub
	redisBroadcaster *realtime.RedisBroadcaster
	broadcaster      events.Broadcaster

	// metricsRecorder is nil when metrics are disabled; metrics is never nil.
	metricsRecorder *metrics.Recorder
	metrics         common.MetricsRecorder

	jwtSvc   *auth.JWTService
	hasher   *auth.BcryptPasswordHasher
	enforcer *permission.Enforcer

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware        *middleware.AuthMiddleware
	permissionMiddleware  *middleware.PermissionMiddleware
	webhookAuthMiddleware *middleware.WebhookAuthMiddleware
	webhookRateLimit      gin.HandlerFunc

	relayCancel context.CancelFunc
	relayDone   chan struct{}
	relayMu     sync.Mutex
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.repos = newRepositories(db)
	if err := c.initUseCases(); err != nil {
		return nil, err
	}
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	c.hub = realtime.NewHub(log.Named("realtime"))
	c.broadcaster = c.hub
	if cfg.Redis.Enabled {
		client, err := initRedis(cfg)
		if err != nil {
			return err
		}
		c.redis = client
		c.redisBroadcaster = realtime.NewRedisBroadcaster(client, c.hub, log.Named("realtime"))
		c.broadcaster = c.redisBroadcaster
		log.Infow("redis realtime relay enabled", "addr", cfg.Redis.GetAddr())
	}

	c.metrics = common.NoopMetrics{}
	if cfg.Metrics.Enabled {
		c.metricsRecorder = metrics.NewRecorder()
		c.metrics = c.metricsRecorder
	}

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.hasher = auth.NewBcryptPasswordHasher(0)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.SeedDefaults(); err != nil {
		return fmt.Errorf("failed to seed default policies: %w", err)
	}
	c.enforcer = enforcer

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	allowOpenWebhooks := cfg.Server.Mode == gin.DebugMode || cfg.Server.Mode == gin.TestMode
	c.webhookAuthMiddleware = middleware.NewWebhookAuthMiddleware(
		cfg.Webhook.Username, cfg.Webhook.PasswordHash, allowOpenWebhooks, c.hasher, log)
	switch {
	case c.webhookAuthMiddleware.Enabled():
	case allowOpenWebhooks:
		log.Warnw("webhook basic auth is disabled; set webhook.password_hash to enable it", "mode", cfg.Server.Mode)
	default:
		log.Errorw("webhook.password_hash is not set; every webhook delivery will be rejected", "mode", cfg.Server.Mode)
	}
	if c.redis != nil && cfg.Webhook.RateLimitPerMinute > 0 {
		limiter := ratelimit.NewRedisRateLimiter(c.redis, cfg.Webhook.RateLimitPerMinute, time.Minute)
		c.webhookRateLimit = middleware.RateLimit(limiter, log.Named("ratelimit"))
	}
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Engine returns the gin engine with routes registered by SetupRoutes.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// StartBackground starts the cross-instance realtime relay when redis is
// enabled.
func (c *Container) StartBackground(ctx context.Context) {
	if c.redisBroadcaster == nil {
		return
	}

	c.relayMu.Lock()
	defer c.relayMu.Unlock()
	if c.relayCancel != nil {
		return
	}

	relayCtx, cancel := context.WithCancel(ctx)
	c.relayCancel = cancel
	c.relayDone = make(chan struct{})
	done := c.relayDone
	goroutine.SafeGo(c.log, "realtime-relay", func() {
		defer close(done)
		if err := c.redisBroadcaster.Run(relayCtx); err != nil && relayCtx.Err() == nil {
			c.log.Errorw("realtime relay stopped", "error", err)
		}
	})
}

// Shutdown stops background work and closes the redis client.
func (c *Container) Shutdown() {
	c.relayMu.Lock()
	cancel, done := c.relayCancel, c.relayDone
	c.relayCancel = nil
	c.relayMu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
