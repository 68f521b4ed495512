package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"srdashboard/internal/application/notification"
	"srdashboard/internal/application/servicerequest/attachment"
	"srdashboard/internal/application/servicerequest/export"
	"srdashboard/internal/application/servicerequest/usecases"
	domainPermission "srdashboard/internal/domain/permission"
	"srdashboard/internal/domain/shared/events"
	"srdashboard/internal/infrastructure/auth"
	"srdashboard/internal/infrastructure/config"
	"srdashboard/internal/infrastructure/email"
	"srdashboard/internal/infrastructure/permission"
	"srdashboard/internal/infrastructure/ratelimit"
	"srdashboard/internal/infrastructure/repository"
	"srdashboard/internal/infrastructure/storage"
	"srdashboard/internal/interfaces/http/handlers"
	srhandlers "srdashboard/internal/interfaces/http/handlers/servicerequest"
	"srdashboard/internal/interfaces/http/middleware"
	"srdashboard/internal/shared/biztime"
	sharedConfig "srdashboard/internal/shared/config"
	"srdashboard/internal/shared/db"
	"srdashboard/internal/shared/logger"
	"srdashboard/internal/shared/services/markdown"
)

const eventWorkers = 1

// Container holds infrastructure components, use cases, handlers and
// background services, wires them together and shuts them down in order.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Domain infrastructure
	srRepo      *repository.ServiceRequestRepository
	userRepo    *repository.UserRepository
	txManager   *db.TransactionManager
	blobStore   attachment.BlobStore
	attachments *attachment.Manager
	dispatcher  *events.InMemoryEventDispatcher
	enforcer    *permission.Enforcer
	jwtSvc      *auth.JWTService

	// Handlers
	healthHandler     *handlers.HealthHandler
	srHandler         *srhandlers.Handler
	attachmentHandler *srhandlers.AttachmentHandler

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired. The event
// dispatcher is started; Shutdown stops it.
func NewContainer(ctx context.Context, gdb *gorm.DB, cfg *config.Config, version string, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - repositories, blob store, authorization
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// Section 2: Notifications - dispatcher and email subscriber
	if err := c.initNotifications(); err != nil {
		return nil, err
	}

	// Section 3: Service requests - use cases and handlers
	c.initServiceRequests(version)

	// Section 4: Middlewares
	c.initMiddlewares(ctx)

	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	c.srRepo = repository.NewServiceRequestRepository(c.db, c.log)
	c.userRepo = repository.NewUserRepository(c.db, c.log)
	c.txManager = db.NewTransactionManager(c.db)

	store, err := newBlobStore(ctx, &c.cfg.Storage, c.log)
	if err != nil {
		return err
	}
	c.blobStore = store
	c.attachments = attachment.NewManager(store, c.cfg.Storage.MaxBytes(), logger.WithComponent("attachment"))

	c.enforcer, err = permission.NewEnforcer(c.db, logger.WithComponent("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	added, err := c.enforcer.EnsurePolicies(domainPermission.DefaultPolicies())
	if err != nil {
		return fmt.Errorf("failed to install default policies: %w", err)
	}
	if added > 0 {
		c.log.Infow("default permission policies installed", "count", added)
	}

	jwtCfg := c.cfg.Auth.JWT
	c.jwtSvc = auth.NewJWTService(jwtCfg.Secret, jwtCfg.AccessExpMinutes, jwtCfg.Issuer)
	return nil
}

// newBlobStore selects the attachment backend from storage.driver.
func newBlobStore(ctx context.Context, cfg *sharedConfig.StorageConfig, log logger.Interface) (attachment.BlobStore, error) {
	storeLog := logger.WithComponent("storage")
	switch cfg.Driver {
	case "minio":
		store, err := storage.NewMinioStore(ctx, cfg.Minio, storeLog)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio storage: %w", err)
		}
		log.Infow("attachment storage ready", "driver", "minio", "bucket", cfg.Minio.Bucket)
		return store, nil
	default:
		store, err := storage.NewLocalStore(cfg.UploadDir, storeLog)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		log.Infow("attachment storage ready", "driver", "local", "dir", store.Dir())
		return store, nil
	}
}

func (c *Container) initNotifications() error {
	c.dispatcher = events.NewInMemoryEventDispatcher(c.cfg.Notification.QueueSize, eventWorkers, logger.WithComponent("events"))

	notifyLog := logger.WithComponent("notification")
	var sender notification.Notifier
	if c.cfg.Notification.Enabled {
		sender = email.NewSMTPNotifier(email.SMTPConfig{
			Host:        c.cfg.Email.SMTPHost,
			Port:        c.cfg.Email.SMTPPort,
			Username:    c.cfg.Email.SMTPUser,
			Password:    c.cfg.Email.SMTPPassword,
			FromAddress: c.cfg.Email.FromAddress,
			FromName:    c.cfg.Email.FromName,
		}, notifyLog)
	} else {
		sender = email.NewLogNotifier(notifyLog)
	}

	builder := notification.NewMessageBuilder(markdown.NewRenderer(), c.cfg.Server.BaseURL, biztime.Location())
	srNotifier := notification.NewServiceRequestNotifier(sender, builder, c.cfg.Notification.Recipients, notifyLog)
	if err := srNotifier.Register(c.dispatcher); err != nil {
		return err
	}

	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	return nil
}

func (c *Container) initServiceRequests(version string) {
	ucLog := logger.WithComponent("servicerequest")

	createUC := usecases.NewCreateServiceRequestUseCase(c.srRepo, c.attachments, c.dispatcher, ucLog)
	updateUC := usecases.NewUpdateServiceRequestUseCase(c.srRepo, c.userRepo, c.attachments, c.txManager, c.dispatcher, ucLog)
	deleteUC := usecases.NewDeleteServiceRequestUseCase(c.srRepo, c.attachments, c.txManager, ucLog)
	getUC := usecases.NewGetServiceRequestUseCase(c.srRepo, c.userRepo, ucLog)
	listUC := usecases.NewListServiceRequestsUseCase(c.srRepo, c.userRepo, ucLog)
	statsUC := usecases.NewGetStatsUseCase(c.srRepo, ucLog)
	exportUC := usecases.NewExportServiceRequestsUseCase(c.srRepo, c.userRepo, export.NewCSVEncoder(biztime.Location()), ucLog)
	uploadUC := usecases.NewUploadRCAFileUseCase(c.attachments, ucLog)

	c.srHandler = srhandlers.NewHandler(
		createUC, updateUC, deleteUC, getUC, listUC, statsUC, exportUC, uploadUC,
		c.attachments.MaxBytes(), c.log,
	)
	c.attachmentHandler = srhandlers.NewAttachmentHandler(c.attachments, c.log)

	c.healthHandler = handlers.NewHealthHandler(sqlPinger{c.db}, version, c.log)
}

func (c *Container) initMiddlewares(ctx context.Context) {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	rl := c.cfg.RateLimit
	if !rl.Enabled {
		return
	}
	policy := ratelimit.Policy{Limit: rl.Limit, Window: rl.Window}

	var limiter ratelimit.RateLimiter
	if c.cfg.Redis.Enabled() {
		c.redis = initRedis(ctx, &c.cfg.Redis, c.log)
	}
	if c.redis != nil {
		limiter = ratelimit.NewRedisRateLimiter(c.redis, policy)
	} else {
		limiter = ratelimit.NewMemoryRateLimiter(policy)
	}
	c.rateLimiter = middleware.NewRateLimiter(limiter, rl.Limit, c.log)
}

// initRedis connects to Redis. A failed ping falls back to the in-process
// limiter instead of aborting startup.
func initRedis(ctx context.Context, cfg *sharedConfig.RedisConfig, log logger.Interface) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnw("redis unavailable, using in-process rate limiter", "addr", cfg.GetAddr(), "error", err)
		_ = client.Close()
		return nil
	}
	log.Infow("redis connection established", "addr", cfg.GetAddr())

	return client
}

// Engine returns the gin engine routes are registered on.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown drains pending notifications and releases connections.
func (c *Container) Shutdown() {
	if c.dispatcher != nil {
		if err := c.dispatcher.Stop(); err != nil {
			c.log.Warnw("failed to stop event dispatcher", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}

type sqlPinger struct {
	db *gorm.DB
}

func (p sqlPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
