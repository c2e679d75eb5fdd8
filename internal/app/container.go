package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/abdullharslan/ProductManager/domain"
	"github.com/abdullharslan/ProductManager/internal/config"
	httpx "github.com/abdullharslan/ProductManager/internal/http"
	"github.com/abdullharslan/ProductManager/internal/http/handlers"
	"github.com/abdullharslan/ProductManager/internal/http/middleware"
	"github.com/abdullharslan/ProductManager/internal/identity"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/audit"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/auth"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/database"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/notifications"
	"github.com/abdullharslan/ProductManager/internal/infrastructure/repositories"
	"github.com/abdullharslan/ProductManager/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *logrus.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	UserRepo      domain.UserRepository
	UserTokenRepo domain.UserTokenRepository
	ProductRepo   domain.ProductRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	EmailSvc    domain.EmailService
	AuditLogger domain.AuditLogger
	Credentials domain.CredentialStore
	AuthSvc     domain.AuthService
	ProductSvc  domain.ProductService
	PolicySvc   domain.PolicyService

	Router *gin.Engine
}

// Option customizes a container before its services are built
type Option func(*Container)

// WithEmailService replaces the SMTP notifier
func WithEmailService(svc domain.EmailService) Option {
	return func(c *Container) { c.EmailSvc = svc }
}

// WithPasswordService replaces the default-cost bcrypt hasher
func WithPasswordService(svc domain.PasswordService) Option {
	return func(c *Container) { c.PasswordSvc = svc }
}

// NewContainer connects to postgres and redis and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts ...Option) (*Container, error) {
	db, err := database.Open(cfg.DSN, logger)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		closeDB(db)
		_ = rdb.Close()
		return nil, err
	}

	c, err := NewContainerWithConnections(cfg, logger, db, rdb.Client, opts...)
	if err != nil {
		_ = rdb.Close()
		closeDB(db)
		return nil, err
	}
	return c, nil
}

// NewContainerWithConnections initializes all dependencies over already opened stores.
// The database schema must already be migrated.
func NewContainerWithConnections(cfg *config.Config, logger *logrus.Logger, db *gorm.DB, rdb *redis.Client, opts ...Option) (*Container, error) {
	container := &Container{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		RedisClient: rdb,
	}
	for _, opt := range opts {
		opt(container)
	}

	container.initRepositories()

	if err := container.initServices(); err != nil {
		return nil, err
	}

	container.initRouter()

	return container, nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.UserTokenRepo = repositories.NewUserTokenRepository(c.RedisClient)
	c.ProductRepo = repositories.NewProductRepository(c.DB)
}

func (c *Container) initServices() error {
	cfg := c.Config

	if c.PasswordSvc == nil {
		c.PasswordSvc = auth.NewPasswordService()
	}

	tokenSvc, err := auth.NewJWTService(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL)
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	c.TokenSvc = tokenSvc

	if c.EmailSvc == nil {
		emailSvc, err := notifications.NewSMTPService(notifications.SMTPConfig{
			Server:    cfg.SMTPServer,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
			Timeout:   cfg.SMTPTimeout,
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
		c.EmailSvc = emailSvc
	}

	c.AuditLogger = audit.NewLogrusAuditLogger(c.Logger)

	c.Credentials = identity.NewUserManager(
		c.UserRepo,
		c.UserTokenRepo,
		c.PasswordSvc,
		identity.DefaultPasswordPolicy(),
		identity.Options{
			EmailConfirmationTTL: cfg.EmailConfirmationTTL,
			PasswordResetTTL:     cfg.PasswordResetTTL,
		},
		c.Logger,
	)

	cas, err := auth.NewCasbinService(c.DB, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	if err := cas.SeedDefaults(); err != nil {
		return err
	}
	c.Casbin = cas
	c.PolicySvc = services.NewPolicyService(cas.E)

	c.AuthSvc = services.NewAuthService(
		c.Credentials,
		c.TokenSvc,
		c.EmailSvc,
		c.AuditLogger,
		c.Logger,
		services.AuthConfig{
			BaseURL:         cfg.BaseURL,
			RefreshTokenTTL: cfg.RefreshTTL,
		},
	)
	c.ProductSvc = services.NewProductService(c.ProductRepo, c.Logger)

	return nil
}

func (c *Container) initRouter() {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	validator := handlers.NewRequestValidator()
	c.Router = httpx.BuildRouter(
		httpx.RouterOptions{IsProduction: c.Config.IsProduction(), Logger: c.Logger},
		handlers.NewAuthHandlers(c.AuthSvc, validator),
		handlers.NewProductHandlers(c.ProductSvc),
		handlers.NewPolicyHandlers(c.PolicySvc, validator),
		middleware.NewAuthMW(c.TokenSvc),
		middleware.NewCasbinMW(c.PolicySvc, c.AuditLogger, c.Logger),
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
