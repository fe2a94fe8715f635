package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/contacts-api/config"
	"github.com/oksasatya/contacts-api/internal/application"
	repo "github.com/oksasatya/contacts-api/internal/domain/repository"
	"github.com/oksasatya/contacts-api/internal/infrastructure/cache"
	"github.com/oksasatya/contacts-api/internal/infrastructure/media"
	pginfra "github.com/oksasatya/contacts-api/internal/infrastructure/postgres"
	"github.com/oksasatya/contacts-api/internal/infrastructure/search"
	"github.com/oksasatya/contacts-api/pkg/helpers"
	"github.com/oksasatya/contacts-api/pkg/mailer"
	tpl "github.com/oksasatya/contacts-api/pkg/mailer/templates"
)

// Container holds every long-lived component. It is built once in main and
// passed to the router; nothing here is global.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	JWT    *helpers.JWTManager
	Hasher *helpers.Hasher

	Users    repo.UserRepository
	Contacts repo.ContactRepository

	Sessions *application.SessionCache
	Resolver *application.IdentityResolver
	Auth     *application.AuthService
	User     *application.UserService
	Contact  *application.ContactService

	closers []func()
}

// Adapters are the pluggable outer collaborators of the services.
type Adapters struct {
	Store  application.CacheStore
	Mailer application.Mailer
	Media  application.MediaStorage
	Index  application.ContactIndexer
}

// New connects to every configured backend and assembles the services.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	c.DB = pool
	c.onClose(pool.Close)

	// Redis backs the rate limiter even when the session cache is in memory.
	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	c.onClose(func() { _ = c.Redis.Close() })

	var ad Adapters
	if ad.Store, err = c.cacheStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if ad.Mailer, err = c.mailer(); err != nil {
		c.Close()
		return nil, err
	}
	if ad.Media, err = c.media(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if ad.Index, err = c.contactIndex(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.Assemble(pool, ad)
	return c, nil
}

// Assemble wires repositories and services on top of db and the adapters.
func (c *Container) Assemble(db pginfra.DB, ad Adapters) {
	cfg := c.Config
	c.JWT = helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.EmailTokenTTL)
	c.Hasher = helpers.NewHasher(cfg.HashWorkers)

	c.Users = pginfra.NewUserRepository(db)
	c.Contacts = pginfra.NewContactRepository(db)

	c.Sessions = application.NewSessionCache(ad.Store, cfg.SessionTTL, c.Logger)
	c.Resolver = application.NewIdentityResolver(c.JWT, c.Users, c.Sessions, c.Logger, cfg.CacheFailOpen)
	c.Auth = application.NewAuthService(c.Users, c.JWT, c.Hasher, c.Sessions, ad.Mailer, c.Logger, application.Links{
		BaseURL:          cfg.PublicBaseURL,
		ResetPasswordURL: cfg.ResetPasswordURL,
	})
	c.User = application.NewUserService(c.Users, ad.Media, c.Sessions, c.Logger)
	c.Contact = application.NewContactService(c.Contacts, ad.Index, c.Logger)
}

// Close waits for queued background mail and releases connections in reverse order.
func (c *Container) Close() {
	if c.Auth != nil {
		c.Auth.Wait()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) onClose(f func()) { c.closers = append(c.closers, f) }

func (c *Container) cacheStore(ctx context.Context) (application.CacheStore, error) {
	switch c.Config.CacheDriver {
	case "memory":
		return cache.NewMemoryStore(c.Config.CacheMemorySize, c.Config.SessionTTL), nil
	case "redis", "":
		if err := helpers.PingRedis(ctx, c.Redis, 3*time.Second); err != nil {
			if !c.Config.CacheFailOpen {
				return nil, fmt.Errorf("redis: %w", err)
			}
			c.Logger.WithError(err).Warn("redis unreachable at startup; continuing with CACHE_FAIL_OPEN")
		}
		return cache.NewRedisStore(c.Redis), nil
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", c.Config.CacheDriver)
	}
}

func (c *Container) mailer() (application.Mailer, error) {
	cfg := c.Config
	if !cfg.MailSendEnabled {
		return mailer.LogMailer{Logger: c.Logger}, nil
	}
	switch cfg.MailTransport {
	case "direct":
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender, cfg.MailgunAPIBase)
		return mailer.NewDirectMailer(mg, Brand(cfg)), nil
	case "queue", "":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		c.onClose(pub.Close)
		return mailer.NewQueueMailer(pub), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.MailTransport)
	}
}

func (c *Container) media(ctx context.Context) (application.MediaStorage, error) {
	cfg := c.Config
	switch cfg.MediaDriver {
	case "gcs":
		if cfg.GCSBucket == "" {
			c.Logger.Warn("GCS_BUCKET not set; avatar upload disabled")
			return nil, nil
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		c.onClose(func() { _ = client.Close() })
		return media.NewGCS(client, cfg.GCSBucket), nil
	case "minio":
		client, err := helpers.NewMinioClient(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioRegion, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		m := media.NewMinio(client, cfg.MinioBucket, cfg.MinioPublicURL, cfg.MinioRegion)
		if err := m.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return m, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown MEDIA_DRIVER %q", cfg.MediaDriver)
	}
}

func (c *Container) contactIndex(ctx context.Context) (application.ContactIndexer, error) {
	addrs := c.Config.ESAddrs()
	if len(addrs) == 0 {
		return nil, nil
	}
	es, err := helpers.NewESClient(addrs, c.Config.ElasticsearchUser, c.Config.ElasticsearchPass)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: %w", err)
	}
	idx := search.NewContactIndex(es, c.Config.ESContactsIndex)
	if err := helpers.PingES(ctx, es, 3*time.Second); err != nil {
		c.Logger.WithError(err).Warn("elasticsearch unreachable; search may fail until it is up")
		return idx, nil
	}
	ectx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := idx.EnsureIndex(ectx); err != nil {
		c.Logger.WithError(err).Warn("contact index not ready")
	}
	return idx, nil
}

// Brand maps company settings onto email template fields.
func Brand(cfg *config.Config) tpl.Brand {
	return tpl.Brand{
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
	}
}
