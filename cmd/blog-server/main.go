package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/storage"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// AppConfig is loaded from the environment. BLOG_SIGNING_KEY and BLOG_DSN
// have no sane defaults; the process refuses to start without them.
type AppConfig struct {
	Addr       string `env:"BLOG_ADDR" envDefault:":3000"`
	SigningKey string `env:"BLOG_SIGNING_KEY,required"`

	HashidIDs bool `env:"BLOG_HASHID_IDS" envDefault:"false"`

	ContextKey      string   `env:"BLOG_CONTEXT_KEY" envDefault:"blog_session"`
	AuthScheme      string   `env:"BLOG_AUTH_SCHEME" envDefault:"Bearer"`
	TokenExpiration int      `env:"BLOG_TOKEN_EXPIRATION" envDefault:"24"`
	Issuer          string   `env:"BLOG_ISSUER" envDefault:"go-blog"`
	Audience        []string `env:"BLOG_AUDIENCE" envDefault:"go-blog"`

	Persistence PersistenceConfig
	Storage     StorageConfig `envPrefix:"BLOG_STORAGE_"`
}

func (c AppConfig) GetSigningKey() string   { return c.SigningKey }
func (c AppConfig) GetContextKey() string   { return c.ContextKey }
func (c AppConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c AppConfig) GetAuthScheme() string   { return c.AuthScheme }
func (c AppConfig) GetIssuer() string       { return c.Issuer }
func (c AppConfig) GetAudience() []string   { return c.Audience }

// PersistenceConfig satisfies the persistence.Config getters.
type PersistenceConfig struct {
	Debug                 bool   `env:"BLOG_DB_DEBUG" envDefault:"false"`
	Driver                string `env:"BLOG_DB_DRIVER" envDefault:"sqlite"`
	DSN                   string `env:"BLOG_DSN,required"`
	Server                string `env:"BLOG_DB_SERVER"`
	PingTimeoutExpression string `env:"BLOG_DB_PING_TIMEOUT" envDefault:"5s"`
	OtelIdentifier        string `env:"BLOG_DB_OTEL_IDENTIFIER" envDefault:"go-blog"`
}

func (p PersistenceConfig) GetDebug() bool            { return p.Debug }
func (p PersistenceConfig) GetDriver() string         { return p.Driver }
func (p PersistenceConfig) GetDSN() string            { return p.DSN }
func (p PersistenceConfig) GetServer() string         { return p.Server }
func (p PersistenceConfig) GetOtelIdentifier() string { return p.OtelIdentifier }

func (p PersistenceConfig) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}

// StorageConfig selects where post images live. The default is a local
// directory; set DRIVER=s3 to push blobs at an S3 compatible endpoint.
type StorageConfig struct {
	Driver string `env:"DRIVER" envDefault:"fs"`

	Dir     string `env:"DIR" envDefault:"./data/images"`
	BaseURL string `env:"BASE_URL" envDefault:"/api/posts"`

	Region       string        `env:"S3_REGION" envDefault:"us-east-1"`
	Bucket       string        `env:"S3_BUCKET"`
	AccessKey    string        `env:"S3_ACCESS_KEY"`
	SecretKey    string        `env:"S3_SECRET_KEY"`
	BaseEndpoint string        `env:"S3_ENDPOINT"`
	PresignTTL   time.Duration `env:"S3_PRESIGN_TTL" envDefault:"15m"`
}

func main() {
	logger := newLogger()

	cfg, err := env.ParseAs[AppConfig]()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.Persistence, logger)
	if err != nil {
		log.Fatalf("persistence: %v", err)
	}

	repo := blog.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		log.Fatalf("repository: %v", err)
	}

	images, err := openImageStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	provider := blog.NewUserProvider(repo.Users())
	auther := blog.NewAuthenticator(provider, cfg).WithLogger(logger)

	routeAuth, err := blog.NewHTTPAuthenticator(auther, cfg)
	if err != nil {
		log.Fatalf("authenticator: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "go-blog",
	})

	gate := blog.RequireSession(blog.GateConfig{
		Validator:  auther.TokenService(),
		ContextKey: cfg.ContextKey,
		AuthScheme: cfg.AuthScheme,
		Logger:     logger,
	})

	blog.RegisterRoutes(app, blog.RouterDeps{
		Auth: blog.NewAuthController(
			blog.WithAuthRepo(repo),
			blog.WithAuthLogger(logger),
			blog.WithRouteAuthenticator(routeAuth),
			blog.WithHashidIDs(cfg.HashidIDs),
		),
		Posts: blog.NewPostsController(
			blog.WithPostsRepo(repo),
			blog.WithPostsLogger(logger),
			blog.WithPostsImages(images),
			blog.WithPostsContextKey(cfg.ContextKey),
		),
		Comments: blog.NewCommentsController(
			blog.WithCommentsRepo(repo),
			blog.WithCommentsLogger(logger),
			blog.WithCommentsContextKey(cfg.ContextKey),
		),
		Gate: gate,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

func openDatabase(ctx context.Context, cfg PersistenceConfig, logger blog.Logger) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.GetDSN())
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*blog.User)(nil))
	persistence.RegisterModel((*blog.Post)(nil))
	persistence.RegisterModel((*blog.Comment)(nil))

	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	client.SetLogger(persistenceLogger{logger: logger})

	migrationsFS, err := fs.Sub(blog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}

	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	return client.DB(), nil
}

// persistenceLogger satisfies persistence.Logger while keeping all
// persistence output at the application's debug level.
type persistenceLogger struct {
	logger blog.Logger
}

func (l persistenceLogger) Debug(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l persistenceLogger) Info(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l persistenceLogger) Warn(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l persistenceLogger) Error(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l persistenceLogger) Fatal(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func openImageStore(ctx context.Context, cfg StorageConfig) (storage.ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:       cfg.Region,
			Bucket:       cfg.Bucket,
			AccessKey:    cfg.AccessKey,
			SecretKey:    cfg.SecretKey,
			BaseEndpoint: cfg.BaseEndpoint,
			PresignTTL:   cfg.PresignTTL,
		})
	case "fs":
		return storage.NewFSStore(cfg.Dir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}

// slogAdapter exposes slog through the Logger interface the blog package
// expects.
type slogAdapter struct {
	l *slog.Logger
}

func newLogger() slogAdapter {
	return slogAdapter{
		l: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})),
	}
}

func (s slogAdapter) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s slogAdapter) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s slogAdapter) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s slogAdapter) Error(msg string, args ...any) { s.l.Error(msg, args...) }
