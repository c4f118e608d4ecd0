package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adhub/config"
	"adhub/internal/database"
	"adhub/internal/middleware"
	"adhub/internal/repository"
	"adhub/internal/router"
	"adhub/internal/service"
	"adhub/internal/ws"
	"adhub/pkg/adnetwork"
	"adhub/pkg/logger"
	"adhub/pkg/payment"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "adhub",
		Usage: "Ad campaign purchasing backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP listen port"},
			&cli.StringFlag{Name: "env", Aliases: []string{"e"}, Usage: "development or production"},
			&cli.StringFlag{Name: "db-driver", Usage: "mysql or postgres"},
			&cli.StringFlag{Name: "db-dsn", Usage: "database DSN"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Run database migrations and exit",
				Action: migrate,
			},
			{
				Name:  "create-admin",
				Usage: "Create an operator account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: createAdmin,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(c *cli.Context) *config.Config {
	cfg := config.Load()
	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if c.IsSet("env") {
		cfg.Server.Env = c.String("env")
	}
	if c.IsSet("db-driver") {
		cfg.Database.Driver = c.String("db-driver")
	}
	if c.IsSet("db-dsn") {
		cfg.Database.DSN = c.String("db-dsn")
	}
	return cfg
}

func setup(c *cli.Context) (*config.Config, *logger.Logger, error) {
	cfg := loadConfig(c)
	lg, err := logger.NewLogger(!cfg.IsProduction())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, lg, nil
}

func migrate(c *cli.Context) error {
	cfg, lg, err := setup(c)
	if err != nil {
		return err
	}
	defer lg.Sync()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	lg.Infow("migrations applied", "driver", cfg.Database.Driver)
	return nil
}

func createAdmin(c *cli.Context) error {
	cfg, lg, err := setup(c)
	if err != nil {
		return err
	}
	defer lg.Sync()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	authSvc := service.NewAuthService(cfg, db, repository.NewUserRepository(db), repository.NewWalletRepository(db), newGateway(cfg, lg), lg)
	u, err := authSvc.CreateAdmin(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return err
	}
	lg.Infow("admin created", "user_id", u.ID, "email", u.Email)
	return nil
}

func newGateway(cfg *config.Config, lg *logger.Logger) payment.Gateway {
	if cfg.Stripe.SecretKey == "" {
		lg.Warnw("STRIPE_SECRET_KEY not set, using the stub payment gateway")
		return &payment.StubGateway{Secret: cfg.Stripe.WebhookSecret}
	}
	return payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, nil)
}

func serve(c *cli.Context) error {
	cfg, lg, err := setup(c)
	if err != nil {
		return err
	}
	defer lg.Sync()
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	var relay *ws.RedisRelay
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		relay = ws.NewRedisRelay(rdb, cfg.Redis.Channel, hub, lg)
		if err := relay.Start(ctx); err != nil {
			return err
		}
	}

	limiter := middleware.NewRateLimiter(100, time.Minute)
	go limiter.Sweep(ctx.Done())

	engine := router.Setup(cfg, db, router.Deps{
		Log:         lg,
		Gateway:     newGateway(cfg, lg),
		Networks:    adnetwork.NewRegistryFromConfig(cfg.AdNetworks, nil),
		Hub:         hub,
		Relay:       relay,
		RateLimiter: limiter,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		lg.Infow("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	lg.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	lg.Infow("server stopped")
	return nil
}
