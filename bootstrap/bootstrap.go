// Package bootstrap wires all dependencies and starts the application.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/adapters/captcha"
	"github.com/marvilon/leadgate/adapters/clock"
	"github.com/marvilon/leadgate/adapters/email"
	"github.com/marvilon/leadgate/adapters/filestore"
	"github.com/marvilon/leadgate/adapters/idgen"
	"github.com/marvilon/leadgate/adapters/memory"
	"github.com/marvilon/leadgate/adapters/metrics"
	"github.com/marvilon/leadgate/adapters/redisstore"
	"github.com/marvilon/leadgate/adapters/sqlite"
	"github.com/marvilon/leadgate/app"
	"github.com/marvilon/leadgate/config"
	"github.com/marvilon/leadgate/domain/catalog"
	"github.com/marvilon/leadgate/ports"
	"github.com/marvilon/leadgate/web"
)

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server
	Metrics    *metrics.Collector

	holder  *config.Holder
	limiter *app.RateLimitService
	db      *sqlite.DB
	rdb     *redis.Client
}

// New creates and initializes the application from a config holder.
func New(holder *config.Holder) (*App, error) {
	cfg := holder.Get()
	logger := SetupLogger(cfg.Logging)

	logger.Info().Msg("initializing leadgate")

	a := &App{
		Logger: logger,
		holder: holder,
	}

	var (
		m   *metrics.Collector
		reg *prometheus.Registry
	)
	if cfg.Metrics.Enabled {
		m, reg = metrics.New()
		a.Metrics = m
	}

	clk := clock.Real{}

	store, err := a.buildRateLimitStore(cfg)
	if err != nil {
		return nil, err
	}
	a.limiter = app.NewRateLimitService(store, clk, logger, cfg.RateLimit.SweepEvery)
	if m != nil {
		a.limiter.OnSweep(func(removed int) {
			a.Metrics.SweepRemoved.Add(float64(removed))
		})
	}

	verifier, err := buildVerifier(cfg)
	if err != nil {
		return nil, err
	}

	sender, err := email.NewSender(email.Config{
		Provider: cfg.Email.Provider,
		Resend: email.ResendConfig{
			APIKey:  cfg.Email.Resend.APIKey,
			From:    cfg.Email.From,
			Timeout: cfg.Email.Resend.Timeout,
			MaxRPS:  cfg.Email.Resend.MaxRPS,
		},
		SMTP: email.SMTPConfig{
			Host:     cfg.Email.SMTP.Host,
			Port:     cfg.Email.SMTP.Port,
			Username: cfg.Email.SMTP.Username,
			Password: cfg.Email.SMTP.Password,
			From:     cfg.Email.From,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init email sender: %w", err)
	}

	leads, err := a.buildLeadStore(cfg)
	if err != nil {
		return nil, err
	}

	contact := app.NewContactService(a.limiter, verifier, sender, clk, logger, app.ContactConfig{
		RecipientEmail:  cfg.Email.Recipient,
		RateLimit:       cfg.RateLimit.Contact.Limit,
		RateWindow:      cfg.RateLimit.Contact.Window,
		MinCaptchaScore: cfg.Captcha.MinScore,
	})

	specReq := app.NewSpecRequestService(a.limiter, verifier, sender, leads, clk, idgen.UUID{}, logger, app.SpecRequestConfig{
		RecipientEmail:  cfg.Email.Recipient,
		RateLimit:       cfg.RateLimit.SpecRequest.Limit,
		RateWindow:      cfg.RateLimit.SpecRequest.Window,
		MinCaptchaScore: cfg.Captcha.MinScore,
	})
	if m != nil {
		specReq.OnDispatchFailure(func() {
			a.Metrics.EmailDispatches.WithLabelValues("failure").Inc()
		})
	}

	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Info().Int("products", cat.Len()).Msg("catalog loaded")
	}

	handler := web.NewHandler(web.Deps{
		Contact:     contact,
		SpecRequest: specReq,
		Catalog:     cat,
		SpecDir:     cfg.Specs.Dir,
		Logger:      logger,
		Metrics:     m,
	})
	router := web.NewRouter(handler, web.RouterConfig{
		MetricsRegistry: reg,
	})

	a.HTTPServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return a, nil
}

func (a *App) buildRateLimitStore(cfg *config.Config) (ports.RateLimitStore, error) {
	switch cfg.RateLimit.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.rdb = rdb
		a.Logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis rate limit store")
		return redisstore.NewRateLimitStore(rdb), nil

	case "memory", "":
		// Single-process store: counters reset on restart, which is
		// acceptable for an advisory submission budget.
		return memory.NewRateLimitStore(), nil

	default:
		return nil, fmt.Errorf("unknown rate limit store: %q", cfg.RateLimit.Store)
	}
}

func (a *App) buildLeadStore(cfg *config.Config) (ports.LeadStore, error) {
	switch cfg.Leads.Store {
	case "file":
		store, err := filestore.NewLeadStore(cfg.Leads.Dir)
		if err != nil {
			return nil, fmt.Errorf("init lead store: %w", err)
		}
		return store, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.Leads.DSN)
		if err != nil {
			return nil, fmt.Errorf("open lead database: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate lead database: %w", err)
		}
		a.db = db
		return sqlite.NewLeadStore(db), nil

	case "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown leads store: %q", cfg.Leads.Store)
	}
}

func buildVerifier(cfg *config.Config) (ports.CaptchaVerifier, error) {
	switch cfg.Captcha.Provider {
	case "recaptcha":
		return captcha.NewRecaptchaVerifier(captcha.RecaptchaConfig{
			SecretKey: cfg.Captcha.SecretKey,
			Timeout:   cfg.Captcha.Timeout,
		})
	case "mock":
		return captcha.NewMockVerifier(true, 0.9), nil
	default:
		return nil, fmt.Errorf("unknown captcha provider: %q", cfg.Captcha.Provider)
	}
}

// SetupLogger builds the process logger from logging config.
func SetupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	} else {
		logger = zerolog.New(os.Stderr).Level(level)
	}
	return logger.With().Timestamp().Str("service", "leadgate").Logger()
}

// Run starts the HTTP server and blocks until interrupt or server error.
func (a *App) Run() error {
	a.limiter.Start()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", a.HTTPServer.Addr).
			Msg("starting http server")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	return a.Shutdown()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	a.limiter.Stop()

	if a.holder != nil {
		a.holder.Stop()
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("redis close error")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("database close error")
		}
	}

	a.Logger.Info().Msg("shutdown complete")
	return nil
}
