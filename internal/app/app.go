package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/cache"
	"go-blog-ai/internal/config"
	"go-blog-ai/internal/database"
	"go-blog-ai/internal/event"
	"go-blog-ai/internal/handler"
	"go-blog-ai/internal/mailer"
	"go-blog-ai/internal/middleware"
	"go-blog-ai/internal/repository"
	"go-blog-ai/internal/router"
	"go-blog-ai/internal/service"
	"go-blog-ai/internal/textgen"
)

type App struct {
	server          *http.Server
	db              *database.DB
	shutdownTimeout time.Duration
	cleanupFuncs    []func()
}

// New connects to the record store, applies migrations and wires every
// component. Callers own the returned App and must Run it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	pool := db.Pool
	accountRepo := repository.NewAccountRepository(pool)
	postRepo := repository.NewPostRepository(pool)
	collectionRepo := repository.NewCollectionRepository(pool)
	savedRepo := repository.NewSavedPostRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	key := []byte(cfg.JWTSecret)
	issuer, err := auth.NewIssuer(accountRepo, key)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize credential issuer: %w", err)
	}
	verifier, err := auth.NewVerifier(key)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session verifier: %w", err)
	}
	gate := auth.NewGate(accountRepo)

	cleanupFuncs := []func(){db.Close}

	var statsCache cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisStore := cache.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		statsCache = redisStore
		cleanupFuncs = append(cleanupFuncs, redisStore.Close)
	} else {
		slog.Info("REDIS_ADDR not set, stats caching disabled")
	}

	var generator textgen.Generator = textgen.Disabled{}
	if cfg.GeminiAPIKey != "" {
		client, err := textgen.NewGeminiClient(textgen.GeminiConfig{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			Timeout:    cfg.GenerationTimeout,
			MaxRetries: uint64(cfg.GenerationMaxRetries),
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize text generation client: %w", err)
		}
		generator = client
	} else {
		slog.Warn("GEMINI_API_KEY not set, generation endpoints will fail")
	}

	var outbound mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPHost != "" {
		outbound = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	} else {
		slog.Info("SMTP_HOST not set, outbound mail is logged only")
	}

	bus := event.NewBus()
	auditService := service.NewAuditService(auditRepo, gate)
	accountService := service.NewAccountService(accountRepo, gate, bus)
	adminService := service.NewAdminService(accountRepo, postRepo, gate, auditService, statsCache, cfg.StatsCacheTTL, bus)
	postService := service.NewPostService(postRepo, collectionRepo, savedRepo, accountRepo, gate, auditService, bus)
	collectionService := service.NewCollectionService(collectionRepo, gate)
	generationService := service.NewGenerationService(accountRepo, gate, generator, cfg.GenerationTimeout)
	dashboardService := service.NewDashboardService(accountRepo, postRepo, gate)
	notificationService := service.NewNotificationService(bus, outbound)

	if err := accountService.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	notifyCtx, notifyCancel := context.WithCancel(context.Background())
	notifyDone := notificationService.Start(notifyCtx)
	cleanupFuncs = append(cleanupFuncs, func() {
		notifyCancel()
		<-notifyDone
	})

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(verifier), router.Handlers{
		Health:     handler.NewHealthHandler(db),
		Auth:       handler.NewAuthHandler(accountService, issuer, cfg.IsProduction()),
		User:       handler.NewUserHandler(accountService),
		Admin:      handler.NewAdminHandler(adminService),
		Audit:      handler.NewAuditHandler(auditService),
		Post:       handler.NewPostHandler(postService),
		Collection: handler.NewCollectionHandler(collectionService),
		Generate:   handler.NewGenerateHandler(generationService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:          server,
		db:              db,
		shutdownTimeout: cfg.ShutdownTimeout,
		cleanupFuncs:    cleanupFuncs,
	}, nil
}

func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		slog.Info("shutdown requested", "signal", sig.String())
	}

	timeout := a.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	// Cleanup runs in reverse so the notifier stops before the pool closes.
	a.cleanup()

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
}
