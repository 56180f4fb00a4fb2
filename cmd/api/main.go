package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/config"
	"github.com/xavierca1/lead-outreach/internal/infra/auth"
	"github.com/xavierca1/lead-outreach/internal/infra/database"
	"github.com/xavierca1/lead-outreach/internal/infra/http/handlers"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/infra/integration/ethereal"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
	"github.com/xavierca1/lead-outreach/internal/logger"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.DB.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	userRepo := database.NewUserRepository(db)
	leadRepo := database.NewLeadRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	historyRepo := database.NewEmailHistoryRepository(db)

	// 2. Optional Redis and RabbitMQ
	var rdb *redis.Client
	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window)
		log.Info("rate limit: redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		mem := middleware.NewMemoryLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)
		defer mem.Close()
		limiter = mem
		log.Info("rate limit: in memory")
	}

	var events usecase.EventPublisher = queue.NoopProducer{}
	var mqConn *amqp091.Connection
	if cfg.MQ.URL != "" {
		mq, err := queue.NewRabbitMQ(cfg.MQ.URL)
		if err != nil {
			log.Warn("rabbitmq unavailable, email events disabled", zap.Error(err))
		} else {
			defer mq.Close()
			mqConn = mq.Conn
			events = queue.NewProducer(mq.Ch)
		}
	}

	// 3. Mail
	var provisioner mail.AccountProvisioner
	if !cfg.Ethereal.Disabled {
		provisioner = ethereal.NewClient(cfg.Ethereal.APIURL)
	}
	resolver := mail.NewResolver(mail.SMTPSettings{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
	}, provisioner, log)
	personalizer := mail.NewPersonalizer(log)

	from := cfg.SMTP.From
	if from == "" && cfg.SMTPConfigured() {
		from = cfg.SMTP.User
	}

	// 4. Use cases
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TTL)
	authUC := usecase.NewAuthUseCase(userRepo, auth.NewPasswordHasher(), tokens)
	leadsUC := usecase.NewManageLeadsUseCase(leadRepo)
	templatesUC := usecase.NewManageTemplatesUseCase(templateRepo)
	sendUC := usecase.NewSendEmailUseCase(historyRepo, leadRepo, templateRepo, resolver, events, personalizer, log,
		from, cfg.Server.BackendURL, cfg.Server.Port)
	campaignUC := usecase.NewSendCampaignUseCase(leadRepo, templateRepo, sendUC, personalizer, log)
	trackUC := usecase.NewTrackEmailUseCase(historyRepo, events, log)
	historyUC := usecase.NewListHistoryUseCase(historyRepo)
	statsUC := usecase.NewStatsUseCase(leadRepo, historyRepo)

	// 5. Handlers
	var healthRedis redis.UniversalClient
	if rdb != nil {
		healthRedis = rdb
	}

	router := newRouter(routerDeps{
		Auth:        handlers.NewAuthHandler(authUC, log),
		Leads:       handlers.NewLeadHandler(leadsUC, log),
		Templates:   handlers.NewTemplateHandler(templatesUC, log),
		Email:       handlers.NewEmailHandler(sendUC, campaignUC, historyUC, log),
		Tracking:    handlers.NewTrackingHandler(trackUC, log),
		Stats:       handlers.NewStatsHandler(statsUC, log),
		Health:      handlers.NewHealthHandler(db, healthRedis, mqConn),
		Tokens:      tokens,
		Limiter:     limiter,
		Log:         log,
		FrontendURL: cfg.Server.FrontendURL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
