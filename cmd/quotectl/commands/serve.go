package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"quoteforge/config"
	"quoteforge/cron"
	"quoteforge/database"
	quotesRepo "quoteforge/database/repository/quotes"
	"quoteforge/handlers"
	"quoteforge/middleware"
	"quoteforge/routes"
	"quoteforge/services/draft"
	"quoteforge/services/pricing"
	"quoteforge/services/wizard"
	"quoteforge/utils"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the wizard API and the quote intake backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	catalog := pricing.Default()
	unit := pricing.ParseCurrency(cfg.Currency)

	// Drafts live in Redis when it is reachable; otherwise sessions keep
	// their drafts in memory only.
	var draftClient *redis.Client
	if err := utils.InitDraftCache(); err != nil {
		logger.Warn("main: drafts will not survive a restart", zap.Error(err))
	} else {
		draftClient = utils.GetDraftCacheClient()
	}

	var repo quotesRepo.QuoteRepository
	if err := database.InitDB(); err != nil {
		logger.Warn("main: using in-memory quote repository", zap.Error(err))
		repo = quotesRepo.NewMemoryQuoteRepo()
	} else {
		var err error
		repo, err = quotesRepo.NewMongoQuoteRepo(context.Background(), database.Database())
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize quote repository: %v", err)
		}
	}

	queue := asynq.NewClient(cron.RedisOpt())
	defer queue.Close()
	var worker *asynq.Server
	if draftClient != nil {
		worker = cron.InitFollowUpWorker(repo, logger)
	}

	autosaver := wizard.NewAutosaver(cfg.AutosaveInterval, logger)
	regCfg := wizard.RegistryConfig{
		Catalog:   catalog,
		Submitter: wizard.NewHTTPSubmitter(cfg.SubmissionURL, cfg.SubmissionTimeout),
		Autosaver: autosaver,
		Controller: []wizard.ControllerOption{
			wizard.WithCurrency(unit, language.AmericanEnglish),
		},
		Logger: logger,
	}
	if draftClient != nil {
		regCfg.Storage = func(sessionID string) draft.Storage {
			return draft.NewRedisStorage(draftClient, sessionID, cfg.DraftTTL)
		}
		regCfg.Lookup = func(ctx context.Context, sessionID string) (bool, error) {
			return draft.Exists(ctx, draftClient, sessionID)
		}
	}
	sessions := wizard.NewRegistry(regCfg)

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(handlers.Deps{
		Sessions:      sessions,
		Catalog:       catalog,
		Currency:      unit,
		QuoteRepo:     repo,
		Queue:         queue,
		FollowUpDelay: cfg.FollowUpDelay,
	})
	if cfg.AdminToken == "" {
		logger.Warn("main: ADMIN_TOKEN is empty; admin endpoints are disabled")
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.AdminToken)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	var redisClients []*redis.Client
	if draftClient != nil {
		redisClients = append(redisClients, draftClient)
	}
	utils.StartHealthMonitor(monitorCtx, time.Minute, redisClients, database.MongoClient)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	// Sessions stop autosaving before the scheduler goes away.
	sessions.CloseAll()
	autosaver.Stop()
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
	return nil
}
