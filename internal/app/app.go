package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/analyzer"
	bloggerHTTP "github.com/bamao88/Topic-Monitoring-feishu/internal/controller/http"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/crawler"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/usecase"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/cache"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/jwt"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/middleware"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/queue"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/s3"
)

type App struct {
	cfg          *config.Config
	log          *logger.Logger
	feishuClient *feishu.Client
	redisClient  *redis.Client
	s3Client     *s3.Client
	jwtService   *jwt.Service
	queueClient  *queue.Client
	analysisUC   usecase.AnalysisUseCase
	httpServer   *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	feishuClient, err := feishu.NewClient(cfg, log)
	if err != nil {
		log.Error("Failed to create Feishu client: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (continuing without archive)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	var archive usecase.ReportArchive
	if s3Client != nil {
		archive = s3Client
	}
	analysisUC := usecase.NewAnalysisUseCase(
		feishuClient,
		analyzer.NewSuite(nil),
		redisClient,
		archive,
		log,
	)

	return &App{
		cfg:          cfg,
		log:          log,
		feishuClient: feishuClient,
		redisClient:  redisClient,
		s3Client:     s3Client,
		jwtService:   jwtService,
		queueClient:  queueClient,
		analysisUC:   analysisUC,
	}, nil
}

func (a *App) Run() error {
	var publisher bloggerHTTP.TaskPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}
	bloggerHandler := bloggerHTTP.NewBloggerHandler(a.analysisUC, publisher, a.log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(a.jwtService))
	if a.redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))
	}
	{
		api.GET("/bloggers", bloggerHandler.ListBloggers)
		api.GET("/bloggers/:id/report", bloggerHandler.GetReport)
		api.POST("/bloggers/:id/analyze", bloggerHandler.TriggerAnalysis)
		api.POST("/sync", bloggerHandler.TriggerSync)
	}

	if a.queueClient != nil {
		go a.consumeTasks()
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Blogger teardown service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

// consumeTasks runs the background worker loop. Sync tasks get their own
// browser session; analysis tasks only touch the tables.
func (a *App) consumeTasks() {
	err := a.queueClient.ConsumeTasks(func(task queue.Task) error {
		ctx := context.Background()
		switch task.Kind {
		case queue.TaskSync:
			return a.handleSyncTask(ctx, task)
		case queue.TaskAnalyze:
			_, err := a.analysisUC.AnalyzeBlogger(ctx, task.BloggerID)
			return err
		default:
			a.log.Warn("dropping task %s with unknown kind %q", task.ID, task.Kind)
			return nil
		}
	})
	if err != nil {
		a.log.Error("Task consumer stopped: %v", err)
	}
}

func (a *App) handleSyncTask(ctx context.Context, task queue.Task) error {
	cr := crawler.New(a.cfg, a.log)
	if err := cr.Start(ctx); err != nil {
		return err
	}
	defer cr.Close()

	syncUC := usecase.NewSyncUseCase(cr, a.feishuClient, a.log)
	stats, err := syncUC.SyncBlogger(ctx, task.ProfileURL)
	if err != nil {
		return err
	}
	a.log.Info("task %s synced blogger %s: %d notes, %d comments",
		task.ID, task.BloggerID, stats.Notes, stats.Comments)
	return nil
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down blogger teardown service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if a.queueClient != nil {
		a.queueClient.Close()
	}

	// Shutdown server
	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Blogger teardown service exited")
	return nil
}
