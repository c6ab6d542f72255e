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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/config"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/handler"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/metrics"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/middleware"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/logger"
	pgRepo "github.com/farhanulkhair/be-adaptivin-sub000/internal/repository/postgres"
	redisRepo "github.com/farhanulkhair/be-adaptivin-sub000/internal/repository/redis"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/video"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/auth"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "adaptivin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Log.Level == "debug")
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	if err := database.MigrateDB(db, log); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info("connected to redis", zap.String("mode", cfg.Redis.Mode))

	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	sessionRepo := pgRepo.NewSessionRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		return fmt.Errorf("failed to initialize cache repo: %w", err)
	}

	recorder := metrics.NewRecorder()

	videoClient := video.NewClient(cfg.Video.BaseURL, cfg.Video.APIKey, cfg.Video.MaxResults, cfg.Video.RequestTimeout)
	videoService := service.NewVideoService(videoClient, cacheRepo, cfg.Video.CacheTTL, log)

	locker := service.NewSessionLocker(cacheRepo, cfg.Session.AnswerLockTTL, log)
	sessionService := service.NewSessionService(
		quizRepo, questionRepo, sessionRepo, answerRepo,
		locker, videoService, recorder, log,
	)
	quizService := service.NewQuizService(quizRepo, questionRepo, service.QuizDefaults{
		QuestionCount: cfg.Session.DefaultQuestionCount,
		StartLevel:    cfg.Session.DefaultStartLevel,
	}, log)

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpirationHrs)
	if err != nil {
		return fmt.Errorf("failed to initialize jwt service: %w", err)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Quizzes:  handler.NewQuizHandler(quizService, log),
		Sessions: handler.NewSessionHandler(sessionService, log),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": sqlDB.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
		Auth:           middleware.NewAuthMiddleware(jwtService),
		RateLimiter:    middleware.NewRateLimiter(cacheRepo, log),
		AnswerLimit:    middleware.AnswerRateLimitConfig(cfg.RateLimit.AnswersPerMinute),
		Metrics:        recorder.Handler(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited properly")
	return nil
}
