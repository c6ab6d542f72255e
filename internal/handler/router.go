package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/middleware"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/auth"
)

// RouterDeps are the collaborators NewRouter wires into routes.
type RouterDeps struct {
	Quizzes        *QuizHandler
	Sessions       *SessionHandler
	Health         *HealthHandler
	Auth           *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
	AnswerLimit    middleware.RateLimitConfig
	Metrics        http.Handler
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the gin engine with all API routes.
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", d.Health.Health)
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics))
	}

	staff := d.Auth.RequireRole(auth.RoleTeacher, auth.RoleAdmin)
	student := d.Auth.RequireRole(auth.RoleStudent)
	quizID := middleware.ExtractUintParam("id", "quizID")
	sessionID := middleware.ExtractUUIDParam("id", "sessionID")

	api := router.Group("/api")
	api.Use(d.Auth.RequireAuth())
	{
		quizzes := api.Group("/quizzes")
		{
			quizzes.POST("", staff, d.Quizzes.CreateQuiz)
			quizzes.GET("", d.Quizzes.ListQuizzes)
			quizzes.GET("/:id", quizID, d.Quizzes.GetQuiz)
			quizzes.POST("/:id/questions", staff, quizID, d.Quizzes.AddQuestions)
			quizzes.GET("/:id/levels", staff, quizID, d.Quizzes.LevelStats)
			quizzes.POST("/:id/sessions", student, quizID, d.Sessions.StartSession)
		}

		sessions := api.Group("/sessions/:id", sessionID)
		{
			sessions.GET("", d.Sessions.GetSession)
			sessions.POST("/answers", student, d.RateLimiter.Limit(d.AnswerLimit), d.Sessions.SubmitAnswer)
			sessions.GET("/answers", d.Sessions.ListAnswers)
			sessions.GET("/videos", d.Sessions.RecommendVideos)
			sessions.GET("/export", staff, d.Sessions.ExportAnswers)
		}
	}

	return router
}
