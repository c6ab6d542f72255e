package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/handler/dto"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/middleware"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/auth"
)

// QuizUseCase is the quiz service as used by QuizHandler.
type QuizUseCase interface {
	CreateQuiz(ctx context.Context, in service.CreateQuizInput) (*entity.Quiz, error)
	AddQuestions(ctx context.Context, quizID uint, inputs []service.QuestionInput) ([]entity.Question, error)
	GetQuiz(ctx context.Context, quizID uint, withQuestions bool) (*entity.Quiz, error)
	ListByClass(ctx context.Context, classID uint, limit, offset int) ([]entity.Quiz, error)
	LevelStats(ctx context.Context, quizID uint) (map[int]int64, error)
}

// QuizHandler serves quiz and question bank endpoints.
type QuizHandler struct {
	quizzes QuizUseCase
	logger  *zap.Logger
}

// NewQuizHandler creates a quiz handler.
func NewQuizHandler(quizzes QuizUseCase, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, logger: logger.Named("quiz_handler")}
}

func isStaff(c *gin.Context) bool {
	role := c.GetString(middleware.ContextUserRole)
	return role == auth.RoleTeacher || role == auth.RoleAdmin
}

// CreateQuiz handles POST /api/quizzes.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	quiz, err := h.quizzes.CreateQuiz(c.Request.Context(), service.CreateQuizInput{
		ClassID:       req.ClassID,
		Title:         req.Title,
		Topic:         req.Topic,
		QuestionCount: req.QuestionCount,
		StartLevel:    req.StartLevel,
		CreatedBy:     c.GetUint(middleware.ContextUserID),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, true))
}

// GetQuiz handles GET /api/quizzes/:id. Staff also get the question bank
// with answers.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	staff := isStaff(c)

	quiz, err := h.quizzes.GetQuiz(c.Request.Context(), quizID, staff)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, staff))
}

// ListQuizzes handles GET /api/quizzes?class_id=.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	var query dto.ListQuizzesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "details": err.Error()})
		return
	}

	quizzes, err := h.quizzes.ListByClass(c.Request.Context(), query.ClassID, query.Limit, query.Offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp := make([]*dto.QuizResponse, len(quizzes))
	for i := range quizzes {
		resp[i] = dto.NewQuizResponse(&quizzes[i], false)
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": resp})
}

// AddQuestions handles POST /api/quizzes/:id/questions.
func (h *QuizHandler) AddQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req dto.AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	inputs := make([]service.QuestionInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		inputs = append(inputs, service.QuestionInput{
			Level:             q.Level,
			Topic:             q.Topic,
			Text:              q.Text,
			Options:           q.Options,
			CorrectOption:     q.CorrectOption,
			MedianTimeSeconds: q.MedianTimeSeconds,
		})
	}

	questions, err := h.quizzes.AddQuestions(c.Request.Context(), quizID, inputs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	resp := make([]*dto.QuestionResponse, len(questions))
	for i := range questions {
		resp[i] = dto.NewQuestionResponse(&questions[i], true)
	}
	c.JSON(http.StatusCreated, gin.H{"questions": resp})
}

// LevelStats handles GET /api/quizzes/:id/levels.
func (h *QuizHandler) LevelStats(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	stats, err := h.quizzes.LevelStats(c.Request.Context(), quizID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewLevelStatsResponse(quizID, stats))
}
