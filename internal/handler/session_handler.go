package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/handler/dto"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/middleware"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service"
)

// SessionUseCase is the session service as used by SessionHandler.
type SessionUseCase interface {
	StartSession(ctx context.Context, quizID, studentID uint) (*service.SessionState, error)
	SubmitAnswer(ctx context.Context, in service.SubmitAnswerInput) (*service.AnswerResult, error)
	GetSession(ctx context.Context, sessionID string, viewer service.Viewer) (*service.SessionState, error)
	ListAnswers(ctx context.Context, sessionID string, viewer service.Viewer) ([]service.AnswerHistoryItem, error)
	RecommendVideos(ctx context.Context, sessionID string, viewer service.Viewer) ([]entity.Video, error)
}

// SessionHandler serves adaptive quiz session endpoints.
type SessionHandler struct {
	sessions SessionUseCase
	logger   *zap.Logger
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(sessions SessionUseCase, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger.Named("session_handler")}
}

func viewerFrom(c *gin.Context) service.Viewer {
	return service.Viewer{
		UserID: c.GetUint(middleware.ContextUserID),
		Role:   c.GetString(middleware.ContextUserRole),
	}
}

// StartSession handles POST /api/quizzes/:id/sessions.
func (h *SessionHandler) StartSession(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	state, err := h.sessions.StartSession(c.Request.Context(), quizID, c.GetUint(middleware.ContextUserID))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionStateResponse(state))
}

// GetSession handles GET /api/sessions/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	state, err := h.sessions.GetSession(c.Request.Context(), c.GetString("sessionID"), viewerFrom(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionStateResponse(state))
}

// SubmitAnswer handles POST /api/sessions/:id/answers.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	res, err := h.sessions.SubmitAnswer(c.Request.Context(), service.SubmitAnswerInput{
		SessionID:      c.GetString("sessionID"),
		StudentID:      c.GetUint(middleware.ContextUserID),
		QuestionID:     req.QuestionID,
		SelectedOption: *req.SelectedOption,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSubmitAnswerResponse(res))
}

// ListAnswers handles GET /api/sessions/:id/answers.
func (h *SessionHandler) ListAnswers(c *gin.Context) {
	items, err := h.sessions.ListAnswers(c.Request.Context(), c.GetString("sessionID"), viewerFrom(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": dto.NewAnswerHistoryResponse(items)})
}

// RecommendVideos handles GET /api/sessions/:id/videos.
func (h *SessionHandler) RecommendVideos(c *gin.Context) {
	videos, err := h.sessions.RecommendVideos(c.Request.Context(), c.GetString("sessionID"), viewerFrom(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// ExportAnswers handles GET /api/sessions/:id/export with an xlsx answer log.
func (h *SessionHandler) ExportAnswers(c *gin.Context) {
	sessionID := c.GetString("sessionID")

	items, err := h.sessions.ListAnswers(c.Request.Context(), sessionID, viewerFrom(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	f, err := buildAnswerWorkbook(items)
	if err != nil {
		h.logger.Error("failed to build answer workbook", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"session_%s.xlsx\"", sessionID))
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("failed to write workbook", zap.String("session_id", sessionID), zap.Error(err))
	}
}

const answerSheet = "Answers"

var answerSheetHeaders = []interface{}{
	"#", "Question", "Level", "Correct", "Time (s)", "Median (s)", "Speed",
	"Points", "Level before", "Level after", "Change", "Rule", "Reason",
}

func buildAnswerWorkbook(items []service.AnswerHistoryItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", answerSheet); err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(answerSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	if err := sw.SetRow("A1", answerSheetHeaders); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		correct := "No"
		if item.IsCorrect {
			correct = "Yes"
		}
		row := []interface{}{
			i + 1,
			sanitizeForExcel(item.QuestionText),
			item.QuestionLevel,
			correct,
			item.TimeTakenSeconds,
			item.MedianTimeSeconds,
			item.SpeedClass,
			item.PointDelta,
			item.LevelBefore,
			item.LevelAfter,
			item.LevelChange,
			item.RuleID,
			sanitizeForExcel(item.Reason),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f, nil
}

// sanitizeForExcel neutralizes values that spreadsheet apps would evaluate
// as formulas.
func sanitizeForExcel(s string) string {
	if s == "" {
		return s
	}
	if strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
