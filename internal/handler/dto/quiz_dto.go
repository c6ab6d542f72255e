package dto

import (
	"time"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/handler/helper"
)

// CreateQuizRequest is the body of POST /api/quizzes.
type CreateQuizRequest struct {
	ClassID       uint   `json:"class_id" binding:"required"`
	Title         string `json:"title" binding:"required,min=3,max=100"`
	Topic         string `json:"topic" binding:"omitempty,max=100"`
	QuestionCount int    `json:"question_count" binding:"omitempty,min=1,max=100"`
	StartLevel    int    `json:"start_level" binding:"omitempty,min=1,max=6"`
}

// ListQuizzesQuery are the query parameters of GET /api/quizzes.
type ListQuizzesQuery struct {
	ClassID uint `form:"class_id" binding:"required"`
	Limit   int  `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset  int  `form:"offset" binding:"omitempty,min=0"`
}

// QuestionRequest is one question of an AddQuestionsRequest.
type QuestionRequest struct {
	Level             int      `json:"level" binding:"required,min=1,max=6"`
	Topic             string   `json:"topic" binding:"omitempty,max=100"`
	Text              string   `json:"text" binding:"required,min=1,max=500"`
	Options           []string `json:"options" binding:"required,min=2,max=6"`
	CorrectOption     int      `json:"correct_option" binding:"min=0"`
	MedianTimeSeconds float64  `json:"median_time_seconds" binding:"required,gt=0"`
}

// AddQuestionsRequest is the body of POST /api/quizzes/:id/questions.
type AddQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// QuestionResponse is a question as sent to clients. CorrectOption is only
// set for staff.
type QuestionResponse struct {
	ID                uint                    `json:"id"`
	QuizID            uint                    `json:"quiz_id"`
	Level             int                     `json:"level"`
	Topic             string                  `json:"topic"`
	Text              string                  `json:"text"`
	Options           []helper.QuestionOption `json:"options"`
	MedianTimeSeconds float64                 `json:"median_time_seconds"`
	CorrectOption     *int                    `json:"correct_option,omitempty"`
}

// QuizResponse is a quiz as sent to clients.
type QuizResponse struct {
	ID            uint               `json:"id"`
	ClassID       uint               `json:"class_id"`
	Title         string             `json:"title"`
	Topic         string             `json:"topic"`
	QuestionCount int                `json:"question_count"`
	StartLevel    int                `json:"start_level"`
	CreatedBy     uint               `json:"created_by"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// LevelStatsResponse lists question counts per level.
type LevelStatsResponse struct {
	QuizID uint          `json:"quiz_id"`
	Levels map[int]int64 `json:"levels"`
	Total  int64         `json:"total"`
}

// NewQuestionResponse builds a question DTO.
func NewQuestionResponse(q *entity.Question, revealAnswer bool) *QuestionResponse {
	if q == nil {
		return nil
	}
	resp := &QuestionResponse{
		ID:                q.ID,
		QuizID:            q.QuizID,
		Level:             q.Level,
		Topic:             q.Topic,
		Text:              q.Text,
		Options:           helper.ConvertOptionsToObjects(q.Options),
		MedianTimeSeconds: q.MedianTimeSeconds,
	}
	if revealAnswer {
		correct := q.CorrectOption
		resp.CorrectOption = &correct
	}
	return resp
}

// NewQuizResponse builds a quiz DTO with any loaded questions.
func NewQuizResponse(quiz *entity.Quiz, revealAnswers bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	var questions []QuestionResponse
	if len(quiz.Questions) > 0 {
		questions = make([]QuestionResponse, len(quiz.Questions))
		for i := range quiz.Questions {
			questions[i] = *NewQuestionResponse(&quiz.Questions[i], revealAnswers)
		}
	}

	return &QuizResponse{
		ID:            quiz.ID,
		ClassID:       quiz.ClassID,
		Title:         quiz.Title,
		Topic:         quiz.Topic,
		QuestionCount: quiz.QuestionCount,
		StartLevel:    quiz.StartLevel,
		CreatedBy:     quiz.CreatedBy,
		Questions:     questions,
		CreatedAt:     quiz.CreatedAt,
		UpdatedAt:     quiz.UpdatedAt,
	}
}

// NewLevelStatsResponse builds a level stats DTO.
func NewLevelStatsResponse(quizID uint, levels map[int]int64) *LevelStatsResponse {
	var total int64
	for _, n := range levels {
		total += n
	}
	return &LevelStatsResponse{QuizID: quizID, Levels: levels, Total: total}
}
