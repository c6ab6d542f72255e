package dto

import (
	"time"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service/adaptive"
)

// SubmitAnswerRequest is the body of POST /api/sessions/:id/answers.
// selected_option is a pointer so that option 0 passes the required check.
type SubmitAnswerRequest struct {
	QuestionID     uint `json:"question_id" binding:"required"`
	SelectedOption *int `json:"selected_option" binding:"required,min=0"`
}

// SessionResponse is a session as sent to clients.
type SessionResponse struct {
	ID                string            `json:"id"`
	QuizID            uint              `json:"quiz_id"`
	StudentID         uint              `json:"student_id"`
	Status            string            `json:"status"`
	CurrentLevel      int               `json:"current_level"`
	AccumulatedPoints int               `json:"accumulated_points"`
	TotalPoints       int               `json:"total_points"`
	AnsweredCount     int               `json:"answered_count"`
	CurrentQuestion   *QuestionResponse `json:"current_question,omitempty"`
	QuestionServedAt  *time.Time        `json:"question_served_at,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// AnswerResponse is one logged answer.
type AnswerResponse struct {
	ID                uint      `json:"id"`
	QuestionID        uint      `json:"question_id"`
	QuestionText      string    `json:"question_text,omitempty"`
	QuestionLevel     int       `json:"question_level"`
	SelectedOption    int       `json:"selected_option"`
	IsCorrect         bool      `json:"is_correct"`
	TimeTakenSeconds  float64   `json:"time_taken_seconds"`
	MedianTimeSeconds float64   `json:"median_time_seconds"`
	SpeedClass        string    `json:"speed_class"`
	PointDelta        int       `json:"point_delta"`
	LevelBefore       int       `json:"level_before"`
	LevelAfter        int       `json:"level_after"`
	LevelChange       string    `json:"level_change"`
	RuleID            int       `json:"rule_id"`
	Reason            string    `json:"reason"`
	CreatedAt         time.Time `json:"created_at"`
}

// SubmitAnswerResponse is the outcome of an answer submission.
type SubmitAnswerResponse struct {
	Answer       AnswerResponse         `json:"answer"`
	Decision     adaptive.LevelDecision `json:"decision"`
	Session      *SessionResponse       `json:"session"`
	NextQuestion *QuestionResponse      `json:"next_question,omitempty"`
}

// NewSessionResponse builds a session DTO. The current question never
// reveals its answer.
func NewSessionResponse(session *entity.QuizSession, current *entity.Question) *SessionResponse {
	if session == nil {
		return nil
	}
	return &SessionResponse{
		ID:                session.ID,
		QuizID:            session.QuizID,
		StudentID:         session.StudentID,
		Status:            session.Status,
		CurrentLevel:      session.CurrentLevel,
		AccumulatedPoints: session.AccumulatedPoints,
		TotalPoints:       session.TotalPoints,
		AnsweredCount:     session.AnsweredCount,
		CurrentQuestion:   NewQuestionResponse(current, false),
		QuestionServedAt:  session.QuestionServedAt,
		CompletedAt:       session.CompletedAt,
		CreatedAt:         session.CreatedAt,
	}
}

// NewSessionStateResponse builds a session DTO from a service state.
func NewSessionStateResponse(state *service.SessionState) *SessionResponse {
	return NewSessionResponse(state.Session, state.Question)
}

// NewAnswerResponse builds an answer DTO.
func NewAnswerResponse(a *entity.SessionAnswer, questionText string) AnswerResponse {
	return AnswerResponse{
		ID:                a.ID,
		QuestionID:        a.QuestionID,
		QuestionText:      questionText,
		QuestionLevel:     a.QuestionLevel,
		SelectedOption:    a.SelectedOption,
		IsCorrect:         a.IsCorrect,
		TimeTakenSeconds:  a.TimeTakenSeconds,
		MedianTimeSeconds: a.MedianTimeSeconds,
		SpeedClass:        a.SpeedClass,
		PointDelta:        a.PointDelta,
		LevelBefore:       a.LevelBefore,
		LevelAfter:        a.LevelAfter,
		LevelChange:       a.LevelChange,
		RuleID:            a.RuleID,
		Reason:            a.Reason,
		CreatedAt:         a.CreatedAt,
	}
}

// NewSubmitAnswerResponse builds the answer submission DTO.
func NewSubmitAnswerResponse(res *service.AnswerResult) *SubmitAnswerResponse {
	return &SubmitAnswerResponse{
		Answer:       NewAnswerResponse(res.Answer, ""),
		Decision:     res.Decision,
		Session:      NewSessionResponse(res.Session, res.NextQuestion),
		NextQuestion: NewQuestionResponse(res.NextQuestion, false),
	}
}

// NewAnswerHistoryResponse builds the answer log DTO.
func NewAnswerHistoryResponse(items []service.AnswerHistoryItem) []AnswerResponse {
	list := make([]AnswerResponse, len(items))
	for i := range items {
		list[i] = NewAnswerResponse(&items[i].SessionAnswer, items[i].QuestionText)
	}
	return list
}
