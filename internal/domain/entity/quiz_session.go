package entity

import (
	"time"
)

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// QuizSession is one student's attempt at a quiz. It owns the level and
// point balance that the adaptive engine reads and replaces on every answer.
type QuizSession struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID    uint   `gorm:"not null;index" json:"quiz_id"`
	StudentID uint   `gorm:"not null;index" json:"student_id"`
	Status    string `gorm:"size:20;not null;default:'active'" json:"status"`

	CurrentLevel      int `gorm:"not null" json:"current_level"`
	AccumulatedPoints int `gorm:"not null;default:0" json:"accumulated_points"`
	// TotalPoints is a diagnostic running sum of every point delta; no decision reads it.
	TotalPoints   int `gorm:"not null;default:0" json:"total_points"`
	AnsweredCount int `gorm:"not null;default:0" json:"answered_count"`

	CurrentQuestionID *uint      `json:"current_question_id,omitempty"`
	QuestionServedAt  *time.Time `json:"question_served_at,omitempty"`

	// Version guards the conditional update that serializes answer submissions.
	Version     int        `gorm:"not null;default:0" json:"version"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the GORM table name.
func (QuizSession) TableName() string {
	return "quiz_sessions"
}

// IsActive reports whether the session still accepts answers.
func (s *QuizSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// IsOwnedBy reports whether the session belongs to the student.
func (s *QuizSession) IsOwnedBy(studentID uint) bool {
	return s.StudentID == studentID
}

// Serve marks question as the one the student must answer next.
func (s *QuizSession) Serve(question *Question, at time.Time) {
	id := question.ID
	s.CurrentQuestionID = &id
	s.QuestionServedAt = &at
}

// Complete closes the session.
func (s *QuizSession) Complete(at time.Time) {
	s.Status = SessionStatusCompleted
	s.CurrentQuestionID = nil
	s.QuestionServedAt = nil
	s.CompletedAt = &at
}
