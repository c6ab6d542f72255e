package entity

import (
	"time"
)

// Quiz is a set of questions a teacher assigns to a class.
type Quiz struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ClassID       uint       `gorm:"not null;index" json:"class_id"`
	Title         string     `gorm:"size:100;not null" json:"title"`
	Topic         string     `gorm:"size:100;not null;default:''" json:"topic"`
	QuestionCount int        `gorm:"not null;default:10" json:"question_count"`
	StartLevel    int        `gorm:"not null;default:1" json:"start_level"`
	CreatedBy     uint       `gorm:"not null" json:"created_by"`
	Questions     []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the GORM table name.
func (Quiz) TableName() string {
	return "quizzes"
}
