package entity

import (
	"time"
)

// SessionAnswer is one answered question together with the level decision it produced.
type SessionAnswer struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	SessionID         string  `gorm:"type:uuid;not null;uniqueIndex:idx_session_question;index:idx_session_created" json:"session_id"`
	QuestionID        uint    `gorm:"not null;uniqueIndex:idx_session_question" json:"question_id"`
	QuestionLevel     int     `gorm:"not null" json:"question_level"`
	SelectedOption    int     `gorm:"not null;default:-1" json:"selected_option"`
	IsCorrect         bool    `gorm:"not null" json:"is_correct"`
	TimeTakenSeconds  float64 `gorm:"not null" json:"time_taken_seconds"`
	MedianTimeSeconds float64 `gorm:"not null" json:"median_time_seconds"`
	SpeedClass        string  `gorm:"size:10;not null" json:"speed_class"`
	PointDelta        int     `gorm:"not null" json:"point_delta"`

	LevelBefore int       `gorm:"not null" json:"level_before"`
	LevelAfter  int       `gorm:"not null" json:"level_after"`
	LevelChange string    `gorm:"size:10;not null" json:"level_change"`
	RuleID      int       `gorm:"not null;default:0" json:"rule_id"`
	Reason      string    `gorm:"size:255;not null;default:''" json:"reason"`
	CreatedAt   time.Time `gorm:"index:idx_session_created" json:"created_at"`
}

// TableName sets the GORM table name.
func (SessionAnswer) TableName() string {
	return "session_answers"
}
