package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray is a []string stored as JSONB.
type StringArray []string

// Scan implements sql.Scanner.
func (o *StringArray) Scan(value interface{}) error {
	if value == nil {
		*o = StringArray{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(raw) == 0 {
		*o = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, o)
}

// Value implements driver.Valuer. A nil array is stored as [] rather than null.
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Question is a multiple-choice maths question at one difficulty level.
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	QuizID        uint        `gorm:"not null;index:idx_question_quiz_level" json:"quiz_id"`
	Level         int         `gorm:"not null;index:idx_question_quiz_level" json:"level"`
	Topic         string      `gorm:"size:100;not null;default:''" json:"topic"`
	Text          string      `gorm:"size:500;not null" json:"text"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption int         `gorm:"not null" json:"-"`
	// MedianTimeSeconds is the expected answer time used as the speed baseline.
	MedianTimeSeconds float64   `gorm:"not null" json:"median_time_seconds"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (Question) TableName() string {
	return "questions"
}

// IsCorrect reports whether selectedOption is the right answer.
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOption
}

// OptionsCount returns the number of answer options.
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption reports whether selectedOption indexes an existing option.
func (q *Question) IsValidOption(selectedOption int) bool {
	return selectedOption >= 0 && selectedOption < len(q.Options)
}
