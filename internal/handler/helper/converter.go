package helper

import (
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
)

// QuestionOption is an answer option as sent to clients.
type QuestionOption struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// ConvertOptionsToObjects turns stored options into id/text pairs. IDs are
// 0-based so they match Question.CorrectOption and the selected_option field.
func ConvertOptionsToObjects(options entity.StringArray) []QuestionOption {
	converted := make([]QuestionOption, len(options))
	for i, opt := range options {
		if opt == "" {
			opt = "(empty option)"
		}
		converted[i] = QuestionOption{ID: i, Text: opt}
	}
	return converted
}
