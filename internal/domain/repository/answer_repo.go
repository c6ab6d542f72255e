package repository

import (
	"context"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
)

// AnswerRepository defines read operations over a session's answer log.
type AnswerRepository interface {
	// GetRecent returns up to limit most recent answers, oldest first.
	GetRecent(ctx context.Context, sessionID string, limit int) ([]entity.SessionAnswer, error)
	ListBySession(ctx context.Context, sessionID string) ([]entity.SessionAnswer, error)
	AnsweredQuestionIDs(ctx context.Context, sessionID string) ([]uint, error)
}
