package repository

import (
	"context"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
)

// SessionRepository defines storage operations for quiz sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.QuizSession) error
	GetByID(ctx context.Context, id string) (*entity.QuizSession, error)

	// RecordAnswer inserts answer and writes session in one transaction.
	// The session row is only updated while its version still equals
	// expectedVersion; otherwise nothing is written and apperrors.ErrConflict
	// is returned. A duplicate answer for the same question is also ErrConflict.
	RecordAnswer(ctx context.Context, session *entity.QuizSession, answer *entity.SessionAnswer, expectedVersion int) error
}
