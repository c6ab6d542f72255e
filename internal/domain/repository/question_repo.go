package repository

import (
	"context"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
)

// QuestionRepository defines storage operations for the question bank.
type QuestionRepository interface {
	CreateBatch(ctx context.Context, questions []entity.Question) error
	GetByID(ctx context.Context, id uint) (*entity.Question, error)
	GetByQuizID(ctx context.Context, quizID uint) ([]entity.Question, error)

	// FindNextAtLevel returns the lowest-ID question of the quiz at level that
	// is not in excludeIDs, or apperrors.ErrNotFound.
	FindNextAtLevel(ctx context.Context, quizID uint, level int, excludeIDs []uint) (*entity.Question, error)
	// CountByLevel returns the number of questions per level for a quiz.
	CountByLevel(ctx context.Context, quizID uint) (map[int]int64, error)
}
