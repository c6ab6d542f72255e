package repository

import (
	"context"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
)

// QuizRepository defines storage operations for quizzes.
type QuizRepository interface {
	Create(ctx context.Context, quiz *entity.Quiz) error
	GetByID(ctx context.Context, id uint) (*entity.Quiz, error)
	ListByClass(ctx context.Context, classID uint, limit, offset int) ([]entity.Quiz, error)
}
