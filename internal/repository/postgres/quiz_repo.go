package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

// QuizRepo implements repository.QuizRepository.
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo creates a quiz repository.
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create inserts a quiz.
func (r *QuizRepo) Create(ctx context.Context, quiz *entity.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

// GetByID returns a quiz without its questions.
func (r *QuizRepo) GetByID(ctx context.Context, id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ListByClass returns a page of a class's quizzes, newest first.
func (r *QuizRepo) ListByClass(ctx context.Context, classID uint, limit, offset int) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quizzes).Error
	return quizzes, err
}
