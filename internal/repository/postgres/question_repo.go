package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

// QuestionRepo implements repository.QuestionRepository.
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo creates a question repository.
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// CreateBatch inserts questions in one transaction.
func (r *QuestionRepo) CreateBatch(ctx context.Context, questions []entity.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}

// GetByID returns a question by ID.
func (r *QuestionRepo) GetByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByQuizID returns all questions of a quiz ordered by level, then ID.
func (r *QuestionRepo) GetByQuizID(ctx context.Context, quizID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("level, id").
		Find(&questions).Error
	return questions, err
}

// FindNextAtLevel returns the lowest-ID unused question at level.
func (r *QuestionRepo) FindNextAtLevel(ctx context.Context, quizID uint, level int, excludeIDs []uint) (*entity.Question, error) {
	query := r.db.WithContext(ctx).Where("quiz_id = ? AND level = ?", quizID, level)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var question entity.Question
	if err := query.Order("id").First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// CountByLevel returns question counts per level.
func (r *QuestionRepo) CountByLevel(ctx context.Context, quizID uint) (map[int]int64, error) {
	var rows []struct {
		Level int
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Question{}).
		Select("level, COUNT(*) AS count").
		Where("quiz_id = ?", quizID).
		Group("level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[int]int64, len(rows))
	for _, row := range rows {
		stats[row.Level] = row.Count
	}
	return stats, nil
}
