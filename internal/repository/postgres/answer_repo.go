package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
)

// AnswerRepo implements repository.AnswerRepository.
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo creates an answer repository.
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// GetRecent returns the limit most recent answers in chronological order.
func (r *AnswerRepo) GetRecent(ctx context.Context, sessionID string, limit int) ([]entity.SessionAnswer, error) {
	var answers []entity.SessionAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(answers)-1; i < j; i, j = i+1, j-1 {
		answers[i], answers[j] = answers[j], answers[i]
	}
	return answers, nil
}

// ListBySession returns the whole answer log of a session, oldest first.
func (r *AnswerRepo) ListBySession(ctx context.Context, sessionID string) ([]entity.SessionAnswer, error) {
	var answers []entity.SessionAnswer
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at, id").
		Find(&answers).Error
	return answers, err
}

// AnsweredQuestionIDs returns the IDs of all questions answered in a session.
func (r *AnswerRepo) AnsweredQuestionIDs(ctx context.Context, sessionID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entity.SessionAnswer{}).
		Where("session_id = ?", sessionID).
		Pluck("question_id", &ids).Error
	return ids, err
}
