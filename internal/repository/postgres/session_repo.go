package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

// SessionRepo implements repository.SessionRepository.
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo creates a session repository.
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a session.
func (r *SessionRepo) Create(ctx context.Context, session *entity.QuizSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID returns a session by its UUID.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.QuizSession, error) {
	var session entity.QuizSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// RecordAnswer inserts the answer and conditionally updates the session.
// On success session.Version is advanced to expectedVersion+1.
func (r *SessionRepo) RecordAnswer(ctx context.Context, session *entity.QuizSession, answer *entity.SessionAnswer, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("question %d already answered: %w", answer.QuestionID, apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to save answer: %w", err)
		}

		// Map update so zero values (points reset to 0, nil question) are written.
		result := tx.Model(&entity.QuizSession{}).
			Where("id = ? AND version = ?", session.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":              session.Status,
				"current_level":       session.CurrentLevel,
				"accumulated_points":  session.AccumulatedPoints,
				"total_points":        session.TotalPoints,
				"answered_count":      session.AnsweredCount,
				"current_question_id": session.CurrentQuestionID,
				"question_served_at":  session.QuestionServedAt,
				"completed_at":        session.CompletedAt,
				"version":             expectedVersion + 1,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("session %s changed concurrently: %w", session.ID, apperrors.ErrConflict)
		}

		session.Version = expectedVersion + 1
		return nil
	})
}

// isUniqueViolation reports a Postgres unique_violation (23505) from the pgx
// driver used by gorm or from lib/pq.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
