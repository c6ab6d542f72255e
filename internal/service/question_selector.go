package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service/adaptive"
)

// levelSearchOrder lists levels by distance from target, the harder level
// first on ties: 3 -> 3, 4, 2, 5, 1, 6.
func levelSearchOrder(target int) []int {
	target = adaptive.ClampLevel(target)
	order := []int{target}
	for d := 1; len(order) < adaptive.MaxLevel-adaptive.MinLevel+1; d++ {
		if up := target + d; up <= adaptive.MaxLevel {
			order = append(order, up)
		}
		if down := target - d; down >= adaptive.MinLevel {
			order = append(order, down)
		}
	}
	return order
}

// QuestionSelector picks the next unanswered question for a level.
type QuestionSelector struct {
	questionRepo repository.QuestionRepository
	logger       *zap.Logger
}

// NewQuestionSelector creates a selector.
func NewQuestionSelector(questionRepo repository.QuestionRepository, logger *zap.Logger) *QuestionSelector {
	return &QuestionSelector{questionRepo: questionRepo, logger: logger.Named("selector")}
}

// Next returns the lowest-ID question not in excludeIDs at targetLevel, or
// at the nearest level that still has one. It returns
// repository.ErrNoQuestions when the quiz is exhausted.
func (s *QuestionSelector) Next(ctx context.Context, quizID uint, targetLevel int, excludeIDs []uint) (*entity.Question, error) {
	for _, level := range levelSearchOrder(targetLevel) {
		q, err := s.questionRepo.FindNextAtLevel(ctx, quizID, level, excludeIDs)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if level != targetLevel {
			s.logger.Debug("fallback question level",
				zap.Uint("quiz_id", quizID),
				zap.Int("target_level", targetLevel),
				zap.Int("level", level),
			)
		}
		return q, nil
	}
	return nil, repository.ErrNoQuestions
}
