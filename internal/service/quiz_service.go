package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service/adaptive"
)

// QuizDefaults fill quiz fields a teacher leaves unset.
type QuizDefaults struct {
	QuestionCount int
	StartLevel    int
}

// CreateQuizInput describes a new quiz.
type CreateQuizInput struct {
	ClassID       uint
	Title         string
	Topic         string
	QuestionCount int
	StartLevel    int
	CreatedBy     uint
}

// QuestionInput describes a new question.
type QuestionInput struct {
	Level             int
	Topic             string
	Text              string
	Options           []string
	CorrectOption     int
	MedianTimeSeconds float64
}

// QuizService manages quizzes and their question banks.
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	defaults     QuizDefaults
	logger       *zap.Logger
}

// NewQuizService creates a quiz service.
func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	defaults QuizDefaults,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		defaults:     defaults,
		logger:       logger.Named("quiz"),
	}
}

// CreateQuiz creates an empty quiz.
func (s *QuizService) CreateQuiz(ctx context.Context, in CreateQuizInput) (*entity.Quiz, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}

	count := in.QuestionCount
	if count <= 0 {
		count = s.defaults.QuestionCount
	}
	start := in.StartLevel
	if start == 0 {
		start = s.defaults.StartLevel
	}
	if !adaptive.ValidLevel(start) {
		return nil, fmt.Errorf("start level %d outside [%d, %d]: %w", start, adaptive.MinLevel, adaptive.MaxLevel, apperrors.ErrValidation)
	}

	quiz := &entity.Quiz{
		ClassID:       in.ClassID,
		Title:         title,
		Topic:         strings.TrimSpace(in.Topic),
		QuestionCount: count,
		StartLevel:    start,
		CreatedBy:     in.CreatedBy,
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("quiz created", zap.Uint("quiz_id", quiz.ID), zap.Uint("class_id", quiz.ClassID))
	return quiz, nil
}

// AddQuestions validates and stores questions for a quiz. Questions without
// a topic inherit the quiz topic.
func (s *QuizService) AddQuestions(ctx context.Context, quizID uint, inputs []QuestionInput) ([]entity.Question, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no questions given: %w", apperrors.ErrValidation)
	}

	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	questions := make([]entity.Question, 0, len(inputs))
	for i, in := range inputs {
		if err := validateQuestion(in); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		topic := strings.TrimSpace(in.Topic)
		if topic == "" {
			topic = quiz.Topic
		}
		questions = append(questions, entity.Question{
			QuizID:            quiz.ID,
			Level:             in.Level,
			Topic:             topic,
			Text:              strings.TrimSpace(in.Text),
			Options:           entity.StringArray(in.Options),
			CorrectOption:     in.CorrectOption,
			MedianTimeSeconds: in.MedianTimeSeconds,
		})
	}

	if err := s.questionRepo.CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("failed to save questions: %w", err)
	}

	s.logger.Info("questions added", zap.Uint("quiz_id", quiz.ID), zap.Int("count", len(questions)))
	return questions, nil
}

func validateQuestion(in QuestionInput) error {
	switch {
	case !adaptive.ValidLevel(in.Level):
		return fmt.Errorf("level %d outside [%d, %d]: %w", in.Level, adaptive.MinLevel, adaptive.MaxLevel, apperrors.ErrValidation)
	case strings.TrimSpace(in.Text) == "":
		return fmt.Errorf("text is required: %w", apperrors.ErrValidation)
	case len(in.Options) < 2:
		return fmt.Errorf("at least two options are required: %w", apperrors.ErrValidation)
	case in.CorrectOption < 0 || in.CorrectOption >= len(in.Options):
		return fmt.Errorf("correct option %d out of range: %w", in.CorrectOption, apperrors.ErrValidation)
	case in.MedianTimeSeconds <= 0:
		return fmt.Errorf("median time must be positive: %w", apperrors.ErrValidation)
	}
	return nil
}

// GetQuiz returns a quiz, with its questions when withQuestions is set.
func (s *QuizService) GetQuiz(ctx context.Context, quizID uint, withQuestions bool) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}
	if withQuestions {
		questions, err := s.questionRepo.GetByQuizID(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("failed to load questions: %w", err)
		}
		quiz.Questions = questions
	}
	return quiz, nil
}

// ListByClass returns a page of a class's quizzes.
func (s *QuizService) ListByClass(ctx context.Context, classID uint, limit, offset int) ([]entity.Quiz, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.quizRepo.ListByClass(ctx, classID, limit, offset)
}

// LevelStats returns the number of questions at every level, including
// empty ones.
func (s *QuizService) LevelStats(ctx context.Context, quizID uint) (map[int]int64, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	counts, err := s.questionRepo.CountByLevel(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	stats := make(map[int]int64, adaptive.MaxLevel)
	for level := adaptive.MinLevel; level <= adaptive.MaxLevel; level++ {
		stats[level] = counts[level]
	}
	return stats, nil
}
