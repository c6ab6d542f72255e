package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/service/adaptive"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/auth"
)

// DecisionRecorder receives per-answer observations.
type DecisionRecorder interface {
	ObserveDecision(change string, ruleID int)
	ObserveTimeRatio(ratio float64, ok bool)
	ObserveConflict()
}

// VideoRecommender finds learning videos for a topic and level.
type VideoRecommender interface {
	Recommend(ctx context.Context, topic string, level int) ([]entity.Video, error)
}

// Viewer is the authenticated caller of a session operation.
type Viewer struct {
	UserID uint
	Role   string
}

// canView lets students see their own sessions and staff see any.
func (v Viewer) canView(session *entity.QuizSession) bool {
	switch v.Role {
	case auth.RoleTeacher, auth.RoleAdmin:
		return true
	case auth.RoleStudent:
		return session.IsOwnedBy(v.UserID)
	}
	return false
}

// SessionState is a session together with the question it currently serves.
type SessionState struct {
	Session  *entity.QuizSession
	Question *entity.Question
}

// SubmitAnswerInput is one answer submission.
type SubmitAnswerInput struct {
	SessionID      string
	StudentID      uint
	QuestionID     uint
	SelectedOption int
}

// AnswerResult is the outcome of a submission.
type AnswerResult struct {
	Answer       *entity.SessionAnswer
	Decision     adaptive.LevelDecision
	Session      *entity.QuizSession
	NextQuestion *entity.Question
}

// AnswerHistoryItem is a logged answer with its question text.
type AnswerHistoryItem struct {
	entity.SessionAnswer
	QuestionText string
	Topic        string
}

// SessionService runs adaptive quiz sessions.
type SessionService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	sessionRepo  repository.SessionRepository
	answerRepo   repository.AnswerRepository
	selector     *QuestionSelector
	locker       *SessionLocker
	videos       VideoRecommender
	metrics      DecisionRecorder
	logger       *zap.Logger
	now          func() time.Time
}

// NewSessionService creates a session service.
func NewSessionService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	locker *SessionLocker,
	videos VideoRecommender,
	metrics DecisionRecorder,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		selector:     NewQuestionSelector(questionRepo, logger),
		locker:       locker,
		videos:       videos,
		metrics:      metrics,
		logger:       logger.Named("session"),
		now:          time.Now,
	}
}

// StartSession opens a session for a student at the quiz's start level and
// serves the first question.
func (s *SessionService) StartSession(ctx context.Context, quizID, studentID uint) (*SessionState, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz %d: %w", quizID, err)
	}

	level := adaptive.ClampLevel(quiz.StartLevel)
	question, err := s.selector.Next(ctx, quiz.ID, level, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to pick first question: %w", err)
	}

	session := &entity.QuizSession{
		ID:           uuid.NewString(),
		QuizID:       quiz.ID,
		StudentID:    studentID,
		Status:       entity.SessionStatusActive,
		CurrentLevel: level,
	}
	session.Serve(question, s.now())

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.Uint("quiz_id", quiz.ID),
		zap.Uint("student_id", studentID),
		zap.Int("level", level),
	)
	return &SessionState{Session: session, Question: question}, nil
}

// SubmitAnswer records an answer to the served question, runs the level
// decision and serves the next question. Submissions for one session are
// processed one at a time.
func (s *SessionService) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*AnswerResult, error) {
	release, err := s.locker.Acquire(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.metrics.ObserveConflict()
		}
		return nil, err
	}
	defer release()

	session, err := s.sessionRepo.GetByID(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.IsOwnedBy(in.StudentID) {
		return nil, apperrors.ErrForbidden
	}
	if !session.IsActive() {
		return nil, repository.ErrSessionClosed
	}
	if session.CurrentQuestionID == nil || *session.CurrentQuestionID != in.QuestionID || session.QuestionServedAt == nil {
		return nil, repository.ErrQuestionNotServed
	}

	question, err := s.questionRepo.GetByID(ctx, in.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if !question.IsValidOption(in.SelectedOption) {
		return nil, ErrInvalidOption
	}

	now := s.now()
	taken := now.Sub(*session.QuestionServedAt).Seconds()
	if taken < 0 {
		taken = 0
	}

	record := adaptive.AnswerRecord{
		Correct:           question.IsCorrect(in.SelectedOption),
		TimeTakenSeconds:  taken,
		MedianTimeSeconds: question.MedianTimeSeconds,
		QuestionLevel:     question.Level,
	}

	window, err := s.recentWindow(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	window = append(window, record)

	decision, err := adaptive.Decide(session.CurrentLevel, window, session.AccumulatedPoints)
	if err != nil {
		return nil, fmt.Errorf("failed to decide level: %w", err)
	}

	pointDelta := record.Points()
	answer := &entity.SessionAnswer{
		SessionID:         session.ID,
		QuestionID:        question.ID,
		QuestionLevel:     question.Level,
		SelectedOption:    in.SelectedOption,
		IsCorrect:         record.Correct,
		TimeTakenSeconds:  taken,
		MedianTimeSeconds: question.MedianTimeSeconds,
		SpeedClass:        string(record.Speed()),
		PointDelta:        pointDelta,
		LevelBefore:       session.CurrentLevel,
		LevelAfter:        decision.NewLevel,
		LevelChange:       string(decision.LevelChange),
		RuleID:            decision.RuleID,
		Reason:            decision.Reason,
		CreatedAt:         now,
	}

	expectedVersion := session.Version
	session.CurrentLevel = decision.NewLevel
	session.AccumulatedPoints = decision.Points
	session.TotalPoints += pointDelta
	session.AnsweredCount++

	next, err := s.nextQuestion(ctx, session, question.ID)
	if err != nil {
		return nil, err
	}
	if next == nil {
		session.Complete(now)
	} else {
		session.Serve(next, now)
	}

	if err := s.sessionRepo.RecordAnswer(ctx, session, answer, expectedVersion); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.metrics.ObserveConflict()
		}
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	ratio, ok := adaptive.TimeRatio(taken, question.MedianTimeSeconds)
	s.metrics.ObserveTimeRatio(ratio, ok)
	s.metrics.ObserveDecision(string(decision.LevelChange), decision.RuleID)

	s.logger.Info("answer processed",
		zap.String("session_id", session.ID),
		zap.Uint("question_id", question.ID),
		zap.Bool("correct", record.Correct),
		zap.String("speed", answer.SpeedClass),
		zap.Int("level_before", answer.LevelBefore),
		zap.Int("level_after", decision.NewLevel),
		zap.Int("rule_id", decision.RuleID),
		zap.String("reason", decision.Reason),
	)

	return &AnswerResult{
		Answer:       answer,
		Decision:     decision,
		Session:      session,
		NextQuestion: next,
	}, nil
}

// recentWindow loads the persisted answers that precede a new one in the
// decision window, oldest first.
func (s *SessionService) recentWindow(ctx context.Context, sessionID string) ([]adaptive.AnswerRecord, error) {
	recent, err := s.answerRepo.GetRecent(ctx, sessionID, adaptive.WindowSize-1)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent answers: %w", err)
	}

	window := make([]adaptive.AnswerRecord, 0, len(recent)+1)
	for _, a := range recent {
		window = append(window, adaptive.AnswerRecord{
			Correct:           a.IsCorrect,
			TimeTakenSeconds:  a.TimeTakenSeconds,
			MedianTimeSeconds: a.MedianTimeSeconds,
			QuestionLevel:     a.QuestionLevel,
		})
	}
	return window, nil
}

// nextQuestion returns nil when the session should complete.
func (s *SessionService) nextQuestion(ctx context.Context, session *entity.QuizSession, answeredID uint) (*entity.Question, error) {
	quiz, err := s.quizRepo.GetByID(ctx, session.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz: %w", err)
	}
	if session.AnsweredCount >= quiz.QuestionCount {
		return nil, nil
	}

	answered, err := s.answerRepo.AnsweredQuestionIDs(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answered questions: %w", err)
	}
	answered = append(answered, answeredID)

	next, err := s.selector.Next(ctx, session.QuizID, session.CurrentLevel, answered)
	if errors.Is(err, repository.ErrNoQuestions) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick next question: %w", err)
	}
	return next, nil
}

// GetSession returns a session with its currently served question.
func (s *SessionService) GetSession(ctx context.Context, sessionID string, viewer Viewer) (*SessionState, error) {
	session, err := s.authorizedSession(ctx, sessionID, viewer)
	if err != nil {
		return nil, err
	}

	state := &SessionState{Session: session}
	if session.CurrentQuestionID != nil {
		q, err := s.questionRepo.GetByID(ctx, *session.CurrentQuestionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load current question: %w", err)
		}
		state.Question = q
	}
	return state, nil
}

// ListAnswers returns the session's answer log, oldest first.
func (s *SessionService) ListAnswers(ctx context.Context, sessionID string, viewer Viewer) ([]AnswerHistoryItem, error) {
	session, err := s.authorizedSession(ctx, sessionID, viewer)
	if err != nil {
		return nil, err
	}

	answers, err := s.answerRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	questions, err := s.questionRepo.GetByQuizID(ctx, session.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	byID := make(map[uint]entity.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	items := make([]AnswerHistoryItem, 0, len(answers))
	for _, a := range answers {
		q := byID[a.QuestionID]
		items = append(items, AnswerHistoryItem{SessionAnswer: a, QuestionText: q.Text, Topic: q.Topic})
	}
	return items, nil
}

// RecommendVideos suggests videos for the topic the session is on, at its
// current level.
func (s *SessionService) RecommendVideos(ctx context.Context, sessionID string, viewer Viewer) ([]entity.Video, error) {
	state, err := s.GetSession(ctx, sessionID, viewer)
	if err != nil {
		return nil, err
	}

	topic := ""
	if state.Question != nil {
		topic = state.Question.Topic
	}
	if topic == "" {
		quiz, err := s.quizRepo.GetByID(ctx, state.Session.QuizID)
		if err != nil {
			return nil, fmt.Errorf("failed to load quiz: %w", err)
		}
		topic = quiz.Topic
	}
	if topic == "" {
		return []entity.Video{}, nil
	}

	return s.videos.Recommend(ctx, topic, state.Session.CurrentLevel)
}

func (s *SessionService) authorizedSession(ctx context.Context, sessionID string, viewer Viewer) (*entity.QuizSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !viewer.canView(session) {
		return nil, apperrors.ErrForbidden
	}
	return session, nil
}
