package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
	"github.com/farhanulkhair/be-adaptivin-sub000/pkg/auth"
)

const (
	testSessionID = "5b0f6a52-2f7c-4c1e-9d0e-7a1b2c3d4e5f"
	testLockTTL   = 10 * time.Second
)

var servedAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type sessionFixture struct {
	quizRepo     *MockQuizRepository
	questionRepo *MockQuestionRepository
	sessionRepo  *MockSessionRepository
	answerRepo   *MockAnswerRepository
	cache        *MockCacheRepository
	videos       *MockVideoRecommender
	metrics      *MockRecorder
	service      *SessionService
}

func newSessionFixture(now time.Time) *sessionFixture {
	f := &sessionFixture{
		quizRepo:     new(MockQuizRepository),
		questionRepo: new(MockQuestionRepository),
		sessionRepo:  new(MockSessionRepository),
		answerRepo:   new(MockAnswerRepository),
		cache:        new(MockCacheRepository),
		videos:       new(MockVideoRecommender),
		metrics:      new(MockRecorder),
	}
	f.service = NewSessionService(
		f.quizRepo, f.questionRepo, f.sessionRepo, f.answerRepo,
		NewSessionLocker(f.cache, testLockTTL, testLogger),
		f.videos, f.metrics, testLogger,
	)
	f.service.now = func() time.Time { return now }
	return f
}

func (f *sessionFixture) expectLock() {
	key := sessionLockKey(testSessionID)
	f.cache.On("SetNX", mock.Anything, key, mock.AnythingOfType("string"), testLockTTL).Return(true, nil).Once()
	f.cache.On("CompareAndDelete", mock.Anything, key, mock.AnythingOfType("string")).Return(true, nil).Once()
}

func (f *sessionFixture) assertExpectations(t *testing.T) {
	f.quizRepo.AssertExpectations(t)
	f.questionRepo.AssertExpectations(t)
	f.sessionRepo.AssertExpectations(t)
	f.answerRepo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func testQuiz(questionCount int) *entity.Quiz {
	return &entity.Quiz{ID: 1, ClassID: 5, Title: "Fractions", Topic: "fractions", QuestionCount: questionCount, StartLevel: 2}
}

func testQuestion(id uint, level int) *entity.Question {
	return &entity.Question{
		ID:                id,
		QuizID:            1,
		Level:             level,
		Topic:             "fractions",
		Text:              fmt.Sprintf("question %d", id),
		Options:           entity.StringArray{"1/2", "1/3", "1/4", "1/5"},
		CorrectOption:     1,
		MedianTimeSeconds: 60,
	}
}

func activeSession(level int, questionID uint) *entity.QuizSession {
	s := &entity.QuizSession{
		ID:           testSessionID,
		QuizID:       1,
		StudentID:    7,
		Status:       entity.SessionStatusActive,
		CurrentLevel: level,
		Version:      3,
	}
	s.Serve(testQuestion(questionID, level), servedAt)
	return s
}

func TestStartSession(t *testing.T) {
	f := newSessionFixture(servedAt)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
	f.questionRepo.On("FindNextAtLevel", ctx, uint(1), 2, mock.Anything).Return(testQuestion(10, 2), nil)
	f.sessionRepo.On("Create", ctx, mock.AnythingOfType("*entity.QuizSession")).Return(nil)

	state, err := f.service.StartSession(ctx, 1, 7)
	require.NoError(t, err)

	s := state.Session
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, uint(7), s.StudentID)
	assert.Equal(t, 2, s.CurrentLevel)
	assert.Equal(t, entity.SessionStatusActive, s.Status)
	require.NotNil(t, s.CurrentQuestionID)
	assert.Equal(t, uint(10), *s.CurrentQuestionID)
	assert.Equal(t, servedAt, *s.QuestionServedAt)
	assert.Equal(t, uint(10), state.Question.ID)
	f.assertExpectations(t)
}

func TestStartSession_NoQuestions(t *testing.T) {
	f := newSessionFixture(servedAt)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
	f.questionRepo.On("FindNextAtLevel", ctx, uint(1), mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)

	_, err := f.service.StartSession(ctx, 1, 7)
	assert.ErrorIs(t, err, repository.ErrNoQuestions)
	f.sessionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartSession_QuizNotFound(t *testing.T) {
	f := newSessionFixture(servedAt)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(9)).Return(nil, apperrors.ErrNotFound)

	_, err := f.service.StartSession(ctx, 9, 7)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSubmitAnswer_CorrectFastPromotes(t *testing.T) {
	f := newSessionFixture(servedAt.Add(30 * time.Second))
	ctx := context.Background()
	f.expectLock()

	f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(2, 10), nil)
	f.questionRepo.On("GetByID", ctx, uint(10)).Return(testQuestion(10, 2), nil)
	f.answerRepo.On("GetRecent", ctx, testSessionID, 4).Return([]entity.SessionAnswer{}, nil)
	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
	f.answerRepo.On("AnsweredQuestionIDs", ctx, testSessionID).Return([]uint{}, nil)
	f.questionRepo.On("FindNextAtLevel", ctx, uint(1), 3, []uint{10}).Return(testQuestion(11, 3), nil)
	f.sessionRepo.On("RecordAnswer", ctx, mock.AnythingOfType("*entity.QuizSession"), mock.AnythingOfType("*entity.SessionAnswer"), 3).Return(nil)
	f.metrics.On("ObserveTimeRatio", 50.0, true).Once()
	f.metrics.On("ObserveDecision", "up", 2).Once()

	res, err := f.service.SubmitAnswer(ctx, SubmitAnswerInput{
		SessionID: testSessionID, StudentID: 7, QuestionID: 10, SelectedOption: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Decision.NewLevel)
	assert.Equal(t, "correct+fast", res.Decision.Reason)

	a := res.Answer
	assert.True(t, a.IsCorrect)
	assert.Equal(t, 30.0, a.TimeTakenSeconds)
	assert.Equal(t, "fast", a.SpeedClass)
	assert.Equal(t, 2, a.PointDelta)
	assert.Equal(t, 2, a.LevelBefore)
	assert.Equal(t, 3, a.LevelAfter)
	assert.Equal(t, "up", a.LevelChange)
	assert.Equal(t, 2, a.RuleID)

	s := res.Session
	assert.Equal(t, 3, s.CurrentLevel)
	assert.Equal(t, 0, s.AccumulatedPoints)
	assert.Equal(t, 2, s.TotalPoints)
	assert.Equal(t, 1, s.AnsweredCount)
	assert.Equal(t, uint(11), *s.CurrentQuestionID)
	assert.Equal(t, uint(11), res.NextQuestion.ID)
	f.assertExpectations(t)
}

func TestSubmitAnswer_MediumStreakUsesPersistedHistory(t *testing.T) {
	f := newSessionFixture(servedAt.Add(60 * time.Second))
	ctx := context.Background()
	f.expectLock()

	session := activeSession(2, 12)
	session.AccumulatedPoints = 2
	session.AnsweredCount = 2
	history := []entity.SessionAnswer{
		{QuestionID: 10, QuestionLevel: 2, IsCorrect: true, TimeTakenSeconds: 60, MedianTimeSeconds: 60},
		{QuestionID: 11, QuestionLevel: 2, IsCorrect: true, TimeTakenSeconds: 55, MedianTimeSeconds: 60},
	}

	f.sessionRepo.On("GetByID", ctx, testSessionID).Return(session, nil)
	f.questionRepo.On("GetByID", ctx, uint(12)).Return(testQuestion(12, 2), nil)
	f.answerRepo.On("GetRecent", ctx, testSessionID, 4).Return(history, nil)
	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
	f.answerRepo.On("AnsweredQuestionIDs", ctx, testSessionID).Return([]uint{10, 11}, nil)
	f.questionRepo.On("FindNextAtLevel", ctx, uint(1), 3, []uint{10, 11, 12}).Return(testQuestion(20, 3), nil)
	f.sessionRepo.On("RecordAnswer", ctx, session, mock.AnythingOfType("*entity.SessionAnswer"), 3).Return(nil)
	f.metrics.On("ObserveTimeRatio", 100.0, true).Once()
	f.metrics.On("ObserveDecision", "up", 3).Once()

	res, err := f.service.SubmitAnswer(ctx, SubmitAnswerInput{
		SessionID: testSessionID, StudentID: 7, QuestionID: 12, SelectedOption: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Decision.NewLevel)
	assert.Equal(t, 3, res.Decision.RuleID)
	assert.Equal(t, 3, res.Session.AnsweredCount)
	f.assertExpectations(t)
}

func TestSubmitAnswer_LastQuestionCompletesSession(t *testing.T) {
	f := newSessionFixture(servedAt.Add(120 * time.Second))
	ctx := context.Background()
	f.expectLock()

	f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(2, 10), nil)
	f.questionRepo.On("GetByID", ctx, uint(10)).Return(testQuestion(10, 2), nil)
	f.answerRepo.On("GetRecent", ctx, testSessionID, 4).Return([]entity.SessionAnswer{}, nil)
	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(1), nil)
	f.sessionRepo.On("RecordAnswer", ctx, mock.Anything, mock.Anything, 3).Return(nil)
	f.metrics.On("ObserveTimeRatio", 200.0, true).Once()
	f.metrics.On("ObserveDecision", "down", 8).Once()

	res, err := f.service.SubmitAnswer(ctx, SubmitAnswerInput{
		SessionID: testSessionID, StudentID: 7, QuestionID: 10, SelectedOption: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, "wrong+slow", res.Decision.Reason)
	assert.Equal(t, 1, res.Session.CurrentLevel)
	assert.Equal(t, -2, res.Session.TotalPoints)
	assert.Equal(t, entity.SessionStatusCompleted, res.Session.Status)
	assert.Nil(t, res.Session.CurrentQuestionID)
	assert.NotNil(t, res.Session.CompletedAt)
	assert.Nil(t, res.NextQuestion)
	f.answerRepo.AssertNotCalled(t, "AnsweredQuestionIDs", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSubmitAnswer_ExhaustedBankCompletesSession(t *testing.T) {
	f := newSessionFixture(servedAt.Add(60 * time.Second))
	ctx := context.Background()
	f.expectLock()

	f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(2, 10), nil)
	f.questionRepo.On("GetByID", ctx, uint(10)).Return(testQuestion(10, 2), nil)
	f.answerRepo.On("GetRecent", ctx, testSessionID, 4).Return([]entity.SessionAnswer{}, nil)
	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
	f.answerRepo.On("AnsweredQuestionIDs", ctx, testSessionID).Return([]uint{}, nil)
	f.questionRepo.On("FindNextAtLevel", ctx, uint(1), mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	f.sessionRepo.On("RecordAnswer", ctx, mock.Anything, mock.Anything, 3).Return(nil)
	f.metrics.On("ObserveTimeRatio", 100.0, true).Once()
	f.metrics.On("ObserveDecision", "stay", 0).Once()

	res, err := f.service.SubmitAnswer(ctx, SubmitAnswerInput{
		SessionID: testSessionID, StudentID: 7, QuestionID: 10, SelectedOption: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SessionStatusCompleted, res.Session.Status)
	assert.Equal(t, 1, res.Session.AccumulatedPoints)
	f.questionRepo.AssertNumberOfCalls(t, "FindNextAtLevel", 6)
}

func TestSubmitAnswer_Rejections(t *testing.T) {
	closed := activeSession(2, 10)
	closed.Complete(servedAt)

	tests := []struct {
		name    string
		session *entity.QuizSession
		input   SubmitAnswerInput
		wantErr error
	}{
		{
			name:    "other student",
			session: activeSession(2, 10),
			input:   SubmitAnswerInput{SessionID: testSessionID, StudentID: 8, QuestionID: 10},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "closed session",
			session: closed,
			input:   SubmitAnswerInput{SessionID: testSessionID, StudentID: 7, QuestionID: 10},
			wantErr: repository.ErrSessionClosed,
		},
		{
			name:    "question not served",
			session: activeSession(2, 10),
			input:   SubmitAnswerInput{SessionID: testSessionID, StudentID: 7, QuestionID: 99},
			wantErr: repository.ErrQuestionNotServed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(servedAt.Add(time.Minute))
			f.expectLock()
			f.sessionRepo.On("GetByID", mock.Anything, testSessionID).Return(tt.session, nil)

			_, err := f.service.SubmitAnswer(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			f.sessionRepo.AssertNotCalled(t, "RecordAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.cache.AssertExpectations(t)
		})
	}
}

func TestSubmitAnswer_InvalidOption(t *testing.T) {
	f := newSessionFixture(servedAt.Add(time.Minute))
	f.expectLock()
	f.sessionRepo.On("GetByID", mock.Anything, testSessionID).Return(activeSession(2, 10), nil)
	f.questionRepo.On("GetByID", mock.Anything, uint(10)).Return(testQuestion(10, 2), nil)

	_, err := f.service.SubmitAnswer(context.Background(), SubmitAnswerInput{
		SessionID: testSessionID, StudentID: 7, QuestionID: 10, SelectedOption: 4,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmitAnswer_SessionBusy(t *testing.T) {
	f := newSessionFixture(servedAt)
	f.cache.On("SetNX", mock.Anything, sessionLockKey(testSessionID), mock.Anything, testLockTTL).Return(false, nil)
	f.metrics.On("ObserveConflict").Once()

	_, err := f.service.SubmitAnswer(context.Background(), SubmitAnswerInput{SessionID: testSessionID, StudentID: 7, QuestionID: 10})
	assert.ErrorIs(t, err, ErrSessionBusy)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.sessionRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.metrics.AssertExpectations(t)
}

func TestSubmitAnswer_VersionConflict(t *testing.T) {
	f := newSessionFixture(servedAt.Add(30 * time.Second))
	ctx := context.Background()
	f.expectLock()

	f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(2, 10), nil)
	f.questionRepo.On("GetByID", ctx, uint(10)).Return(testQuestion(10, 2), nil)
	f.answerRepo.On("GetRecent", ctx, testSessionID, 4).Return([]entity.SessionAnswer{}, nil)
	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
	f.answerRepo.On("AnsweredQuestionIDs", ctx, testSessionID).Return([]uint{}, nil)
	f.questionRepo.On("FindNextAtLevel", ctx, uint(1), 3, mock.Anything).Return(testQuestion(11, 3), nil)
	f.sessionRepo.On("RecordAnswer", ctx, mock.Anything, mock.Anything, 3).
		Return(fmt.Errorf("session changed concurrently: %w", apperrors.ErrConflict))
	f.metrics.On("ObserveConflict").Once()

	_, err := f.service.SubmitAnswer(ctx, SubmitAnswerInput{
		SessionID: testSessionID, StudentID: 7, QuestionID: 10, SelectedOption: 1,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.metrics.AssertNotCalled(t, "ObserveDecision", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestSubmitAnswer_LockBackendError(t *testing.T) {
	f := newSessionFixture(servedAt)
	f.cache.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	_, err := f.service.SubmitAnswer(context.Background(), SubmitAnswerInput{SessionID: testSessionID})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrConflict)
	f.metrics.AssertNotCalled(t, "ObserveConflict")
}

func TestGetSession_Authorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		viewer  Viewer
		wantErr error
	}{
		{"owner", Viewer{UserID: 7, Role: auth.RoleStudent}, nil},
		{"teacher", Viewer{UserID: 100, Role: auth.RoleTeacher}, nil},
		{"admin", Viewer{UserID: 1, Role: auth.RoleAdmin}, nil},
		{"other student", Viewer{UserID: 8, Role: auth.RoleStudent}, apperrors.ErrForbidden},
		{"no role", Viewer{UserID: 7}, apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(servedAt)
			f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(2, 10), nil)
			f.questionRepo.On("GetByID", ctx, uint(10)).Return(testQuestion(10, 2), nil).Maybe()

			state, err := f.service.GetSession(ctx, testSessionID, tt.viewer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(10), state.Question.ID)
		})
	}
}

func TestListAnswers(t *testing.T) {
	f := newSessionFixture(servedAt)
	ctx := context.Background()

	f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(2, 12), nil)
	f.answerRepo.On("ListBySession", ctx, testSessionID).Return([]entity.SessionAnswer{
		{ID: 1, QuestionID: 10, IsCorrect: true},
		{ID: 2, QuestionID: 11, IsCorrect: false},
	}, nil)
	f.questionRepo.On("GetByQuizID", ctx, uint(1)).Return([]entity.Question{*testQuestion(10, 2), *testQuestion(11, 3)}, nil)

	items, err := f.service.ListAnswers(ctx, testSessionID, Viewer{UserID: 7, Role: auth.RoleStudent})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "question 10", items[0].QuestionText)
	assert.Equal(t, "question 11", items[1].QuestionText)
	assert.False(t, items[1].IsCorrect)
}

func TestRecommendVideos(t *testing.T) {
	ctx := context.Background()
	videos := []entity.Video{{VideoID: "v1"}}

	t.Run("uses the served question topic", func(t *testing.T) {
		f := newSessionFixture(servedAt)
		f.sessionRepo.On("GetByID", ctx, testSessionID).Return(activeSession(4, 10), nil)
		f.questionRepo.On("GetByID", ctx, uint(10)).Return(testQuestion(10, 4), nil)
		f.videos.On("Recommend", ctx, "fractions", 4).Return(videos, nil)

		got, err := f.service.RecommendVideos(ctx, testSessionID, Viewer{UserID: 7, Role: auth.RoleStudent})
		require.NoError(t, err)
		assert.Equal(t, videos, got)
	})

	t.Run("falls back to the quiz topic", func(t *testing.T) {
		f := newSessionFixture(servedAt)
		done := activeSession(3, 10)
		done.Complete(servedAt)
		f.sessionRepo.On("GetByID", ctx, testSessionID).Return(done, nil)
		f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(10), nil)
		f.videos.On("Recommend", ctx, "fractions", 3).Return(videos, nil)

		got, err := f.service.RecommendVideos(ctx, testSessionID, Viewer{UserID: 1, Role: auth.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
