package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
)

// SessionLocker serializes answer processing per session with a Redis lock.
type SessionLocker struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionLocker creates a locker. ttl bounds how long a crashed holder
// can block a session.
func NewSessionLocker(cache repository.CacheRepository, ttl time.Duration, logger *zap.Logger) *SessionLocker {
	return &SessionLocker{cache: cache, ttl: ttl, logger: logger.Named("session_lock")}
}

func sessionLockKey(sessionID string) string {
	return fmt.Sprintf("session:%s:answer_lock", sessionID)
}

// Acquire takes the session's lock without waiting. It returns
// ErrSessionBusy when the lock is held. The returned release func is safe to
// call once and only deletes the lock while this caller still owns it.
func (l *SessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := sessionLockKey(sessionID)
	token := uuid.NewString()

	ok, err := l.cache.SetNX(ctx, key, token, l.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	release := func() {
		// The request context may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		deleted, err := l.cache.CompareAndDelete(releaseCtx, key, token)
		if err != nil {
			l.logger.Warn("failed to release session lock", zap.String("session_id", sessionID), zap.Error(err))
			return
		}
		if !deleted {
			l.logger.Warn("session lock expired before release", zap.String("session_id", sessionID))
		}
	}
	return release, nil
}
