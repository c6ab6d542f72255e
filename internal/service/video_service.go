package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/entity"
	"github.com/farhanulkhair/be-adaptivin-sub000/internal/domain/repository"
	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

// VideoSearcher queries the external video search API.
type VideoSearcher interface {
	Search(ctx context.Context, query string) ([]entity.Video, error)
}

// VideoService is a read-through cache in front of the video search API.
type VideoService struct {
	searcher VideoSearcher
	cache    repository.CacheRepository
	ttl      time.Duration
	logger   *zap.Logger
}

// NewVideoService creates a video service.
func NewVideoService(searcher VideoSearcher, cache repository.CacheRepository, ttl time.Duration, logger *zap.Logger) *VideoService {
	return &VideoService{searcher: searcher, cache: cache, ttl: ttl, logger: logger.Named("video")}
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

func videoCacheKey(topic string, level int) string {
	return fmt.Sprintf("videos:%s:%d", normalizeTopic(topic), level)
}

func videoQuery(topic string, level int) string {
	return fmt.Sprintf("%s primary school math level %d", normalizeTopic(topic), level)
}

// Recommend returns videos for a topic and level. Cache failures are logged
// and fall through to the search API.
func (s *VideoService) Recommend(ctx context.Context, topic string, level int) ([]entity.Video, error) {
	key := videoCacheKey(topic, level)

	var cached []entity.Video
	err := s.cache.GetJSON(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.Warn("video cache read failed", zap.String("key", key), zap.Error(err))
	}

	videos, err := s.searcher.Search(ctx, videoQuery(topic, level))
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	if err := s.cache.SetJSON(ctx, key, videos, s.ttl); err != nil {
		s.logger.Warn("video cache write failed", zap.String("key", key), zap.Error(err))
	}
	return videos, nil
}
