package entity

import "time"

// Video is a learning video suggested for a topic and level. Not persisted;
// it lives only in the recommendation cache.
type Video struct {
	VideoID      string    `json:"video_id"`
	Title        string    `json:"title"`
	Channel      string    `json:"channel"`
	ThumbnailURL string    `json:"thumbnail_url"`
	URL          string    `json:"url"`
	PublishedAt  time.Time `json:"published_at"`
}
