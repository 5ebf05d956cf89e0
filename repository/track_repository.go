package repository

import (
	"context"

	"yanoback/model"
)

// TrackRepository defines the interface for track lookups against the
// upstream music service. A (nil, nil) return means nothing is playing
// (or nothing was recently played).
type TrackRepository interface {
	GetNowPlayingTrack(ctx context.Context) (*model.Track, error)
	GetLastPlayedTrack(ctx context.Context) (*model.Track, error)
}
