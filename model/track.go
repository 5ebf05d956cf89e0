package model

import (
	"net/url"
	"strings"
	"time"
)

// Track represents a single track occurrence from the listening history.
// It is immutable: construct it through NewTrack or TrackFromSerializable,
// never by field assignment.
type Track struct {
	imageURL   string
	trackName  string
	trackURL   string
	albumName  string
	albumURL   string
	artistName string
	artistURL  string
	playedAt   string
}

// TrackParams carries the raw values for a Track factory call.
type TrackParams struct {
	ImageURL   string
	TrackName  string
	TrackURL   string
	AlbumName  string
	AlbumURL   string
	ArtistName string
	ArtistURL  string
	PlayedAt   string // RFC3339, empty for now-playing results
}

// SerializableTrack is the plain-data form of a Track used for cache storage
// and API responses. It round-trips losslessly through TrackFromSerializable.
type SerializableTrack struct {
	ImageURL   string `json:"imageUrl"`
	TrackName  string `json:"trackName"`
	TrackURL   string `json:"trackUrl"`
	AlbumName  string `json:"albumName"`
	AlbumURL   string `json:"albumUrl"`
	ArtistName string `json:"artistName"`
	ArtistURL  string `json:"artistUrl"`
	PlayedAt   string `json:"playedAt,omitempty"`
}

// NewTrack validates the given values and builds a Track. Names must be
// non-empty after trimming, URLs must be absolute, and PlayedAt, when
// present, must be a valid RFC3339 timestamp.
func NewTrack(p TrackParams) (*Track, error) {
	if strings.TrimSpace(p.TrackName) == "" {
		return nil, NewValidationError("track name is required")
	}
	if strings.TrimSpace(p.ArtistName) == "" {
		return nil, NewValidationError("artist name is required")
	}
	if strings.TrimSpace(p.AlbumName) == "" {
		return nil, NewValidationError("album name is required")
	}
	if !isValidURL(p.TrackURL) {
		return nil, NewValidationError("track URL format is invalid")
	}
	if !isValidURL(p.AlbumURL) {
		return nil, NewValidationError("album URL format is invalid")
	}
	if !isValidURL(p.ArtistURL) {
		return nil, NewValidationError("artist URL format is invalid")
	}
	if p.ImageURL != "" && !isValidURL(p.ImageURL) {
		return nil, NewValidationError("image URL format is invalid")
	}
	if p.PlayedAt != "" && !isValidTimestamp(p.PlayedAt) {
		return nil, NewValidationError("played at timestamp format is invalid")
	}

	return &Track{
		imageURL:   p.ImageURL,
		trackName:  strings.TrimSpace(p.TrackName),
		trackURL:   p.TrackURL,
		albumName:  strings.TrimSpace(p.AlbumName),
		albumURL:   p.AlbumURL,
		artistName: strings.TrimSpace(p.ArtistName),
		artistURL:  p.ArtistURL,
		playedAt:   p.PlayedAt,
	}, nil
}

// TrackFromSerializable rebuilds a Track from its cached form, re-running the
// same validation so corrupted payloads fail explicitly.
func TrackFromSerializable(s SerializableTrack) (*Track, error) {
	return NewTrack(TrackParams{
		ImageURL:   s.ImageURL,
		TrackName:  s.TrackName,
		TrackURL:   s.TrackURL,
		AlbumName:  s.AlbumName,
		AlbumURL:   s.AlbumURL,
		ArtistName: s.ArtistName,
		ArtistURL:  s.ArtistURL,
		PlayedAt:   s.PlayedAt,
	})
}

// Serializable returns the plain-data form of the track.
func (t *Track) Serializable() SerializableTrack {
	return SerializableTrack{
		ImageURL:   t.imageURL,
		TrackName:  t.trackName,
		TrackURL:   t.trackURL,
		AlbumName:  t.albumName,
		AlbumURL:   t.albumURL,
		ArtistName: t.artistName,
		ArtistURL:  t.artistURL,
		PlayedAt:   t.playedAt,
	}
}

// ImageURL returns the album image URL, possibly empty.
func (t *Track) ImageURL() string { return t.imageURL }

// TrackName returns the track name.
func (t *Track) TrackName() string { return t.trackName }

// TrackURL returns the track page URL.
func (t *Track) TrackURL() string { return t.trackURL }

// AlbumName returns the album name.
func (t *Track) AlbumName() string { return t.albumName }

// AlbumURL returns the album page URL.
func (t *Track) AlbumURL() string { return t.albumURL }

// ArtistName returns the primary artist name.
func (t *Track) ArtistName() string { return t.artistName }

// ArtistURL returns the primary artist page URL.
func (t *Track) ArtistURL() string { return t.artistURL }

// PlayedAt returns the played-at timestamp, empty for now-playing results.
func (t *Track) PlayedAt() string { return t.playedAt }

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isValidTimestamp(raw string) bool {
	_, err := time.Parse(time.RFC3339, raw)
	return err == nil
}
