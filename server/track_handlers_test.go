package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yanoback/model"
)

// stubTracks returns canned results for both track lookups.
type stubTracks struct {
	track *model.Track
	err   error
}

func (s *stubTracks) GetNowPlayingTrack(ctx context.Context) (*model.Track, error) {
	return s.track, s.err
}

func (s *stubTracks) GetLastPlayedTrack(ctx context.Context) (*model.Track, error) {
	return s.track, s.err
}

func sampleTrack(t *testing.T, playedAt string) *model.Track {
	t.Helper()
	track, err := model.NewTrack(model.TrackParams{
		ImageURL:   "https://i.scdn.co/image/abc",
		TrackName:  "Idioteque",
		TrackURL:   "https://open.spotify.com/track/abc",
		AlbumName:  "Kid A",
		AlbumURL:   "https://open.spotify.com/album/def",
		ArtistName: "Radiohead",
		ArtistURL:  "https://open.spotify.com/artist/ghi",
		PlayedAt:   playedAt,
	})
	require.NoError(t, err)
	return track
}

func TestGetNowPlayingHandler(t *testing.T) {
	h := NewTrackHandler(&stubTracks{track: sampleTrack(t, "")})

	rec := httptest.NewRecorder()
	h.GetNowPlayingHandler(rec, httptest.NewRequest(http.MethodGet, "/spotify/now-playing", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Idioteque", body.Track.TrackName)
	assert.Equal(t, "Radiohead", body.Track.ArtistName)
	// 没有playedAt时响应体也不应出现该字段
	assert.NotContains(t, rec.Body.String(), "playedAt")
}

func TestGetNowPlayingHandlerNothingPlaying(t *testing.T) {
	h := NewTrackHandler(&stubTracks{})

	rec := httptest.NewRecorder()
	h.GetNowPlayingHandler(rec, httptest.NewRequest(http.MethodGet, "/spotify/now-playing", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetNowPlayingHandlerError(t *testing.T) {
	h := NewTrackHandler(&stubTracks{
		err: model.NewExternalServiceError("Spotify", "token refresh failed: secret detail", errors.New("boom")),
	})

	rec := httptest.NewRecorder()
	h.GetNowPlayingHandler(rec, httptest.NewRequest(http.MethodGet, "/spotify/now-playing", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Error)
	assert.Equal(t, "Failed to get now playing track", body.Message)
	assert.NotEmpty(t, body.Timestamp)
	// 内部错误细节不允许泄漏给客户端
	assert.NotContains(t, rec.Body.String(), "secret detail")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestGetLastPlayedHandler(t *testing.T) {
	h := NewTrackHandler(&stubTracks{track: sampleTrack(t, "2026-08-30T12:34:56Z")})

	rec := httptest.NewRecorder()
	h.GetLastPlayedHandler(rec, httptest.NewRequest(http.MethodGet, "/spotify/last-played", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body trackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-08-30T12:34:56Z", body.Track.PlayedAt)
}

func TestGetLastPlayedHandlerEmptyHistory(t *testing.T) {
	h := NewTrackHandler(&stubTracks{})

	rec := httptest.NewRecorder()
	h.GetLastPlayedHandler(rec, httptest.NewRequest(http.MethodGet, "/spotify/last-played", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetLastPlayedHandlerError(t *testing.T) {
	h := NewTrackHandler(&stubTracks{err: model.NewCacheError("cache exploded", nil)})

	rec := httptest.NewRecorder()
	h.GetLastPlayedHandler(rec, httptest.NewRequest(http.MethodGet, "/spotify/last-played", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to get last played track", body.Message)
}
