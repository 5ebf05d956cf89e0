package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() TrackParams {
	return TrackParams{
		ImageURL:   "https://i.scdn.co/image/abc123",
		TrackName:  "Idioteque",
		TrackURL:   "https://open.spotify.com/track/abc",
		AlbumName:  "Kid A",
		AlbumURL:   "https://open.spotify.com/album/def",
		ArtistName: "Radiohead",
		ArtistURL:  "https://open.spotify.com/artist/ghi",
	}
}

func TestNewTrack(t *testing.T) {
	track, err := NewTrack(validParams())
	require.NoError(t, err)
	assert.Equal(t, "Idioteque", track.TrackName())
	assert.Equal(t, "Radiohead", track.ArtistName())
	assert.Equal(t, "Kid A", track.AlbumName())
	assert.Equal(t, "", track.PlayedAt())
}

func TestNewTrackTrimsNames(t *testing.T) {
	p := validParams()
	p.TrackName = "  Idioteque  "
	p.ArtistName = "\tRadiohead\n"
	p.AlbumName = " Kid A "

	track, err := NewTrack(p)
	require.NoError(t, err)
	assert.Equal(t, "Idioteque", track.TrackName())
	assert.Equal(t, "Radiohead", track.ArtistName())
	assert.Equal(t, "Kid A", track.AlbumName())
}

func TestNewTrackValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrackParams)
	}{
		{"empty track name", func(p *TrackParams) { p.TrackName = "   " }},
		{"empty artist name", func(p *TrackParams) { p.ArtistName = "" }},
		{"empty album name", func(p *TrackParams) { p.AlbumName = "" }},
		{"invalid track URL", func(p *TrackParams) { p.TrackURL = "not a url" }},
		{"invalid album URL", func(p *TrackParams) { p.AlbumURL = "/relative/path" }},
		{"invalid artist URL", func(p *TrackParams) { p.ArtistURL = "" }},
		{"invalid image URL", func(p *TrackParams) { p.ImageURL = "::::" }},
		{"invalid played at", func(p *TrackParams) { p.PlayedAt = "yesterday" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := NewTrack(p)
			require.Error(t, err)
			assert.True(t, HasCode(err, CodeValidation))
		})
	}
}

func TestNewTrackEmptyImageURLAllowed(t *testing.T) {
	p := validParams()
	p.ImageURL = ""
	track, err := NewTrack(p)
	require.NoError(t, err)
	assert.Equal(t, "", track.ImageURL())
}

func TestNewTrackWithPlayedAt(t *testing.T) {
	p := validParams()
	p.PlayedAt = "2026-08-30T12:34:56Z"
	track, err := NewTrack(p)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30T12:34:56Z", track.PlayedAt())
}

func TestTrackSerializableRoundTrip(t *testing.T) {
	p := validParams()
	p.PlayedAt = "2026-08-30T12:34:56.123Z"
	original, err := NewTrack(p)
	require.NoError(t, err)

	raw, err := json.Marshal(original.Serializable())
	require.NoError(t, err)

	var s SerializableTrack
	require.NoError(t, json.Unmarshal(raw, &s))

	restored, err := TrackFromSerializable(s)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestTrackFromSerializableCorrupted(t *testing.T) {
	_, err := TrackFromSerializable(SerializableTrack{
		TrackName: "Something",
		TrackURL:  "not a url",
	})
	require.Error(t, err)
	assert.True(t, HasCode(err, CodeValidation))
}

func TestSerializableOmitsEmptyPlayedAt(t *testing.T) {
	track, err := NewTrack(validParams())
	require.NoError(t, err)

	raw, err := json.Marshal(track.Serializable())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "playedAt")
}
