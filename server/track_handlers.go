package server

import (
	"net/http"

	"yanoback/logger"
	"yanoback/repository"
)

// TrackHandler 处理Spotify播放数据相关的API请求
type TrackHandler struct {
	tracks repository.TrackRepository
}

// NewTrackHandler 创建新的Track处理器
func NewTrackHandler(tracks repository.TrackRepository) *TrackHandler {
	return &TrackHandler{tracks: tracks}
}

// GetNowPlayingHandler handles GET /spotify/now-playing. A nil track maps to
// 204 No Content; errors map to a generic 500 without internal detail.
func (h *TrackHandler) GetNowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.GetNowPlayingTrack(r.Context())
	if err != nil {
		logger.Error("failed to get now playing track", logger.ErrorField(err))
		writeError(w, "Failed to get now playing track")
		return
	}
	if track == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{Track: trackToDTO(track)})
}

// GetLastPlayedHandler handles GET /spotify/last-played.
func (h *TrackHandler) GetLastPlayedHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.GetLastPlayedTrack(r.Context())
	if err != nil {
		logger.Error("failed to get last played track", logger.ErrorField(err))
		writeError(w, "Failed to get last played track")
		return
	}
	if track == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{Track: trackToDTO(track)})
}
