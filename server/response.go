package server

import (
	"encoding/json"
	"net/http"
	"time"

	"yanoback/logger"
	"yanoback/model"
)

// trackDTO is the JSON shape of a track in API responses.
type trackDTO struct {
	ImageURL   string `json:"imageUrl"`
	TrackName  string `json:"trackName"`
	TrackURL   string `json:"trackUrl"`
	AlbumName  string `json:"albumName"`
	AlbumURL   string `json:"albumUrl"`
	ArtistName string `json:"artistName"`
	ArtistURL  string `json:"artistUrl"`
	PlayedAt   string `json:"playedAt,omitempty"`
}

// trackResponse wraps a track DTO.
type trackResponse struct {
	Track trackDTO `json:"track"`
}

// errorResponse is the generic error body. Internal error detail is never
// leaked to clients.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func trackToDTO(t *model.Track) trackDTO {
	return trackDTO{
		ImageURL:   t.ImageURL(),
		TrackName:  t.TrackName(),
		TrackURL:   t.TrackURL(),
		AlbumName:  t.AlbumName(),
		AlbumURL:   t.AlbumURL(),
		ArtistName: t.ArtistName(),
		ArtistURL:  t.ArtistURL(),
		PlayedAt:   t.PlayedAt(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:     "Internal Server Error",
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error:     "Not Found",
		Message:   "The requested resource was not found.",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
