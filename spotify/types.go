package spotify

// Wire shapes for the subset of the Spotify Web API this service consumes.

type apiImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type apiExternalURLs struct {
	Spotify string `json:"spotify"`
}

type apiArtist struct {
	Name         string          `json:"name"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiAlbum struct {
	Name         string          `json:"name"`
	Images       []apiImage      `json:"images"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type apiTrack struct {
	Name         string          `json:"name"`
	Album        apiAlbum        `json:"album"`
	Artists      []apiArtist     `json:"artists"`
	ExternalURLs apiExternalURLs `json:"external_urls"`
}

type currentlyPlayingResponse struct {
	IsPlaying bool      `json:"is_playing"`
	Item      *apiTrack `json:"item"`
}

type recentlyPlayedItem struct {
	Track    apiTrack `json:"track"`
	PlayedAt string   `json:"played_at"`
}

type recentlyPlayedResponse struct {
	Items []recentlyPlayedItem `json:"items"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}
