package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"yanoback/logger"
	"yanoback/model"
	"yanoback/repository"
)

// serviceName labels external-service errors from the Spotify API.
const serviceName = "Spotify"

const defaultAPIBaseURL = "https://api.spotify.com/v1"

// Cache keys for track lookups. These payloads are not secret and stay in
// the memory tier only.
const (
	nowPlayingCacheKey = "now-playing"
	lastPlayedCacheKey = "last-played"
)

// APIClient fetches currently-playing and recently-played track data from
// the Spotify Web API, caching mapped results. Safe for concurrent use.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     repository.TokenRepository
	cache      repository.CacheRepository
}

var _ repository.TrackRepository = (*APIClient)(nil)

// NewAPIClient 创建Spotify API客户端
func NewAPIClient(tokens repository.TokenRepository, cache repository.CacheRepository) *APIClient {
	return &APIClient{
		baseURL: defaultAPIBaseURL,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		tokens: tokens,
		cache:  cache,
	}
}

// SetBaseURL 设置API基础URL
func (c *APIClient) SetBaseURL(u string) {
	c.baseURL = u
}

// GetNowPlayingTrack returns the currently playing track, or (nil, nil) when
// nothing is playing. The "nothing playing" observation is itself cached.
func (c *APIClient) GetNowPlayingTrack(ctx context.Context) (*model.Track, error) {
	if track, done := c.fromCache(ctx, nowPlayingCacheKey); done {
		return track, nil
	}

	token, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doGet(ctx, c.baseURL+"/me/player/currently-playing", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// 204表示当前无播放，缓存null
	if resp.StatusCode == http.StatusNoContent {
		c.cacheNull(ctx, nowPlayingCacheKey)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.NewExternalServiceError(serviceName,
			fmt.Sprintf("currently-playing request failed: %d", resp.StatusCode), nil)
	}

	var cp currentlyPlayingResponse
	if err := json.NewDecoder(resp.Body).Decode(&cp); err != nil {
		return nil, model.NewExternalServiceError(serviceName, "failed to parse currently-playing response", err)
	}
	// 响应体没有item也视为无播放
	if cp.Item == nil {
		c.cacheNull(ctx, nowPlayingCacheKey)
		return nil, nil
	}

	track, err := mapTrack(cp.Item, "")
	if err != nil {
		return nil, err
	}
	c.cacheTrack(ctx, nowPlayingCacheKey, track)
	return track, nil
}

// GetLastPlayedTrack returns the most recently played track with its
// played-at timestamp, or (nil, nil) when the history is empty.
func (c *APIClient) GetLastPlayedTrack(ctx context.Context) (*model.Track, error) {
	if track, done := c.fromCache(ctx, lastPlayedCacheKey); done {
		return track, nil
	}

	token, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doGet(ctx, c.baseURL+"/me/player/recently-played?limit=1", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		c.cacheNull(ctx, lastPlayedCacheKey)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.NewExternalServiceError(serviceName,
			fmt.Sprintf("recently-played request failed: %d", resp.StatusCode), nil)
	}

	var rp recentlyPlayedResponse
	if err := json.NewDecoder(resp.Body).Decode(&rp); err != nil {
		return nil, model.NewExternalServiceError(serviceName, "failed to parse recently-played response", err)
	}
	if len(rp.Items) == 0 {
		c.cacheNull(ctx, lastPlayedCacheKey)
		return nil, nil
	}

	item := rp.Items[0]
	track, err := mapTrack(&item.Track, item.PlayedAt)
	if err != nil {
		return nil, err
	}
	// 最近播放必须带时间戳，缺失视为校验错误而不是静默返回
	if track.PlayedAt() == "" {
		return nil, model.NewValidationError("last played track is missing its played at timestamp")
	}
	c.cacheTrack(ctx, lastPlayedCacheKey, track)
	return track, nil
}

// fromCache resolves a track lookup from the memory tier. The second return
// is true when the cached value settles the request: either a previously
// observed null (nothing playing) or a valid track. Corrupted entries are
// logged and treated as misses so a fresh fetch can correct them.
func (c *APIClient) fromCache(ctx context.Context, key string) (*model.Track, bool) {
	lookup, err := c.cache.Get(ctx, key, repository.GetOptions{})
	if err != nil {
		logger.Warn("track cache read failed", logger.String("key", key), logger.ErrorField(err))
		return nil, false
	}
	if !lookup.Found {
		return nil, false
	}
	if string(lookup.Data) == "null" {
		return nil, true
	}

	var st model.SerializableTrack
	if err := json.Unmarshal(lookup.Data, &st); err != nil {
		logger.Warn("cache data corruption detected", logger.String("key", key), logger.ErrorField(err))
		return nil, false
	}
	track, err := model.TrackFromSerializable(st)
	if err != nil {
		logger.Warn("cache data corruption detected", logger.String("key", key), logger.ErrorField(err))
		return nil, false
	}
	return track, true
}

func (c *APIClient) doGet(ctx context.Context, rawURL string, token *model.Token) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, model.NewExternalServiceError(serviceName, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewExternalServiceError(serviceName, "request failed", err)
	}
	return resp, nil
}

func (c *APIClient) cacheNull(ctx context.Context, key string) {
	if err := c.cache.Set(ctx, key, nil, repository.SetOptions{}); err != nil {
		logger.Warn("failed to cache null result", logger.String("key", key), logger.ErrorField(err))
	}
}

func (c *APIClient) cacheTrack(ctx context.Context, key string, track *model.Track) {
	if err := c.cache.Set(ctx, key, track.Serializable(), repository.SetOptions{}); err != nil {
		logger.Warn("failed to cache track", logger.String("key", key), logger.ErrorField(err))
	}
}

// mapTrack maps an upstream track shape into the domain entity: the first
// artist is the primary artist, the first album image (largest) is the image
// URL, or empty when the album has no images.
func mapTrack(t *apiTrack, playedAt string) (*model.Track, error) {
	if len(t.Artists) == 0 {
		return nil, model.NewValidationError("track has no artists")
	}
	imageURL := ""
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
	}
	return model.NewTrack(model.TrackParams{
		ImageURL:   imageURL,
		TrackName:  t.Name,
		TrackURL:   t.ExternalURLs.Spotify,
		AlbumName:  t.Album.Name,
		AlbumURL:   t.Album.ExternalURLs.Spotify,
		ArtistName: t.Artists[0].Name,
		ArtistURL:  t.Artists[0].ExternalURLs.Spotify,
		PlayedAt:   playedAt,
	})
}
