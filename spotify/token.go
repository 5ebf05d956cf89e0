package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yanoback/config"
	"yanoback/logger"
	"yanoback/model"
	"yanoback/repository"
)

// defaultTokenURL is Spotify's OAuth token endpoint.
const defaultTokenURL = "https://accounts.spotify.com/api/token"

// tokenCacheKey is the well-known cache key for the encrypted access token.
const tokenCacheKey = "spotify-token"

// OAuthService produces valid bearer tokens, refreshing via the OAuth2
// refresh_token grant when the cached token is absent or expired. Concurrent
// refreshes are tolerated; the most recent cache write prevails.
type OAuthService struct {
	tokenURL   string
	httpClient *http.Client
	cfg        *config.Config
	cache      repository.CacheRepository
}

var _ repository.TokenRepository = (*OAuthService)(nil)

// NewOAuthService 创建Spotify OAuth服务
func NewOAuthService(cfg *config.Config, cache repository.CacheRepository) *OAuthService {
	return &OAuthService{
		tokenURL: defaultTokenURL,
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		cfg:   cfg,
		cache: cache,
	}
}

// SetTokenURL 设置OAuth令牌端点URL
func (s *OAuthService) SetTokenURL(u string) {
	s.tokenURL = u
}

// GetValidToken returns a currently valid bearer token, consulting the cache
// (durable tier, encrypted at rest) before refreshing. A corrupted or
// undecryptable cache entry is logged and treated as a miss; it never blocks
// a fresh refresh.
func (s *OAuthService) GetValidToken(ctx context.Context) (*model.Token, error) {
	lookup, err := s.cache.Get(ctx, tokenCacheKey, repository.GetOptions{
		UseDurable: true,
		Decrypt:    true,
	})
	if err != nil {
		logger.Warn("token cache read failed, refreshing", logger.ErrorField(err))
	} else if lookup.Found {
		var accessToken string
		if err := json.Unmarshal(lookup.Data, &accessToken); err != nil {
			logger.Warn("cached token payload corrupted, refreshing", logger.ErrorField(err))
		} else if token, err := model.NewToken(accessToken); err != nil {
			logger.Warn("cached token invalid, refreshing", logger.ErrorField(err))
		} else {
			return token, nil
		}
	}

	return s.refresh(ctx)
}

// refresh performs the refresh_token grant and caches the new access token
// with TTL = expires_in − buffer, so the cached token always expires before
// the upstream one does.
func (s *OAuthService) refresh(ctx context.Context) (*model.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.cfg.SpotifyRefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, model.NewExternalServiceError(serviceName, "failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.SpotifyClientID, s.cfg.SpotifyClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, model.NewExternalServiceError(serviceName, "token refresh request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, model.NewExternalServiceError(serviceName,
			fmt.Sprintf("token refresh failed: %d - %s", resp.StatusCode, string(body)), nil)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, model.NewExternalServiceError(serviceName, "failed to parse token response", err)
	}

	token, err := model.NewToken(tr.AccessToken)
	if err != nil {
		return nil, err
	}

	logger.Info("token refresh success", logger.Int("expiresIn", tr.ExpiresIn))

	// 缓存TTL = expires_in - 缓冲时间，令牌提前视为过期，避免边缘过期竞态
	ttl := time.Duration(tr.ExpiresIn)*time.Second - s.cfg.TokenBuffer
	if ttl <= 0 {
		logger.Warn("token lifetime within buffer, not caching", logger.Int("expiresIn", tr.ExpiresIn))
		return token, nil
	}
	if err := s.cache.Set(ctx, tokenCacheKey, token.AccessToken(), repository.SetOptions{
		TTL:        ttl,
		UseDurable: true,
		Encrypt:    true,
	}); err != nil {
		// 令牌本身有效，缓存失败只记录
		logger.Warn("failed to cache refreshed token", logger.ErrorField(err))
	}

	return token, nil
}
