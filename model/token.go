package model

import "strings"

// Token wraps a bearer access token for the upstream API. Immutable;
// construct through NewToken.
type Token struct {
	accessToken string
}

// NewToken validates and builds a Token. The access token must be non-empty
// after trimming.
func NewToken(accessToken string) (*Token, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, NewValidationError("access token is required")
	}
	return &Token{accessToken: strings.TrimSpace(accessToken)}, nil
}

// AccessToken returns the bearer token string.
func (t *Token) AccessToken() string { return t.accessToken }
