package repository

import (
	"context"

	"yanoback/model"
)

// TokenRepository defines the interface for obtaining a currently valid
// bearer token, refreshing it against the upstream service when needed.
type TokenRepository interface {
	GetValidToken(ctx context.Context) (*model.Token, error)
}
