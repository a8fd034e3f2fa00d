package repo

import (
	"context"
	"errors"
)

// ErrNoToken: токен устройства ещё не получен.
var ErrNoToken = errors.New("no device token")

// TokenStore описывает хранилище токена устройства на клиенте.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
}

// StoreTokens хранит токен в общем key-value сторе под ключом authToken.
type StoreTokens struct {
	Store Store
}

var _ TokenStore = StoreTokens{}

func (t StoreTokens) Save(ctx context.Context, token string) error {
	return t.Store.Set(ctx, KeyAuthToken, token)
}

func (t StoreTokens) Load(ctx context.Context) (string, error) {
	token, err := get(ctx, t.Store, KeyAuthToken, "")
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
