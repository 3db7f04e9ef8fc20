package port

import (
	"context"
	"io"
	"time"
)

// ImageStore интерфейс хранилища загруженных изображений
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// TokenDenylist хранит отозванные токены до истечения их срока
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
