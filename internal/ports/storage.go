package ports

import (
	"context"
	"io"
	"time"
)

type EvidenceObject struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

type EvidenceStore interface {
	Put(ctx context.Context, obj EvidenceObject) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
