package ports

import "context"

// EventPublisher announces that a new schedule snapshot is available.
type EventPublisher interface {
	PublishReload(ctx context.Context, version string) error
}

// EventSubscriber reacts to reload announcements from another process
// (typically a publisher CLI that just wrote a new schedule document).
type EventSubscriber interface {
	SubscribeReload(ctx context.Context, handler func(ctx context.Context, version string) error) error
}

// CacheService provides read-through caching for idempotent path queries.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
