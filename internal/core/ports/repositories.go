package ports

import "context"

// ScheduleSource loads the raw schedule document bytes the engine builds its
// graph from. Adapters may read from a local file or from durable storage;
// the core never inspects the byte format itself beyond handing it to the
// schedule package's parsers.
type ScheduleSource interface {
	Load(ctx context.Context) ([]byte, error)
}

// ScheduleStore persists the raw schedule document bytes that a publisher
// ingests, distinct from the engine's read path: it stores the INPUT to a
// graph build, never a query result.
type ScheduleStore interface {
	SaveDocument(ctx context.Context, version string, data []byte) error
	LatestDocument(ctx context.Context) (version string, data []byte, err error)
}
