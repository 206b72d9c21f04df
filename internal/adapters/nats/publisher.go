// Package natsadapter publishes and subscribes to the schedule-reload
// signal over NATS JetStream: a schedule publisher writes a new document and
// announces it, and the API process swaps its snapshot in response.
package natsadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/oiangu/trenbide/internal/core/ports"
)

const reloadSubject = "schedule.reloaded"

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the reload stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streamCfg := &nats.StreamConfig{
		Name:      "SCHEDULE_RELOADS",
		Subjects:  []string{reloadSubject},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(streamCfg); err != nil {
		if _, err := js.UpdateStream(streamCfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", streamCfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

var _ ports.EventPublisher = (*Publisher)(nil)

// PublishReload announces that a new schedule document version is ready to
// be loaded.
func (p *Publisher) PublishReload(ctx context.Context, version string) error {
	_, err := p.js.Publish(reloadSubject, []byte(version))
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
