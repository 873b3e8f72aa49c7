package services

import (
	"context"

	"github.com/inkle/inkle-api/pkg/logger"
	"github.com/inkle/inkle-api/pkg/queue"
)

// publisher sends domain events after commit. Failures are logged and never
// surface to the caller; the database is the source of truth.
type publisher struct {
	producer queue.Publisher
	logger   *logger.Logger
}

func newPublisher(producer queue.Publisher, logger *logger.Logger) publisher {
	if producer == nil {
		producer = queue.NopPublisher{}
	}
	return publisher{producer: producer, logger: logger}
}

func (p publisher) publish(ctx context.Context, key string, t queue.EventType, data interface{}) {
	if err := p.producer.Publish(ctx, key, queue.NewEvent(t, data)); err != nil {
		p.logger.WithError(err).WithField("event", string(t)).Error("Failed to publish event")
	}
}
