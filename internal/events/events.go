// Package events announces changes to hazard records to downstream consumers.
package events

import (
	"context"

	"github.com/UnknownOlympus/hazardmap/internal/models"
)

// Publisher announces that the hazard stored for a cell has changed.
type Publisher interface {
	PublishHazard(ctx context.Context, cell string, hazard models.Hazard) error
	Close() error
}

// NoopPublisher drops every update. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishHazard(context.Context, string, models.Hazard) error { return nil }

func (NoopPublisher) Close() error { return nil }
