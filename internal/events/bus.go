// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Bus is the in-process pub/sub shared by publishers and routers.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a bus logging through logger. A nil logger discards logs.
func NewBus(logger *slog.Logger) *Bus {
	var adapter watermill.LoggerAdapter = watermill.NopLogger{}
	if logger != nil {
		adapter = watermill.NewSlogLogger(logger)
	}

	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 16,
		}, adapter),
		logger: adapter,
	}
}

// Publisher returns the publishing side of the bus.
func (b *Bus) Publisher() message.Publisher { return b.pubsub }

// Subscriber returns the subscribing side of the bus.
func (b *Bus) Subscriber() message.Subscriber { return b.pubsub }

// Logger returns the Watermill logger of the bus.
func (b *Bus) Logger() watermill.LoggerAdapter { return b.logger }

// PublishModel publishes a ModelPublished event. Events published while no
// router is subscribed are dropped.
func (b *Bus) PublishModel(ctx context.Context, event *ModelPublished) error {
	data, err := event.Marshal()
	if err != nil {
		return err
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("run_id", event.RunID)
	msg.Metadata.Set("artifact", event.Artifact)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(TopicModelPublished, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicModelPublished, err)
	}
	return nil
}

// Close closes the bus and every subscription on it.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
