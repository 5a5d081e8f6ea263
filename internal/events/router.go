// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig configures the event router.
type RouterConfig struct {
	// CloseTimeout bounds the wait for in-flight handlers on Close.
	// Default: 10s
	CloseTimeout time.Duration

	// RetryMaxRetries is the number of retries of a failed handler.
	// Default: 3
	RetryMaxRetries int

	// RetryInitialInterval is the first backoff interval.
	// Default: 100ms
	RetryInitialInterval time.Duration

	// RetryMaxInterval caps the backoff interval.
	// Default: 5s
	RetryMaxInterval time.Duration
}

// DefaultRouterConfig returns the router defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
	}
}

// ModelHandler handles a decoded ModelPublished event. A returned error is
// retried by the router.
type ModelHandler func(ctx context.Context, event *ModelPublished) error

// NewRouter creates a Watermill router that delivers ModelPublished events
// from bus to handle. Middleware, outer to inner: Recoverer, Retry.
//
// A router runs once. Create a new one to resubscribe after Close.
func NewRouter(bus *Bus, cfg RouterConfig, handlerName string, handle ModelHandler) (*message.Router, error) {
	defaults := DefaultRouterConfig()
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = defaults.CloseTimeout
	}
	if cfg.RetryInitialInterval <= 0 {
		cfg.RetryInitialInterval = defaults.RetryInitialInterval
	}
	if cfg.RetryMaxInterval <= 0 {
		cfg.RetryMaxInterval = defaults.RetryMaxInterval
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, bus.Logger())
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      2,
		Logger:          bus.Logger(),
	}
	router.AddMiddleware(retry.Middleware)

	router.AddConsumerHandler(handlerName, TopicModelPublished, bus.Subscriber(), func(msg *message.Message) error {
		event, err := UnmarshalModelPublished(msg.Payload)
		if err != nil {
			// Retrying cannot fix a malformed payload.
			bus.Logger().Error("Dropping malformed model event", err, watermill.LogFields{"message_uuid": msg.UUID})
			return nil
		}
		return handle(msg.Context(), event)
	})

	return router, nil
}
