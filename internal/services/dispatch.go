package services

import (
	"context"
	"log/slog"

	"eventgate/internal/domain"
)

type dispatcher struct {
	handlers map[domain.DispatchEventType][]domain.DispatchHandler
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher over an explicit handler map built at
// startup. A nil or empty map is valid; such a dispatcher drops every event.
func NewDispatcher(logger *slog.Logger, handlers map[domain.DispatchEventType][]domain.DispatchHandler) domain.Dispatcher {
	return &dispatcher{handlers: handlers, logger: logger}
}

// Dispatch runs the handlers registered for each event's type. Handler
// failures are logged and swallowed: the mutating operation that produced the
// event has already committed and must not be affected.
func (d *dispatcher) Dispatch(ctx context.Context, events ...domain.DispatchEvent) {
	for _, ev := range events {
		for _, h := range d.handlers[ev.Type] {
			if err := h(ctx, ev); err != nil {
				d.logger.Error("dispatch handler failed",
					"type", string(ev.Type),
					"event_id", ev.EventID,
					"user_id", ev.UserID,
					"error", err,
				)
			}
		}
	}
}

// NotificationHandler adapts a NotificationPort into a dispatch handler.
func NotificationHandler(port domain.NotificationPort) domain.DispatchHandler {
	return func(ctx context.Context, ev domain.DispatchEvent) error {
		return port.Notify(ctx, ev.UserID, ev.Type, ev.Context)
	}
}

// PotluckReleaseHandler releases the user's potluck item claims. Register it
// for rsvp.declined.
func PotluckReleaseHandler(port domain.PotluckPort) domain.DispatchHandler {
	return func(ctx context.Context, ev domain.DispatchEvent) error {
		return port.ReleaseClaims(ctx, ev.EventID, ev.UserID)
	}
}
