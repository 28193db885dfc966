package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventgate/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatchRoutesByType(t *testing.T) {
	var confirmed, declined []domain.DispatchEvent
	d := NewDispatcher(testLogger(), map[domain.DispatchEventType][]domain.DispatchHandler{
		domain.DispatchRSVPConfirmed: {
			func(ctx context.Context, ev domain.DispatchEvent) error {
				confirmed = append(confirmed, ev)
				return nil
			},
		},
		domain.DispatchRSVPDeclined: {
			func(ctx context.Context, ev domain.DispatchEvent) error {
				declined = append(declined, ev)
				return nil
			},
		},
	})

	d.Dispatch(context.Background(),
		newDispatchEvent(domain.DispatchRSVPConfirmed, "ev1", "user1", nil),
		newDispatchEvent(domain.DispatchRSVPDeclined, "ev1", "user2", nil),
		newDispatchEvent(domain.DispatchTicketsIssued, "ev1", "user3", nil),
	)

	if len(confirmed) != 1 || confirmed[0].UserID != "user1" {
		t.Fatalf("confirmed handler saw %+v, want the user1 event", confirmed)
	}
	if len(declined) != 1 || declined[0].UserID != "user2" {
		t.Fatalf("declined handler saw %+v, want the user2 event", declined)
	}
}

func TestDispatchRunsAllHandlersForAType(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, ev domain.DispatchEvent) error {
		calls++
		return nil
	}
	d := NewDispatcher(testLogger(), map[domain.DispatchEventType][]domain.DispatchHandler{
		domain.DispatchTicketsIssued: {handler, handler, handler},
	})

	d.Dispatch(context.Background(), newDispatchEvent(domain.DispatchTicketsIssued, "ev1", "user1", nil))
	if calls != 3 {
		t.Fatalf("handlers ran %d times, want 3", calls)
	}
}

// A failing handler never stops the others and never reaches the caller.
func TestDispatchSwallowsHandlerFailures(t *testing.T) {
	ran := false
	d := NewDispatcher(testLogger(), map[domain.DispatchEventType][]domain.DispatchHandler{
		domain.DispatchInvitationGranted: {
			func(ctx context.Context, ev domain.DispatchEvent) error {
				return fmt.Errorf("smtp down")
			},
			func(ctx context.Context, ev domain.DispatchEvent) error {
				ran = true
				return nil
			},
		},
	})

	d.Dispatch(context.Background(), newDispatchEvent(domain.DispatchInvitationGranted, "ev1", "user1", nil))
	if !ran {
		t.Fatal("handler after the failing one did not run")
	}
}

func TestDispatchWithNoHandlers(t *testing.T) {
	d := NewDispatcher(testLogger(), nil)
	// Must not panic.
	d.Dispatch(context.Background(), newDispatchEvent(domain.DispatchRSVPConfirmed, "ev1", "user1", nil))
}

type stubNotificationPort struct {
	userIDs []string
	types   []domain.DispatchEventType
	data    []map[string]string
}

func (p *stubNotificationPort) Notify(ctx context.Context, userID string, eventType domain.DispatchEventType, data map[string]string) error {
	p.userIDs = append(p.userIDs, userID)
	p.types = append(p.types, eventType)
	p.data = append(p.data, data)
	return nil
}

func TestNotificationHandler(t *testing.T) {
	port := &stubNotificationPort{}
	h := NotificationHandler(port)

	ev := newDispatchEvent(domain.DispatchTicketsIssued, "ev1", "user1", map[string]string{"count": "2"})
	if err := h(context.Background(), ev); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(port.userIDs) != 1 || port.userIDs[0] != "user1" {
		t.Fatalf("port notified %v, want [user1]", port.userIDs)
	}
	if port.types[0] != domain.DispatchTicketsIssued {
		t.Fatalf("port got type %s, want tickets.issued", port.types[0])
	}
	if port.data[0]["count"] != "2" {
		t.Fatalf("port got data %v, want the event context", port.data[0])
	}
}

type stubPotluckPort struct {
	released []string
}

func (p *stubPotluckPort) ReleaseClaims(ctx context.Context, eventID, userID string) error {
	p.released = append(p.released, key(eventID, userID))
	return nil
}

func TestPotluckReleaseHandler(t *testing.T) {
	port := &stubPotluckPort{}
	h := PotluckReleaseHandler(port)

	ev := newDispatchEvent(domain.DispatchRSVPDeclined, "ev1", "user1", nil)
	if err := h(context.Background(), ev); err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if len(port.released) != 1 || port.released[0] != key("ev1", "user1") {
		t.Fatalf("released %v, want [ev1:user1]", port.released)
	}
}

func TestNewDispatchEventFields(t *testing.T) {
	before := time.Now()
	ev := newDispatchEvent(domain.DispatchRSVPConfirmed, "ev1", "user1", map[string]string{"k": "v"})
	if ev.ID == "" {
		t.Fatal("event has no ID")
	}
	if ev.Type != domain.DispatchRSVPConfirmed || ev.EventID != "ev1" || ev.UserID != "user1" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.OccurredAt.Before(before) {
		t.Fatalf("OccurredAt = %v, want not before %v", ev.OccurredAt, before)
	}
}
