// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event types emitted after an accepted poll store mutation.
const (
	PollCreated   = "poll.created"
	PollUpdated   = "poll.updated"
	PollDeleted   = "poll.deleted"
	PollVoted     = "poll.voted"
	PollToggled   = "poll.toggled"
	TemplateSaved = "template.saved"
)

type Event struct {
	Type       string    `json:"type"`
	PollID     string    `json:"poll_id"`
	TemplateID string    `json:"template_id,omitempty"`
	OptionID   string    `json:"option_id,omitempty"`
	UserID     string    `json:"user_id"`
	IsActive   *bool     `json:"is_active,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Delivery is best-effort: the poll store logs a
// failed Publish and carries on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the default slog logger.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	slog.Info("event",
		"type", e.Type,
		"poll_id", e.PollID,
		"user_id", e.UserID,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the type of every published event, in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}
