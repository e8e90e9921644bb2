package server

import (
	"context"

	"github.com/lanyardlab/badgeforge/pkg/badge"
	"github.com/lanyardlab/badgeforge/pkg/errors"
)

// Store persists event and attendee records for the badge API.
type Store interface {
	PutEvent(ctx context.Context, ev *badge.Event) error
	GetEvent(ctx context.Context, id string) (*badge.Event, error)

	PutAttendee(ctx context.Context, eventID string, a *badge.Attendee) error
	GetAttendee(ctx context.Context, eventID, id string) (*badge.Attendee, error)
	ListAttendees(ctx context.Context, eventID string) ([]badge.Attendee, error)

	Close(ctx context.Context) error
}

func notFound(kind, id string) error {
	code := errors.ErrCodeNotFound
	switch kind {
	case "event":
		code = errors.ErrCodeEventNotFound
	case "attendee":
		code = errors.ErrCodeAttendeeNotFound
	}
	return errors.New(code, "%s %q not found", kind, id)
}
