package activity

import (
	"context"
	"errors"
	"time"
)

// Verbs emitted by the content persister.
const (
	VerbCreate  = "create"
	VerbUpdate  = "update"
	VerbPublish = "publish"
)

// Channel tags every content event.
const Channel = "cms"

// Event describes a change to a content dimension.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives activity events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify satisfies Hook.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	return fn(ctx, event)
}

// Hooks fans an event out to every hook and joins their errors.
type Hooks []Hook

// Notify satisfies Hook.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	var errs error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
