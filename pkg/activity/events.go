package activity

import (
	"context"
	"strings"
	"time"
)

// Verbs emitted by the style option pipeline.
const (
	VerbSubmitted = "style_option.submitted"
	VerbRendered  = "style_option.rendered"
	VerbSaved     = "style_option.saved"
)

// Object types for style option events.
const (
	ObjectOption = "style_option"
	ObjectRender = "style_option.render"
)

// StyleOptionInput describes the fields common to style option events.
type StyleOptionInput struct {
	Actor      Actor
	OptionID   string
	Plugin     string
	Entity     string
	SnapshotID string
	Channel    string
	Value      any
	Metadata   map[string]any
	OccurredAt time.Time
}

// RenderInput describes one render pass.
type RenderInput struct {
	Actor      Actor
	Context    string
	Bundle     string
	Entity     string
	Options    []string
	Skipped    []string
	Collisions int
	Channel    string
	OccurredAt time.Time
}

// BuildSubmittedEvent constructs the event for a resolved submission.
func BuildSubmittedEvent(input StyleOptionInput) Event {
	return buildOptionEvent(VerbSubmitted, input)
}

// BuildSavedEvent constructs the event for a persisted submission.
func BuildSavedEvent(input StyleOptionInput) Event {
	return buildOptionEvent(VerbSaved, input)
}

func buildOptionEvent(verb string, input StyleOptionInput) Event {
	metadata := CloneMetadata(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Plugin != "" {
		set("plugin", input.Plugin)
	}
	if input.Entity != "" {
		set("entity", input.Entity)
	}
	if input.SnapshotID != "" {
		set("snapshot_id", input.SnapshotID)
	}
	if input.Value != nil {
		set("value", input.Value)
	}
	objectID := strings.TrimSpace(input.OptionID)
	if objectID == "" {
		objectID = ObjectOption
	}
	return Event{
		Verb:       verb,
		ActorID:    input.Actor.ActorID,
		UserID:     input.Actor.UserID,
		TenantID:   input.Actor.TenantID,
		ObjectType: ObjectOption,
		ObjectID:   objectID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// BuildRenderedEvent constructs the event for a render pass.
func BuildRenderedEvent(input RenderInput) Event {
	metadata := map[string]any{
		"options":    append([]string{}, input.Options...),
		"collisions": input.Collisions,
	}
	if input.Context != "" {
		metadata["context"] = input.Context
	}
	if input.Bundle != "" {
		metadata["bundle"] = input.Bundle
	}
	if len(input.Skipped) > 0 {
		metadata["skipped"] = append([]string{}, input.Skipped...)
	}
	objectID := strings.TrimSpace(input.Entity)
	if objectID == "" {
		objectID = strings.Trim(input.Context+":"+input.Bundle, ":")
	}
	if objectID == "" {
		objectID = ObjectRender
	}
	return Event{
		Verb:       VerbRendered,
		ActorID:    input.Actor.ActorID,
		UserID:     input.Actor.UserID,
		TenantID:   input.Actor.TenantID,
		ObjectType: ObjectRender,
		ObjectID:   objectID,
		Channel:    input.Channel,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// Emitter fans events out to hooks and applies a default channel.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter constructs an emitter. Nil hooks are dropped.
func NewEmitter(hooks Hooks, channel string) *Emitter {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "style_options"
	}
	normalized := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	return &Emitter{hooks: normalized, channel: channel}
}

// Enabled reports whether any hook is attached.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit forwards the event, applying the default channel when missing.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
