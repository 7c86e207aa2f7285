package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventStoryAdded   EventType = "storyAdded"
	EventStoryUpdated EventType = "storyUpdated"
	EventStoryDeleted EventType = "storyDeleted"
	EventTagAdded     EventType = "tagAdded"
	EventTagDeleted   EventType = "tagDeleted"
)

// Event is the closed set of changes the store publishes after a successful mutation.
// The unexported marker keeps the set closed so that type switches can be exhaustive.
type Event interface {
	Type() EventType
	event()
}

type StoryAdded struct{ Story Story }

type StoryUpdated struct{ Story Story }

type StoryDeleted struct{ ID string }

type TagAdded struct{ Tag Tag }

type TagDeleted struct{ ID string }

func (StoryAdded) Type() EventType   { return EventStoryAdded }
func (StoryUpdated) Type() EventType { return EventStoryUpdated }
func (StoryDeleted) Type() EventType { return EventStoryDeleted }
func (TagAdded) Type() EventType     { return EventTagAdded }
func (TagDeleted) Type() EventType   { return EventTagDeleted }

func (StoryAdded) event()   {}
func (StoryUpdated) event() {}
func (StoryDeleted) event() {}
func (TagAdded) event()     {}
func (TagDeleted) event()   {}

// Envelope is the wire frame of an event on the real-time channel.
// Data holds the full record for added/updated events and the bare id for deletions.
type Envelope struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// EncodeEvent wraps ev into an Envelope stamped with at.
func EncodeEvent(ev Event, at time.Time) (Envelope, error) {
	var payload any
	switch e := ev.(type) {
	case StoryAdded:
		payload = e.Story
	case StoryUpdated:
		payload = e.Story
	case StoryDeleted:
		payload = e.ID
	case TagAdded:
		payload = e.Tag
	case TagDeleted:
		payload = e.ID
	default:
		return Envelope{}, fmt.Errorf("unsupported event %T", ev)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", ev.Type(), err)
	}

	return Envelope{Type: ev.Type(), Data: data, Timestamp: at}, nil
}

// DecodeEvent turns an Envelope back into a typed Event.
func DecodeEvent(env Envelope) (Event, error) {
	switch env.Type {
	case EventStoryAdded, EventStoryUpdated:
		var s Story
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("decode %s: missing story id", env.Type)
		}
		if env.Type == EventStoryAdded {
			return StoryAdded{Story: s}, nil
		}
		return StoryUpdated{Story: s}, nil
	case EventTagAdded:
		var t Tag
		if err := json.Unmarshal(env.Data, &t); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		if t.ID == "" {
			return nil, fmt.Errorf("decode %s: missing tag id", env.Type)
		}
		return TagAdded{Tag: t}, nil
	case EventStoryDeleted, EventTagDeleted:
		var id string
		if err := json.Unmarshal(env.Data, &id); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		if id == "" {
			return nil, fmt.Errorf("decode %s: missing id", env.Type)
		}
		if env.Type == EventStoryDeleted {
			return StoryDeleted{ID: id}, nil
		}
		return TagDeleted{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", env.Type)
	}
}
