package domain

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"iter"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Entity is a local record managed by the external entity store. Field names
// are configuration-driven, so values live in an open field map rather than
// a fixed schema.
type Entity struct {
	// ID is the local storage id
	ID string `json:"id"`

	// TypeID is the entity type identifier
	TypeID string `json:"type_id"`

	// Bundle optionally narrows the type
	Bundle string `json:"bundle,omitempty"`

	// Fields holds the entity's field values keyed by field name
	Fields map[string]any `json:"fields"`
}

// Field returns the named field value and whether it is set.
func (e *Entity) Field(name string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}
	v, ok := e.Fields[name]
	return v, ok
}

// StringField returns the named field value rendered as a string.
// Missing or nil fields report ok=false.
func (e *Entity) StringField(name string) (string, bool) {
	v, ok := e.Field(name)
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

// SetField sets the named field value, allocating the field map on first use.
func (e *Entity) SetField(name string, value any) {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[name] = value
}

// RemoteEntity is a duck-typed remote record: a lookup-by-field-name
// accessor over a decoded object. Field names are configuration-driven.
type RemoteEntity map[string]any

// NewRemoteEntity validates a raw remote payload into a RemoteEntity.
// Anything other than an object/record shape is a mapping error.
func NewRemoteEntity(payload any) (RemoteEntity, error) {
	switch v := payload.(type) {
	case RemoteEntity:
		return v, nil
	case map[string]any:
		return RemoteEntity(v), nil
	default:
		return nil, fmt.Errorf("remote payload is %T, not an object: %w", payload, ErrMapping)
	}
}

// Field returns the named field value and whether it is present.
func (r RemoteEntity) Field(name string) (any, bool) {
	v, ok := r[name]
	return v, ok
}

// StringField returns the named field value rendered as a string.
func (r RemoteEntity) StringField(name string) (string, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

// RemoteStream is a lazy, forward-only, single-pass sequence of remote list
// items. An item is either a raw remote payload (leaf) or a nested
// RemoteStream (one page of results); consumers flatten pages transparently.
// A non-nil error aborts iteration.
type RemoteStream iter.Seq2[any, error]

// FlatStream wraps already-materialized payloads as a RemoteStream.
func FlatStream(items ...any) RemoteStream {
	return func(yield func(any, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// PagedStream wraps pages of payloads as a nested RemoteStream.
func PagedStream(pages ...[]any) RemoteStream {
	return func(yield func(any, error) bool) {
		for _, page := range pages {
			if !yield(FlatStream(page...), nil) {
				return
			}
		}
	}
}

// NoLimit is the unbounded sentinel for batch item limits.
const NoLimit = -1
