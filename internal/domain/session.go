package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// SessionSchemaVersion is written into every session checkpoint.
const SessionSchemaVersion = "1.0"

// Stats holds the session counters.
// swagger:model Stats
type Stats struct {
	TotalImages     int `json:"total_images"`
	ProcessedImages int `json:"processed_images"`
}

// SessionState is the persisted progress of one output directory.
type SessionState struct {
	// ProcessedImages maps the original image path to its assigned output file name.
	ProcessedImages map[string]string `json:"processed_images"`
	CurrentPosition *string           `json:"current_position"`
	Tags            []string          `json:"tags"`
	Stats           Stats             `json:"stats"`
	LastUpdated     Timestamp         `json:"last_updated"`
	Version         string            `json:"version"`
}

// NewSessionState returns a fresh state for a scan of totalImages images.
func NewSessionState(totalImages int) SessionState {
	if totalImages < 0 {
		totalImages = 0
	}
	return SessionState{
		ProcessedImages: make(map[string]string),
		Tags:            []string{},
		Stats:           Stats{TotalImages: totalImages},
		Version:         SessionSchemaVersion,
	}
}

// Clone returns a deep copy of s.
func (s SessionState) Clone() SessionState {
	out := s
	out.ProcessedImages = make(map[string]string, len(s.ProcessedImages))
	for k, v := range s.ProcessedImages {
		out.ProcessedImages[k] = v
	}
	out.Tags = append([]string{}, s.Tags...)
	if s.CurrentPosition != nil {
		pos := *s.CurrentPosition
		out.CurrentPosition = &pos
	}
	return out
}

// Normalize repairs a state so that its invariants hold: maps and slices are
// non-nil, processed count equals the map size and the total is never below it.
func (s *SessionState) Normalize() {
	if s.ProcessedImages == nil {
		s.ProcessedImages = make(map[string]string)
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	s.Stats.ProcessedImages = len(s.ProcessedImages)
	if s.Stats.TotalImages < s.Stats.ProcessedImages {
		s.Stats.TotalImages = s.Stats.ProcessedImages
	}
}

// Position returns the current position or "" when none is set.
func (s SessionState) Position() string {
	if s.CurrentPosition == nil {
		return ""
	}
	return *s.CurrentPosition
}

// SetPosition sets the current position; an empty id clears it.
func (s *SessionState) SetPosition(id string) {
	if id == "" {
		s.CurrentPosition = nil
		return
	}
	s.CurrentPosition = &id
}

// timestampLayouts are accepted when decoding; the first one is used to encode.
// The zone-less layout is what older checkpoints carry.
var timestampLayouts = []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"}

// Timestamp is a second-granularity ISO-8601 time used in session checkpoints.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds in UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

// MarshalJSON encodes the zero value as an empty string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(timestampLayouts[0]))
}

// UnmarshalJSON accepts RFC 3339 and zone-less ISO-8601 strings, "" and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("decode timestamp: unrecognised layout %q", raw)
}

// String formats the timestamp like it is written to disk.
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayouts[0])
}

// SessionStore owns the single SessionState of a run. All reads return copies
// and all writes go through Mutate, so concurrent callers never share memory.
type SessionStore interface {
	Snapshot() SessionState
	Mutate(fn func(*SessionState) error) error
	Save(force bool) error
	Dirty() bool
}

// SessionStatus is the summary returned by the status endpoint.
// swagger:model SessionStatus
type SessionStatus struct {
	Status          string  `json:"status"`
	TotalImages     int     `json:"total_images"`
	ProcessedImages int     `json:"processed_images"`
	CurrentPosition *string `json:"current_position"`
	LastUpdated     string  `json:"last_updated"`
	Dirty           bool    `json:"dirty"`
}

// SessionService exposes session progress to the delivery layer.
type SessionService interface {
	Status(ctx context.Context) SessionStatus
	Checkpoint(ctx context.Context) (time.Time, error)
	SetPosition(ctx context.Context, imageID string) error
}
