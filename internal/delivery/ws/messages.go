// Package ws serves the real-time tagging protocol over websockets. Every
// frame is a JSON envelope {"type": ..., "data": {...}}.
package ws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"imagetagger/internal/domain"
)

// Inbound message types.
const (
	TypeSessionRequest = "session_request"
	TypeGetImage       = "get_image"
	TypeUpdateTags     = "update_tags"
	TypeGetTags        = "get_tags"
	TypeSaveSession    = "save_session"
	TypePing           = "ping"
	TypeAddTag         = "add_tag"
	TypeDeleteTag      = "delete_tag"
)

// Outbound message types.
const (
	TypeSessionUpdate = "session_update"
	TypeImageData     = "image_data"
	TypeTagsUpdated   = "tags_updated"
	TypeTagsSaved     = "tags_saved"
	TypeTagsList      = "tags_list"
	TypeSessionSaved  = "session_saved"
	TypeError         = "error"
	TypePong          = "pong"
)

// Envelope is the raw wire form of an inbound frame.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message is an outbound frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Inbound is one decoded and validated client message.
type Inbound interface {
	MessageType() string
}

// ImageID is an image id that clients may send as a JSON string or number.
type ImageID string

func (id *ImageID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ImageID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("image_id must be a string or integer")
	}
	if _, err := strconv.Atoi(n.String()); err != nil {
		return fmt.Errorf("image_id must be an integer")
	}
	*id = ImageID(n.String())
	return nil
}

type (
	SessionRequest struct{}
	GetTags        struct{}
	SaveSession    struct{}
	Ping           struct{}

	GetImage struct {
		ImageID ImageID `json:"image_id"`
	}
	UpdateTags struct {
		ImageID ImageID  `json:"image_id"`
		Tags    []string `json:"tags"`
	}
	AddTag struct {
		Tag string `json:"tag"`
	}
	DeleteTag struct {
		Tag string `json:"tag"`
	}
)

func (SessionRequest) MessageType() string { return TypeSessionRequest }
func (GetTags) MessageType() string        { return TypeGetTags }
func (SaveSession) MessageType() string    { return TypeSaveSession }
func (Ping) MessageType() string           { return TypePing }
func (GetImage) MessageType() string       { return TypeGetImage }
func (UpdateTags) MessageType() string     { return TypeUpdateTags }
func (AddTag) MessageType() string         { return TypeAddTag }
func (DeleteTag) MessageType() string      { return TypeDeleteTag }

// Validate implements the same contract as the HTTP request DTOs.
func (m GetImage) Validate() []string {
	if m.ImageID == "" {
		return []string{"image_id is required"}
	}
	return nil
}

func (m UpdateTags) Validate() []string {
	var errs []string
	if m.ImageID == "" {
		errs = append(errs, "image_id is required")
	}
	if m.Tags == nil {
		errs = append(errs, "tags is required")
	}
	return errs
}

func (m AddTag) Validate() []string {
	if strings.TrimSpace(m.Tag) == "" {
		return []string{"tag is required"}
	}
	return nil
}

func (m DeleteTag) Validate() []string {
	if strings.TrimSpace(m.Tag) == "" {
		return []string{"tag is required"}
	}
	return nil
}

// inboundTypes builds an empty value for every known inbound type.
var inboundTypes = map[string]func() Inbound{
	TypeSessionRequest: func() Inbound { return &SessionRequest{} },
	TypeGetImage:       func() Inbound { return &GetImage{} },
	TypeUpdateTags:     func() Inbound { return &UpdateTags{} },
	TypeGetTags:        func() Inbound { return &GetTags{} },
	TypeSaveSession:    func() Inbound { return &SaveSession{} },
	TypePing:           func() Inbound { return &Ping{} },
	TypeAddTag:         func() Inbound { return &AddTag{} },
	TypeDeleteTag:      func() Inbound { return &DeleteTag{} },
}

// UnknownTypeError reports an envelope whose type has no handler.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type: %q", e.Type)
}

type validator interface {
	Validate() []string
}

// Decode parses a frame into its typed message. Malformed frames and bad
// payloads yield a *domain.ValidationError; unknown types an
// *UnknownTypeError.
func Decode(frame []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, domain.NewValidationError("", "invalid JSON format")
	}
	newMsg, ok := inboundTypes[env.Type]
	if !ok {
		return nil, &UnknownTypeError{Type: env.Type}
	}
	msg := newMsg()
	data := bytes.TrimSpace(env.Data)
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, msg); err != nil {
			return nil, domain.NewValidationError("data", fmt.Sprintf("invalid %s payload: %v", env.Type, err))
		}
	}
	if v, ok := msg.(validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			return nil, domain.NewValidationError("data", strings.Join(errs, "; "))
		}
	}
	return deref(msg), nil
}

// deref returns message values rather than pointers so handlers can switch
// on concrete types.
func deref(msg Inbound) Inbound {
	switch m := msg.(type) {
	case *SessionRequest:
		return *m
	case *GetImage:
		return *m
	case *UpdateTags:
		return *m
	case *GetTags:
		return *m
	case *SaveSession:
		return *m
	case *Ping:
		return *m
	case *AddTag:
		return *m
	case *DeleteTag:
		return *m
	}
	return msg
}

// Outbound payloads.
type (
	SessionUpdate struct {
		CurrentPosition *string      `json:"current_position"`
		Stats           domain.Stats `json:"stats"`
	}
	ImageData struct {
		ID           string   `json:"id"`
		URL          string   `json:"url"`
		OriginalName string   `json:"original_name"`
		NewName      *string  `json:"new_name"`
		Processed    bool     `json:"processed"`
		Tags         []string `json:"tags"`
	}
	TagsUpdated struct {
		ImageID string   `json:"image_id"`
		Tags    []string `json:"tags"`
		AllTags []string `json:"all_tags"`
	}
	TagsSaved struct {
		ImageID string   `json:"image_id"`
		Tags    []string `json:"tags"`
	}
	TagsList struct {
		Tags []string `json:"tags"`
	}
	SessionSaved struct {
		Success   bool   `json:"success"`
		Timestamp string `json:"timestamp,omitempty"`
	}
	ErrorPayload struct {
		Message string `json:"message"`
	}
)

// ErrorMessage builds an error frame.
func ErrorMessage(message string) Message {
	return Message{Type: TypeError, Data: ErrorPayload{Message: message}}
}
