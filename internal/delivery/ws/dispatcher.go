package ws

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"imagetagger/internal/domain"
)

var _ domain.Notifier = (*Dispatcher)(nil)

type handlerFunc func(ctx context.Context, c *Client, msg Inbound) error

// Dispatcher routes decoded messages to the services. It is the only code
// that touches session, tag or image state on behalf of a websocket client.
type Dispatcher struct {
	Logger   *slog.Logger
	Images   domain.ImageService
	Tags     domain.TagService
	Sessions domain.SessionService
	Hub      *Hub

	handlers map[string]handlerFunc
}

// NewDispatcher creates a Dispatcher broadcasting through hub.
func NewDispatcher(logger *slog.Logger, images domain.ImageService, tags domain.TagService, sessions domain.SessionService, hub *Hub) *Dispatcher {
	d := &Dispatcher{Logger: logger, Images: images, Tags: tags, Sessions: sessions, Hub: hub}
	d.handlers = map[string]handlerFunc{
		TypeSessionRequest: d.sessionRequest,
		TypeGetImage:       d.getImage,
		TypeUpdateTags:     d.updateTags,
		TypeGetTags:        d.getTags,
		TypeSaveSession:    d.saveSession,
		TypePing:           d.ping,
		TypeAddTag:         d.addTag,
		TypeDeleteTag:      d.deleteTag,
	}
	return d
}

// Welcome sends the initial state to a new client.
func (d *Dispatcher) Welcome(ctx context.Context, c *Client) {
	c.Send(d.sessionUpdate(ctx))
	c.Send(Message{Type: TypeTagsList, Data: TagsList{Tags: d.Tags.List(ctx)}})
}

// Dispatch runs the handler for msg. Failures are reported to the client as
// an error message and never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, c *Client, msg Inbound) {
	h, ok := d.handlers[msg.MessageType()]
	if !ok {
		d.Reject(ctx, c, &UnknownTypeError{Type: msg.MessageType()})
		return
	}
	if err := h(ctx, c, msg); err != nil {
		d.Reject(ctx, c, err)
	}
}

// Reject logs err and sends its client-facing summary to c.
func (d *Dispatcher) Reject(ctx context.Context, c *Client, err error) {
	var unknown *UnknownTypeError
	switch {
	case errors.As(err, &unknown):
		d.Logger.WarnContext(ctx, "unknown websocket message", "client_id", c.ID, "type", unknown.Type)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		d.Logger.InfoContext(ctx, "websocket request rejected", "client_id", c.ID, "err", err)
	default:
		d.Logger.ErrorContext(ctx, "websocket request failed", "client_id", c.ID, "err", err)
	}
	c.Send(ErrorMessage(clientMessage(err)))
}

// clientMessage turns err into a summary fit for the UI. Storage details stay
// in the log.
func clientMessage(err error) string {
	var unknown *UnknownTypeError
	if errors.As(err, &unknown) {
		return unknown.Error()
	}
	return domain.PublicMessage(err)
}

// TagsUpdated broadcasts an image's new tags followed by the session counters.
func (d *Dispatcher) TagsUpdated(ctx context.Context, imageID string, tags, all []string) {
	d.Hub.Broadcast(Message{Type: TypeTagsUpdated, Data: TagsUpdated{ImageID: imageID, Tags: tags, AllTags: all}})
	d.Hub.Broadcast(d.sessionUpdate(ctx))
}

// TagListChanged broadcasts the master tag list.
func (d *Dispatcher) TagListChanged(_ context.Context, all []string) {
	d.Hub.Broadcast(Message{Type: TypeTagsList, Data: TagsList{Tags: all}})
}

func (d *Dispatcher) sessionUpdate(ctx context.Context) Message {
	st := d.Sessions.Status(ctx)
	return Message{Type: TypeSessionUpdate, Data: SessionUpdate{
		CurrentPosition: st.CurrentPosition,
		Stats:           domain.Stats{TotalImages: st.TotalImages, ProcessedImages: st.ProcessedImages},
	}}
}

func (d *Dispatcher) sessionRequest(ctx context.Context, c *Client, _ Inbound) error {
	c.Send(d.sessionUpdate(ctx))
	return nil
}

func (d *Dispatcher) getImage(ctx context.Context, c *Client, msg Inbound) error {
	req := msg.(GetImage)
	id := string(req.ImageID)
	info, err := d.Images.Get(ctx, id)
	if err != nil {
		return err
	}
	tags := info.Tags
	if tags == nil {
		tags = []string{}
	}
	c.Send(Message{Type: TypeImageData, Data: ImageData{
		ID:           info.ID,
		URL:          info.URL,
		OriginalName: info.OriginalName,
		NewName:      info.NewName,
		Processed:    info.Processed,
		Tags:         tags,
	}})
	return d.Sessions.SetPosition(ctx, id)
}

func (d *Dispatcher) updateTags(ctx context.Context, c *Client, msg Inbound) error {
	req := msg.(UpdateTags)
	id := string(req.ImageID)
	saved, all, err := d.Images.UpdateTags(ctx, id, req.Tags)
	if err != nil {
		return err
	}
	c.Send(Message{Type: TypeTagsSaved, Data: TagsSaved{ImageID: id, Tags: saved}})
	d.TagsUpdated(ctx, id, saved, all)
	return nil
}

func (d *Dispatcher) getTags(ctx context.Context, c *Client, _ Inbound) error {
	c.Send(Message{Type: TypeTagsList, Data: TagsList{Tags: d.Tags.List(ctx)}})
	return nil
}

func (d *Dispatcher) saveSession(ctx context.Context, c *Client, _ Inbound) error {
	at, err := d.Sessions.Checkpoint(ctx)
	if err != nil {
		c.Send(Message{Type: TypeSessionSaved, Data: SessionSaved{Success: false}})
		return err
	}
	c.Send(Message{Type: TypeSessionSaved, Data: SessionSaved{Success: true, Timestamp: at.UTC().Format(time.RFC3339)}})
	return nil
}

func (d *Dispatcher) ping(_ context.Context, c *Client, _ Inbound) error {
	c.Send(Message{Type: TypePong})
	return nil
}

func (d *Dispatcher) addTag(ctx context.Context, c *Client, msg Inbound) error {
	added, all, err := d.Tags.Add(ctx, msg.(AddTag).Tag)
	if err != nil {
		return err
	}
	if !added {
		c.Send(Message{Type: TypeTagsList, Data: TagsList{Tags: all}})
		return nil
	}
	d.TagListChanged(ctx, all)
	return nil
}

func (d *Dispatcher) deleteTag(ctx context.Context, c *Client, msg Inbound) error {
	removed, all, err := d.Tags.Remove(ctx, msg.(DeleteTag).Tag)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		c.Send(Message{Type: TypeTagsList, Data: TagsList{Tags: all}})
		return nil
	}
	d.TagListChanged(ctx, all)
	return nil
}
