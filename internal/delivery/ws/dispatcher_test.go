package ws

import (
	"context"
	"errors"
	"testing"
	"time"

	"imagetagger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatcherFixture struct {
	images   *fakeImageService
	tags     *fakeTagService
	sessions *fakeSessionService
	hub      *Hub
	d        *Dispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	name := "img_001.png"
	f := &dispatcherFixture{
		images: &fakeImageService{info: map[string]domain.ImageInfo{
			"0": {ID: "0", OriginalName: "a.png", NewName: &name, URL: "/api/images/0/file", Processed: true, Tags: []string{"cat"}},
			"1": {ID: "1", OriginalName: "b.png", URL: "/api/images/1/file"},
		}},
		tags: newFakeTagService("cat"),
		sessions: &fakeSessionService{
			status:       domain.SessionStatus{Status: "ok", TotalImages: 2, ProcessedImages: 1},
			checkpointAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		hub: NewHub(discardLogger()),
	}
	f.d = NewDispatcher(discardLogger(), f.images, f.tags, f.sessions, f.hub)
	return f
}

func (f *dispatcherFixture) client(id string) *Client {
	c := newClient(id, 16, nil)
	f.hub.Register(c)
	return c
}

func drain(c *Client) []Message {
	var out []Message
	for {
		select {
		case m := <-c.send:
			out = append(out, m)
		default:
			return out
		}
	}
}

func types(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestDispatcher_Welcome(t *testing.T) {
	f := newDispatcherFixture()
	c := f.client("a")

	f.d.Welcome(context.Background(), c)

	msgs := drain(c)
	require.Equal(t, []string{TypeSessionUpdate, TypeTagsList}, types(msgs))
	assert.Equal(t, SessionUpdate{Stats: domain.Stats{TotalImages: 2, ProcessedImages: 1}}, msgs[0].Data)
	assert.Equal(t, TagsList{Tags: []string{"cat"}}, msgs[1].Data)
}

func TestDispatcher_GetImage(t *testing.T) {
	f := newDispatcherFixture()
	c := f.client("a")
	ctx := context.Background()

	f.d.Dispatch(ctx, c, GetImage{ImageID: "1"})

	msgs := drain(c)
	require.Equal(t, []string{TypeImageData}, types(msgs))
	data := msgs[0].Data.(ImageData)
	assert.Equal(t, "b.png", data.OriginalName)
	assert.Nil(t, data.NewName)
	assert.Equal(t, []string{}, data.Tags)
	assert.Equal(t, "1", f.sessions.Position())

	f.d.Dispatch(ctx, c, GetImage{ImageID: "9"})
	msgs = drain(c)
	require.Equal(t, []string{TypeError}, types(msgs))
	assert.Contains(t, msgs[0].Data.(ErrorPayload).Message, "not found")
}

func TestDispatcher_UpdateTagsBroadcasts(t *testing.T) {
	f := newDispatcherFixture()
	sender := f.client("sender")
	other := f.client("other")

	f.d.Dispatch(context.Background(), sender, UpdateTags{ImageID: "0", Tags: []string{"dog", " cat "}})

	senderMsgs := drain(sender)
	require.Equal(t, []string{TypeTagsSaved, TypeTagsUpdated, TypeSessionUpdate}, types(senderMsgs))
	assert.Equal(t, TagsSaved{ImageID: "0", Tags: []string{"dog", "cat"}}, senderMsgs[0].Data)
	assert.Equal(t, TagsUpdated{ImageID: "0", Tags: []string{"dog", "cat"}, AllTags: []string{"cat", "dog"}}, senderMsgs[1].Data)
	assert.Equal(t, []string{TypeTagsUpdated, TypeSessionUpdate}, types(drain(other)))
}

func TestDispatcher_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		msg     Inbound
		wantMsg string
	}{
		{name: "validation", msg: UpdateTags{ImageID: "0", Tags: []string{"a,b"}}, wantMsg: "tag: tag cannot contain commas"},
		{name: "storage", err: &domain.StorageError{Op: "write sidecar", Path: "/secret/path", Err: errors.New("disk full")}, msg: UpdateTags{ImageID: "0", Tags: []string{"a"}}, wantMsg: "could not access files on disk, please retry"},
		{name: "unexpected", err: errors.New("boom"), msg: UpdateTags{ImageID: "0", Tags: []string{"a"}}, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDispatcherFixture()
			f.images.updateErr = tt.err
			c := f.client("a")

			f.d.Dispatch(context.Background(), c, tt.msg)

			msgs := drain(c)
			require.Equal(t, []string{TypeError}, types(msgs))
			assert.Equal(t, tt.wantMsg, msgs[0].Data.(ErrorPayload).Message)
		})
	}
}

func TestDispatcher_SaveSession(t *testing.T) {
	f := newDispatcherFixture()
	c := f.client("a")

	f.d.Dispatch(context.Background(), c, SaveSession{})
	msgs := drain(c)
	require.Equal(t, []string{TypeSessionSaved}, types(msgs))
	assert.Equal(t, SessionSaved{Success: true, Timestamp: "2026-01-02T03:04:05Z"}, msgs[0].Data)

	f.sessions.checkpointErr = &domain.StorageError{Op: "save session", Err: errors.New("read-only")}
	f.d.Dispatch(context.Background(), c, SaveSession{})
	msgs = drain(c)
	require.Equal(t, []string{TypeSessionSaved, TypeError}, types(msgs))
	assert.Equal(t, SessionSaved{Success: false}, msgs[0].Data)
}

func TestDispatcher_TagMessages(t *testing.T) {
	f := newDispatcherFixture()
	a := f.client("a")
	b := f.client("b")
	ctx := context.Background()

	f.d.Dispatch(ctx, a, AddTag{Tag: "dog"})
	assert.Equal(t, []Message{{Type: TypeTagsList, Data: TagsList{Tags: []string{"cat", "dog"}}}}, drain(b))
	drain(a)

	f.d.Dispatch(ctx, a, AddTag{Tag: "dog"})
	assert.Equal(t, []string{TypeTagsList}, types(drain(a)))
	assert.Empty(t, drain(b))

	f.d.Dispatch(ctx, a, DeleteTag{Tag: "DOG"})
	assert.Equal(t, []Message{{Type: TypeTagsList, Data: TagsList{Tags: []string{"cat"}}}}, drain(b))
	drain(a)

	f.d.Dispatch(ctx, a, GetTags{})
	assert.Equal(t, []Message{{Type: TypeTagsList, Data: TagsList{Tags: []string{"cat"}}}}, drain(a))

	f.d.Dispatch(ctx, a, Ping{})
	assert.Equal(t, []string{TypePong}, types(drain(a)))

	f.d.Dispatch(ctx, a, SessionRequest{})
	assert.Equal(t, []string{TypeSessionUpdate}, types(drain(a)))
}
