package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"imagetagger/internal/delivery/http/helpers"
	"imagetagger/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeImageService implements domain.ImageService. Methods the controllers
// never call panic through the nil embedded interface.
type fakeImageService struct {
	domain.ImageService

	list      domain.ImageList
	listErr   error
	lastPage  domain.PaginationParams
	info      domain.ImageInfo
	getErr    error
	tags      []string
	tagsErr   error
	saved     []string
	all       []string
	updateErr error
	lastID    string
	lastTags  []string
	filePath  string
	fileErr   error
	thumbPath string
	thumbErr  error
}

func (f *fakeImageService) List(_ context.Context, page domain.PaginationParams) (domain.ImageList, error) {
	f.lastPage = page
	return f.list, f.listErr
}

func (f *fakeImageService) Get(_ context.Context, id string) (domain.ImageInfo, error) {
	f.lastID = id
	return f.info, f.getErr
}

func (f *fakeImageService) Tags(_ context.Context, id string) ([]string, error) {
	f.lastID = id
	return f.tags, f.tagsErr
}

func (f *fakeImageService) UpdateTags(_ context.Context, id string, tags []string) ([]string, []string, error) {
	f.lastID = id
	f.lastTags = tags
	return f.saved, f.all, f.updateErr
}

func (f *fakeImageService) FilePath(_ context.Context, id string) (string, error) {
	f.lastID = id
	return f.filePath, f.fileErr
}

func (f *fakeImageService) Thumbnail(_ context.Context, id string) (string, error) {
	f.lastID = id
	return f.thumbPath, f.thumbErr
}

type fakeTagService struct {
	list        []string
	search      []string
	lastQuery   string
	lastPrefix  bool
	added       bool
	removed     []string
	all         []string
	err         error
	lastTag     string
	searchCalls int
}

func (f *fakeTagService) List(context.Context) []string { return f.list }

func (f *fakeTagService) Search(_ context.Context, query string, prefixOnly bool) []string {
	f.searchCalls++
	f.lastQuery = query
	f.lastPrefix = prefixOnly
	return f.search
}

func (f *fakeTagService) Add(_ context.Context, tag string) (bool, []string, error) {
	f.lastTag = tag
	return f.added, f.all, f.err
}

func (f *fakeTagService) Remove(_ context.Context, tag string) ([]string, []string, error) {
	f.lastTag = tag
	return f.removed, f.all, f.err
}

func (f *fakeTagService) Merge(context.Context, []string) (bool, []string, error) {
	return false, f.all, f.err
}

type fakeSessionService struct {
	status        domain.SessionStatus
	checkpointAt  time.Time
	checkpointErr error
}

func (f *fakeSessionService) Status(context.Context) domain.SessionStatus { return f.status }

func (f *fakeSessionService) Checkpoint(context.Context) (time.Time, error) {
	return f.checkpointAt, f.checkpointErr
}

func (f *fakeSessionService) SetPosition(context.Context, string) error { return nil }

type tagsUpdatedCall struct {
	imageID string
	tags    []string
	all     []string
}

type fakeNotifier struct {
	tagsUpdated []tagsUpdatedCall
	listChanged [][]string
}

func (f *fakeNotifier) TagsUpdated(_ context.Context, imageID string, tags, all []string) {
	f.tagsUpdated = append(f.tagsUpdated, tagsUpdatedCall{imageID: imageID, tags: tags, all: all})
}

func (f *fakeNotifier) TagListChanged(_ context.Context, all []string) {
	f.listChanged = append(f.listChanged, all)
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil,
// its data field into dest.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}

func strPtr(s string) *string { return &s }
