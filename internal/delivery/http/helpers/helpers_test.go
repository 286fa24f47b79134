package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imagetagger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagsBody struct {
	Tags []string `json:"tags"`
}

func (b tagsBody) Validate() []string {
	if b.Tags == nil {
		return []string{"tags is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantOK      bool
		wantMessage string
	}{
		{name: "valid", body: `{"tags":["a"]}`, wantOK: true},
		{name: "empty body", body: ``, wantMessage: "request body is required"},
		{name: "unknown field", body: `{"tags":[],"extra":1}`, wantMessage: `json: unknown field "extra"`},
		{name: "validation failure", body: `{}`, wantMessage: "tags is required"},
		{name: "trailing value", body: `{"tags":[]} {"tags":[]}`, wantMessage: "request body must contain a single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "http://test/api/images/0/tags", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest tagsBody

			ok := DecodeAndValidate(rr, req, &dest)

			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.NotNil(t, envelope.Error)
			assert.Equal(t, ErrCodeBadRequest, envelope.Error.Code)
			assert.Equal(t, tt.wantMessage, envelope.Error.Message)
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  domain.PaginationParams
	}{
		{query: "", want: domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{query: "page=3&page_size=10", want: domain.PaginationParams{Page: 3, PageSize: 10}},
		{query: "page=0&page_size=-4", want: domain.PaginationParams{Page: 1, PageSize: DefaultPageSize}},
		{query: "page=x&page_size=100000", want: domain.PaginationParams{Page: 1, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://test/api/images?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePagination(req))
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, NewPaginationMeta(domain.PaginationParams{Page: 2, PageSize: 10}, 21))
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1}, 5).TotalPages)
}
