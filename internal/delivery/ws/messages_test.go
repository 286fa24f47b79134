package ws

import (
	"testing"

	"imagetagger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		want    Inbound
		wantErr error
	}{
		{name: "ping without data", frame: `{"type":"ping"}`, want: Ping{}},
		{name: "session request with null data", frame: `{"type":"session_request","data":null}`, want: SessionRequest{}},
		{name: "get tags ignores extra data", frame: `{"type":"get_tags","data":{"x":1}}`, want: GetTags{}},
		{name: "save session", frame: `{"type":"save_session","data":{}}`, want: SaveSession{}},
		{name: "get image string id", frame: `{"type":"get_image","data":{"image_id":"3"}}`, want: GetImage{ImageID: "3"}},
		{name: "get image numeric id", frame: `{"type":"get_image","data":{"image_id":3}}`, want: GetImage{ImageID: "3"}},
		{name: "update tags", frame: `{"type":"update_tags","data":{"image_id":"0","tags":["a","b"]}}`, want: UpdateTags{ImageID: "0", Tags: []string{"a", "b"}}},
		{name: "update tags empty list", frame: `{"type":"update_tags","data":{"image_id":"0","tags":[]}}`, want: UpdateTags{ImageID: "0", Tags: []string{}}},
		{name: "add tag", frame: `{"type":"add_tag","data":{"tag":"cat"}}`, want: AddTag{Tag: "cat"}},
		{name: "delete tag", frame: `{"type":"delete_tag","data":{"tag":"cat"}}`, want: DeleteTag{Tag: "cat"}},

		{name: "invalid json", frame: `{"type":`, wantErr: domain.ErrValidation},
		{name: "get image missing id", frame: `{"type":"get_image","data":{}}`, wantErr: domain.ErrValidation},
		{name: "get image fractional id", frame: `{"type":"get_image","data":{"image_id":1.5}}`, wantErr: domain.ErrValidation},
		{name: "update tags missing tags", frame: `{"type":"update_tags","data":{"image_id":"1"}}`, wantErr: domain.ErrValidation},
		{name: "update tags wrong type", frame: `{"type":"update_tags","data":{"image_id":"1","tags":"a"}}`, wantErr: domain.ErrValidation},
		{name: "add tag blank", frame: `{"type":"add_tag","data":{"tag":"  "}}`, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.frame))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"launch_rocket","data":{}}`))

	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "launch_rocket", unknown.Type)
}
