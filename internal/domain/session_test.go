package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionState_CloneIsDeep(t *testing.T) {
	st := NewSessionState(3)
	st.ProcessedImages["/in/a.png"] = "img_001.png"
	st.Tags = []string{"sky"}
	st.SetPosition("0")

	c := st.Clone()
	c.ProcessedImages["/in/b.png"] = "img_002.png"
	c.Tags[0] = "sea"
	c.SetPosition("1")

	assert.Len(t, st.ProcessedImages, 1)
	assert.Equal(t, []string{"sky"}, st.Tags)
	assert.Equal(t, "0", st.Position())
}

func TestSessionState_Normalize(t *testing.T) {
	st := SessionState{
		ProcessedImages: map[string]string{"a": "img_001.png", "b": "img_002.png"},
		Stats:           Stats{TotalImages: 1, ProcessedImages: 7},
	}

	st.Normalize()

	assert.Equal(t, Stats{TotalImages: 2, ProcessedImages: 2}, st.Stats)
	assert.NotNil(t, st.Tags)

	var empty SessionState
	empty.Normalize()
	assert.NotNil(t, empty.ProcessedImages)
}

func TestSessionState_Position(t *testing.T) {
	var st SessionState
	assert.Equal(t, "", st.Position())
	st.SetPosition("4")
	assert.Equal(t, "4", st.Position())
	st.SetPosition("")
	assert.Nil(t, st.CurrentPosition)
}

func TestTimestamp_JSON(t *testing.T) {
	ts := NewTimestamp(time.Date(2024, 5, 1, 12, 30, 15, 999, time.FixedZone("X", 3600)))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01T11:30:15Z"`, string(data))

	zero, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(zero))

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: `"2024-05-01T11:30:15Z"`, want: time.Date(2024, 5, 1, 11, 30, 15, 0, time.UTC)},
		{in: `"2024-05-01T11:30:15.123456"`, want: time.Date(2024, 5, 1, 11, 30, 15, 123456000, time.UTC)},
		{in: `"2024-05-01T11:30:15"`, want: time.Date(2024, 5, 1, 11, 30, 15, 0, time.UTC)},
		{in: `""`},
		{in: `null`},
		{in: `42`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got Timestamp
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %v", got.Time)
		})
	}
}
