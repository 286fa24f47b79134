package domain

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "plain", in: "sunset", want: "sunset"},
		{name: "trims", in: "  red car \t", want: "red car"},
		{name: "collapses inner whitespace", in: "red \t  car", want: "red car"},
		{name: "no-break space", in: "red\u00a0car", want: "red car"},
		{name: "keeps case", in: "Cat", want: "Cat"},
		{name: "unicode", in: "café", want: "café"},
		{name: "empty", in: "   ", wantErr: "empty"},
		{name: "newline", in: "a\nb", wantErr: "control"},
		{name: "comma", in: "a,b", wantErr: "commas"},
		{name: "too long", in: strings.Repeat("x", MaxTagLength+1), wantErr: "too long"},
		{name: "max length", in: strings.Repeat("é", MaxTagLength), want: strings.Repeat("é", MaxTagLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTag(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got, err := NormalizeTags([]string{" b ", "a", "b", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "A"}, got)

	_, err = NormalizeTags([]string{"ok", ""})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "tag", verr.Field)

	empty, err := NormalizeTags(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty)
}

func TestTagSet(t *testing.T) {
	set := NewTagSet("Cat", "", "dog")

	assert.True(t, set.Add("cat"), "case-sensitive insert")
	assert.False(t, set.Add("Cat"))
	assert.Equal(t, []string{"Cat", "cat", "dog"}, set.Sorted())
	assert.True(t, set.Contains("dog"))
	assert.False(t, set.Contains("Dog"))

	assert.Equal(t, []string{"Cat", "cat"}, set.Remove("CAT"))
	assert.Equal(t, []string{"dog"}, set.Sorted())
	assert.Empty(t, set.Remove("bird"))
}

func TestTagSet_Search(t *testing.T) {
	set := NewTagSet("Sunset", "sunrise", "unsung", "beach")

	tests := []struct {
		query  string
		prefix bool
		want   []string
	}{
		{query: "sun", want: []string{"Sunset", "sunrise", "unsung"}},
		{query: "SUN", prefix: true, want: []string{"Sunset", "sunrise"}},
		{query: "", want: []string{"Sunset", "beach", "sunrise", "unsung"}},
		{query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Search(tt.query, tt.prefix))
		})
	}
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "img_001.txt"), SidecarPath("out", "img_001.png"))
	assert.Equal(t, filepath.Join("out", "img_002.txt"), SidecarPath("out", "img_002"))
	assert.Equal(t, filepath.Join("out", "img_003.txt"), SidecarPath("out", "img_003.JPEG"))
}
