package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		prefix   string
		padding  int
		want     string
	}{
		{
			name:     "empty directory",
			existing: nil,
			prefix:   "img",
			padding:  3,
			want:     "img_001",
		},
		{
			name:     "gaps are not reused",
			existing: []string{"img_001.png", "img_002.jpg", "img_005.png"},
			prefix:   "img",
			padding:  3,
			want:     "img_006",
		},
		{
			name:     "sidecars and extensionless names count",
			existing: []string{"img_001.png", "img_001.txt", "img_004"},
			prefix:   "img",
			padding:  3,
			want:     "img_005",
		},
		{
			name:     "other prefixes and malformed names ignored",
			existing: []string{"photo_010.png", "img_abc.png", "img_002.tar.gz", "img-003.png", "ximg_009.png", "session.json", "tags.txt"},
			prefix:   "img",
			padding:  3,
			want:     "img_001",
		},
		{
			name:     "width grows past padding",
			existing: []string{"img_999.png"},
			prefix:   "img",
			padding:  3,
			want:     "img_1000",
		},
		{
			name:     "wider existing numbers still compare numerically",
			existing: []string{"img_1000.png", "img_998.png"},
			prefix:   "img",
			padding:  3,
			want:     "img_1001",
		},
		{
			name:     "prefix with regexp metacharacters is literal",
			existing: []string{"a.b_007.png", "axb_050.png"},
			prefix:   "a.b",
			padding:  3,
			want:     "a.b_008",
		},
		{
			name:     "padding below one treated as one",
			existing: []string{"img_1.png"},
			prefix:   "img",
			padding:  0,
			want:     "img_2",
		},
		{
			name:     "custom padding",
			existing: []string{"cat_00041.jpg"},
			prefix:   "cat",
			padding:  5,
			want:     "cat_00042",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Allocate(tt.existing, tt.prefix, tt.padding)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllocate_NeverCollides(t *testing.T) {
	var existing []string
	seen := make(map[string]struct{})
	for i := 0; i < 1200; i++ {
		name := Allocate(existing, "img", DefaultPadding)
		_, dup := seen[name]
		assert.False(t, dup, "duplicate name %s", name)
		seen[name] = struct{}{}
		existing = append(existing, fmt.Sprintf("%s.png", name), name+".txt")
	}
	assert.Contains(t, seen, "img_1200")
}
