package domain

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTagLength is the longest accepted tag, in runes.
const MaxTagLength = 200

// SidecarSeparator joins tags inside a per-image sidecar file.
const SidecarSeparator = ", "

// SidecarExt is the extension of per-image sidecar files.
const SidecarExt = ".txt"

// SidecarPath returns the sidecar location for an image file name in dir.
func SidecarPath(dir, imageName string) string {
	return filepath.Join(dir, strings.TrimSuffix(imageName, filepath.Ext(imageName))+SidecarExt)
}

// NormalizeTag trims a candidate tag and collapses internal whitespace runs to
// a single space. It rejects empty tags, control characters (newlines
// included), commas and tags longer than MaxTagLength.
func NormalizeTag(candidate string) (string, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(candidate), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\u00a0' || r == '\u3000'
	})
	tag := strings.Join(fields, " ")
	if tag == "" {
		return "", NewValidationError("tag", "tag cannot be empty")
	}
	if !utf8.ValidString(tag) {
		return "", NewValidationError("tag", "tag must be valid UTF-8")
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return "", NewValidationError("tag", "tag cannot contain control characters or line breaks")
		}
		if r == ',' {
			return "", NewValidationError("tag", "tag cannot contain commas")
		}
	}
	if utf8.RuneCountInString(tag) > MaxTagLength {
		return "", NewValidationError("tag", "tag is too long")
	}
	return tag, nil
}

// NormalizeTags normalizes every candidate and drops duplicates, keeping the
// first occurrence. The first invalid tag aborts with its error.
func NormalizeTags(candidates []string) ([]string, error) {
	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		tag, err := NormalizeTag(c)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out, nil
}

// TagSet is the case-sensitive set of every tag ever used.
type TagSet map[string]struct{}

// NewTagSet builds a set from tags, skipping empty strings.
func NewTagSet(tags ...string) TagSet {
	set := make(TagSet, len(tags))
	for _, t := range tags {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Add inserts tag under case-sensitive equality. It reports whether the set changed.
func (s TagSet) Add(tag string) bool {
	if _, ok := s[tag]; ok {
		return false
	}
	s[tag] = struct{}{}
	return true
}

// Remove deletes every entry equal to tag ignoring case and returns the removed entries.
func (s TagSet) Remove(tag string) []string {
	var removed []string
	for existing := range s {
		if strings.EqualFold(existing, tag) {
			removed = append(removed, existing)
		}
	}
	for _, r := range removed {
		delete(s, r)
	}
	sort.Strings(removed)
	return removed
}

// Contains reports whether tag is present (case-sensitive).
func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in ascending byte order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Search returns the sorted tags containing query (or starting with it when
// prefixOnly is set), ignoring case. An empty query matches everything.
func (s TagSet) Search(query string, prefixOnly bool) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []string{}
	for _, t := range s.Sorted() {
		lower := strings.ToLower(t)
		if prefixOnly && strings.HasPrefix(lower, q) || !prefixOnly && strings.Contains(lower, q) {
			out = append(out, t)
		}
	}
	return out
}

// TagRepository persists the master tag list.
type TagRepository interface {
	Load(ctx context.Context) (TagSet, error)
	Save(ctx context.Context, tags TagSet) error
}

// SidecarRepository reads and writes the per-image tag files.
type SidecarRepository interface {
	ReadTags(ctx context.Context, path string) ([]string, error)
	WriteTags(ctx context.Context, path string, tags []string) error
	Ensure(ctx context.Context, path string) error
}

// TagService manages the master tag list.
type TagService interface {
	List(ctx context.Context) []string
	Search(ctx context.Context, query string, prefixOnly bool) []string
	Add(ctx context.Context, tag string) (added bool, all []string, err error)
	Remove(ctx context.Context, tag string) (removed []string, all []string, err error)
	Merge(ctx context.Context, tags []string) (changed bool, all []string, err error)
}
