package domain

import (
	"context"
	"strconv"
)

// SourceImage is one valid image found in the input directory. ID is its
// position in the sorted scan.
type SourceImage struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
}

// ImageRecord is the result of processing one source image.
type ImageRecord struct {
	OriginalPath string   `json:"original_path"`
	AssignedName string   `json:"assigned_name"`
	SidecarPath  string   `json:"sidecar_path"`
	Tags         []string `json:"tags"`
}

// ImageInfo describes one image with its current tags.
// swagger:model ImageInfo
type ImageInfo struct {
	ID           string   `json:"id"`
	OriginalName string   `json:"original_name"`
	NewName      *string  `json:"new_name"`
	URL          string   `json:"url"`
	Processed    bool     `json:"processed"`
	Tags         []string `json:"tags"`
}

// Summary drops the tags.
func (i ImageInfo) Summary() ImageSummary {
	return ImageSummary{
		ID:           i.ID,
		OriginalName: i.OriginalName,
		NewName:      i.NewName,
		URL:          i.URL,
		Processed:    i.Processed,
	}
}

// ImageSummary is an image entry of a listing. Listings do not read sidecars.
// swagger:model ImageSummary
type ImageSummary struct {
	ID           string  `json:"id"`
	OriginalName string  `json:"original_name"`
	NewName      *string `json:"new_name"`
	URL          string  `json:"url"`
	Processed    bool    `json:"processed"`
}

// ImageList is one page of images.
// swagger:model ImageList
type ImageList struct {
	Images []ImageSummary `json:"images"`
	Total  int            `json:"total"`
}

// ParseImageID validates an image id against the number of scanned images.
func ParseImageID(id string, total int) (int, error) {
	idx, err := strconv.Atoi(id)
	if err != nil {
		return 0, NewValidationError("image_id", "invalid image id "+strconv.Quote(id))
	}
	if idx < 0 || idx >= total {
		return 0, NotFoundf("image %s", id)
	}
	return idx, nil
}

// ImageValidator decides whether a file is a decodable image.
type ImageValidator interface {
	Valid(path string) bool
}

// ImageScanner lists the valid images of a directory in a stable order.
type ImageScanner interface {
	Scan(ctx context.Context, dir string) ([]SourceImage, error)
}

// FileCopier copies src to a dst that must not exist yet.
type FileCopier interface {
	Copy(src, dst string) error
}

// Thumbnailer renders a preview of an image into dst.
type Thumbnailer interface {
	Generate(src, dst string, size int) error
}

// ImageService orchestrates scanning, renaming and tagging of images.
type ImageService interface {
	Scan(ctx context.Context) ([]SourceImage, error)
	Process(ctx context.Context, originalPath string) (ImageRecord, error)
	ProcessAll(ctx context.Context) (int, error)
	Count() int
	List(ctx context.Context, page PaginationParams) (ImageList, error)
	Get(ctx context.Context, id string) (ImageInfo, error)
	Tags(ctx context.Context, id string) ([]string, error)
	UpdateTags(ctx context.Context, id string, tags []string) (saved []string, all []string, err error)
	FilePath(ctx context.Context, id string) (string, error)
	Thumbnail(ctx context.Context, id string) (string, error)
}
