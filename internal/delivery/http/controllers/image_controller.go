package controllers

import (
	"log/slog"
	"net/http"

	"imagetagger/internal/delivery/http/helpers"
	"imagetagger/internal/domain"
)

// ListImagesResponse is the data of GET /api/images.
type ListImagesResponse struct {
	Images     []domain.ImageSummary  `json:"images"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListImagesSuccessResponse is the success envelope for GET /api/images (200).
type ListImagesSuccessResponse struct {
	Data  ListImagesResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// GetImageSuccessResponse is the success envelope for GET /api/images/{id} (200).
type GetImageSuccessResponse struct {
	Data  domain.ImageInfo  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ImageTagsResponse is the data of GET /api/images/{id}/tags.
type ImageTagsResponse struct {
	ImageID string   `json:"image_id"`
	Tags    []string `json:"tags"`
}

// ImageTagsSuccessResponse is the success envelope for GET /api/images/{id}/tags (200).
type ImageTagsSuccessResponse struct {
	Data  ImageTagsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateTagsRequest is the request body for PUT /api/images/{id}/tags. The
// list replaces the image's tags; an empty list clears them.
type UpdateTagsRequest struct {
	Tags []string `json:"tags"`
}

// Validate implements Validator.
func (u UpdateTagsRequest) Validate() []string {
	if u.Tags == nil {
		return []string{"tags is required"}
	}
	return nil
}

// UpdateTagsResponse is the data of PUT /api/images/{id}/tags.
type UpdateTagsResponse struct {
	ImageID string   `json:"image_id"`
	Tags    []string `json:"tags"`
	AllTags []string `json:"all_tags"`
}

// UpdateTagsSuccessResponse is the success envelope for PUT /api/images/{id}/tags (200).
type UpdateTagsSuccessResponse struct {
	Data  UpdateTagsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type ImageController struct {
	Logger   *slog.Logger
	Service  domain.ImageService
	Notifier domain.Notifier
}

// NewImageController creates an ImageController. notifier may be nil when no
// realtime clients need to hear about REST edits.
func NewImageController(logger *slog.Logger, svc domain.ImageService, notifier domain.Notifier) *ImageController {
	return &ImageController{
		Logger:   logger,
		Service:  svc,
		Notifier: notifier,
	}
}

// ListImages godoc
// @Summary List images
// @Description Returns one page of the scanned images in scan order with their processing state.
// @Tags images
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 50, max 500)"
// @Success 200 {object} controllers.ListImagesSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images [get]
func (c *ImageController) ListImages(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	list, err := c.Service.List(r.Context(), params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	images := list.Images
	if images == nil {
		images = []domain.ImageSummary{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListImagesResponse{
		Images:     images,
		Pagination: helpers.NewPaginationMeta(params, list.Total),
	})
}

// GetImage godoc
// @Summary Get an image
// @Description Returns the image with its current tags.
// @Tags images
// @Produce json
// @Param id path string true "Image ID (position in the scan)"
// @Success 200 {object} controllers.GetImageSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{id} [get]
func (c *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	info, err := c.Service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if info.Tags == nil {
		info.Tags = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, info)
}

// GetImageFile godoc
// @Summary Download an image
// @Description Serves the renamed copy when it exists, otherwise the original file.
// @Tags images
// @Produce octet-stream
// @Param id path string true "Image ID"
// @Success 200 {file} file
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /images/{id}/file [get]
func (c *ImageController) GetImageFile(w http.ResponseWriter, r *http.Request) {
	path, err := c.Service.FilePath(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	http.ServeFile(w, r, path)
}

// GetThumbnail godoc
// @Summary Get an image thumbnail
// @Description Serves a cached PNG preview, rendering it on first request.
// @Tags images
// @Produce png
// @Param id path string true "Image ID"
// @Success 200 {file} file
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{id}/thumbnail [get]
func (c *ImageController) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	path, err := c.Service.Thumbnail(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	http.ServeFile(w, r, path)
}

// GetImageTags godoc
// @Summary Get the tags of an image
// @Tags images
// @Produce json
// @Param id path string true "Image ID"
// @Success 200 {object} controllers.ImageTagsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{id}/tags [get]
func (c *ImageController) GetImageTags(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tags, err := c.Service.Tags(r.Context(), id)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ImageTagsResponse{ImageID: id, Tags: tags})
}

// UpdateImageTags godoc
// @Summary Replace the tags of an image
// @Description Normalizes the tags, writes the image's sidecar file and adds new tags to the master list. Connected realtime clients receive tags_updated.
// @Tags images
// @Accept json
// @Produce json
// @Param id path string true "Image ID"
// @Param body body UpdateTagsRequest true "New tag list"
// @Success 200 {object} controllers.UpdateTagsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /images/{id}/tags [put]
func (c *ImageController) UpdateImageTags(w http.ResponseWriter, r *http.Request) {
	var req UpdateTagsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	saved, all, err := c.Service.UpdateTags(r.Context(), id, req.Tags)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if c.Notifier != nil {
		c.Notifier.TagsUpdated(r.Context(), id, saved, all)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateTagsResponse{ImageID: id, Tags: saved, AllTags: all})
}
