package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"imagetagger/internal/delivery/http/helpers"
	"imagetagger/internal/domain"
)

// TagListResponse is the data of every /api/tags endpoint.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// TagListSuccessResponse is the success envelope for the /api/tags endpoints.
type TagListSuccessResponse struct {
	Data  TagListResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateTagRequest is the request body for POST /api/tags.
type CreateTagRequest struct {
	Tag string `json:"tag"`
}

// Validate implements Validator. Content rules are applied by the service.
func (c CreateTagRequest) Validate() []string {
	if strings.TrimSpace(c.Tag) == "" {
		return []string{"tag is required"}
	}
	return nil
}

type TagController struct {
	Logger   *slog.Logger
	Service  domain.TagService
	Notifier domain.Notifier
}

func NewTagController(logger *slog.Logger, svc domain.TagService, notifier domain.Notifier) *TagController {
	return &TagController{
		Logger:   logger,
		Service:  svc,
		Notifier: notifier,
	}
}

// ListTags godoc
// @Summary List or search the master tags
// @Description Without q returns every tag sorted. With q returns tags containing q (or starting with it when prefix=true), ignoring case.
// @Tags tags
// @Produce json
// @Param q query string false "Search text"
// @Param prefix query bool false "Match only at the start of a tag"
// @Success 200 {object} controllers.TagListSuccessResponse
// @Router /tags [get]
func (c *TagController) ListTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var tags []string
	if strings.TrimSpace(q) == "" {
		tags = c.Service.List(r.Context())
	} else {
		tags = c.Service.Search(r.Context(), q, helpers.BoolQuery(r, "prefix"))
	}
	if tags == nil {
		tags = []string{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TagListResponse{Tags: tags})
}

// CreateTag godoc
// @Summary Add a tag to the master list
// @Description Returns 201 when the tag was added and 200 when it already existed.
// @Tags tags
// @Accept json
// @Produce json
// @Param body body CreateTagRequest true "Tag to add"
// @Success 200 {object} controllers.TagListSuccessResponse
// @Success 201 {object} controllers.TagListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags [post]
func (c *TagController) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	added, all, err := c.Service.Add(r.Context(), req.Tag)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
		if c.Notifier != nil {
			c.Notifier.TagListChanged(r.Context(), all)
		}
	}
	helpers.WriteJSONSuccess(w, status, TagListResponse{Tags: all})
}

// DeleteTag godoc
// @Summary Remove a tag from the master list
// @Description Removes every tag equal to name ignoring case. Image sidecar files are not touched. Removing an unknown tag is not an error.
// @Tags tags
// @Produce json
// @Param name path string true "Tag"
// @Success 200 {object} controllers.TagListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tags/{name} [delete]
func (c *TagController) DeleteTag(w http.ResponseWriter, r *http.Request) {
	removed, all, err := c.Service.Remove(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if len(removed) > 0 && c.Notifier != nil {
		c.Notifier.TagListChanged(r.Context(), all)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, TagListResponse{Tags: all})
}
