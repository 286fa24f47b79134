package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"imagetagger/internal/delivery/http/helpers"
	"imagetagger/internal/domain"
)

// StatusSuccessResponse is the success envelope for GET /api/status (200).
type StatusSuccessResponse struct {
	Data  domain.SessionStatus `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// SaveSessionResponse is the data of POST /api/session/save.
type SaveSessionResponse struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// SaveSessionSuccessResponse is the success envelope for POST /api/session/save (200).
type SaveSessionSuccessResponse struct {
	Data  SaveSessionResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type StatusController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewStatusController(logger *slog.Logger, svc domain.SessionService) *StatusController {
	return &StatusController{Logger: logger, Service: svc}
}

// GetStatus godoc
// @Summary Session status
// @Description Returns progress counters, the current position and when the session was last saved.
// @Tags status
// @Produce json
// @Success 200 {object} controllers.StatusSuccessResponse
// @Router /status [get]
func (c *StatusController) GetStatus(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Status(r.Context()))
}

// SaveSession godoc
// @Summary Save the session now
// @Description Writes the session checkpoint immediately, even when nothing changed.
// @Tags status
// @Produce json
// @Success 200 {object} controllers.SaveSessionSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /session/save [post]
func (c *StatusController) SaveSession(w http.ResponseWriter, r *http.Request) {
	at, err := c.Service.Checkpoint(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SaveSessionResponse{Success: true, Timestamp: at.UTC().Format(time.RFC3339)})
}
