package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/services"
)

// CommandRequest is the request body for POST /commands
type CommandRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Validate implements Validator.
func (c CommandRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Action) == "" {
		errs = append(errs, "action is required")
	}
	return errs
}

type CommandController struct {
	Logger *slog.Logger
	Router *services.CommandRouter
}

func NewCommandController(logger *slog.Logger, router *services.CommandRouter) *CommandController {
	return &CommandController{
		Logger: logger,
		Router: router,
	}
}

// Execute godoc
// @Summary Execute a classified command
// @Description Dispatch a structured command produced by the intent classifier: send_outreach, search_daycares, or search_influencers.
// @Tags commands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CommandRequest true "Command"
// @Success 200 {object} helpers.APIResponse "data contains the command result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /commands [post]
func (c *CommandController) Execute(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Router.Execute(r.Context(), services.Command{Action: req.Action, Params: req.Params})
	if err != nil {
		if strings.Contains(err.Error(), "unsupported") {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, result)
}
