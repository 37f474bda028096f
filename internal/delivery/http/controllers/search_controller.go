package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/domain"
)

type SearchController struct {
	Logger  *slog.Logger
	Service domain.SearchService
}

func NewSearchController(logger *slog.Logger, svc domain.SearchService) *SearchController {
	return &SearchController{
		Logger:  logger,
		Service: svc,
	}
}

// ListDaycares godoc
// @Summary List daycare leads
// @Description Returns daycare leads, optionally filtered by city.
// @Tags leads
// @Produce json
// @Param city query string false "exact city match, case-insensitive"
// @Param limit query int false "max entries (default 50, max 500)"
// @Success 200 {object} helpers.APIResponse "data contains the daycares"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /daycares [get]
func (c *SearchController) ListDaycares(w http.ResponseWriter, r *http.Request) {
	daycares, err := c.Service.SearchDaycares(r.Context(), domain.DaycareFilter{
		City:  strings.TrimSpace(r.URL.Query().Get("city")),
		Limit: h.ParseLimit(r),
	})
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if daycares == nil {
		daycares = []*domain.Daycare{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, daycares)
}

// ListInfluencers godoc
// @Summary List influencer leads
// @Description Returns influencer leads, optionally filtered by country and minimum follower count.
// @Tags leads
// @Produce json
// @Param country query string false "exact country match, case-insensitive"
// @Param min_followers query int false "minimum follower count"
// @Param limit query int false "max entries (default 50, max 500)"
// @Success 200 {object} helpers.APIResponse "data contains the influencers"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /influencers [get]
func (c *SearchController) ListInfluencers(w http.ResponseWriter, r *http.Request) {
	influencers, err := c.Service.SearchInfluencers(r.Context(), domain.InfluencerFilter{
		Country:      strings.TrimSpace(r.URL.Query().Get("country")),
		MinFollowers: h.ParseIntParam(r, "min_followers", 0),
		Limit:        h.ParseLimit(r),
	})
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if influencers == nil {
		influencers = []*domain.Influencer{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, influencers)
}
