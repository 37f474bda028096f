package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "outreachengine/internal/delivery/http/helpers"
	"outreachengine/internal/domain"
)

// CampaignRequest is the request body for POST /outreach/campaigns
type CampaignRequest struct {
	TargetType string `json:"target_type"`
	Count      int    `json:"count"`
	Region     string `json:"region,omitempty"`
	// Subject and Body override the named templates when set. They may
	// contain {{.placeholder}} expressions rendered per recipient.
	Subject     string `json:"subject,omitempty"`
	Body        string `json:"body,omitempty"`
	SenderName  string `json:"sender_name,omitempty"`
	SenderEmail string `json:"sender_email,omitempty"`
}

// Validate implements Validator.
func (c CampaignRequest) Validate() []string {
	var errs []string
	if _, err := domain.ParseTargetKind(c.TargetType); err != nil {
		errs = append(errs, "target_type must be \"daycare\" or \"influencer\"")
	}
	if c.Count < 1 {
		errs = append(errs, "count must be at least 1")
	}
	return errs
}

// CampaignResponse is the response body for POST /outreach/campaigns
type CampaignResponse struct {
	MessagesSent int                     `json:"messages_sent"`
	Details      []domain.DeliveryResult `json:"details"`
}

type OutreachController struct {
	Logger    *slog.Logger
	Campaigns domain.CampaignService
	Store     domain.OutreachStore
}

func NewOutreachController(logger *slog.Logger, campaigns domain.CampaignService, store domain.OutreachStore) *OutreachController {
	return &OutreachController{
		Logger:    logger,
		Campaigns: campaigns,
		Store:     store,
	}
}

// RunCampaign godoc
// @Summary Run an outreach campaign
// @Description Select up to count never-contacted leads of the given type, personalize an email for each, and deliver them. Per-recipient outcomes are returned in selection order.
// @Tags outreach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CampaignRequest true "Campaign parameters"
// @Success 200 {object} helpers.APIResponse "data contains messages_sent and details"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /outreach/campaigns [post]
func (c *OutreachController) RunCampaign(w http.ResponseWriter, r *http.Request) {
	var req CampaignRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}

	kind, _ := domain.ParseTargetKind(req.TargetType)
	campaign := domain.CampaignRequest{
		Kind:         kind,
		Count:        req.Count,
		RegionFilter: req.Region,
	}
	if req.Subject != "" || req.Body != "" {
		campaign.Override = &domain.ContentOverride{Subject: req.Subject, Body: req.Body}
	}
	if req.SenderName != "" || req.SenderEmail != "" {
		campaign.Sender = &domain.SenderIdentity{Name: req.SenderName, Address: req.SenderEmail}
	}

	results, err := c.Campaigns.RunCampaign(r.Context(), campaign)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, CampaignResponse{MessagesSent: len(results), Details: results})
}

// History godoc
// @Summary List recent outreach attempts
// @Description Returns the newest ledger entries, optionally filtered by target_type.
// @Tags outreach
// @Produce json
// @Param target_type query string false "daycare or influencer"
// @Param limit query int false "max entries (default 50, max 500)"
// @Success 200 {object} helpers.APIResponse "data contains the entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /outreach/history [get]
func (c *OutreachController) History(w http.ResponseWriter, r *http.Request) {
	var kind domain.TargetKind
	if raw := strings.TrimSpace(r.URL.Query().Get("target_type")); raw != "" {
		parsed, err := domain.ParseTargetKind(raw)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		kind = parsed
	}

	entries, err := c.Store.ListRecent(r.Context(), kind, h.ParseLimit(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if entries == nil {
		entries = []*domain.LedgerEntry{}
	}

	h.WriteJSONSuccess(w, http.StatusOK, entries)
}
