package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"outreachengine/internal/domain"
)

// Command is the structured action produced by the external intent
// classifier. Params carry loosely typed values straight from its JSON
// output, so every read here coerces defensively.
type Command struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// Supported command actions.
const (
	ActionSendOutreach      = "send_outreach"
	ActionSearchDaycares    = "search_daycares"
	ActionSearchInfluencers = "search_influencers"
)

const defaultOutreachCount = 10

// OutreachCommandResult is the dispatch payload for a send_outreach command.
type OutreachCommandResult struct {
	MessagesSent int                     `json:"messages_sent"`
	Details      []domain.DeliveryResult `json:"details"`
}

// CommandRouter executes classified commands against the engine and searches.
type CommandRouter struct {
	campaigns domain.CampaignService
	search    domain.SearchService
}

// NewCommandRouter returns a CommandRouter over the given services.
func NewCommandRouter(campaigns domain.CampaignService, search domain.SearchService) *CommandRouter {
	return &CommandRouter{campaigns: campaigns, search: search}
}

// Execute routes one command. Unknown actions are an error; per-recipient
// outreach failures are reported inside the result, not as an error.
func (r *CommandRouter) Execute(ctx context.Context, cmd Command) (any, error) {
	switch cmd.Action {
	case ActionSendOutreach:
		return r.sendOutreach(ctx, cmd.Params)
	case ActionSearchDaycares:
		return r.search.SearchDaycares(ctx, domain.DaycareFilter{
			City:  stringParam(cmd.Params, "city"),
			Limit: intParam(cmd.Params, "limit", 0),
		})
	case ActionSearchInfluencers:
		return r.search.SearchInfluencers(ctx, domain.InfluencerFilter{
			Country:      stringParam(cmd.Params, "country"),
			MinFollowers: intParam(cmd.Params, "min_followers", 0),
			Limit:        intParam(cmd.Params, "limit", 0),
		})
	}
	return nil, fmt.Errorf("unsupported command action: %q", cmd.Action)
}

func (r *CommandRouter) sendOutreach(ctx context.Context, params map[string]any) (*OutreachCommandResult, error) {
	kind, err := normalizeTargetType(stringParam(params, "target_type"))
	if err != nil {
		return nil, err
	}

	req := domain.CampaignRequest{
		Kind:         kind,
		Count:        intParam(params, "count", defaultOutreachCount),
		RegionFilter: stringParam(params, "region"),
	}
	if subject, body := stringParam(params, "subject"), stringParam(params, "body"); subject != "" || body != "" {
		req.Override = &domain.ContentOverride{Subject: subject, Body: body}
	}
	if name, addr := stringParam(params, "sender_name"), stringParam(params, "sender_email"); name != "" || addr != "" {
		req.Sender = &domain.SenderIdentity{Name: name, Address: addr}
	}

	results, err := r.campaigns.RunCampaign(ctx, req)
	if err != nil {
		return nil, err
	}
	return &OutreachCommandResult{MessagesSent: len(results), Details: results}, nil
}

// normalizeTargetType accepts the classifier's loose phrasing ("usa daycares",
// "instagram influencer") by keyword matching before giving up.
func normalizeTargetType(raw string) (domain.TargetKind, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(raw, "daycare"):
		return domain.TargetDaycare, nil
	case strings.Contains(raw, "influencer"):
		return domain.TargetInfluencer, nil
	}
	return "", fmt.Errorf("unsupported target_type: %q", raw)
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func intParam(params map[string]any, key string, fallback int) int {
	v, ok := params[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return fallback
}
