package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"outreachengine/internal/domain"
)

// languageFor picks the email language from the recipient's locale key:
// FRANCE gets French, everything else English.
func languageFor(localeKey string) string {
	if strings.EqualFold(strings.TrimSpace(localeKey), string(domain.RegionFrance)) {
		return "fr"
	}
	return "en"
}

// normalizeRegionFilter trims the filter and maps the UI sentinel values
// ("All Regions", "All Countries") to no filter.
func normalizeRegionFilter(filter string) string {
	filter = strings.TrimSpace(filter)
	if strings.EqualFold(filter, "all regions") || strings.EqualFold(filter, "all countries") {
		return ""
	}
	return filter
}

type campaignService struct {
	recipients domain.RecipientRepository
	store      domain.OutreachStore
	dialer     domain.ChannelDialer
	resolver   domain.ContentResolver
	sender     domain.SenderIdentity
	logger     *slog.Logger
	now        func() time.Time
}

// NewCampaignService returns the campaign engine. sender is the default
// outbound display identity; per-campaign overrides change the From header
// only, never the authenticated transport identity.
func NewCampaignService(
	recipients domain.RecipientRepository,
	store domain.OutreachStore,
	dialer domain.ChannelDialer,
	resolver domain.ContentResolver,
	sender domain.SenderIdentity,
	logger *slog.Logger,
) domain.CampaignService {
	return &campaignService{
		recipients: recipients,
		store:      store,
		dialer:     dialer,
		resolver:   resolver,
		sender:     sender,
		logger:     logger,
		now:        time.Now,
	}
}

// RunCampaign selects up to req.Count eligible recipients, resolves content
// for each, drives delivery sequentially, and records every attempt.
// A per-recipient failure never aborts the batch; an authentication failure
// always does, since every later attempt would fail identically.
func (s *campaignService) RunCampaign(ctx context.Context, req domain.CampaignRequest) ([]domain.DeliveryResult, error) {
	if req.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", req.Count)
	}
	if req.Kind != domain.TargetDaycare && req.Kind != domain.TargetInfluencer {
		return nil, fmt.Errorf("unsupported target kind: %q", req.Kind)
	}

	region := ""
	if req.Kind == domain.TargetDaycare {
		region = normalizeRegionFilter(req.RegionFilter)
	}

	targets, err := s.recipients.SelectEligible(ctx, req.Kind, region, req.Count)
	if err != nil {
		return nil, fmt.Errorf("select eligible %s targets: %w", req.Kind, err)
	}

	channel, err := s.dialer.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open delivery channel: %w", err)
	}
	defer channel.Close()

	sender := s.sender.Merge(req.Sender)

	results := make([]domain.DeliveryResult, 0, len(targets))
	for _, target := range targets {
		result, fatal := s.attempt(ctx, channel, target, req.Override, sender)
		results = append(results, result)
		if fatal {
			s.logger.WarnContext(ctx, "authentication failed, aborting remaining batch",
				"kind", req.Kind, "attempted", len(results), "selected", len(targets))
			break
		}
	}

	s.logger.InfoContext(ctx, "campaign finished",
		"kind", req.Kind, "selected", len(targets), "attempted", len(results))
	return results, nil
}

// attempt runs the resolve→deliver→record sequence for one recipient and
// reports whether the failure was fatal for the batch.
func (s *campaignService) attempt(
	ctx context.Context,
	channel domain.Channel,
	target domain.Recipient,
	override *domain.ContentOverride,
	sender domain.SenderIdentity,
) (domain.DeliveryResult, bool) {
	result := domain.DeliveryResult{
		Target: target.DisplayName(),
		Email:  target.EmailAddress(),
		Sender: sender.Display(),
	}

	address := strings.TrimSpace(target.EmailAddress())
	if address == "" {
		// No ledger write and no claim: the recipient must stay eligible
		// until the missing address is corrected.
		result.Status = domain.StatusError
		result.Error = domain.ErrNoEmailAddress.Error()
		s.logger.ErrorContext(ctx, "skipping recipient without email",
			"kind", target.Kind(), "target", target.DisplayName())
		return result, false
	}

	language := languageFor(target.LocaleKey())
	subject, body, err := s.resolver.Resolve(target, language, override)
	if err != nil {
		result.Status = domain.StatusError
		result.Error = err.Error()
		s.logger.ErrorContext(ctx, "content resolution failed",
			"kind", target.Kind(), "target", target.DisplayName(), "err", err)
		return result, false
	}

	sendErr := channel.Send(ctx, &domain.Message{
		To:      address,
		Subject: subject,
		Body:    body,
		Sender:  sender,
	})
	if sendErr == nil {
		s.record(ctx, target, subject, body, language, false)
		result.Status = domain.StatusSuccess
		return result, false
	}

	derr, ok := domain.AsDeliveryError(sendErr)
	if !ok {
		derr = &domain.DeliveryError{Kind: domain.FailureTransport, Err: sendErr}
	}
	result.Status = domain.StatusFailed
	result.Error = derr.Tag()

	if derr.Fatal() {
		// Authentication failures are the operator's problem, not the
		// recipient's: no ledger entry, no claim, and the batch stops.
		s.logger.ErrorContext(ctx, "transport authentication failed", "err", derr.Err)
		return result, true
	}

	// Transient transport failure: record a bounced entry with the failure
	// tag embedded for audit, and claim the recipient so a flaky network
	// cannot cause an immediate retry storm.
	s.logger.ErrorContext(ctx, "delivery failed",
		"kind", target.Kind(), "target", target.DisplayName(), "failure", derr.Tag())
	annotated := body + "\n\n[delivery failed: " + derr.Tag() + "]"
	s.record(ctx, target, subject, annotated, language, true)
	return result, false
}

// record persists the attempt and flips eligibility in one transaction.
// Store failures are logged, not surfaced: the delivery outcome already
// happened and the result list must reflect it.
func (s *campaignService) record(ctx context.Context, target domain.Recipient, subject, body, language string, bounced bool) {
	entry := &domain.LedgerEntry{
		TargetKind: target.Kind(),
		TargetID:   target.RecipientID(),
		Subject:    subject,
		Body:       body,
		Language:   language,
		SentAt:     s.now().UTC(),
		Bounced:    bounced,
	}
	if err := s.store.RecordOutcome(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to record outreach attempt",
			"kind", target.Kind(), "target_id", target.RecipientID(), "err", err)
	}
}
