package domain

import (
	"context"
	"fmt"
	"time"
)

// LedgerEntry is one immutable outreach attempt record. The engine only ever
// inserts entries; opened_at and replied_at are filled in later by the
// tracking pipeline.
// swagger:model LedgerEntry
type LedgerEntry struct {
	ID         int64      `json:"id"`
	TargetKind TargetKind `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	Subject    string     `json:"email_subject"`
	Body       string     `json:"email_content"`
	Language   string     `json:"language"`
	SentAt     time.Time  `json:"sent_at"`
	OpenedAt   *time.Time `json:"opened_at,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
	Bounced    bool       `json:"bounced"`
}

// DeliveryStatus is the per-recipient outcome reported to callers.
type DeliveryStatus string

const (
	// StatusSuccess means the transport accepted the message.
	StatusSuccess DeliveryStatus = "success"
	// StatusFailed means delivery was attempted but the transport failed.
	StatusFailed DeliveryStatus = "failed"
	// StatusError means the attempt never reached the transport
	// (missing address, unresolvable content).
	StatusError DeliveryStatus = "error"
)

// DeliveryResult is one entry of a campaign's result list, in selection order.
// swagger:model DeliveryResult
type DeliveryResult struct {
	Target string         `json:"target"`
	Email  string         `json:"email"`
	Status DeliveryStatus `json:"status"`
	Sender string         `json:"sender"`
	Error  string         `json:"error,omitempty"`
}

// SenderIdentity is the display identity used in the From header. It never
// affects which account authenticates against the transport.
type SenderIdentity struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Display formats the identity for a From header.
func (s SenderIdentity) Display() string {
	if s.Name == "" {
		return s.Address
	}
	return fmt.Sprintf("%s <%s>", s.Name, s.Address)
}

// Merge overlays non-empty fields of other onto s.
func (s SenderIdentity) Merge(other *SenderIdentity) SenderIdentity {
	if other == nil {
		return s
	}
	merged := s
	if other.Name != "" {
		merged.Name = other.Name
	}
	if other.Address != "" {
		merged.Address = other.Address
	}
	return merged
}

// ContentOverride replaces the named-template lookup with operator-supplied
// subject and body text. Each part may itself contain template placeholders.
type ContentOverride struct {
	Subject string
	Body    string
}

// CampaignRequest is the input to one campaign run.
type CampaignRequest struct {
	Kind TargetKind
	// Count is the maximum number of recipients to attempt; fewer may be
	// eligible.
	Count int
	// RegionFilter applies only to daycares. "All Regions" and
	// "All Countries" (any case) mean no filter.
	RegionFilter string
	Override     *ContentOverride
	Sender       *SenderIdentity
}

// OutreachStore is the write side of the outreach loop. Implementations must
// persist the ledger entry and flip the recipient's eligibility in one
// transaction so the two can never diverge.
type OutreachStore interface {
	// RecordOutcome appends entry and sets the recipient's last_contacted
	// to entry.SentAt, provided the recipient is still unclaimed. Returns
	// ErrAlreadyContacted when a concurrent campaign claimed it first.
	RecordOutcome(ctx context.Context, entry *LedgerEntry) error
	// ListRecent returns the newest ledger entries for reporting,
	// optionally filtered by kind (empty means all).
	ListRecent(ctx context.Context, kind TargetKind, limit int) ([]*LedgerEntry, error)
}

// ContentResolver produces the (subject, body) pair for one recipient.
// Resolution is deterministic for a fixed recipient snapshot and inputs.
type ContentResolver interface {
	Resolve(recipient Recipient, language string, override *ContentOverride) (subject, body string, err error)
}

// TemplateRegistry renders a named template pair keyed by (kind, language).
// A missing pair is reported with ErrTemplateNotFound.
type TemplateRegistry interface {
	Render(kind TargetKind, language string, data map[string]string) (subject, body string, err error)
}

// CampaignService runs outreach campaigns.
type CampaignService interface {
	RunCampaign(ctx context.Context, req CampaignRequest) ([]DeliveryResult, error)
}

// SearchService exposes lead searches to callers such as the intent layer.
type SearchService interface {
	SearchDaycares(ctx context.Context, f DaycareFilter) ([]*Daycare, error)
	SearchInfluencers(ctx context.Context, f InfluencerFilter) ([]*Influencer, error)
}

// AuthService exchanges the operator key for a short-lived API token.
type AuthService interface {
	IssueToken(ctx context.Context, operatorKey string) (string, error)
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated operator.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}
