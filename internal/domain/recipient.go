package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for recipient and outreach operations.
var (
	ErrNoEmailAddress    = errors.New("recipient has no valid email address")
	ErrTemplateNotFound  = errors.New("no template registered")
	ErrAlreadyContacted  = errors.New("recipient already contacted")
	ErrInvalidCredential = errors.New("invalid operator key")
)

// TargetKind identifies which recipient table a campaign draws from.
type TargetKind string

const (
	TargetDaycare    TargetKind = "daycare"
	TargetInfluencer TargetKind = "influencer"
)

// ParseTargetKind normalizes and validates a target kind string.
func ParseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(strings.ToLower(strings.TrimSpace(s))) {
	case TargetDaycare:
		return TargetDaycare, nil
	case TargetInfluencer:
		return TargetInfluencer, nil
	}
	return "", fmt.Errorf("unsupported target kind: %q", s)
}

// Region is the market a daycare belongs to.
type Region string

const (
	RegionUSA    Region = "USA"
	RegionFrance Region = "FRANCE"
)

// Platform is the social platform an influencer publishes on.
type Platform string

const (
	PlatformYouTube   Platform = "YOUTUBE"
	PlatformInstagram Platform = "INSTAGRAM"
)

// Display returns the human-readable platform name used in email content.
func (p Platform) Display() string {
	switch p {
	case PlatformYouTube:
		return "YouTube"
	case PlatformInstagram:
		return "Instagram"
	}
	return string(p)
}

// Recipient is the capability set the campaign engine needs from a lead,
// regardless of kind. Kind-specific template fields are exposed through
// TemplateContext rather than attribute probing.
type Recipient interface {
	Kind() TargetKind
	RecipientID() int64
	DisplayName() string
	EmailAddress() string
	ContactedAt() *time.Time
	// LocaleKey is the attribute that determines the email language:
	// region for daycares, country for influencers.
	LocaleKey() string
	// TemplateContext returns the kind-specific template values.
	TemplateContext() map[string]string
}

// Daycare is a daycare lead populated by the acquisition pipeline.
// swagger:model Daycare
type Daycare struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address,omitempty"`
	City          string     `json:"city,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Website       string     `json:"website,omitempty"`
	Region        Region     `json:"region"`
	Source        string     `json:"source,omitempty"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
	EmailOpened   bool       `json:"email_opened"`
	EmailReplied  bool       `json:"email_replied"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (d *Daycare) Kind() TargetKind        { return TargetDaycare }
func (d *Daycare) RecipientID() int64      { return d.ID }
func (d *Daycare) DisplayName() string     { return d.Name }
func (d *Daycare) EmailAddress() string    { return d.Email }
func (d *Daycare) ContactedAt() *time.Time { return d.LastContacted }
func (d *Daycare) LocaleKey() string       { return string(d.Region) }

func (d *Daycare) TemplateContext() map[string]string {
	return map[string]string{
		"city":   valueOr(d.City, "your city"),
		"region": valueOr(string(d.Region), "your region"),
	}
}

// Influencer is a social media lead populated by the acquisition pipeline.
// swagger:model Influencer
type Influencer struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Platform       Platform   `json:"platform"`
	FollowerCount  int        `json:"follower_count"`
	Country        string     `json:"country,omitempty"`
	Email          string     `json:"email,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	ContactPage    string     `json:"contact_page,omitempty"`
	Niche          string     `json:"niche,omitempty"`
	EngagementRate float64    `json:"engagement_rate,omitempty"`
	LastContacted  *time.Time `json:"last_contacted,omitempty"`
	EmailOpened    bool       `json:"email_opened"`
	EmailReplied   bool       `json:"email_replied"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (i *Influencer) Kind() TargetKind        { return TargetInfluencer }
func (i *Influencer) RecipientID() int64      { return i.ID }
func (i *Influencer) DisplayName() string     { return i.Name }
func (i *Influencer) EmailAddress() string    { return i.Email }
func (i *Influencer) ContactedAt() *time.Time { return i.LastContacted }
func (i *Influencer) LocaleKey() string       { return i.Country }

func (i *Influencer) TemplateContext() map[string]string {
	platform := "your platform"
	if i.Platform != "" {
		platform = i.Platform.Display()
	}
	return map[string]string{
		"platform": platform,
		"niche":    valueOr(i.Niche, "your niche"),
	}
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// DaycareFilter narrows daycare searches.
type DaycareFilter struct {
	City  string
	Limit int
}

// InfluencerFilter narrows influencer searches.
type InfluencerFilter struct {
	Country      string
	MinFollowers int
	Limit        int
}

// RecipientRepository is the read side of the lead store.
type RecipientRepository interface {
	// SelectEligible returns up to limit never-contacted recipients of the
	// given kind in random order. region applies only to daycares; empty
	// means no filter.
	SelectEligible(ctx context.Context, kind TargetKind, region string, limit int) ([]Recipient, error)
	SearchDaycares(ctx context.Context, f DaycareFilter) ([]*Daycare, error)
	SearchInfluencers(ctx context.Context, f InfluencerFilter) ([]*Influencer, error)
}
