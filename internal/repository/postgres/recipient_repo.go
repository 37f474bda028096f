package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"outreachengine/internal/domain"
)

type recipientRepository struct {
	DB *sql.DB
}

// NewRecipientRepository returns a RecipientRepository backed by the daycares
// and influencers tables.
func NewRecipientRepository(db *sql.DB) domain.RecipientRepository {
	return &recipientRepository{DB: db}
}

const daycareColumns = `id, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(email, ''),
		COALESCE(phone, ''), COALESCE(website, ''), region, COALESCE(source, ''),
		last_contacted, email_opened, email_replied, created_at, updated_at`

const influencerColumns = `id, name, platform, COALESCE(follower_count, 0), COALESCE(country, ''),
		COALESCE(email, ''), COALESCE(bio, ''), COALESCE(contact_page, ''), COALESCE(niche, ''),
		COALESCE(engagement_rate, 0), last_contacted, email_opened, email_replied, created_at, updated_at`

func (r *recipientRepository) SelectEligible(ctx context.Context, kind domain.TargetKind, region string, limit int) ([]domain.Recipient, error) {
	switch kind {
	case domain.TargetDaycare:
		return r.eligibleDaycares(ctx, region, limit)
	case domain.TargetInfluencer:
		return r.eligibleInfluencers(ctx, limit)
	}
	return nil, fmt.Errorf("unsupported target kind: %q", kind)
}

func (r *recipientRepository) eligibleDaycares(ctx context.Context, region string, limit int) ([]domain.Recipient, error) {
	query := `
		SELECT ` + daycareColumns + `
		FROM daycares
		WHERE last_contacted IS NULL
	`
	args := []any{}
	if region != "" {
		query += ` AND upper(region) = upper($1)`
		args = append(args, region)
	}
	query += fmt.Sprintf(` ORDER BY random() LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		d, err := scanDaycare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *recipientRepository) eligibleInfluencers(ctx context.Context, limit int) ([]domain.Recipient, error) {
	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE last_contacted IS NULL
		ORDER BY random()
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Recipient
	for rows.Next() {
		i, err := scanInfluencer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *recipientRepository) SearchDaycares(ctx context.Context, f domain.DaycareFilter) ([]*domain.Daycare, error) {
	query := `
		SELECT ` + daycareColumns + `
		FROM daycares
	`
	args := []any{}
	if f.City != "" {
		query += ` WHERE lower(city) = lower($1)`
		args = append(args, f.City)
	}
	query += fmt.Sprintf(` ORDER BY name LIMIT $%d`, len(args)+1)
	args = append(args, f.Limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Daycare
	for rows.Next() {
		d, err := scanDaycare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *recipientRepository) SearchInfluencers(ctx context.Context, f domain.InfluencerFilter) ([]*domain.Influencer, error) {
	query := `
		SELECT ` + influencerColumns + `
		FROM influencers
		WHERE 1=1
	`
	args := []any{}
	if f.Country != "" {
		args = append(args, f.Country)
		query += fmt.Sprintf(` AND lower(country) = lower($%d)`, len(args))
	}
	if f.MinFollowers > 0 {
		args = append(args, f.MinFollowers)
		query += fmt.Sprintf(` AND follower_count >= $%d`, len(args))
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(` ORDER BY follower_count DESC LIMIT $%d`, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Influencer
	for rows.Next() {
		i, err := scanInfluencer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func scanDaycare(rows *sql.Rows) (*domain.Daycare, error) {
	d := &domain.Daycare{}
	var lastContacted sql.NullTime
	err := rows.Scan(&d.ID, &d.Name, &d.Address, &d.City, &d.Email, &d.Phone, &d.Website,
		&d.Region, &d.Source, &lastContacted, &d.EmailOpened, &d.EmailReplied, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastContacted.Valid {
		d.LastContacted = &lastContacted.Time
	}
	return d, nil
}

func scanInfluencer(rows *sql.Rows) (*domain.Influencer, error) {
	i := &domain.Influencer{}
	var lastContacted sql.NullTime
	err := rows.Scan(&i.ID, &i.Name, &i.Platform, &i.FollowerCount, &i.Country, &i.Email,
		&i.Bio, &i.ContactPage, &i.Niche, &i.EngagementRate, &lastContacted,
		&i.EmailOpened, &i.EmailReplied, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastContacted.Valid {
		i.LastContacted = &lastContacted.Time
	}
	return i, nil
}
