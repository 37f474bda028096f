package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"outreachengine/internal/domain"
)

type outreachStore struct {
	DB *sql.DB
}

// NewOutreachStore returns an OutreachStore backed by the outreach_history
// table plus the recipient tables for the eligibility claim.
func NewOutreachStore(db *sql.DB) domain.OutreachStore {
	return &outreachStore{DB: db}
}

// recipientTable maps a target kind to its table name. Kinds are validated
// here so the table name is never interpolated from caller input.
func recipientTable(kind domain.TargetKind) (string, error) {
	switch kind {
	case domain.TargetDaycare:
		return "daycares", nil
	case domain.TargetInfluencer:
		return "influencers", nil
	}
	return "", fmt.Errorf("unsupported target kind: %q", kind)
}

func (s *outreachStore) RecordOutcome(ctx context.Context, entry *domain.LedgerEntry) error {
	table, err := recipientTable(entry.TargetKind)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record outcome: %w", err)
	}
	defer tx.Rollback()

	// Conditional claim: flips eligibility only if no concurrent campaign
	// got there first, keeping the ledger and recipient state in lockstep.
	claim := fmt.Sprintf(`
		UPDATE %s
		SET last_contacted = $1, updated_at = $1
		WHERE id = $2 AND last_contacted IS NULL
	`, table)
	res, err := tx.ExecContext(ctx, claim, entry.SentAt, entry.TargetID)
	if err != nil {
		return fmt.Errorf("claim recipient: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim recipient: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %d", domain.ErrAlreadyContacted, entry.TargetKind, entry.TargetID)
	}

	insert := `
		INSERT INTO outreach_history (target_type, target_id, email_subject, email_content, language, sent_at, bounced)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, insert,
		entry.TargetKind, entry.TargetID, entry.Subject, entry.Body,
		entry.Language, entry.SentAt, entry.Bounced,
	).Scan(&entry.ID); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record outcome: %w", err)
	}
	return nil
}

func (s *outreachStore) ListRecent(ctx context.Context, kind domain.TargetKind, limit int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, target_type, target_id, email_subject, email_content, language,
			sent_at, opened_at, replied_at, bounced
		FROM outreach_history
	`
	args := []any{}
	if kind != "" {
		query += ` WHERE target_type = $1`
		args = append(args, kind)
	}
	query += fmt.Sprintf(` ORDER BY sent_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.LedgerEntry
	for rows.Next() {
		e := &domain.LedgerEntry{}
		var opened, replied sql.NullTime
		if err := rows.Scan(&e.ID, &e.TargetKind, &e.TargetID, &e.Subject, &e.Body,
			&e.Language, &e.SentAt, &opened, &replied, &e.Bounced); err != nil {
			return nil, err
		}
		if opened.Valid {
			e.OpenedAt = &opened.Time
		}
		if replied.Valid {
			e.RepliedAt = &replied.Time
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
