package consent

import (
	"context"
	"database/sql"
	"fmt"

	id "hearth/pkg/domain"
)

// PostgresStore persists consent evidence in PostgreSQL. Records are insert
// only; there is no UPDATE path by design.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed consent store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	const query = `
		INSERT INTO consent_records
			(contact_id, channel, scope, status, verbatim_text, captured_at, revoked_at, source, evidence_uri)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))`

	_, err := s.db.ExecContext(ctx, query,
		record.ContactID.String(),
		string(record.Channel),
		string(record.Scope),
		string(record.Status),
		record.VerbatimText,
		record.CapturedAt,
		record.RevokedAt,
		record.Source,
		record.EvidenceURI,
	)
	if err != nil {
		return fmt.Errorf("append consent record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByContact(ctx context.Context, contactID id.ContactID) ([]Record, error) {
	const query = `
		SELECT channel, scope, status, verbatim_text, captured_at, revoked_at, source, COALESCE(evidence_uri, '')
		FROM consent_records
		WHERE contact_id = $1
		ORDER BY captured_at ASC`

	rows, err := s.db.QueryContext(ctx, query, contactID.String())
	if err != nil {
		return nil, fmt.Errorf("list consent records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record := Record{ContactID: contactID}
		var revokedAt sql.NullTime
		if err := rows.Scan(
			&record.Channel,
			&record.Scope,
			&record.Status,
			&record.VerbatimText,
			&record.CapturedAt,
			&revokedAt,
			&record.Source,
			&record.EvidenceURI,
		); err != nil {
			return nil, fmt.Errorf("scan consent record: %w", err)
		}
		if revokedAt.Valid {
			revoked := revokedAt.Time
			record.RevokedAt = &revoked
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consent records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) SetGlobalStop(ctx context.Context, contactID id.ContactID, channel id.Channel) error {
	const query = `
		INSERT INTO channel_stops (contact_id, channel, stopped_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (contact_id, channel) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, contactID.String(), string(channel))
	if err != nil {
		return fmt.Errorf("set global stop: %w", err)
	}
	return nil
}

func (s *PostgresStore) HasGlobalStop(ctx context.Context, contactID id.ContactID, channel id.Channel) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM channel_stops WHERE contact_id = $1 AND channel = $2
		)`

	var stopped bool
	if err := s.db.QueryRowContext(ctx, query, contactID.String(), string(channel)).Scan(&stopped); err != nil {
		return false, fmt.Errorf("check global stop: %w", err)
	}
	return stopped, nil
}
