package publishing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "hearth/pkg/domain"
)

// PostgresStore persists MLS profiles and marketing start records in
// PostgreSQL. It implements both ProfileStore and MarketingStore.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed publishing store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, profile MLSProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO mls_profiles
			(tenant_id, name, disclaimer_text, compensation_display_rule, clear_cooperation_required, sla_hours, last_reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, name) DO UPDATE SET
			disclaimer_text            = EXCLUDED.disclaimer_text,
			compensation_display_rule  = EXCLUDED.compensation_display_rule,
			clear_cooperation_required = EXCLUDED.clear_cooperation_required,
			sla_hours                  = EXCLUDED.sla_hours,
			last_reviewed_at           = EXCLUDED.last_reviewed_at`

	_, err := s.db.ExecContext(ctx, query,
		profile.TenantID.String(),
		profile.Name,
		profile.DisclaimerText,
		string(profile.CompensationDisplayRule),
		profile.ClearCooperationRequired,
		profile.SLAHours,
		profile.LastReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("save mls profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, name string) (MLSProfile, error) {
	const query = `
		SELECT disclaimer_text, compensation_display_rule, clear_cooperation_required, sla_hours, last_reviewed_at
		FROM mls_profiles
		WHERE tenant_id = $1 AND name = $2`

	profile := MLSProfile{TenantID: tenantID, Name: name}
	var lastReviewed sql.NullTime
	err := s.db.QueryRowContext(ctx, query, tenantID.String(), name).Scan(
		&profile.DisclaimerText,
		&profile.CompensationDisplayRule,
		&profile.ClearCooperationRequired,
		&profile.SLAHours,
		&lastReviewed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return MLSProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return MLSProfile{}, fmt.Errorf("get mls profile: %w", err)
	}
	if lastReviewed.Valid {
		reviewed := lastReviewed.Time
		profile.LastReviewedAt = &reviewed
	}
	return profile, nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]MLSProfile, error) {
	const query = `
		SELECT name, disclaimer_text, compensation_display_rule, clear_cooperation_required, sla_hours, last_reviewed_at
		FROM mls_profiles
		WHERE tenant_id = $1
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("list mls profiles: %w", err)
	}
	defer rows.Close()

	var profiles []MLSProfile
	for rows.Next() {
		profile := MLSProfile{TenantID: tenantID}
		var lastReviewed sql.NullTime
		if err := rows.Scan(
			&profile.Name,
			&profile.DisclaimerText,
			&profile.CompensationDisplayRule,
			&profile.ClearCooperationRequired,
			&profile.SLAHours,
			&lastReviewed,
		); err != nil {
			return nil, fmt.Errorf("scan mls profile: %w", err)
		}
		if lastReviewed.Valid {
			reviewed := lastReviewed.Time
			profile.LastReviewedAt = &reviewed
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mls profiles: %w", err)
	}
	return profiles, nil
}

// RecordStart inserts the marketing start once; later writes for the same
// listing are ignored so re-announcing marketing never resets the clock.
func (s *PostgresStore) RecordStart(ctx context.Context, record MarketingRecord) error {
	const query = `
		INSERT INTO listing_marketing (listing_id, tenant_id, started_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (listing_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		record.ListingID.String(),
		record.TenantID.String(),
		record.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("record marketing start: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetStart(ctx context.Context, listingID id.ListingID) (MarketingRecord, error) {
	const query = `
		SELECT tenant_id, started_at
		FROM listing_marketing
		WHERE listing_id = $1`

	record := MarketingRecord{ListingID: listingID}
	var tenantRaw string
	err := s.db.QueryRowContext(ctx, query, listingID.String()).Scan(&tenantRaw, &record.StartedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return MarketingRecord{}, ErrMarketingNotFound
	}
	if err != nil {
		return MarketingRecord{}, fmt.Errorf("get marketing start: %w", err)
	}
	tenantID, err := id.ParseTenantID(tenantRaw)
	if err != nil {
		return MarketingRecord{}, fmt.Errorf("get marketing start: %w", err)
	}
	record.TenantID = tenantID
	return record, nil
}
