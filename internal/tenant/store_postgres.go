package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "hearth/pkg/domain"
)

// PostgresStore persists tenant settings in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed settings store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID) (Settings, error) {
	const query = `
		SELECT tenant_id, quiet_hours_start, quiet_hours_end, ten_dlc_ready, updated_at
		FROM tenant_settings
		WHERE tenant_id = $1`

	var settings Settings
	var rawTenantID string
	err := s.db.QueryRowContext(ctx, query, tenantID.String()).Scan(
		&rawTenantID,
		&settings.QuietHoursStart,
		&settings.QuietHoursEnd,
		&settings.TenDLCReady,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, fmt.Errorf("get tenant settings: %w", err)
	}

	parsed, err := uuid.Parse(rawTenantID)
	if err != nil {
		return Settings{}, fmt.Errorf("parse stored tenant id: %w", err)
	}
	settings.TenantID = id.TenantID(parsed)
	return settings, nil
}

func (s *PostgresStore) Save(ctx context.Context, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO tenant_settings (tenant_id, quiet_hours_start, quiet_hours_end, ten_dlc_ready, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id) DO UPDATE SET
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			ten_dlc_ready = EXCLUDED.ten_dlc_ready,
			updated_at = NOW()`

	_, err := s.db.ExecContext(ctx, query,
		settings.TenantID.String(),
		settings.QuietHoursStart,
		settings.QuietHoursEnd,
		settings.TenDLCReady,
	)
	if err != nil {
		return fmt.Errorf("save tenant settings: %w", err)
	}
	return nil
}
