package journey

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	id "hearth/pkg/domain"
)

// PostgresStore persists journey definitions in PostgreSQL. Conditions and
// actions live in JSONB columns: their shape is owned by this package and the
// database never queries inside them.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed journey store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, definition Definition) error {
	if err := definition.Validate(); err != nil {
		return err
	}

	conditions, err := json.Marshal(definition.Conditions)
	if err != nil {
		return fmt.Errorf("marshal journey conditions: %w", err)
	}
	actions, err := json.Marshal(definition.Actions)
	if err != nil {
		return fmt.Errorf("marshal journey actions: %w", err)
	}

	const query = `
		INSERT INTO journeys (id, tenant_id, name, trigger, conditions, actions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name       = EXCLUDED.name,
			trigger    = EXCLUDED.trigger,
			conditions = EXCLUDED.conditions,
			actions    = EXCLUDED.actions,
			is_active  = EXCLUDED.is_active`

	_, err = s.db.ExecContext(ctx, query,
		definition.ID.String(),
		definition.TenantID.String(),
		definition.Name,
		string(definition.Trigger),
		conditions,
		actions,
		definition.IsActive,
	)
	if err != nil {
		return fmt.Errorf("save journey: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, journeyID id.JourneyID) (Definition, error) {
	const query = `
		SELECT tenant_id, name, trigger, conditions, actions, is_active
		FROM journeys
		WHERE id = $1`

	return s.scanOne(s.db.QueryRowContext(ctx, query, journeyID.String()), journeyID)
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Definition, error) {
	const query = `
		SELECT id, tenant_id, name, trigger, conditions, actions, is_active
		FROM journeys
		WHERE tenant_id = $1
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	defer rows.Close()

	var definitions []Definition
	for rows.Next() {
		var (
			definition Definition
			idRaw      string
			tenantRaw  string
			conditions []byte
			actions    []byte
		)
		if err := rows.Scan(&idRaw, &tenantRaw, &definition.Name, &definition.Trigger, &conditions, &actions, &definition.IsActive); err != nil {
			return nil, fmt.Errorf("scan journey: %w", err)
		}
		if err := hydrate(&definition, idRaw, tenantRaw, conditions, actions); err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journeys: %w", err)
	}
	return definitions, nil
}

func (s *PostgresStore) scanOne(row *sql.Row, journeyID id.JourneyID) (Definition, error) {
	var (
		definition Definition
		tenantRaw  string
		conditions []byte
		actions    []byte
	)
	err := row.Scan(&tenantRaw, &definition.Name, &definition.Trigger, &conditions, &actions, &definition.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return Definition{}, ErrNotFound
	}
	if err != nil {
		return Definition{}, fmt.Errorf("get journey: %w", err)
	}
	if err := hydrate(&definition, journeyID.String(), tenantRaw, conditions, actions); err != nil {
		return Definition{}, err
	}
	return definition, nil
}

func hydrate(definition *Definition, idRaw, tenantRaw string, conditions, actions []byte) error {
	journeyID, err := id.ParseJourneyID(idRaw)
	if err != nil {
		return fmt.Errorf("hydrate journey id: %w", err)
	}
	tenantID, err := id.ParseTenantID(tenantRaw)
	if err != nil {
		return fmt.Errorf("hydrate journey tenant: %w", err)
	}
	definition.ID = journeyID
	definition.TenantID = tenantID

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &definition.Conditions); err != nil {
			return fmt.Errorf("unmarshal journey conditions: %w", err)
		}
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &definition.Actions); err != nil {
			return fmt.Errorf("unmarshal journey actions: %w", err)
		}
	}
	return nil
}
