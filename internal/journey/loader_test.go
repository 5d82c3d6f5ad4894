package journey

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hearth/pkg/domain"
)

const samplePack = `
journeys:
  - tenant_id: 6ba7b810-9dad-11d1-80b4-00c04fd430c8
    name: Hot lead fast follow-up
    trigger: lead.created
    conditions:
      - field: source
        operator: equals
        value: zillow
      - field: priceBand
        operator: in
        value:
          - 750k-1m
          - 1m+
    actions:
      - type: assign
        params:
          team: senior_agents
      - type: send_message
        params:
          template: hot_lead_intro
  - id: 7c9e6679-7425-40de-944b-e07fc1f90ae7
    tenant_id: 6ba7b810-9dad-11d1-80b4-00c04fd430c8
    name: Tour follow-up task
    trigger: tour.kept
    actions:
      - type: create_task
        params:
          title: Call after tour
    is_active: false
`

func TestParsePack(t *testing.T) {
	definitions, err := ParsePack([]byte(samplePack))
	require.NoError(t, err)
	require.Len(t, definitions, 2)

	first := definitions[0]
	assert.NotEqual(t, id.JourneyID{}, first.ID, "missing id is minted")
	assert.Equal(t, TriggerLeadCreated, first.Trigger)
	require.Len(t, first.Conditions, 2)
	assert.False(t, first.Conditions[0].Value.IsList())
	assert.Equal(t, []string{"750k-1m", "1m+"}, first.Conditions[1].Value.AsList())
	require.Len(t, first.Actions, 2)
	assert.Equal(t, "senior_agents", first.Actions[0].Params["team"])
	assert.True(t, first.IsActive, "a pack entry omitting is_active is active")

	second := definitions[1]
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", second.ID.String())
	assert.False(t, second.IsActive)
}

func TestParsePack_SimulatesAfterLoad(t *testing.T) {
	definitions, err := ParsePack([]byte(samplePack))
	require.NoError(t, err)

	result := Simulate(definitions[0], SimulationInput{
		Trigger: TriggerLeadCreated,
		Context: map[string]string{"source": "zillow", "priceBand": "1m+"},
	})
	assert.True(t, result.Matched)
	assert.Len(t, result.Actions, 2)
}

func TestParsePack_RejectsInvalidEntry(t *testing.T) {
	const badPack = `
journeys:
  - tenant_id: 6ba7b810-9dad-11d1-80b4-00c04fd430c8
    name: Broken
    trigger: lead.deleted
    actions:
      - type: assign
    is_active: true
`
	_, err := ParsePack([]byte(badPack))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid trigger")
}

func TestParsePack_RejectsMalformedYAML(t *testing.T) {
	_, err := ParsePack([]byte("journeys: ["))
	assert.Error(t, err)
}

func TestLoadPackAndSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePack), 0o600))

	definitions, err := LoadPack(path)
	require.NoError(t, err)

	store := NewInMemoryStore()
	require.NoError(t, Seed(context.Background(), store, definitions))

	tenantID, err := id.ParseTenantID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	stored, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestLoadPack_MissingFile(t *testing.T) {
	_, err := LoadPack(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
