package journey

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	id "hearth/pkg/domain"
)

// pack is the on-disk shape of a journey pack file.
type pack struct {
	Journeys []Definition `yaml:"journeys"`
}

// LoadPack reads a YAML journey pack. Definitions without an id are minted
// one, so packs can be authored by hand; every definition is validated before
// the pack is accepted.
func LoadPack(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journey pack: %w", err)
	}
	return ParsePack(data)
}

// ParsePack parses journey pack bytes. Split from LoadPack for tests and for
// callers that ship packs over the wire.
func ParsePack(data []byte) ([]Definition, error) {
	var p pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse journey pack: %w", err)
	}

	for i := range p.Journeys {
		if p.Journeys[i].ID == (id.JourneyID{}) {
			p.Journeys[i].ID = id.NewJourneyID()
		}
		if err := p.Journeys[i].Validate(); err != nil {
			return nil, fmt.Errorf("journey pack entry %d (%s): %w", i, p.Journeys[i].Name, err)
		}
	}
	return p.Journeys, nil
}

// Seed writes every pack definition into the store. Used at startup to
// bootstrap a fresh environment with the tenant's standard automations.
func Seed(ctx context.Context, store Store, definitions []Definition) error {
	for _, definition := range definitions {
		if err := store.Save(ctx, definition); err != nil {
			return fmt.Errorf("seed journey %q: %w", definition.Name, err)
		}
	}
	return nil
}
