package anon

import (
	"encoding/json"
	"fmt"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

// Persisted mapping format: one record per anonymizable category carrying the
// forward mapping, the reverse mapping and the counter. The format must
// round-trip exactly, including the empty state.

type persistedCategory struct {
	Forward map[string]string `json:"forward"`
	Reverse map[string]string `json:"reverse"`
	Counter int               `json:"counter"`
}

type persistedState struct {
	Mappings map[string]persistedCategory `json:"mappings"`
}

// SaveMappingState serializes the state to its on-disk byte format.
func SaveMappingState(state *MappingState) ([]byte, error) {
	p := persistedState{Mappings: make(map[string]persistedCategory, len(AnonymizableCategories))}
	for _, c := range AnonymizableCategories {
		m := state.categories[c]
		p.Mappings[c.String()] = persistedCategory{
			Forward: m.forward,
			Reverse: m.reverse,
			Counter: m.counter,
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal mapping state: %w", err)
	}
	return data, nil
}

// LoadMappingState hydrates a MappingState from persisted bytes. Bytes that
// do not parse, name an unknown category, or violate the mapping invariants
// (counter == |forward|, forward and reverse exact inverses) are reported as
// ErrCorruptState so the caller can decide between aborting and knowingly
// starting over — never silently.
func LoadMappingState(data []byte) (*MappingState, error) {
	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal mapping state: %v: %w", err, ErrCorruptState)
	}

	state := NewMappingState()
	for name, pc := range p.Mappings {
		category, err := sqllex.ParseTokenCategory(name)
		if err != nil {
			return nil, fmt.Errorf("mapping state: %v: %w", err, ErrCorruptState)
		}
		m, ok := state.categories[category]
		if !ok {
			return nil, fmt.Errorf("mapping state: category %q is not anonymizable: %w", name, ErrCorruptState)
		}
		if err := validateCategory(name, pc); err != nil {
			return nil, err
		}
		if pc.Forward != nil {
			m.forward = pc.Forward
		}
		if pc.Reverse != nil {
			m.reverse = pc.Reverse
		}
		m.counter = pc.Counter
	}
	return state, nil
}

func validateCategory(name string, pc persistedCategory) error {
	if pc.Counter != len(pc.Forward) || len(pc.Forward) != len(pc.Reverse) {
		return fmt.Errorf("mapping state: category %q counter %d does not match %d mappings: %w",
			name, pc.Counter, len(pc.Forward), ErrCorruptState)
	}
	for original, placeholder := range pc.Forward {
		if back, ok := pc.Reverse[placeholder]; !ok || back != original {
			return fmt.Errorf("mapping state: category %q forward/reverse mismatch for %q: %w",
				name, placeholder, ErrCorruptState)
		}
	}
	return nil
}
