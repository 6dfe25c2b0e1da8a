package onedim

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// domainState is the persisted form of a boundary domain. Vector-valued state
// is keyed by species name so a restored run survives species reordering.
type domainState struct {
	Type         string             `yaml:"type"`
	Name         string             `yaml:"name,omitempty"`
	Temperature  float64            `yaml:"temperature,omitempty"`
	MassFlowRate float64            `yaml:"massFlowRate,omitempty"`
	SpreadRate   float64            `yaml:"spreadRate,omitempty"`
	Composition  map[string]float64 `yaml:"composition,omitempty"`
	Coverages    map[string]float64 `yaml:"coverages,omitempty"`
}

// encodeState writes st into node as a yaml mapping
func encodeState(node *yaml.Node, st domainState) error {
	if err := node.Encode(st); err != nil {
		return fmt.Errorf("save %s: %w", st.Name, err)
	}
	return nil
}

// decodeState reads a persisted mapping and checks its type tag against the
// restoring domain's kind; restoring an outlet from an inlet record is a
// configuration error, not a silent partial restore.
func decodeState(node *yaml.Node, d Domain) (domainState, error) {
	var st domainState
	if err := node.Decode(&st); err != nil {
		return st, fmt.Errorf("restore %s: %w", d.Name(), err)
	}
	if st.Type != d.Kind().String() {
		return st, configErr(d.Name(), "Restore",
			"state has type %q, domain is %q", st.Type, d.Kind())
	}
	return st, nil
}

// namesOf maps a dense species-indexed vector to a name-keyed map, dropping
// exact zeros to keep persisted documents readable.
func namesOf(vals []float64, name func(int) string) map[string]float64 {
	m := make(map[string]float64, len(vals))
	for k, v := range vals {
		if v != 0 {
			m[name(k)] = v
		}
	}
	return m
}
