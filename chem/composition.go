package chem

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ParseComposition parses a symbolic composition specification of the form
// "CH4:0.5, O2:1, N2:3.76" into a name → amount map. Amounts must be
// non-negative and at least one must be positive. Whitespace around names,
// values and separators is ignored.
func ParseComposition(spec string) (map[string]float64, error) {
	comp := make(map[string]float64)
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, val, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("ParseComposition: entry %q is not NAME:value", field)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("ParseComposition: empty species name in %q", field)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("ParseComposition: bad amount for %s: %w", name, err)
		}
		if x < 0 {
			return nil, fmt.Errorf("ParseComposition: negative amount %g for %s", x, name)
		}
		if _, dup := comp[name]; dup {
			return nil, fmt.Errorf("ParseComposition: species %s listed twice", name)
		}
		comp[name] = x
	}
	total := 0.0
	for _, x := range comp {
		total += x
	}
	if total <= 0 {
		return nil, fmt.Errorf("ParseComposition: %q contains no positive amounts", spec)
	}
	return comp, nil
}

// MoleToMassFractions resolves a mole-amount map against a phase and writes
// the corresponding mass fractions into y, which must have length
// phase.NSpecies(). Species absent from the map get zero. A name the phase
// does not contain is an error, reported by name.
func MoleToMassFractions(comp map[string]float64, phase Phase, y []float64) error {
	if len(y) != phase.NSpecies() {
		return fmt.Errorf("MoleToMassFractions: buffer length %d, phase has %d species",
			len(y), phase.NSpecies())
	}
	for k := range y {
		y[k] = 0
	}
	for name, x := range comp {
		k := phase.SpeciesIndex(name)
		if k < 0 {
			return fmt.Errorf("MoleToMassFractions: species %s not in phase", name)
		}
		y[k] = x * phase.MolarMass(k)
	}
	sum := floats.Sum(y)
	if sum <= 0 {
		return fmt.Errorf("MoleToMassFractions: composition has zero total mass")
	}
	// divide element-wise so a pure composition is exactly 1
	for k := range y {
		y[k] /= sum
	}
	return nil
}

// MoleFractionsToMass converts a dense mole-fraction slice to mass fractions
// in place semantics: x and y may alias. Lengths must match the phase.
func MoleFractionsToMass(x []float64, phase Phase, y []float64) error {
	n := phase.NSpecies()
	if len(x) != n || len(y) != n {
		return fmt.Errorf("MoleFractionsToMass: lengths %d/%d, phase has %d species",
			len(x), len(y), n)
	}
	sum := 0.0
	for k := 0; k < n; k++ {
		y[k] = x[k] * phase.MolarMass(k)
		sum += y[k]
	}
	if sum <= 0 {
		return fmt.Errorf("MoleFractionsToMass: composition has zero total mass")
	}
	for k := 0; k < n; k++ {
		y[k] /= sum
	}
	return nil
}
