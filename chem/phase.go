// Package chem defines the thermodynamic and kinetic collaborator contracts
// consumed by the one-dimensional boundary domains, together with a minimal
// ideal surface phase used for coverage bookkeeping.
package chem

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Phase is the minimal species-indexed view of a thermodynamic phase.
type Phase interface {
	// NSpecies returns the number of species in the phase
	NSpecies() int

	// SpeciesName returns the name of species k
	SpeciesName(k int) string

	// SpeciesIndex returns the index of the named species, or -1 if the
	// phase does not contain it
	SpeciesIndex(name string) int

	// MolarMass returns the molar mass of species k [kg/kmol]
	MolarMass(k int) float64
}

// SurfPhase is a phase of adsorbed surface species. Coverages are site
// fractions: non-negative and summing to one.
type SurfPhase interface {
	Phase

	// SiteDensity returns the density of surface sites [kmol/m^2]
	SiteDensity() float64

	// SiteSize returns the number of sites occupied by one molecule of
	// species k
	SiteSize(k int) float64

	// GetCoverages writes the current site fractions into theta,
	// which must have length NSpecies()
	GetCoverages(theta []float64)

	// SetCoverages overwrites the site fractions from theta, normalizing
	// so they sum to one
	SetCoverages(theta []float64)
}

// InterfaceKinetics evaluates heterogeneous reaction rates on a surface
// phase. Implementations are stateful: SyncCoverages sets the evaluator's
// internal surface state before rate queries, so two boundaries must not
// share one evaluator within a single residual pass.
type InterfaceKinetics interface {
	// SurfacePhase returns the surface phase governed by this evaluator
	SurfacePhase() SurfPhase

	// SyncCoverages pushes a trial coverage vector into the evaluator's
	// surface phase ahead of a rate query
	SyncCoverages(theta []float64)

	// NetProductionRates writes the net production rate of each surface
	// species [kmol/m^2/s] into sdot, length SurfacePhase().NSpecies()
	NetProductionRates(sdot []float64)
}

// IdealSurface is a concrete SurfPhase backed by plain slices. It carries no
// thermodynamics beyond site bookkeeping, which is all the boundary layer
// needs of its surface collaborator.
type IdealSurface struct {
	names   []string
	molar   []float64 // molar masses [kg/kmol]
	sizes   []float64 // sites occupied per molecule
	density float64   // site density [kmol/m^2]
	theta   []float64 // current site fractions
}

// NewIdealSurface creates a surface phase with the given species names and
// site density. Molar masses and site sizes default to 1 and may be
// overridden with SetMolarMasses / SetSiteSizes.
func NewIdealSurface(names []string, siteDensity float64) *IdealSurface {
	n := len(names)
	s := &IdealSurface{
		names:   append([]string(nil), names...),
		molar:   make([]float64, n),
		sizes:   make([]float64, n),
		density: siteDensity,
		theta:   make([]float64, n),
	}
	for k := 0; k < n; k++ {
		s.molar[k] = 1.0
		s.sizes[k] = 1.0
	}
	if n > 0 {
		s.theta[0] = 1.0 // all sites open on species 0 until told otherwise
	}
	return s
}

func (s *IdealSurface) NSpecies() int { return len(s.names) }
func (s *IdealSurface) SpeciesName(k int) string { return s.names[k] }
func (s *IdealSurface) MolarMass(k int) float64 { return s.molar[k] }
func (s *IdealSurface) SiteDensity() float64 { return s.density }
func (s *IdealSurface) SiteSize(k int) float64 { return s.sizes[k] }

func (s *IdealSurface) SpeciesIndex(name string) int {
	for k, n := range s.names {
		if n == name {
			return k
		}
	}
	return -1
}

// SetMolarMasses overrides the per-species molar masses [kg/kmol].
func (s *IdealSurface) SetMolarMasses(m []float64) error {
	if len(m) != len(s.names) {
		return fmt.Errorf("SetMolarMasses: got %d values for %d species", len(m), len(s.names))
	}
	copy(s.molar, m)
	return nil
}

// SetSiteSizes overrides the sites occupied per molecule of each species.
func (s *IdealSurface) SetSiteSizes(sz []float64) error {
	if len(sz) != len(s.names) {
		return fmt.Errorf("SetSiteSizes: got %d values for %d species", len(sz), len(s.names))
	}
	copy(s.sizes, sz)
	return nil
}

func (s *IdealSurface) GetCoverages(theta []float64) {
	copy(theta, s.theta)
}

// SetCoverages normalizes theta to unit sum before storing. A zero-sum input
// leaves the stored coverages untouched.
func (s *IdealSurface) SetCoverages(theta []float64) {
	sum := floats.Sum(theta)
	if sum == 0 {
		return
	}
	for k := range s.theta {
		s.theta[k] = theta[k] / sum
	}
}
