package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdealSurface(t *testing.T) {
	ph := NewIdealSurface([]string{"PT(S)", "H(S)"}, 2.7e-8)
	assert.Equal(t, 2, ph.NSpecies())
	assert.Equal(t, "H(S)", ph.SpeciesName(1))
	assert.Equal(t, 1, ph.SpeciesIndex("H(S)"))
	assert.Equal(t, -1, ph.SpeciesIndex("O(S)"))
	assert.Equal(t, 2.7e-8, ph.SiteDensity())

	// default coverages put every site on species 0
	theta := make([]float64, 2)
	ph.GetCoverages(theta)
	assert.Equal(t, []float64{1, 0}, theta)
}

func TestIdealSurfaceCoverageNormalization(t *testing.T) {
	ph := NewIdealSurface([]string{"A", "B"}, 1.0)
	ph.SetCoverages([]float64{3, 1})

	theta := make([]float64, 2)
	ph.GetCoverages(theta)
	assert.InDelta(t, 0.75, theta[0], 1e-15)
	assert.InDelta(t, 0.25, theta[1], 1e-15)

	// a zero-sum input is ignored rather than dividing by zero
	ph.SetCoverages([]float64{0, 0})
	ph.GetCoverages(theta)
	assert.InDelta(t, 0.75, theta[0], 1e-15)
}

func TestIdealSurfaceOverrides(t *testing.T) {
	ph := NewIdealSurface([]string{"A", "B"}, 1.0)
	require.NoError(t, ph.SetMolarMasses([]float64{12, 16}))
	require.NoError(t, ph.SetSiteSizes([]float64{1, 2}))
	assert.Equal(t, 16.0, ph.MolarMass(1))
	assert.Equal(t, 2.0, ph.SiteSize(1))

	assert.Error(t, ph.SetMolarMasses([]float64{1}))
	assert.Error(t, ph.SetSiteSizes([]float64{1, 2, 3}))
}
