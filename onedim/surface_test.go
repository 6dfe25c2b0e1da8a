package onedim

import (
	"testing"

	"github.com/himcraft/cantera/chem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInertSurfaceWall(t *testing.T) {
	flow := newModelFlow("flow", 4, testPhase())
	wall := NewSurface("wall")
	wall.SetTemperature(600)
	s := NewStack(NewInlet("inlet"), flow, wall)
	require.NoError(t, s.Init())
	x, _ := s.InitialGuess()

	last := flow.pointRow(3)
	x[last+CompT] = 600
	x[wall.Loc()] = 600

	// no slip, impermeable, fixed temperature, flat composition: fixed point
	r := evalStack(t, s, x, 0)
	assert.Zero(t, r[last+CompU])
	assert.Zero(t, r[last+CompV])
	assert.Zero(t, r[last+CompT])
	for k := 0; k < 3; k++ {
		assert.Zero(t, r[last+CompFirstSpecies+k], "zero species flux at the wall")
	}

	// velocities at the wall are driven to zero, temperature to the setpoint
	x[last+CompU] = 0.1
	x[last+CompV] = -0.2
	x[last+CompT] = 590
	r = evalStack(t, s, x, 0)
	assert.InDelta(t, 0.1, r[last+CompU], 1e-15)
	assert.InDelta(t, -0.2, r[last+CompV], 1e-15)
	assert.InDelta(t, -10.0, r[last+CompT], 1e-14)

	// a composition gradient into the wall is a diffusive flux violation
	x[last+CompFirstSpecies] = 0.2
	flux := make([]float64, 3)
	flow.DiffusiveSpeciesFlux(3, x, flux)
	require.NotZero(t, flux[0])
	r = evalStack(t, s, x, 0)
	assert.InDelta(t, flux[0], r[last+CompFirstSpecies], 1e-14)
}

func surfPhase() *chem.IdealSurface {
	ph := chem.NewIdealSurface([]string{"PT(S)", "H(S)", "O(S)"}, 2.7e-8)
	ph.SetCoverages([]float64{0.6, 0.3, 0.1})
	return ph
}

func reactingStack(t *testing.T) (*Stack, *modelFlow, *ReactingSurface, *zeroKinetics) {
	t.Helper()
	flow := newModelFlow("flow", 3, testPhase())
	rs := NewReactingSurface("cat-surface")
	kin := newZeroKinetics(surfPhase())
	require.NoError(t, rs.SetKineticsMgr(kin))
	s := NewStack(NewInlet("inlet"), flow, rs)
	require.NoError(t, s.Init())
	return s, flow, rs, kin
}

func TestReactingSurfaceNeedsKinetics(t *testing.T) {
	rs := NewReactingSurface("bare")
	s := NewStack(NewInlet("inlet"), newModelFlow("flow", 3, testPhase()), rs)
	err := s.Init()
	var cfg *ConfigError
	require.ErrorAs(t, err, &cfg)
	assert.Equal(t, "bare", cfg.Boundary)
	assert.Contains(t, cfg.Msg, "kinetics")

	err = rs.SetKineticsMgr(nil)
	require.ErrorAs(t, err, &cfg)
}

func TestReactingSurfaceLayout(t *testing.T) {
	_, _, rs, _ := reactingStack(t)
	assert.Equal(t, 4, rs.NComponents(), "temperature plus one coverage per surface species")
	assert.Equal(t, "temperature", rs.ComponentName(0))
	assert.Equal(t, "H(S)", rs.ComponentName(2))
}

// With identically zero production rates any coverage vector is already a
// steady-state fixed point.
func TestReactingSurfaceZeroRatesFixedPoint(t *testing.T) {
	s, _, rs, _ := reactingStack(t)
	x, _ := s.InitialGuess()

	x[rs.Loc()+1] = 0.25
	x[rs.Loc()+2] = 0.25
	x[rs.Loc()+3] = 0.5
	r := evalStack(t, s, x, 0)
	for k := 1; k <= 3; k++ {
		assert.Zero(t, r[rs.Loc()+k], "coverage %d", k)
	}
}

func TestReactingSurfaceRelaxation(t *testing.T) {
	s, _, rs, kin := reactingStack(t)
	kin.sdot = []float64{1e-9, -1e-9, 0}
	x, _ := s.InitialGuess()

	// steady balance at rdt = 0
	r := evalStack(t, s, x, 0)
	sden := kin.ph.SiteDensity()
	assert.InDelta(t, 1e-9/sden, r[rs.Loc()+1], 1e-15)
	assert.InDelta(t, -1e-9/sden, r[rs.Loc()+2], 1e-15)

	// rdt > 0 damps against the finalized coverages
	x[rs.Loc()+3] = 0.4 // fixed value is 0.1
	r = evalStack(t, s, x, 2.0)
	assert.InDelta(t, -2.0*(0.4-0.1), r[rs.Loc()+3], 1e-12)

	// a swapped policy replaces the damping formula
	rs.SetRelaxPolicy(func(rate, value, fixed, rdt float64) float64 { return rate })
	r = evalStack(t, s, x, 2.0)
	assert.Zero(t, r[rs.Loc()+3])
}

func TestReactingSurfaceDisabledHold(t *testing.T) {
	s, _, rs, kin := reactingStack(t)
	kin.sdot = []float64{5, 5, 5} // must be ignored while disabled
	rs.EnableCoverageEquations(false)
	x, _ := s.InitialGuess()

	r := evalStack(t, s, x, 0)
	for k := 1; k <= 3; k++ {
		assert.Zero(t, r[rs.Loc()+k], "hold at the finalized coverages")
	}

	x[rs.Loc()+2] = 0.45 // fixed value is 0.3
	r = evalStack(t, s, x, 0)
	assert.InDelta(t, 0.15, r[rs.Loc()+2], 1e-14)
}

func TestReactingSurfaceFinalize(t *testing.T) {
	s, _, rs, _ := reactingStack(t)
	x, _ := s.InitialGuess()
	x[rs.Loc()+1] = 0.2
	x[rs.Loc()+2] = 0.5
	x[rs.Loc()+3] = 0.3
	s.Finalize(x)

	rs.EnableCoverageEquations(false)
	r := evalStack(t, s, x, 0)
	for k := 1; k <= 3; k++ {
		assert.Zero(t, r[rs.Loc()+k], "finalized coverages are the new hold target")
	}
}

func TestReactingSurfaceWallTemperature(t *testing.T) {
	s, flow, rs, _ := reactingStack(t)
	x, _ := s.InitialGuess()
	last := flow.pointRow(2)

	// the neighbor's temperature row ties to the surface's own unknown
	x[rs.Loc()] = 700
	x[last+CompT] = 650
	r := evalStack(t, s, x, 0)
	assert.InDelta(t, 650.0-700.0, r[last+CompT], 1e-12)
}
