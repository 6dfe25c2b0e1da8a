package onedim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymmetryPlane(t *testing.T) {
	flow := newModelFlow("flow", 4, testPhase())
	sym := NewSymmetry("axis")
	s := NewStack(sym, flow, NewOutlet("outlet"))
	require.NoError(t, s.Init())
	x, _ := s.InitialGuess()

	first := flow.pointRow(0)
	second := flow.pointRow(1)

	// u = 0 with a flat profile satisfies every symmetry row
	r := evalStack(t, s, x, 0)
	assert.Zero(t, r[first+CompU])
	assert.Zero(t, r[first+CompV])
	assert.Zero(t, r[first+CompT])
	for k := 0; k < 3; k++ {
		assert.Zero(t, r[first+CompFirstSpecies+k])
	}

	// axial velocity residual is the velocity itself
	x[first+CompU] = 0.3
	r = evalStack(t, s, x, 0)
	assert.InDelta(t, 0.3, r[first+CompU], 1e-15)

	// everything else is the one-sided gradient, temperature included
	x[first+CompT] = 310
	x[second+CompT] = 305
	x[first+CompV] = 0.2
	r = evalStack(t, s, x, 0)
	assert.InDelta(t, 5.0, r[first+CompT], 1e-14)
	assert.InDelta(t, 0.2, r[first+CompV], 1e-15)
}

func TestSymmetryFacing(t *testing.T) {
	flow := newModelFlow("flow", 3, testPhase())
	left := NewSymmetry("left")
	right := NewSymmetry("right")
	s := NewStack(left, flow, right)
	require.NoError(t, s.Init())

	assert.Equal(t, FacingRight, left.Facing())
	assert.Equal(t, FacingLeft, right.Facing())

	// the right-side plane works against the last grid point
	x, _ := s.InitialGuess()
	last := flow.pointRow(2)
	x[last+CompU] = -0.7
	r := evalStack(t, s, x, 0)
	assert.InDelta(t, -0.7, r[last+CompU], 1e-15)
}
