package onedim

import (
	"fmt"
	"io"

	"github.com/notargets/gocfd/utils"
)

// Facing gives the direction a boundary's open side points
type Facing int8

const (
	FacingRight Facing = 1  // boundary at the left end, flow domain to its right
	FacingLeft  Facing = -1 // boundary at the right end, flow domain to its left
)

// Boundary is a zero-thickness domain imposing closure conditions at the edge
// of a flow domain. Capability methods not supported by a variant return
// ErrUnsupported rather than silently doing nothing.
type Boundary interface {
	Domain

	Temperature() float64
	SetTemperature(t float64)
	MassFlowRate() float64
	SetMassFlowRate(mdot float64)
	Facing() Facing

	// Condition classifies the boundary in the standard taxonomy
	Condition() utils.BCType

	// SetComposition declares a symbolic mole-fraction composition such as
	// "CH4:0.5, O2:1". Resolution against the neighbor's species set is
	// deferred to Init.
	SetComposition(spec string) error

	// SetCompositionArray sets the composition from dense mole fractions.
	// The boundary must already be linked to its flow neighbor, since the
	// species count comes from there.
	SetCompositionArray(x []float64) error

	// MassFraction returns the owned mass fraction of species k
	MassFraction(k int) (float64, error)
}

// rowRef locates one flow grid-point row inside the global vectors
type rowRef struct {
	loc int // offset of the row in the global unknown/residual vectors
	nv  int // components per point of the owning flow domain
	ok  bool
}

// linker is implemented by every boundary variant; the Stack calls it during
// layout with the immediate sequence neighbors.
type linker interface {
	link(left, right Domain)
	// neighborRows reports the flow grid rows this boundary may write,
	// one per linked side, for the Stack to window.
	neighborRows() (left, right rowRef)
}

// boundary carries the state shared by every boundary variant: temperature
// and mass-flow scalars, facing direction, and the neighbor linkage recorded
// during the Stack layout pass. Its capability defaults fail with
// ErrUnsupported; variants that model composition override them.
type boundary struct {
	base
	temp float64
	mdot float64
	ilr  Facing

	flowLeft, flowRight FlowDomain
	locLeft, locRight   int // global offset of the adjacent flow grid row
	nvLeft, nvRight     int
	nspLeft, nspRight   int
}

func (b *boundary) Temperature() float64 { return b.temp }
func (b *boundary) SetTemperature(t float64) { b.temp = t }
func (b *boundary) MassFlowRate() float64 { return b.mdot }
func (b *boundary) SetMassFlowRate(m float64) { b.mdot = m }
func (b *boundary) Facing() Facing { return b.ilr }
func (b *boundary) Condition() utils.BCType { return b.kind.Condition() }

func (b *boundary) SetComposition(string) error { return b.unsupported("SetComposition") }
func (b *boundary) SetCompositionArray([]float64) error { return b.unsupported("SetCompositionArray") }
func (b *boundary) MassFraction(int) (float64, error) {
	return 0, b.unsupported("MassFraction")
}

func (b *boundary) unsupported(op string) error {
	return fmt.Errorf("%s (%s): %s: %w", b.name, b.kind, op, ErrUnsupported)
}

// link records which sequence neighbors are flow domains. A boundary to the
// left of a flow domain couples to that domain's first grid row; to the
// right, its last.
func (b *boundary) link(left, right Domain) {
	b.flowLeft, b.flowRight = nil, nil
	if f, ok := left.(FlowDomain); ok {
		b.flowLeft = f
		b.nvLeft = f.NComponents()
		b.nspLeft = f.NSpecies()
		b.locLeft = f.Loc() + (f.Points()-1)*f.NComponents()
	}
	if f, ok := right.(FlowDomain); ok {
		b.flowRight = f
		b.nvRight = f.NComponents()
		b.nspRight = f.NSpecies()
		b.locRight = f.Loc()
	}
	if b.flowRight != nil {
		b.ilr = FacingRight
	} else if b.flowLeft != nil {
		b.ilr = FacingLeft
	}
}

func (b *boundary) neighborRows() (left, right rowRef) {
	if b.flowLeft != nil {
		left = rowRef{loc: b.locLeft, nv: b.nvLeft, ok: true}
	}
	if b.flowRight != nil {
		right = rowRef{loc: b.locRight, nv: b.nvRight, ok: true}
	}
	return
}

// openSide returns the single flow neighbor of a one-sided boundary, with the
// global offset of the shared grid row and the point index of that row within
// the flow domain.
func (b *boundary) openSide() (flow FlowDomain, rowLoc, point int) {
	if b.flowRight != nil {
		return b.flowRight, b.locRight, 0
	}
	if b.flowLeft != nil {
		return b.flowLeft, b.locLeft, b.flowLeft.Points() - 1
	}
	return nil, 0, 0
}

// sharedRow picks the residual window of the open-side grid row from ctx
func (b *boundary) sharedRow(ctx *EvalContext) (rb []float64, db []int) {
	if b.flowRight != nil {
		return ctx.RRight, ctx.DiagRight
	}
	return ctx.RLeft, ctx.DiagLeft
}

// interiorLoc returns the global offset of the grid row one point inward of
// the shared row, used by zero-gradient conditions.
func (b *boundary) interiorLoc() int {
	if b.flowRight != nil {
		return b.locRight + b.nvRight
	}
	return b.locLeft - b.nvLeft
}

// requireFlow fails with a ConfigError when a boundary that needs a flow
// neighbor has none.
func (b *boundary) requireFlow(op string) error {
	if b.flowLeft == nil && b.flowRight == nil {
		return configErr(b.name, op, "a %s boundary requires an adjacent flow domain", b.kind)
	}
	return nil
}

// Defaults shared by variants with no extra behavior.

func (b *boundary) InitialGuess(x []float64) { x[0] = b.temp }

func (b *boundary) Finalize([]float64) {}

func (b *boundary) ShowSolution(w io.Writer, x []float64) {
	fmt.Fprintf(w, "    Temperature: %10.4g K\n\n", b.temp)
}
