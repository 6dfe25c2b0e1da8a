// Package onedim implements the boundary-coupling layer of a one-dimensional
// reacting-flow solver: the domain objects that sit at the edges of (or
// between) flow domains and supply the algebraic closure conditions needed to
// turn a flow discretization into a well-posed nonlinear system.
//
// A Stack holds an ordered sequence of domains sharing one global unknown
// vector. Flow domains are external collaborators reached through the
// FlowDomain interface; the boundary variants (Inlet, Outlet,
// OutletReservoir, Symmetry, Surface, ReactingSurface, Terminator) live here.
package onedim

import (
	"fmt"
	"io"

	"github.com/himcraft/cantera/chem"
	"github.com/notargets/gocfd/utils"
	"gopkg.in/yaml.v3"
)

// Kind discriminates the domain variants
type Kind uint8

const (
	KindFlow Kind = iota // interior flow domain (external collaborator)
	KindInlet
	KindOutlet
	KindOutletReservoir
	KindSymmetry
	KindSurface
	KindReactingSurface
	KindTerminator
)

// String returns the stable tag used in persisted state
func (k Kind) String() string {
	switch k {
	case KindFlow:
		return "flow"
	case KindInlet:
		return "inlet"
	case KindOutlet:
		return "outlet"
	case KindOutletReservoir:
		return "outlet-reservoir"
	case KindSymmetry:
		return "symmetry"
	case KindSurface:
		return "surface"
	case KindReactingSurface:
		return "reacting-surface"
	case KindTerminator:
		return "terminator"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Condition classifies the variant in the standard CFD boundary-condition
// taxonomy, for diagnostics and layout reporting.
func (k Kind) Condition() utils.BCType {
	switch k {
	case KindInlet:
		return utils.BCMassFlowInlet
	case KindOutlet:
		return utils.BCOutflow
	case KindOutletReservoir:
		return utils.BCPressureOutlet
	case KindSymmetry:
		return utils.BCSymmetry
	case KindSurface, KindReactingSurface:
		return utils.BCWall
	}
	return utils.BCNone
}

// Unknown-vector component layout of a flow domain grid point. Boundary
// domains write into neighbor residual rows at these offsets.
const (
	CompU            = 0 // axial velocity
	CompV            = 1 // spreading rate, v/r
	CompT            = 2 // temperature
	CompLambda       = 3 // pressure-gradient eigenvalue
	CompFirstSpecies = 4 // mass fraction of species 0
)

// EvalContext is the window set handed to one domain for one residual pass.
// The Stack constructs every window by index range into the global vectors;
// domains never slice the global buffers themselves.
type EvalContext struct {
	// X is the full global unknown vector. Read-only by contract: domains
	// may read any region (boundaries read their neighbor's grid points)
	// but write nothing.
	X []float64

	// Rdt is the reciprocal timestep. Zero signals a pure steady-state
	// residual; positive values signal a pseudo-transient damping step.
	Rdt float64

	// R and Diag are this domain's own residual rows and diagonal flags
	// (flag 1 marks a row with a time-derivative term).
	R    []float64
	Diag []int

	// RLeft/RRight extend one grid-point row into the residual region of a
	// linked flow neighbor on each side. Nil when no flow domain is linked
	// on that side. This is the one sanctioned breach of per-domain
	// isolation: a boundary injects its closure condition by overwriting
	// these rows.
	RLeft, RRight       []float64
	DiagLeft, DiagRight []int
}

// Domain is a contiguous region of the global 1-D unknown vector with its own
// residual-assembly logic. Boundary variants are implemented in this package;
// flow domains satisfy FlowDomain externally.
type Domain interface {
	Kind() Kind

	// Name identifies the domain in diagnostics and errors
	Name() string

	// Points returns the grid point count; boundary domains have exactly 1
	Points() int

	// NComponents returns the unknowns per grid point
	NComponents() int

	// Loc returns the domain's starting offset in the global unknown
	// vector, assigned by the Stack layout pass
	Loc() int
	SetLoc(loc int)

	// ComponentName names local component i for diagnostics
	ComponentName(i int) string

	// Init performs one-time linkage and deferred-state resolution. The
	// Stack calls it after every domain in the sequence is placed and
	// linked, so neighbor species sets are known.
	Init() error

	// InitialGuess writes this domain's contribution to the global initial
	// iterate; x is the domain's own window.
	InitialGuess(x []float64)

	// Eval assembles this domain's residual rows for the current iterate
	Eval(ctx *EvalContext) error

	// Finalize commits converged local unknowns back into owned state;
	// x is the domain's own window.
	Finalize(x []float64)

	// Save encodes owned state into node; Restore decodes it and writes
	// the corresponding unknowns into x (the domain's own window).
	Save(node *yaml.Node, x []float64) error
	Restore(node *yaml.Node, x []float64) error

	// ShowSolution writes a human-readable report for the converged
	// iterate x (the domain's own window).
	ShowSolution(w io.Writer, x []float64)
}

// FlowDomain is the view a boundary has of an adjacent flow domain. The flow
// discretization itself is an external collaborator; boundaries consume only
// this surface. A flow domain must leave the residual rows of a grid point
// with an attached boundary to that boundary: the Stack evaluates flow
// domains first and boundaries last, so boundary-written rows land last.
type FlowDomain interface {
	Domain

	// Phase returns the gas phase transported by this domain
	Phase() chem.Phase

	// NSpecies returns Phase().NSpecies()
	NSpecies() int

	// DiffusiveSpeciesFlux writes the diffusive mass flux of each species
	// at grid point j into flux, evaluated from the current global unknown
	// vector x. Flux is signed positive toward increasing grid index.
	DiffusiveSpeciesFlux(j int, x []float64, flux []float64)
}

// base carries the bookkeeping common to every domain variant
type base struct {
	kind      Kind
	name      string
	points    int
	nComp     int
	loc       int
	compNames []string
}

func (d *base) Kind() Kind { return d.kind }
func (d *base) Name() string { return d.name }
func (d *base) Points() int { return d.points }
func (d *base) NComponents() int { return d.nComp }
func (d *base) Loc() int { return d.loc }
func (d *base) SetLoc(loc int) { d.loc = loc }

func (d *base) ComponentName(i int) string {
	if i >= 0 && i < len(d.compNames) && d.compNames[i] != "" {
		return d.compNames[i]
	}
	return fmt.Sprintf("component %d", i)
}

// width is the number of unknowns a domain contributes to the global vector
func width(d Domain) int { return d.Points() * d.NComponents() }
