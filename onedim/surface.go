package onedim

import (
	"fmt"
	"io"

	"github.com/himcraft/cantera/chem"
	"gopkg.in/yaml.v3"
)

// Surface is a non-reacting solid wall: impermeable (axial velocity zero),
// no-slip (transverse velocity zero), fixed temperature, and zero net
// diffusive flux for every species.
type Surface struct {
	boundary
	work []float64 // diffusive flux scratch
}

func NewSurface(name string) *Surface {
	s := &Surface{}
	s.base = base{
		kind:      KindSurface,
		name:      name,
		points:    1,
		nComp:     1,
		compNames: []string{"temperature"},
	}
	return s
}

func (s *Surface) Init() error {
	if flow, _, _ := s.openSide(); flow != nil {
		s.work = make([]float64, flow.NSpecies())
	}
	return nil
}

func (s *Surface) Eval(ctx *EvalContext) error {
	ctx.R[0] = ctx.X[s.loc] - s.temp
	ctx.Diag[0] = 0
	return evalWall(&s.boundary, ctx, s.temp, s.work)
}

func (s *Surface) Save(node *yaml.Node, x []float64) error {
	return encodeState(node, domainState{
		Type:        s.kind.String(),
		Name:        s.name,
		Temperature: s.temp,
	})
}

func (s *Surface) Restore(node *yaml.Node, x []float64) error {
	st, err := decodeState(node, s)
	if err != nil {
		return err
	}
	s.temp = st.Temperature
	if len(x) >= 1 {
		x[0] = s.temp
	}
	return nil
}

// evalWall writes the impermeable no-slip wall rows into the shared flow grid
// point: velocities zero, temperature Dirichlet to wallT, species at zero net
// diffusive flux.
func evalWall(b *boundary, ctx *EvalContext, wallT float64, work []float64) error {
	rb, db := b.sharedRow(ctx)
	if rb == nil {
		return nil
	}
	flow, rowLoc, pt := b.openSide()
	xb := ctx.X[rowLoc : rowLoc+len(rb)]

	rb[CompU] = xb[CompU]
	rb[CompV] = xb[CompV]
	rb[CompT] = xb[CompT] - wallT
	db[CompU], db[CompV], db[CompT] = 0, 0, 0

	flow.DiffusiveSpeciesFlux(pt, ctx.X, work)
	for k := range work {
		c := CompFirstSpecies + k
		rb[c] = work[k]
		db[c] = 0
	}
	return nil
}

// RelaxPolicy shapes the coverage residual of a reacting surface under
// pseudo-transient relaxation: given the steady production-rate balance, the
// current coverage value, the last finalized value and the reciprocal
// timestep, it returns the damped residual. rdt = 0 must reduce to the pure
// steady balance.
type RelaxPolicy func(rate, value, fixed, rdt float64) float64

// DefaultRelax damps the steady balance with a synthetic time derivative
// anchored at the last finalized coverages.
func DefaultRelax(rate, value, fixed, rdt float64) float64 {
	return rate - rdt*(value-fixed)
}

// ReactingSurface is a wall with heterogeneous chemistry. On top of the
// inert-wall conditions it owns the surface temperature and one coverage
// unknown per surface species. With coverage equations enabled, the coverage
// residual is the net production-rate balance from the attached kinetics
// evaluator, optionally damped by the relaxation policy; disabled, the
// coverages are held at the last finalized values.
type ReactingSurface struct {
	boundary

	kin      chem.InterfaceKinetics
	sphase   chem.SurfPhase
	nsp      int       // surface species count, derived from the phase
	enabled  bool      // coverage equations participate in the system
	fixedCov []float64 // last finalized coverages; Dirichlet target when disabled
	relax    RelaxPolicy

	sdot []float64 // production-rate scratch
	work []float64 // gas diffusive-flux scratch
}

func NewReactingSurface(name string) *ReactingSurface {
	s := &ReactingSurface{relax: DefaultRelax}
	s.base = base{
		kind:      KindReactingSurface,
		name:      name,
		points:    1,
		nComp:     1,
		compNames: []string{"temperature"},
	}
	return s
}

// SetKineticsMgr attaches the heterogeneous kinetics evaluator and derives
// the surface phase, species count and coverage layout from it. Attaching
// enables the coverage equations.
func (s *ReactingSurface) SetKineticsMgr(kin chem.InterfaceKinetics) error {
	if kin == nil {
		return configErr(s.name, "SetKineticsMgr", "nil kinetics evaluator")
	}
	ph := kin.SurfacePhase()
	if ph == nil {
		return configErr(s.name, "SetKineticsMgr", "evaluator has no surface phase")
	}
	s.kin = kin
	s.sphase = ph
	s.nsp = ph.NSpecies()
	s.nComp = 1 + s.nsp
	s.compNames = make([]string, s.nComp)
	s.compNames[0] = "temperature"
	for k := 0; k < s.nsp; k++ {
		s.compNames[k+1] = ph.SpeciesName(k)
	}
	s.fixedCov = make([]float64, s.nsp)
	ph.GetCoverages(s.fixedCov)
	s.sdot = make([]float64, s.nsp)
	s.enabled = true
	return nil
}

// EnableCoverageEquations switches the coverage unknowns between solved and
// held-fixed.
func (s *ReactingSurface) EnableCoverageEquations(on bool) { s.enabled = on }

// CoverageEquationsEnabled reports whether coverages participate in the system
func (s *ReactingSurface) CoverageEquationsEnabled() bool { return s.enabled }

// SetRelaxPolicy swaps the pseudo-transient damping formula
func (s *ReactingSurface) SetRelaxPolicy(p RelaxPolicy) {
	if p != nil {
		s.relax = p
	}
}

func (s *ReactingSurface) Init() error {
	if s.kin == nil {
		return configErr(s.name, "Init", "no kinetics evaluator attached")
	}
	if err := s.requireFlow("Init"); err != nil {
		return err
	}
	flow, _, _ := s.openSide()
	s.work = make([]float64, flow.NSpecies())
	return nil
}

func (s *ReactingSurface) InitialGuess(x []float64) {
	x[0] = s.temp
	if s.sphase != nil {
		s.sphase.GetCoverages(x[1:])
	}
}

func (s *ReactingSurface) Eval(ctx *EvalContext) error {
	if s.kin == nil {
		return configErr(s.name, "Eval", "no kinetics evaluator attached")
	}
	j := s.loc
	ctx.R[0] = ctx.X[j] - s.temp
	ctx.Diag[0] = 0

	theta := ctx.X[j+1 : j+1+s.nsp]
	if s.enabled {
		// The evaluator's surface state is mutated to the trial coverages
		// before the rate query; evaluation order, not locking, keeps this
		// safe (single-threaded contract).
		s.kin.SyncCoverages(theta)
		s.kin.NetProductionRates(s.sdot)
		sden := s.sphase.SiteDensity()
		for k := 0; k < s.nsp; k++ {
			rate := s.sdot[k] * s.sphase.SiteSize(k) / sden
			ctx.R[k+1] = s.relax(rate, theta[k], s.fixedCov[k], ctx.Rdt)
			ctx.Diag[k+1] = 1
		}
	} else {
		for k := 0; k < s.nsp; k++ {
			ctx.R[k+1] = theta[k] - s.fixedCov[k]
			ctx.Diag[k+1] = 0
		}
	}

	return evalWall(&s.boundary, ctx, ctx.X[j], s.work)
}

// Finalize commits the converged coverage sub-vector; it becomes the next
// pseudo-transient anchor and the Dirichlet target while equations are
// disabled.
func (s *ReactingSurface) Finalize(x []float64) {
	if s.nsp > 0 && len(x) >= 1+s.nsp {
		copy(s.fixedCov, x[1:1+s.nsp])
		s.sphase.SetCoverages(s.fixedCov)
	}
}

func (s *ReactingSurface) Save(node *yaml.Node, x []float64) error {
	if s.sphase == nil {
		return configErr(s.name, "Save", "no kinetics evaluator attached")
	}
	return encodeState(node, domainState{
		Type:        s.kind.String(),
		Name:        s.name,
		Temperature: s.temp,
		Coverages:   namesOf(s.fixedCov, s.sphase.SpeciesName),
	})
}

func (s *ReactingSurface) Restore(node *yaml.Node, x []float64) error {
	if s.sphase == nil {
		return configErr(s.name, "Restore", "no kinetics evaluator attached")
	}
	st, err := decodeState(node, s)
	if err != nil {
		return err
	}
	s.temp = st.Temperature
	for k := range s.fixedCov {
		s.fixedCov[k] = 0
	}
	for name, cov := range st.Coverages {
		k := s.sphase.SpeciesIndex(name)
		if k < 0 {
			return configErr(s.name, "Restore", "species %s not in surface phase", name)
		}
		s.fixedCov[k] = cov
	}
	s.sphase.SetCoverages(s.fixedCov)
	if len(x) >= 1+s.nsp {
		x[0] = s.temp
		copy(x[1:1+s.nsp], s.fixedCov)
	}
	return nil
}

func (s *ReactingSurface) ShowSolution(w io.Writer, x []float64) {
	fmt.Fprintf(w, "    Temperature: %10.4g K\n", x[0])
	fmt.Fprintf(w, "    Coverages:\n")
	for k := 0; k < s.nsp; k++ {
		fmt.Fprintf(w, "    %20s %10.4g\n", s.sphase.SpeciesName(k), x[k+1])
	}
	fmt.Fprintln(w)
}
