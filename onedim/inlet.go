package onedim

import (
	"fmt"
	"io"

	"github.com/himcraft/cantera/chem"
	"gopkg.in/yaml.v3"
)

// Inlet injects a specified mass flux and composition into the adjacent flow
// domain. Its two own unknowns (mass flow rate, temperature) are held at
// their stored setpoints; the numerically significant work happens in the
// neighbor's first (or last) grid row, where the inlet replaces the species
// residuals with a convective+diffusive mass-flux balance. The boundary
// condition is therefore a two-point coupled constraint, not a local one.
type Inlet struct {
	boundary
	spread float64 // spreading rate imposed on the flow's V component

	yin         []float64          // injected mass fractions, length = neighbor species count
	pendingMole map[string]float64 // declared composition awaiting resolution (mole amounts)
	pendingMass map[string]float64 // restored composition awaiting resolution (mass fractions)
	resolved    bool

	work []float64 // diffusive flux scratch
}

func NewInlet(name string) *Inlet {
	in := &Inlet{}
	in.base = base{
		kind:      KindInlet,
		name:      name,
		points:    1,
		nComp:     2,
		compNames: []string{"mdot", "temperature"},
	}
	return in
}

// SetSpreadRate sets the spreading-rate value imposed at the flow boundary point
func (in *Inlet) SetSpreadRate(v0 float64) { in.spread = v0 }
func (in *Inlet) SpreadRate() float64 { return in.spread }

// SetComposition declares the inlet composition symbolically, for example
// "CH4:0.5, O2:1, N2:3.76". Syntax is checked now; species names resolve
// against the neighbor phase at Init, once the neighbor is known.
func (in *Inlet) SetComposition(spec string) error {
	comp, err := chem.ParseComposition(spec)
	if err != nil {
		return fmt.Errorf("%s: SetComposition: %w", in.name, err)
	}
	in.pendingMole = comp
	in.pendingMass = nil
	in.resolved = false
	if flow, _, _ := in.openSide(); flow != nil {
		return in.resolve()
	}
	return nil
}

// SetCompositionArray sets the composition from dense mole fractions. The
// inlet must already be linked, since the species count comes from the
// neighbor phase.
func (in *Inlet) SetCompositionArray(x []float64) error {
	flow, _, _ := in.openSide()
	if flow == nil {
		return configErr(in.name, "SetCompositionArray",
			"species count unknown before linkage to a flow domain")
	}
	if in.yin == nil {
		in.yin = make([]float64, flow.NSpecies())
	}
	if err := chem.MoleFractionsToMass(x, flow.Phase(), in.yin); err != nil {
		return fmt.Errorf("%s: SetCompositionArray: %w", in.name, err)
	}
	in.pendingMole = nil
	in.pendingMass = nil
	in.resolved = true
	return nil
}

// MassFraction returns the injected mass fraction of species k. Fails fast
// when the composition has not been resolved yet.
func (in *Inlet) MassFraction(k int) (float64, error) {
	if !in.resolved {
		return 0, configErr(in.name, "MassFraction",
			"composition not resolved; Init has not run")
	}
	if k < 0 || k >= len(in.yin) {
		return 0, fmt.Errorf("%s: MassFraction: species index %d out of range [0,%d)",
			in.name, k, len(in.yin))
	}
	return in.yin[k], nil
}

// resolve turns the pending composition into mass fractions against the
// neighbor phase. Idempotent: resolving twice yields the same vector.
func (in *Inlet) resolve() error {
	flow, _, _ := in.openSide()
	if in.yin == nil || len(in.yin) != flow.NSpecies() {
		in.yin = make([]float64, flow.NSpecies())
	}
	switch {
	case in.pendingMole != nil:
		if err := chem.MoleToMassFractions(in.pendingMole, flow.Phase(), in.yin); err != nil {
			return configErr(in.name, "Init", "%v", err)
		}
	case in.pendingMass != nil:
		for k := range in.yin {
			in.yin[k] = 0
		}
		for name, y := range in.pendingMass {
			k := flow.Phase().SpeciesIndex(name)
			if k < 0 {
				return configErr(in.name, "Restore", "species %s not in neighbor phase", name)
			}
			in.yin[k] = y
		}
	}
	in.resolved = true
	return nil
}

func (in *Inlet) Init() error {
	if err := in.requireFlow("Init"); err != nil {
		return err
	}
	flow, _, _ := in.openSide()
	in.work = make([]float64, flow.NSpecies())
	return in.resolve()
}

func (in *Inlet) InitialGuess(x []float64) {
	x[0] = in.mdot
	x[1] = in.temp
}

func (in *Inlet) Eval(ctx *EvalContext) error {
	j := in.loc

	// own unknowns held at the stored setpoints
	ctx.R[0] = ctx.X[j] - in.mdot
	ctx.R[1] = ctx.X[j+1] - in.temp
	ctx.Diag[0], ctx.Diag[1] = 0, 0

	flow, rowLoc, pt := in.openSide()
	if flow == nil {
		return configErr(in.name, "Eval", "inlet evaluated before linkage")
	}
	rb, db := in.sharedRow(ctx)
	xb := ctx.X[rowLoc : rowLoc+len(rb)]
	mdot := ctx.X[j]

	rb[CompV] = xb[CompV] - in.spread
	rb[CompT] = xb[CompT] - in.temp
	db[CompV], db[CompT] = 0, 0

	// Species balance at the shared point: convective injection against the
	// flow's diffusive flux. At mdot = 0 this degenerates to zero net
	// diffusive flux rather than dropping the constraint.
	flow.DiffusiveSpeciesFlux(pt, ctx.X, in.work)
	sign := float64(in.ilr)
	for k := range in.yin {
		c := CompFirstSpecies + k
		rb[c] = mdot*(xb[c]-in.yin[k]) + sign*in.work[k]
		db[c] = 0
	}
	return nil
}

func (in *Inlet) Save(node *yaml.Node, x []float64) error {
	flow, _, _ := in.openSide()
	if flow == nil || !in.resolved {
		return configErr(in.name, "Save", "inlet not initialized")
	}
	return encodeState(node, domainState{
		Type:         in.kind.String(),
		Name:         in.name,
		Temperature:  in.temp,
		MassFlowRate: in.mdot,
		SpreadRate:   in.spread,
		Composition:  namesOf(in.yin, flow.Phase().SpeciesName),
	})
}

func (in *Inlet) Restore(node *yaml.Node, x []float64) error {
	st, err := decodeState(node, in)
	if err != nil {
		return err
	}
	in.temp = st.Temperature
	in.mdot = st.MassFlowRate
	in.spread = st.SpreadRate
	in.pendingMole = nil
	in.pendingMass = st.Composition
	in.resolved = false
	if flow, _, _ := in.openSide(); flow != nil {
		if err := in.resolve(); err != nil {
			return err
		}
	}
	if len(x) >= 2 {
		x[0] = in.mdot
		x[1] = in.temp
	}
	return nil
}

// ShowSolution lists only species with non-zero injected mass fraction
func (in *Inlet) ShowSolution(w io.Writer, x []float64) {
	fmt.Fprintf(w, "    Mass Flux:   %10.4g kg/m^2/s\n", in.mdot)
	fmt.Fprintf(w, "    Temperature: %10.4g K\n", in.temp)
	if flow, _, _ := in.openSide(); flow != nil && in.resolved {
		fmt.Fprintf(w, "    Mass Fractions:\n")
		for k, y := range in.yin {
			if y != 0 {
				fmt.Fprintf(w, "        %16s  %10.4g\n", flow.Phase().SpeciesName(k), y)
			}
		}
	}
	fmt.Fprintln(w)
}
