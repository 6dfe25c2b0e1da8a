package onedim

import (
	"fmt"

	"github.com/himcraft/cantera/chem"
	"gopkg.in/yaml.v3"
)

// Outlet caps a flow domain with zero-gradient extrapolation: every
// transported scalar at the shared grid point is tied to its value one point
// inward, and the pressure-curvature eigenvalue is driven to zero. The
// outlet's single own unknown is the inherited temperature, kept only for
// interface uniformity.
type Outlet struct {
	boundary
}

func NewOutlet(name string) *Outlet {
	o := &Outlet{}
	o.base = base{
		kind:      KindOutlet,
		name:      name,
		points:    1,
		nComp:     1,
		compNames: []string{"temperature"},
	}
	return o
}

func (o *Outlet) Init() error { return checkExtrapolation(&o.boundary) }

func (o *Outlet) Eval(ctx *EvalContext) error {
	ctx.R[0] = ctx.X[o.loc] - o.temp
	ctx.Diag[0] = 0

	rb, db := o.sharedRow(ctx)
	if rb == nil {
		return nil
	}
	_, rowLoc, _ := o.openSide()
	xb := ctx.X[rowLoc : rowLoc+len(rb)]
	xi := ctx.X[o.interiorLoc() : o.interiorLoc()+len(rb)]

	rb[CompLambda] = xb[CompLambda]
	db[CompLambda] = 0
	rb[CompT] = xb[CompT] - xi[CompT]
	db[CompT] = 0
	for c := CompFirstSpecies; c < len(rb); c++ {
		rb[c] = xb[c] - xi[c]
		db[c] = 0
	}
	return nil
}

func (o *Outlet) Save(node *yaml.Node, x []float64) error {
	return encodeState(node, domainState{
		Type:        o.kind.String(),
		Name:        o.name,
		Temperature: o.temp,
	})
}

func (o *Outlet) Restore(node *yaml.Node, x []float64) error {
	st, err := decodeState(node, o)
	if err != nil {
		return err
	}
	o.temp = st.Temperature
	if len(x) >= 1 {
		x[0] = o.temp
	}
	return nil
}

// OutletReservoir is an outlet backed by a reservoir of fixed composition.
// Under outflow it behaves as a plain zero-gradient outlet; when the flow
// reverses at the boundary, the species equations switch to a Dirichlet hold
// at the reservoir composition. Temperature always extrapolates.
type OutletReservoir struct {
	boundary

	yres        []float64          // reservoir mass fractions
	pendingMole map[string]float64 // declared composition awaiting resolution
	pendingMass map[string]float64 // restored composition awaiting resolution
	resolved    bool
}

func NewOutletReservoir(name string) *OutletReservoir {
	o := &OutletReservoir{}
	o.base = base{
		kind:      KindOutletReservoir,
		name:      name,
		points:    1,
		nComp:     1,
		compNames: []string{"temperature"},
	}
	return o
}

func (o *OutletReservoir) SetComposition(spec string) error {
	comp, err := chem.ParseComposition(spec)
	if err != nil {
		return fmt.Errorf("%s: SetComposition: %w", o.name, err)
	}
	o.pendingMole = comp
	o.pendingMass = nil
	o.resolved = false
	if flow, _, _ := o.openSide(); flow != nil {
		return o.resolve()
	}
	return nil
}

func (o *OutletReservoir) SetCompositionArray(x []float64) error {
	flow, _, _ := o.openSide()
	if flow == nil {
		return configErr(o.name, "SetCompositionArray",
			"species count unknown before linkage to a flow domain")
	}
	if o.yres == nil {
		o.yres = make([]float64, flow.NSpecies())
	}
	if err := chem.MoleFractionsToMass(x, flow.Phase(), o.yres); err != nil {
		return fmt.Errorf("%s: SetCompositionArray: %w", o.name, err)
	}
	o.pendingMole = nil
	o.pendingMass = nil
	o.resolved = true
	return nil
}

func (o *OutletReservoir) MassFraction(k int) (float64, error) {
	if !o.resolved {
		return 0, configErr(o.name, "MassFraction",
			"reservoir composition not resolved; Init has not run")
	}
	if k < 0 || k >= len(o.yres) {
		return 0, fmt.Errorf("%s: MassFraction: species index %d out of range [0,%d)",
			o.name, k, len(o.yres))
	}
	return o.yres[k], nil
}

func (o *OutletReservoir) resolve() error {
	flow, _, _ := o.openSide()
	if o.yres == nil || len(o.yres) != flow.NSpecies() {
		o.yres = make([]float64, flow.NSpecies())
	}
	switch {
	case o.pendingMole != nil:
		if err := chem.MoleToMassFractions(o.pendingMole, flow.Phase(), o.yres); err != nil {
			return configErr(o.name, "Init", "%v", err)
		}
	case o.pendingMass != nil:
		for k := range o.yres {
			o.yres[k] = 0
		}
		for name, y := range o.pendingMass {
			k := flow.Phase().SpeciesIndex(name)
			if k < 0 {
				return configErr(o.name, "Restore", "species %s not in neighbor phase", name)
			}
			o.yres[k] = y
		}
	}
	o.resolved = true
	return nil
}

func (o *OutletReservoir) Init() error {
	if err := checkExtrapolation(&o.boundary); err != nil {
		return err
	}
	if flow, _, _ := o.openSide(); flow != nil {
		return o.resolve()
	}
	if o.pendingMole != nil || o.pendingMass != nil {
		return configErr(o.name, "Init",
			"reservoir composition declared but no flow neighbor to resolve it against")
	}
	return nil
}

func (o *OutletReservoir) Eval(ctx *EvalContext) error {
	ctx.R[0] = ctx.X[o.loc] - o.temp
	ctx.Diag[0] = 0

	rb, db := o.sharedRow(ctx)
	if rb == nil {
		return nil
	}
	_, rowLoc, _ := o.openSide()
	xb := ctx.X[rowLoc : rowLoc+len(rb)]
	xi := ctx.X[o.interiorLoc() : o.interiorLoc()+len(rb)]

	rb[CompLambda] = xb[CompLambda]
	db[CompLambda] = 0
	rb[CompT] = xb[CompT] - xi[CompT]
	db[CompT] = 0

	// Net flow out of the domain through this boundary, from the axial
	// velocity at the shared point. Negative means backflow from the
	// reservoir.
	flowOut := -float64(o.ilr) * xb[CompU]
	for k := range o.yres {
		c := CompFirstSpecies + k
		if flowOut >= 0 {
			rb[c] = xb[c] - xi[c]
		} else {
			rb[c] = xb[c] - o.yres[k]
		}
		db[c] = 0
	}
	return nil
}

func (o *OutletReservoir) Save(node *yaml.Node, x []float64) error {
	flow, _, _ := o.openSide()
	if flow == nil || !o.resolved {
		return configErr(o.name, "Save", "reservoir outlet not initialized")
	}
	return encodeState(node, domainState{
		Type:        o.kind.String(),
		Name:        o.name,
		Temperature: o.temp,
		Composition: namesOf(o.yres, flow.Phase().SpeciesName),
	})
}

func (o *OutletReservoir) Restore(node *yaml.Node, x []float64) error {
	st, err := decodeState(node, o)
	if err != nil {
		return err
	}
	o.temp = st.Temperature
	o.pendingMole = nil
	o.pendingMass = st.Composition
	o.resolved = false
	if flow, _, _ := o.openSide(); flow != nil {
		if err := o.resolve(); err != nil {
			return err
		}
	}
	if len(x) >= 1 {
		x[0] = o.temp
	}
	return nil
}

// checkExtrapolation rejects a linked flow neighbor too short for one-sided
// zero-gradient differences.
func checkExtrapolation(b *boundary) error {
	flow, _, _ := b.openSide()
	if flow != nil && flow.Points() < 2 {
		return configErr(b.name, "Init",
			"zero-gradient extrapolation needs at least two grid points in %s", flow.Name())
	}
	return nil
}
