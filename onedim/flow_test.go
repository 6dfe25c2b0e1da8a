package onedim

import (
	"io"

	"github.com/himcraft/cantera/chem"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// gasPhase is a minimal chem.Phase for tests
type gasPhase struct {
	names []string
	molar []float64
}

func newGasPhase(names []string, molar []float64) *gasPhase {
	return &gasPhase{names: names, molar: molar}
}

func (p *gasPhase) NSpecies() int { return len(p.names) }
func (p *gasPhase) SpeciesName(k int) string { return p.names[k] }
func (p *gasPhase) MolarMass(k int) float64 { return p.molar[k] }

func (p *gasPhase) SpeciesIndex(name string) int {
	for k, n := range p.names {
		if n == name {
			return k
		}
	}
	return -1
}

// modelFlow is a minimal flow collaborator on a uniform grid with the
// standard component layout. Species diffusion uses a one-sided difference
// operator assembled as a dense matrix. Its own residual ties every unknown
// to the reference profile; rows at boundary-attached points get overwritten
// by the boundaries, which is exactly the coupling under test.
type modelFlow struct {
	base
	ph   *gasPhase
	dx   float64
	diff *mat.Dense // points x points difference operator
	ref  []float64  // reference profile, set by InitialGuess
}

func newModelFlow(name string, np int, ph *gasPhase) *modelFlow {
	f := &modelFlow{ph: ph, dx: 1.0}
	if np > 1 {
		f.dx = 1.0 / float64(np-1)
	}
	f.base = base{
		kind:   KindFlow,
		name:   name,
		points: np,
		nComp:  CompFirstSpecies + ph.NSpecies(),
	}
	d := mat.NewDense(np, np, nil)
	for p := 0; p < np-1; p++ {
		d.Set(p, p, -1)
		d.Set(p, p+1, 1)
	}
	if np > 1 {
		d.Set(np-1, np-1, 1)
		d.Set(np-1, np-2, -1)
	}
	f.diff = d
	f.ref = make([]float64, np*f.nComp)
	return f
}

func (f *modelFlow) Phase() chem.Phase { return f.ph }
func (f *modelFlow) NSpecies() int { return f.ph.NSpecies() }

func (f *modelFlow) DiffusiveSpeciesFlux(j int, x, flux []float64) {
	for k := range flux {
		c := CompFirstSpecies + k
		sum := 0.0
		for q := 0; q < f.points; q++ {
			if w := f.diff.At(j, q); w != 0 {
				sum += w * x[f.loc+q*f.nComp+c]
			}
		}
		flux[k] = -sum / f.dx
	}
}

func (f *modelFlow) Init() error { return nil }

func (f *modelFlow) InitialGuess(x []float64) {
	for p := 0; p < f.points; p++ {
		x[p*f.nComp+CompT] = 300
	}
	copy(f.ref, x)
}

func (f *modelFlow) Eval(ctx *EvalContext) error {
	for i := range ctx.R {
		ctx.R[i] = ctx.X[f.loc+i] - f.ref[i]
		ctx.Diag[i] = 1
	}
	return nil
}

func (f *modelFlow) Finalize([]float64) {}

func (f *modelFlow) Save(node *yaml.Node, x []float64) error {
	return encodeState(node, domainState{Type: f.kind.String(), Name: f.name})
}

func (f *modelFlow) Restore(node *yaml.Node, x []float64) error {
	_, err := decodeState(node, f)
	return err
}

func (f *modelFlow) ShowSolution(io.Writer, []float64) {}

// pointRow returns the global offset of grid point p's row
func (f *modelFlow) pointRow(p int) int { return f.loc + p*f.nComp }

// zeroKinetics is a chem.InterfaceKinetics stub whose production rates are a
// fixed vector, zero unless set.
type zeroKinetics struct {
	ph   *chem.IdealSurface
	sdot []float64
	last []float64 // coverages seen at the most recent SyncCoverages
}

func newZeroKinetics(ph *chem.IdealSurface) *zeroKinetics {
	return &zeroKinetics{
		ph:   ph,
		sdot: make([]float64, ph.NSpecies()),
		last: make([]float64, ph.NSpecies()),
	}
}

func (z *zeroKinetics) SurfacePhase() chem.SurfPhase { return z.ph }

func (z *zeroKinetics) SyncCoverages(theta []float64) {
	copy(z.last, theta)
	z.ph.SetCoverages(theta)
}

func (z *zeroKinetics) NetProductionRates(sdot []float64) { copy(sdot, z.sdot) }
