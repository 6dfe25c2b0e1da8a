package onedim

import (
	"gopkg.in/yaml.v3"
)

// Symmetry is a symmetry plane: the axial velocity vanishes at the shared
// grid point and every other transported quantity has zero one-sided
// gradient, temperature included. It owns no unknowns beyond the inherited
// temperature placeholder.
type Symmetry struct {
	boundary
}

func NewSymmetry(name string) *Symmetry {
	s := &Symmetry{}
	s.base = base{
		kind:      KindSymmetry,
		name:      name,
		points:    1,
		nComp:     1,
		compNames: []string{"temperature"},
	}
	return s
}

func (s *Symmetry) Init() error { return checkExtrapolation(&s.boundary) }

func (s *Symmetry) Eval(ctx *EvalContext) error {
	ctx.R[0] = ctx.X[s.loc] - s.temp
	ctx.Diag[0] = 0

	rb, db := s.sharedRow(ctx)
	if rb == nil {
		return nil
	}
	_, rowLoc, _ := s.openSide()
	xb := ctx.X[rowLoc : rowLoc+len(rb)]
	xi := ctx.X[s.interiorLoc() : s.interiorLoc()+len(rb)]

	rb[CompU] = xb[CompU] // no flux through the plane
	db[CompU] = 0
	for c := CompV; c < len(rb); c++ {
		if c == CompLambda {
			continue // curvature eigenvalue stays with the flow domain
		}
		rb[c] = xb[c] - xi[c]
		db[c] = 0
	}
	return nil
}

func (s *Symmetry) Save(node *yaml.Node, x []float64) error {
	return encodeState(node, domainState{
		Type:        s.kind.String(),
		Name:        s.name,
		Temperature: s.temp,
	})
}

func (s *Symmetry) Restore(node *yaml.Node, x []float64) error {
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
