package onedim

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// Stack is an ordered sequence of domains sharing one global unknown vector.
// Its layout pass assigns every domain a contiguous offset, links boundaries
// to their flow neighbors, runs per-domain initialization, and verifies the
// tiling invariant. Afterwards it sequences residual assembly, handing each
// domain explicit windows into the global vectors.
type Stack struct {
	domains []Domain
	size    int
	ready   bool
}

// NewStack builds a stack over the given domain sequence. Init must run
// before any evaluation.
func NewStack(domains ...Domain) *Stack {
	return &Stack{domains: domains}
}

// Domains returns the sequence in order
func (s *Stack) Domains() []Domain { return s.domains }

// Size returns the global unknown-vector length; zero before Init
func (s *Stack) Size() int { return s.size }

// Init runs the layout pass. It must run after every domain in the sequence
// is known, because boundaries query their neighbor's species set here.
func (s *Stack) Init() error {
	if len(s.domains) == 0 {
		return fmt.Errorf("stack: no domains")
	}
	loc := 0
	for _, d := range s.domains {
		d.SetLoc(loc)
		loc += width(d)
	}
	s.size = loc

	for i, d := range s.domains {
		if l, ok := d.(linker); ok {
			var left, right Domain
			if i > 0 {
				left = s.domains[i-1]
			}
			if i < len(s.domains)-1 {
				right = s.domains[i+1]
			}
			l.link(left, right)
		}
	}
	for _, d := range s.domains {
		if err := d.Init(); err != nil {
			return err
		}
	}
	if err := s.verify(); err != nil {
		return err
	}
	s.ready = true
	return nil
}

// verify checks that the domain ranges exactly tile the global vector: no
// gaps, no overlaps, widths consistent with point and component counts.
func (s *Stack) verify() error {
	next := 0
	for _, d := range s.domains {
		if d.Points() < 1 || d.NComponents() < 1 {
			return fmt.Errorf("stack: domain %s has empty extent (%d points, %d components)",
				d.Name(), d.Points(), d.NComponents())
		}
		if d.Loc() != next {
			return fmt.Errorf("stack: domain %s starts at offset %d, expected %d",
				d.Name(), d.Loc(), next)
		}
		next += width(d)
	}
	if next != s.size {
		return fmt.Errorf("stack: domains tile %d unknowns, size is %d", next, s.size)
	}
	return nil
}

// InitialGuess assembles the global initial iterate
func (s *Stack) InitialGuess() ([]float64, error) {
	if !s.ready {
		return nil, fmt.Errorf("stack: InitialGuess before Init")
	}
	x := make([]float64, s.size)
	for _, d := range s.domains {
		d.InitialGuess(s.window(x, d))
	}
	return x, nil
}

// Eval assembles the full residual vector for the iterate x. Flow domains
// and terminators are evaluated first and boundaries last, so the rows a
// boundary overwrites at a shared grid point land after anything the flow
// domain put there; within each class, sequence order. diag receives a 1 for
// rows carrying a time-derivative term.
func (s *Stack) Eval(x, r []float64, diag []int, rdt float64) error {
	if !s.ready {
		return fmt.Errorf("stack: Eval before Init")
	}
	if len(x) != s.size || len(r) != s.size || len(diag) != s.size {
		return fmt.Errorf("stack: Eval buffers have lengths %d/%d/%d, size is %d",
			len(x), len(r), len(diag), s.size)
	}
	for i := range r {
		r[i] = 0
		diag[i] = 0
	}
	for _, d := range s.domains {
		if _, isBdry := d.(linker); !isBdry {
			if err := s.evalOne(d, x, r, diag, rdt); err != nil {
				return err
			}
		}
	}
	for _, d := range s.domains {
		if _, isBdry := d.(linker); isBdry {
			if err := s.evalOne(d, x, r, diag, rdt); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Stack) evalOne(d Domain, x, r []float64, diag []int, rdt float64) error {
	lo, hi := d.Loc(), d.Loc()+width(d)
	ctx := EvalContext{
		X:    x,
		Rdt:  rdt,
		R:    r[lo:hi],
		Diag: diag[lo:hi],
	}
	if b, ok := d.(linker); ok {
		left, right := b.neighborRows()
		if left.ok {
			ctx.RLeft = r[left.loc : left.loc+left.nv]
			ctx.DiagLeft = diag[left.loc : left.loc+left.nv]
		}
		if right.ok {
			ctx.RRight = r[right.loc : right.loc+right.nv]
			ctx.DiagRight = diag[right.loc : right.loc+right.nv]
		}
	}
	return d.Eval(&ctx)
}

// Norm returns the Euclidean norm of a residual vector, a convenience for
// convergence reporting by the enclosing driver.
func (s *Stack) Norm(r []float64) float64 { return floats.Norm(r, 2) }

// Finalize commits the converged iterate into every domain's owned state
func (s *Stack) Finalize(x []float64) {
	for _, d := range s.domains {
		d.Finalize(s.window(x, d))
	}
}

// Save encodes the whole sequence as a yaml sequence node, one record per
// domain, in order.
func (s *Stack) Save(x []float64) (*yaml.Node, error) {
	if !s.ready {
		return nil, fmt.Errorf("stack: Save before Init")
	}
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, d := range s.domains {
		child := &yaml.Node{}
		if err := d.Save(child, s.window(x, d)); err != nil {
			return nil, err
		}
		root.Content = append(root.Content, child)
	}
	return root, nil
}

// Restore decodes a saved sequence back into the domains, in order, and
// writes the restored unknowns into x.
func (s *Stack) Restore(root *yaml.Node, x []float64) error {
	if !s.ready {
		return fmt.Errorf("stack: Restore before Init")
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return fmt.Errorf("stack: restore root is not a sequence")
	}
	if len(root.Content) != len(s.domains) {
		return fmt.Errorf("stack: saved state has %d domains, sequence has %d",
			len(root.Content), len(s.domains))
	}
	for i, d := range s.domains {
		if err := d.Restore(root.Content[i], s.window(x, d)); err != nil {
			return err
		}
	}
	return nil
}

// ShowSolution writes a human-readable report of the converged iterate
func (s *Stack) ShowSolution(w io.Writer, x []float64) {
	for _, d := range s.domains {
		fmt.Fprintf(w, "------------------- %s (%s", d.Name(), d.Kind())
		if bc := d.Kind().Condition(); bc.String() != "None" {
			fmt.Fprintf(w, ", %s", bc)
		}
		fmt.Fprintf(w, ") -------------------\n")
		d.ShowSolution(w, s.window(x, d))
	}
}

func (s *Stack) window(x []float64, d Domain) []float64 {
	return x[d.Loc() : d.Loc()+width(d)]
}
