package zerod

import "fmt"

// Network groups interconnected reactors. Integration of the coupled ODE
// system is external; the network only owns membership and collective state
// synchronization.
type Network struct {
	reactors []*Reactor
}

func NewNetwork() *Network { return &Network{} }

// Add attaches a reactor to the network and records the back-reference
func (n *Network) Add(r *Reactor) error {
	if r.net != nil && r.net != n {
		return fmt.Errorf("reactor %s already belongs to another network", r.name)
	}
	r.setNetwork(n)
	n.reactors = append(n.reactors, r)
	return nil
}

func (n *Network) NReactors() int { return len(n.reactors) }
func (n *Network) Reactors() []*Reactor { return n.reactors }

// SyncStates snapshots every reactor's mixture state
func (n *Network) SyncStates() {
	for _, r := range n.reactors {
		r.SyncState()
	}
}

// RestoreStates pushes every reactor's saved state back into its mixture
func (n *Network) RestoreStates() error {
	for _, r := range n.reactors {
		if err := r.RestoreState(); err != nil {
			return err
		}
	}
	return nil
}
