// Package zerod provides the state bookkeeping of a zero-dimensional
// well-stirred reactor network: reactors holding a working mixture, the flow
// devices, walls and reacting surfaces connected to them, and synchronization
// between the mixture state and the reactor's saved state vector. Time
// integration of the network is external.
package zerod

import (
	"fmt"

	"github.com/himcraft/cantera/chem"
)

// Contents is the mixture view a reactor needs of its working phase. A
// pointer to the live phase is stored; as a simulation proceeds the phase
// state is mutated, and SyncState/RestoreState move state across.
type Contents interface {
	chem.Phase

	Temperature() float64
	Density() float64
	Pressure() float64
	EnthalpyMass() float64
	IntEnergyMass() float64

	// GetMassFractions writes the current mass fractions into y,
	// length NSpecies()
	GetMassFractions(y []float64)

	// SetState sets temperature, density and mass fractions together
	SetState(temp, density float64, y []float64)
}

// FlowDevice moves mass into or out of a reactor
type FlowDevice interface {
	MassFlowRate() float64
}

// Wall separates two reactors and may move heat or volume between them
type Wall interface {
	Area() float64
}

// Surface is a reacting surface installed in a reactor
type Surface interface {
	Kinetics() chem.InterfaceKinetics
}

// Reactor is the base bookkeeping entity of a reactor network. It owns no
// integration logic: it records connections and snapshots the mixture state
// as [T, rho, Y_0..Y_{K-1}].
type Reactor struct {
	name     string
	vol      float64
	contents Contents

	state     []float64 // [T, rho, Y...] after the last SyncState
	enthalpy  float64   // [J/kg]
	intEnergy float64   // [J/kg]
	pressure  float64   // [Pa]

	inlets, outlets []FlowDevice
	walls           []Wall
	wallLR          []int // 0 = reactor left of wall, 1 = right
	surfaces        []Surface

	net *Network
}

// NewReactor creates a reactor with the default 1 m^3 volume
func NewReactor(name string) *Reactor {
	if name == "" {
		name = "(none)"
	}
	return &Reactor{name: name, vol: 1.0}
}

func (r *Reactor) Name() string { return r.name }
func (r *Reactor) SetName(name string) { r.name = name }
func (r *Reactor) Volume() float64 { return r.vol }
func (r *Reactor) SetInitialVolume(v float64) { r.vol = v }

// SetThermoMgr specifies the mixture contained in the reactor and takes an
// initial state snapshot.
func (r *Reactor) SetThermoMgr(c Contents) {
	r.contents = c
	r.state = make([]float64, 2+c.NSpecies())
	r.SyncState()
}

// Contents returns the working mixture
func (r *Reactor) Contents() (Contents, error) {
	if r.contents == nil {
		return nil, fmt.Errorf("reactor %s: contents not defined", r.name)
	}
	return r.contents, nil
}

// SyncState snapshots the mixture state into the reactor. The inverse of
// RestoreState.
func (r *Reactor) SyncState() {
	if r.contents == nil {
		return
	}
	r.state[0] = r.contents.Temperature()
	r.state[1] = r.contents.Density()
	r.contents.GetMassFractions(r.state[2:])
	r.enthalpy = r.contents.EnthalpyMass()
	r.intEnergy = r.contents.IntEnergyMass()
	r.pressure = r.contents.Pressure()
}

// RestoreState pushes the reactor's saved state back into the mixture
func (r *Reactor) RestoreState() error {
	if r.contents == nil {
		return fmt.Errorf("reactor %s: contents not defined", r.name)
	}
	r.contents.SetState(r.state[0], r.state[1], r.state[2:])
	return nil
}

func (r *Reactor) checkState(op string) error {
	if len(r.state) == 0 {
		return fmt.Errorf("reactor %s: %s: state empty, contents not defined", r.name, op)
	}
	return nil
}

// Temperature returns the temperature [K] after the last SyncState
func (r *Reactor) Temperature() (float64, error) {
	if err := r.checkState("Temperature"); err != nil {
		return 0, err
	}
	return r.state[0], nil
}

// Density returns the density [kg/m^3] after the last SyncState
func (r *Reactor) Density() (float64, error) {
	if err := r.checkState("Density"); err != nil {
		return 0, err
	}
	return r.state[1], nil
}

func (r *Reactor) Pressure() float64 { return r.pressure }
func (r *Reactor) EnthalpyMass() float64 { return r.enthalpy }
func (r *Reactor) IntEnergyMass() float64 { return r.intEnergy }

// Mass returns the mass [kg] of the reactor contents
func (r *Reactor) Mass() (float64, error) {
	rho, err := r.Density()
	if err != nil {
		return 0, err
	}
	return r.vol * rho, nil
}

// MassFraction returns the mass fraction of species k after the last SyncState
func (r *Reactor) MassFraction(k int) (float64, error) {
	if err := r.checkState("MassFraction"); err != nil {
		return 0, err
	}
	if k < 0 || k+2 >= len(r.state) {
		return 0, fmt.Errorf("reactor %s: MassFraction: species index %d out of range", r.name, k)
	}
	return r.state[k+2], nil
}

// MassFractions returns the species mass-fraction snapshot
func (r *Reactor) MassFractions() ([]float64, error) {
	if err := r.checkState("MassFractions"); err != nil {
		return nil, err
	}
	return r.state[2:], nil
}

// AddInlet connects an inflow device
func (r *Reactor) AddInlet(d FlowDevice) { r.inlets = append(r.inlets, d) }

// AddOutlet connects an outflow device
func (r *Reactor) AddOutlet(d FlowDevice) { r.outlets = append(r.outlets, d) }

func (r *Reactor) NInlets() int { return len(r.inlets) }
func (r *Reactor) NOutlets() int { return len(r.outlets) }

func (r *Reactor) Inlet(n int) (FlowDevice, error) {
	if n < 0 || n >= len(r.inlets) {
		return nil, fmt.Errorf("reactor %s: inlet %d of %d", r.name, n, len(r.inlets))
	}
	return r.inlets[n], nil
}

func (r *Reactor) Outlet(n int) (FlowDevice, error) {
	if n < 0 || n >= len(r.outlets) {
		return nil, fmt.Errorf("reactor %s: outlet %d of %d", r.name, n, len(r.outlets))
	}
	return r.outlets[n], nil
}

// AddWall installs a wall with this reactor on side lr (0 = left, 1 = right)
func (r *Reactor) AddWall(w Wall, lr int) {
	r.walls = append(r.walls, w)
	if lr != 0 {
		lr = 1
	}
	r.wallLR = append(r.wallLR, lr)
}

func (r *Reactor) NWalls() int { return len(r.walls) }

func (r *Reactor) Wall(n int) (Wall, error) {
	if n < 0 || n >= len(r.walls) {
		return nil, fmt.Errorf("reactor %s: wall %d of %d", r.name, n, len(r.walls))
	}
	return r.walls[n], nil
}

// AddSurface installs a reacting surface
func (r *Reactor) AddSurface(s Surface) { r.surfaces = append(r.surfaces, s) }

func (r *Reactor) NSurfaces() int { return len(r.surfaces) }

func (r *Reactor) Surface(n int) (Surface, error) {
	if n < 0 || n >= len(r.surfaces) {
		return nil, fmt.Errorf("reactor %s: surface %d of %d", r.name, n, len(r.surfaces))
	}
	return r.surfaces[n], nil
}

// ResidenceTime returns mass / total outlet mass flow [s]
func (r *Reactor) ResidenceTime() (float64, error) {
	m, err := r.Mass()
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, out := range r.outlets {
		total += out.MassFlowRate()
	}
	if total <= 0 {
		return 0, fmt.Errorf("reactor %s: ResidenceTime: no outlet flow", r.name)
	}
	return m / total, nil
}

// Network returns the owning network, if any
func (r *Reactor) Network() *Network { return r.net }
func (r *Reactor) setNetwork(n *Network) { r.net = n }
