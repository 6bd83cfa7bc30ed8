package physics

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/core/model"
	"github.com/matzehuels/dimgraph/pkg/core/style"
	"github.com/matzehuels/dimgraph/pkg/dimension"
	"github.com/matzehuels/dimgraph/pkg/errors"
)

// Force constants that are not tunable.
const (
	// NaturalLengthFactor is the edge rest length as a fraction of the
	// smaller viewport side, before the strength adjustment.
	NaturalLengthFactor = 0.15

	// CollisionFactor scales the summed radii below which shapes collide.
	CollisionFactor = 1.2

	closeRepulsionBoost = 5
	repulsionSoftening  = 10
	focusSelfMultiplier = 3
)

// RadiusFunc returns the rendered radius of a node with the given dimensions.
type RadiusFunc func(dimension.Vector) float64

// Options configures a Simulator.
type Options struct {
	Parameters Parameters
	Clustering ClusteringConfig
	Radius     RadiusFunc
	Logger     *log.Logger

	// OnDiagnostic receives every numeric correction.
	OnDiagnostic func(code errors.Code, detail string)
}

// Simulator integrates forces on a model one iteration at a time.
// It is not safe for concurrent use.
type Simulator struct {
	model      *model.Model
	params     Parameters
	clustering ClusteringConfig
	radius     RadiusFunc
	focusID    string

	iteration   int
	energy      float64
	running     bool
	converged   bool
	corrections int

	fx, fy []float64

	logger *log.Logger
	diag   func(errors.Code, string)
}

// New creates a stopped simulator for m. A zero Parameters value is
// replaced with DefaultParameters.
func New(m *model.Model, opts Options) *Simulator {
	if opts.Parameters == (Parameters{}) {
		opts.Parameters = DefaultParameters()
	}
	if opts.Radius == nil {
		opts.Radius = style.Default().Radius
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Simulator{
		model:      m,
		params:     opts.Parameters,
		clustering: opts.Clustering.WithDefaults(),
		radius:     opts.Radius,
		logger:     opts.Logger,
		diag:       opts.OnDiagnostic,
	}
}

// =============================================================================
// Control
// =============================================================================

// Restart resets the iteration counter and marks the simulation running.
func (s *Simulator) Restart() {
	s.iteration = 0
	s.energy = 0
	s.converged = false
	s.running = true
}

// Stop halts the simulation without marking it converged.
func (s *Simulator) Stop() { s.running = false }

// Running reports whether Step will advance the simulation.
func (s *Simulator) Running() bool { return s.running }

// Converged reports whether the last run ended below the energy threshold.
func (s *Simulator) Converged() bool { return s.converged }

// Iteration returns the number of iterations in the current run.
func (s *Simulator) Iteration() int { return s.iteration }

// Energy returns the kinetic energy after the last iteration.
func (s *Simulator) Energy() float64 { return s.energy }

// Corrections returns how many non-finite nodes have been reset.
func (s *Simulator) Corrections() int { return s.corrections }

// Parameters returns the current parameters.
func (s *Simulator) Parameters() Parameters { return s.params }

// SetParameters replaces the parameters. The current run continues with
// the new values; a lowered IterationCap takes effect on the next step.
func (s *Simulator) SetParameters(p Parameters) { s.params = p }

// Clustering returns the current clustering configuration.
func (s *Simulator) Clustering() ClusteringConfig { return s.clustering }

// SetClustering replaces the clustering configuration.
func (s *Simulator) SetClustering(c ClusteringConfig) { s.clustering = c.WithDefaults() }

// Focus returns the focus node id, or "" when unfocused.
func (s *Simulator) Focus() string { return s.focusID }

// SetFocus sets the focus node. An empty id clears it.
func (s *Simulator) SetFocus(id string) { s.focusID = id }

// =============================================================================
// Step
// =============================================================================

// Step runs one iteration if the simulation is running and reports whether
// it is still running afterwards.
func (s *Simulator) Step() bool {
	if !s.running {
		return false
	}
	if s.iteration >= s.params.IterationCap {
		s.finish()
		return false
	}

	s.Correct()
	nodes := s.model.Nodes()
	if cap(s.fx) < len(nodes) {
		s.fx = make([]float64, len(nodes))
		s.fy = make([]float64, len(nodes))
	}
	s.fx, s.fy = s.fx[:len(nodes)], s.fy[:len(nodes)]
	clear(s.fx)
	clear(s.fy)

	index := make(map[*model.Node]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}

	s.applyPairForces(nodes)
	s.applySprings(index)
	if s.clustering.Enabled {
		s.applyClustering(nodes)
	}
	s.applyCentering(nodes)
	s.integrate(nodes)

	s.iteration++
	s.Correct()
	s.energy = kineticEnergy(nodes)

	switch {
	case s.energy < s.params.ConvergenceThreshold:
		s.converged = true
		s.finish()
	case s.iteration >= s.params.IterationCap:
		s.finish()
	}
	return s.running
}

func (s *Simulator) finish() {
	s.running = false
	s.logger.Debug("simulation settled",
		"iterations", s.iteration,
		"energy", s.energy,
		"converged", s.converged)
}

// applyPairForces adds repulsion and collision correction for every pair.
func (s *Simulator) applyPairForces(nodes []*model.Node) {
	p := s.params
	dims := s.model.NodeDimensions()

	radii := make([]float64, len(nodes))
	for i, n := range nodes {
		radii[i] = s.radius(n.Dimensions)
	}

	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			d := math.Hypot(dx, dy)

			if d > 0 && !math.IsNaN(d) && d < p.MaxDistance {
				strength := p.RepulsionStrength
				if d < p.MinDistance {
					strength *= closeRepulsionBoost
				}
				strength *= 1 + dimension.Similarity(a.Dimensions, b.Dimensions, dims)*0.5
				m := strength / (d*d + repulsionSoftening)
				s.push(i, j, dx/d*m, dy/d*m)
			}

			limit := CollisionFactor * (radii[i] + radii[j])
			if math.IsNaN(d) || d >= limit {
				continue
			}
			ux, uy := 0.0, 0.0
			if d > 0 {
				ux, uy = dx/d, dy/d
			} else {
				// Coincident shapes: separate along a deterministic direction.
				angle := float64(i*len(nodes)+j) * model.GoldenAngle
				ux, uy = math.Cos(angle), math.Sin(angle)
			}
			m := (limit - d) * p.CollisionStrength / 2
			s.push(i, j, ux*m, uy*m)
		}
	}
}

// push adds (fx, fy) to node i and subtracts it from node j.
func (s *Simulator) push(i, j int, fx, fy float64) {
	s.fx[i] += fx
	s.fy[i] += fy
	s.fx[j] -= fx
	s.fy[j] -= fy
}

// applySprings pulls linked nodes toward their natural length.
func (s *Simulator) applySprings(index map[*model.Node]int) {
	for _, l := range s.model.Links() {
		if l.Source == l.Target {
			continue
		}
		i, j := index[l.Source], index[l.Target]
		dx, dy := l.Target.X-l.Source.X, l.Target.Y-l.Source.Y
		d := math.Hypot(dx, dy)
		if d == 0 || math.IsNaN(d) {
			continue
		}
		strength := l.Edge.Strength
		length := s.NaturalLength(strength)
		weight := 1 + l.Edge.Dimensions.Sum()*0.5
		f := (d - length) * s.params.AttractionStrength * strength * weight
		s.push(i, j, dx/d*f, dy/d*f)
	}
}

// NaturalLength returns the spring rest length for an edge strength.
func (s *Simulator) NaturalLength(strength float64) float64 {
	w, h := s.model.Size()
	return NaturalLengthFactor * min(w, h) * (1 + strength*0.5)
}

// applyClustering pulls each node toward the centroid of its bucket.
func (s *Simulator) applyClustering(nodes []*model.Node) {
	type group struct {
		members []int
		sx, sy  float64
	}
	groups := make(map[int]*group)
	for i, n := range nodes {
		v, ok := n.Dimensions.Lookup(s.clustering.Dimension)
		if !ok {
			v = dimension.Default
		}
		b := s.clustering.Bucket(v)
		g := groups[b]
		if g == nil {
			g = &group{}
			groups[b] = g
		}
		g.members = append(g.members, i)
		g.sx += n.X
		g.sy += n.Y
	}
	for _, g := range groups {
		cx := g.sx / float64(len(g.members))
		cy := g.sy / float64(len(g.members))
		for _, i := range g.members {
			s.fx[i] += (cx - nodes[i].X) * ClusterPull
			s.fy[i] += (cy - nodes[i].Y) * ClusterPull
		}
	}
}

// applyCentering pulls nodes toward the center, or toward their focus
// targets when a focus node exists.
func (s *Simulator) applyCentering(nodes []*model.Node) {
	cx, cy := s.model.Center()
	focus, ok := s.model.Node(s.focusID)
	if s.focusID == "" || !ok {
		k := s.params.CenterForce
		for i, n := range nodes {
			s.fx[i] += (cx - n.X) * k
			s.fy[i] += (cy - n.Y) * k
		}
		return
	}

	dims := s.model.NodeDimensions()
	k := s.params.FocusForce
	for i, n := range nodes {
		if n == focus {
			s.fx[i] += (cx - n.X) * k * focusSelfMultiplier
			s.fy[i] += (cy - n.Y) * k * focusSelfMultiplier
			continue
		}
		t := FocusTarget(n, focus, dims, cx, cy)
		s.fx[i] += (t.X - n.X) * k
		s.fy[i] += (t.Y - n.Y) * k
	}
}

// integrate applies accumulated forces. Fixed nodes snap to their pin.
func (s *Simulator) integrate(nodes []*model.Node) {
	p := s.params
	progress := min(1, float64(s.iteration)/float64(p.IterationCap))
	decay := 1 - p.VelocityDecay*progress

	for i, n := range nodes {
		if n.Fixed {
			n.X, n.Y = n.PinX, n.PinY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX += s.fx[i]
		n.VY += s.fy[i]
		if speed := math.Hypot(n.VX, n.VY); speed > p.MaxSpeed {
			n.VX *= p.MaxSpeed / speed
			n.VY *= p.MaxSpeed / speed
		}
		n.X += n.VX
		n.Y += n.VY
		n.VX *= p.Damping * decay
		n.VY *= p.Damping * decay
	}
}

// Correct resets every node with a non-finite position or velocity to the
// viewport center (or its pin) at rest, and returns how many were reset.
func (s *Simulator) Correct() int {
	cx, cy := s.model.Center()
	count := 0
	for _, n := range s.model.Nodes() {
		if n.Finite() {
			continue
		}
		count++
		x, y := cx, cy
		if n.Fixed && !math.IsNaN(n.PinX+n.PinY) && !math.IsInf(n.PinX+n.PinY, 0) {
			x, y = n.PinX, n.PinY
		}
		detail := fmt.Sprintf("node %q had non-finite state (x=%v y=%v vx=%v vy=%v), reset", n.ID, n.X, n.Y, n.VX, n.VY)
		n.X, n.Y, n.VX, n.VY = x, y, 0, 0
		s.logger.Warn(detail, "code", errors.ErrCodeNumericInstability, "iteration", s.iteration)
		if s.diag != nil {
			s.diag(errors.ErrCodeNumericInstability, detail)
		}
	}
	s.corrections += count
	return count
}

func kineticEnergy(nodes []*model.Node) float64 {
	var e float64
	for _, n := range nodes {
		e += n.VX*n.VX + n.VY*n.VY
	}
	return e
}
