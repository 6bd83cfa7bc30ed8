package physics

import (
	"fmt"
	"math"

	"github.com/matzehuels/dimgraph/pkg/errors"
)

// Parameters tunes the simulation. All fields may be changed between steps.
type Parameters struct {
	RepulsionStrength    float64 `toml:"repulsion_strength" json:"repulsion_strength"`
	AttractionStrength   float64 `toml:"attraction_strength" json:"attraction_strength"`
	Damping              float64 `toml:"damping" json:"damping"`
	VelocityDecay        float64 `toml:"velocity_decay" json:"velocity_decay"`
	MinDistance          float64 `toml:"min_distance" json:"min_distance"`
	MaxDistance          float64 `toml:"max_distance" json:"max_distance"`
	IterationCap         int     `toml:"iteration_cap" json:"iteration_cap"`
	ConvergenceThreshold float64 `toml:"convergence_threshold" json:"convergence_threshold"`
	CenterForce          float64 `toml:"center_force" json:"center_force"`
	FocusForce           float64 `toml:"focus_force" json:"focus_force"`
	CollisionStrength    float64 `toml:"collision_strength" json:"collision_strength"`
	MaxSpeed             float64 `toml:"max_speed" json:"max_speed"`
}

// DefaultParameters returns parameters that settle typical graphs of a few
// hundred nodes within the default iteration cap.
func DefaultParameters() Parameters {
	return Parameters{
		RepulsionStrength:    1000,
		AttractionStrength:   0.01,
		Damping:              0.7,
		VelocityDecay:        0.3,
		MinDistance:          30,
		MaxDistance:          500,
		IterationCap:         500,
		ConvergenceThreshold: 0.005,
		CenterForce:          0.001,
		FocusForce:           0.02,
		CollisionStrength:    0.5,
		MaxSpeed:             40,
	}
}

// Validate reports every out-of-range field.
func (p Parameters) Validate() error {
	return errors.Join(
		errors.ValidateNonNegative("repulsion_strength", p.RepulsionStrength),
		errors.ValidateNonNegative("attraction_strength", p.AttractionStrength),
		errors.ValidatePositive("damping", p.Damping),
		errors.ValidateRange("damping", p.Damping, 0, 1),
		errors.ValidateRange("velocity_decay", p.VelocityDecay, 0, 1),
		errors.ValidateNonNegative("min_distance", p.MinDistance),
		errors.ValidatePositive("max_distance", p.MaxDistance),
		errors.ValidatePositive("iteration_cap", float64(p.IterationCap)),
		errors.ValidateNonNegative("convergence_threshold", p.ConvergenceThreshold),
		errors.ValidateNonNegative("center_force", p.CenterForce),
		errors.ValidateNonNegative("focus_force", p.FocusForce),
		errors.ValidateNonNegative("collision_strength", p.CollisionStrength),
		errors.ValidatePositive("max_speed", p.MaxSpeed),
	)
}

// Warnings describes parameter combinations that are valid but known to
// produce unstable or degraded layouts.
func (p Parameters) Warnings() []string {
	var w []string
	if p.RepulsionStrength == 0 && p.CollisionStrength == 0 {
		w = append(w, "repulsion and collision are both disabled; nodes will overlap")
	}
	if p.CollisionStrength > 1 {
		w = append(w, fmt.Sprintf("collision_strength %v > 1 overshoots and can oscillate", p.CollisionStrength))
	}
	if p.MinDistance >= p.MaxDistance {
		w = append(w, fmt.Sprintf("min_distance %v >= max_distance %v; close-range repulsion is cut off", p.MinDistance, p.MaxDistance))
	}
	// Strongest repulsion a pair just inside MinDistance can receive.
	if kick := p.RepulsionStrength * 5 * 1.5 / (p.MinDistance*p.MinDistance + 10); kick > p.MaxSpeed {
		w = append(w, fmt.Sprintf("close-range repulsion %.1f exceeds max_speed %v; overlapping pairs will jitter at the speed limit", kick, p.MaxSpeed))
	}
	if p.Damping > 0.95 && p.VelocityDecay == 0 {
		w = append(w, "damping above 0.95 without velocity_decay rarely converges before iteration_cap")
	}
	if p.ConvergenceThreshold == 0 {
		w = append(w, "convergence_threshold 0 always runs to iteration_cap")
	}
	return w
}

// =============================================================================
// Clustering
// =============================================================================

// AlgorithmCentroid pulls each bucket toward its centroid.
const AlgorithmCentroid = "centroid"

// DefaultMaxClusters is the bucket count used when MaxClusters is unset.
const DefaultMaxClusters = 4

// ClusterPull is the fraction of the distance to its centroid a node moves
// toward per iteration.
const ClusterPull = 0.01

// ClusteringConfig groups nodes by one dimension.
type ClusteringConfig struct {
	Enabled     bool   `toml:"enabled" json:"enabled"`
	Dimension   string `toml:"dimension" json:"dimension"`
	MaxClusters int    `toml:"max_clusters" json:"max_clusters"`
	Algorithm   string `toml:"algorithm" json:"algorithm"`
}

// WithDefaults fills unset fields.
func (c ClusteringConfig) WithDefaults() ClusteringConfig {
	if c.MaxClusters <= 0 {
		c.MaxClusters = DefaultMaxClusters
	}
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmCentroid
	}
	return c
}

// Validate checks an enabled configuration. A disabled one is always valid.
func (c ClusteringConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	c = c.WithDefaults()
	var errs []error
	if err := errors.ValidateDimensionName(c.Dimension); err != nil {
		errs = append(errs, err)
	}
	if c.Algorithm != AlgorithmCentroid {
		errs = append(errs, errors.New(errors.ErrCodeUnsupported, "clustering algorithm %q not supported (want %q)", c.Algorithm, AlgorithmCentroid))
	}
	return errors.Join(errs...)
}

// Bucket returns the cluster index of value v.
func (c ClusteringConfig) Bucket(v float64) int {
	n := c.WithDefaults().MaxClusters
	i := int(math.Floor(v * float64(n)))
	return max(0, min(i, n-1))
}
