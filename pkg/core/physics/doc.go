// Package physics implements the force simulation that lays out a model.
//
// A [Simulator] advances the model by one iteration per [Simulator.Step].
// Each iteration accumulates five forces into the velocity of every unfixed
// node and then integrates:
//
//  1. Pairwise repulsion, stronger for close and for dimensionally similar
//     pairs, cut off beyond MaxDistance.
//  2. A spring per edge toward a natural length derived from the viewport
//     size and the edge strength.
//  3. Collision correction pushing apart pairs whose rendered shapes come
//     within 1.2x their summed radii.
//  4. Optional clustering pull toward the centroid of each bucket of a
//     chosen dimension.
//  5. Centering toward the viewport center, or toward per-node focus
//     targets when a focus node is set.
//
// Integration clamps speed, moves the node, then applies Damping and a
// VelocityDecay that ramps in over the run. The run ends at IterationCap
// or when kinetic energy Σ(vx²+vy²) drops below ConvergenceThreshold; it
// stays stopped until [Simulator.Restart].
//
// Repulsion and collision both resist overlap with independent tuning.
// [Parameters.Warnings] flags combinations where the two fight each other
// or leave overlap unresisted.
//
// Non-finite positions or velocities never survive a step: they are reset
// to the viewport center and zero velocity and reported as numeric
// instability.
package physics
