// Package model normalizes graph input into mutable simulation state.
//
// A [Model] owns the node and edge records that the force simulator,
// stylist and viewport read and write. It is built once by the first call
// to [Model.Initialize]; later calls diff the input by id so that existing
// nodes keep their position and velocity while labels and dimensions are
// refreshed.
//
// # Placement
//
// New nodes are placed on a golden-angle spiral around the viewport center:
//
//	angle  = i * π(3 - √5)
//	radius = 0.04 * min(width, height) * √(i+1)
//
// where i is a slot counter that keeps increasing across updates, so nodes
// added later continue the spiral outward instead of landing on top of
// earlier ones. Each node also gets a small initial velocity from seeded
// OpenSimplex noise to break symmetry.
//
// # Data integrity
//
// Bad input is repaired, never fatal. Dimension values outside [0, 1] are
// clamped, missing values read as 0.5, and edges that reference unknown
// nodes are skipped by [Model.Links]. Each repair is logged and reported
// once through [Options.OnDiagnostic].
package model
