// Package dimension provides the normalized attribute vectors that drive
// both styling and similarity-weighted forces.
//
// A dimension is a named scalar in [0, 1]. Nodes and edges carry a [Vector]
// of dimensions; the union of all names currently loaded forms the known
// [Set]. Both types are small values ordered by name, so iteration order is
// deterministic and two vectors built from equal maps compare equal.
//
// Missing values read as [Default] (0.5) instead of failing:
//
//	v := dimension.FromMap(map[string]float64{"era": 0.2})
//	v.Value("era")  // 0.2
//	v.Value("fame") // 0.5
//
// [Similarity] compares two vectors over a known set; it is 1 for identical
// vectors and approaches 0 as values diverge.
package dimension
