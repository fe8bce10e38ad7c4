package core

import "math"

// HitRecord holds the closest intersection found so far for a single ray cast.
//
// The zero value is empty: no primitive has reported a hit yet. Emptiness is
// tracked separately from T so that no parameter value doubles as a sentinel.
// A record is owned by one ray cast at a time and must not be written from
// more than one goroutine; parallel evaluators give each worker its own
// record and combine them with Merge.
type HitRecord struct {
	T      float64   // Parameter t along the ray
	Point  Vec3      // Point of intersection
	Normal Vec3      // Surface normal at intersection
	Object Primitive // Primitive that produced the hit (not owned)

	valid bool
}

// Valid reports whether the record holds a hit
func (h HitRecord) Valid() bool {
	return h.valid
}

// Accepts reports whether a candidate at parameter t would replace the
// current hit: t must be non-negative and strictly closer than any held hit.
func (h HitRecord) Accepts(t float64) bool {
	if t < 0 || math.IsNaN(t) {
		return false
	}
	return !h.valid || t < h.T
}

// Record stores the candidate if Accepts(t) and reports whether it did.
// On rejection the record is left untouched.
func (h *HitRecord) Record(t float64, point, normal Vec3, obj Primitive) bool {
	if !h.Accepts(t) {
		return false
	}
	h.T = t
	h.Point = point
	h.Normal = normal
	h.Object = obj
	h.valid = true
	return true
}

// Merge folds another record into this one using the same strictly-closer
// rule as Record. An empty other never changes h.
func (h *HitRecord) Merge(other HitRecord) bool {
	if !other.valid {
		return false
	}
	return h.Record(other.T, other.Point, other.Normal, other.Object)
}

// Reset returns the record to the empty state
func (h *HitRecord) Reset() {
	*h = HitRecord{}
}
