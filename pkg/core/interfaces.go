package core

// Primitive is any shape that can be intersected in its own local space.
//
// LocalIntersect tests ray (already transformed into the primitive's local
// frame) and, when it finds a non-negative hit strictly closer than the one
// held by hit, overwrites hit and returns true. Otherwise hit is unchanged
// and the result is false.
type Primitive interface {
	LocalIntersect(ray Ray, hit *HitRecord) bool
}

// Bounded is implemented by primitives that can report an axis-aligned
// bounding box in the same space their rays arrive in
type Bounded interface {
	Bounds() AABB
}
