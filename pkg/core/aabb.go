package core

import "math"

// ParallelEpsilon is the magnitude below which a ray direction component is
// treated as parallel to the slab on that axis
const ParallelEpsilon = 1e-6

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// UnitCube is the box spanning [-1,1] on every axis
var UnitCube = AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Interval intersects the ray with the box using the slab method and
// returns the parameter interval [tNear, tFar] inside the box.
//
// The interval is not clipped to t >= 0; callers decide how to treat hits
// behind the origin. When a direction component is within ParallelEpsilon of
// zero the ray can only pass if its origin is already between that axis'
// planes, and that axis does not narrow the interval. A ray parallel on
// every axis with its origin inside therefore yields an infinite interval.
func (aabb AABB) Interval(ray Ray) (tNear, tFar float64, ok bool) {
	return aabb.clip(ray, math.Inf(-1), math.Inf(1), false)
}

// Hit tests if a ray may intersect this AABB within [tMin, tMax].
//
// Hit is meant for bounding volumes and never rejects a ray that Interval
// would accept for any box it encloses: a near-parallel component with the
// origin between the planes does not narrow the range, and one with the
// origin outside is still divided through unless it is exactly zero.
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	_, _, ok := aabb.clip(ray, tMin, tMax, true)
	return ok
}

// clip narrows [tMin, tMax] by each axis slab in turn, stopping at the first
// axis that leaves the interval empty. widen selects the bounding volume
// treatment of near-parallel components described on Hit.
func (aabb AABB) clip(ray Ray, tMin, tMax float64, widen bool) (float64, float64, bool) {
	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < ParallelEpsilon {
			if origin >= min && origin <= max {
				continue
			}
			if !widen || direction == 0 {
				return tMin, tMax, false
			}
		}

		t1 := (min - origin) / direction
		t2 := (max - origin) / direction
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)

		// Empty interval: the slabs do not overlap along the ray
		if tMin > tMax {
			return tMin, tMax, false
		}
	}

	return tMin, tMax, true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	min := Vec3{
		X: math.Min(aabb.Min.X, other.Min.X),
		Y: math.Min(aabb.Min.Y, other.Min.Y),
		Z: math.Min(aabb.Min.Z, other.Min.Z),
	}
	max := Vec3{
		X: math.Max(aabb.Max.X, other.Max.X),
		Y: math.Max(aabb.Max.Y, other.Max.Y),
		Z: math.Max(aabb.Max.Z, other.Max.Z),
	}
	return AABB{Min: min, Max: max}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Corners returns the eight corner points of the box
func (aabb AABB) Corners() [8]Vec3 {
	lo, hi := aabb.Min, aabb.Max
	return [8]Vec3{
		{lo.X, lo.Y, lo.Z},
		{hi.X, lo.Y, lo.Z},
		{hi.X, hi.Y, lo.Z},
		{lo.X, hi.Y, lo.Z},
		{lo.X, lo.Y, hi.Z},
		{hi.X, lo.Y, hi.Z},
		{hi.X, hi.Y, hi.Z},
		{lo.X, hi.Y, hi.Z},
	}
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0 // X axis
	}
	if size.Y > size.Z {
		return 1 // Y axis
	}
	return 2 // Z axis
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Contains reports whether point lies inside the box (inclusive)
func (aabb AABB) Contains(point Vec3) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y &&
		point.Z >= aabb.Min.Z && point.Z <= aabb.Max.Z
}
