package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-raycast/pkg/core"
)

// SurfaceEpsilon is the distance from a face plane within which a point is
// considered to lie on that face
const SurfaceEpsilon = 1e-6

// NormalPolicy selects how Box.Normal resolves points on an edge or corner,
// where the point is within SurfaceEpsilon of faces on more than one axis
type NormalPolicy int

const (
	// FirstAxis keeps only the first matching axis in X, Y, Z order.
	// The resulting normal is always unit length.
	FirstAxis NormalPolicy = iota
	// Blend sets every matching axis component, giving a non-unit
	// "edge compromise" normal such as (1,1,0) on an edge.
	Blend
)

// String returns the config name of the policy
func (p NormalPolicy) String() string {
	switch p {
	case FirstAxis:
		return "first-axis"
	case Blend:
		return "blend"
	default:
		return fmt.Sprintf("NormalPolicy(%d)", int(p))
	}
}

// ParseNormalPolicy converts a config name into a NormalPolicy.
// The empty string selects FirstAxis.
func ParseNormalPolicy(name string) (NormalPolicy, error) {
	switch name {
	case "", "first-axis":
		return FirstAxis, nil
	case "blend":
		return Blend, nil
	default:
		return FirstAxis, fmt.Errorf("unknown normal policy %q", name)
	}
}

// Box is the axis-aligned unit box spanning [-1,1] on each axis of its local
// space. Placement in a scene is the caller's job (see Transformed).
type Box struct {
	Name   string       // Optional label, used in logs
	Policy NormalPolicy // Edge and corner normal resolution
}

// NewBox creates a unit box with the default FirstAxis normal policy
func NewBox(name string) *Box {
	return &Box{Name: name}
}

// LocalIntersect intersects a local-space ray with the box using the slab
// method. If the origin is outside the box the entry point is reported,
// otherwise the exit point. Hits behind the origin are discarded.
func (b *Box) LocalIntersect(ray core.Ray, hit *core.HitRecord) bool {
	t, ok := b.Intersect(ray)
	if !ok || !hit.Accepts(t) {
		return false
	}

	point := ray.At(t)
	return hit.Record(t, point, b.Normal(point), b)
}

// Intersect returns the ray parameter of the reported box hit without
// touching any hit record. ok is false when the ray misses, when the box
// lies entirely behind the origin, or when the ray is parallel to every
// axis (no finite surface crossing exists).
func (b *Box) Intersect(ray core.Ray) (t float64, ok bool) {
	tMin, tMax, ok := core.UnitCube.Interval(ray)
	if !ok {
		return 0, false
	}

	if tMin > 0 {
		t = tMin
	} else {
		t = tMax
	}

	if t < 0 || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

// Normal returns the outward face normal for a point on the box surface.
// Points on no face give the zero vector.
func (b *Box) Normal(point core.Vec3) core.Vec3 {
	var normal core.Vec3
	for axis := 0; axis < 3; axis++ {
		side := faceSide(point.Axis(axis))
		if side == 0 {
			continue
		}
		normal = normal.WithAxis(axis, side)
		if b.Policy == FirstAxis {
			break
		}
	}
	return normal
}

// Bounds returns the local-space bounding box
func (b *Box) Bounds() core.AABB {
	return core.UnitCube
}

// String identifies the box in logs
func (b *Box) String() string {
	if b.Name == "" {
		return "box"
	}
	return "box:" + b.Name
}

// faceSide returns -1 or +1 when c lies on the low or high face plane, else 0
func faceSide(c float64) float64 {
	switch {
	case math.Abs(c+1) < SurfaceEpsilon:
		return -1
	case math.Abs(c-1) < SurfaceEpsilon:
		return 1
	default:
		return 0
	}
}
