package geometry

import (
	"math"

	"github.com/df07/go-raycast/pkg/core"
)

// Sphere is the unit sphere centered at the origin of its local space
type Sphere struct {
	Name string
}

// NewSphere creates a new unit sphere
func NewSphere(name string) *Sphere {
	return &Sphere{Name: name}
}

// LocalIntersect tests a local-space ray against the unit sphere. Like Box,
// an origin inside the sphere reports the exit point.
func (s *Sphere) LocalIntersect(ray core.Ray, hit *core.HitRecord) bool {
	oc := ray.Origin

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a < core.ParallelEpsilon*core.ParallelEpsilon {
		return false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - 1

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := (-halfB - sqrtD) / a
	if root < 0 {
		root = (-halfB + sqrtD) / a
	}
	if !hit.Accepts(root) {
		return false
	}

	point := ray.At(root)
	return hit.Record(root, point, point.Normalize(), s)
}

// Bounds returns the local-space bounding box
func (s *Sphere) Bounds() core.AABB {
	return core.UnitCube
}

// String identifies the sphere in logs
func (s *Sphere) String() string {
	if s.Name == "" {
		return "sphere"
	}
	return "sphere:" + s.Name
}
