package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-raycast/pkg/core"
)

// ErrSingularTransform is returned when an object-to-world matrix cannot be
// inverted, so world rays cannot be brought into local space
var ErrSingularTransform = errors.New("transform is singular")

// minDeterminant is the smallest |det| accepted for an object-to-world matrix
const minDeterminant = 1e-12

// Transformed places a local-space primitive in the world.
//
// World rays are mapped into local space without renormalising the
// direction, so a hit parameter t means the same point in both spaces and
// the wrapped primitive can compare directly against the shared record.
// Reported points and normals are mapped back to world space.
type Transformed struct {
	Primitive core.Primitive

	toWorld   mgl64.Mat4
	toLocal   mgl64.Mat4
	normalMat mgl64.Mat4 // inverse transpose of toWorld
}

// NewTransformed wraps prim with the given object-to-world matrix
func NewTransformed(prim core.Primitive, toWorld mgl64.Mat4) (*Transformed, error) {
	if prim == nil {
		return nil, errors.New("transformed primitive is nil")
	}
	if det := toWorld.Det(); math.Abs(det) < minDeterminant || math.IsNaN(det) {
		return nil, fmt.Errorf("wrap %v: %w (det=%g)", prim, ErrSingularTransform, det)
	}

	toLocal := toWorld.Inv()
	return &Transformed{
		Primitive: prim,
		toWorld:   toWorld,
		toLocal:   toLocal,
		normalMat: toLocal.Transpose(),
	}, nil
}

// TRS builds an object-to-world matrix that scales, then rotates (degrees,
// about X then Y then Z), then translates
func TRS(translate, scale, rotateDeg core.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(translate.X, translate.Y, translate.Z)
	r := mgl64.HomogRotate3DZ(mgl64.DegToRad(rotateDeg.Z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(rotateDeg.Y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(rotateDeg.X)))
	s := mgl64.Scale3D(scale.X, scale.Y, scale.Z)
	return t.Mul4(r).Mul4(s)
}

// ToWorld returns the object-to-world matrix
func (tr *Transformed) ToWorld() mgl64.Mat4 {
	return tr.toWorld
}

// LocalRay maps a world-space ray into the wrapped primitive's space
func (tr *Transformed) LocalRay(ray core.Ray) core.Ray {
	return core.NewRay(
		fromMgl(mgl64.TransformCoordinate(toMgl(ray.Origin), tr.toLocal)),
		fromMgl(mgl64.TransformNormal(toMgl(ray.Direction), tr.toLocal)),
	)
}

// WorldPoint maps a local-space point to world space
func (tr *Transformed) WorldPoint(p core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), tr.toWorld))
}

// WorldNormal maps a local-space normal to a unit world-space normal
func (tr *Transformed) WorldNormal(n core.Vec3) core.Vec3 {
	return fromMgl(mgl64.TransformNormal(toMgl(n), tr.normalMat)).Normalize()
}

// LocalIntersect takes a world-space ray, delegates to the wrapped primitive
// in local space and records a world-space hit owned by tr
func (tr *Transformed) LocalIntersect(ray core.Ray, hit *core.HitRecord) bool {
	local := tr.LocalRay(ray)

	// The wrapped primitive works on a copy so local-space values never
	// reach the caller's record
	scratch := *hit
	if !tr.Primitive.LocalIntersect(local, &scratch) {
		return false
	}

	return hit.Record(
		scratch.T,
		ray.At(scratch.T),
		tr.WorldNormal(scratch.Normal),
		tr,
	)
}

// Bounds returns the world-space box around the transformed local bounds.
// Primitives that do not report bounds yield an infinite box.
func (tr *Transformed) Bounds() core.AABB {
	bounded, ok := tr.Primitive.(core.Bounded)
	if !ok {
		inf := math.Inf(1)
		return core.NewAABB(core.NewVec3(-inf, -inf, -inf), core.NewVec3(inf, inf, inf))
	}

	local := bounded.Bounds()
	corners := local.Corners()
	for i, c := range corners {
		corners[i] = tr.WorldPoint(c)
	}
	return core.NewAABBFromPoints(corners[:]...)
}

// String identifies the wrapped primitive in logs
func (tr *Transformed) String() string {
	return fmt.Sprintf("%v", tr.Primitive)
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
