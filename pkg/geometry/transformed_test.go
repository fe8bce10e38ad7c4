package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-raycast/pkg/core"
)

func mustTransformed(t *testing.T, prim core.Primitive, m mgl64.Mat4) *Transformed {
	t.Helper()
	tr, err := NewTransformed(prim, m)
	require.NoError(t, err)
	return tr
}

func assertVecNear(t *testing.T, expected, actual core.Vec3) {
	t.Helper()
	assert.InDelta(t, 0, expected.Subtract(actual).Length(), 1e-9, "expected %v, got %v", expected, actual)
}

func TestTransformed_Translate(t *testing.T) {
	box := NewBox("shifted")
	m := mgl64.Translate3D(0, 0, 3)
	tr := mustTransformed(t, box, m)
	assert.Equal(t, m, tr.ToWorld())

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	var hit core.HitRecord
	require.True(t, tr.LocalIntersect(ray, &hit))

	assert.InDelta(t, 7.0, hit.T, 1e-9)
	assertVecNear(t, core.NewVec3(0, 0, 2), hit.Point)
	assertVecNear(t, core.NewVec3(0, 0, -1), hit.Normal)
	assert.Same(t, tr, hit.Object)
}

func TestTransformed_ScalePreservesT(t *testing.T) {
	tr := mustTransformed(t, NewBox(""), mgl64.Scale3D(2, 2, 2))

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	local := tr.LocalRay(ray)
	assertVecNear(t, core.NewVec3(0, 0, -2.5), local.Origin)
	assertVecNear(t, core.NewVec3(0, 0, 0.5), local.Direction)

	var hit core.HitRecord
	require.True(t, tr.LocalIntersect(ray, &hit))
	assert.InDelta(t, 3.0, hit.T, 1e-9)
	assertVecNear(t, ray.At(3), hit.Point)
	assertVecNear(t, core.NewVec3(0, 0, -2), hit.Point)
}

func TestTransformed_RotatedNonUniformScale(t *testing.T) {
	// Local X stretched to 3, then turned onto world -Z
	m := TRS(core.Vec3{}, core.NewVec3(3, 1, 1), core.NewVec3(0, 90, 0))
	tr := mustTransformed(t, NewBox(""), m)

	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))
	var hit core.HitRecord
	require.True(t, tr.LocalIntersect(ray, &hit))

	assert.InDelta(t, 2.0, hit.T, 1e-9)
	assertVecNear(t, core.NewVec3(0, 0, -3), hit.Point)
	assertVecNear(t, core.NewVec3(0, 0, -1), hit.Normal)
}

func TestTransformed_NormalUsesInverseTranspose(t *testing.T) {
	// Blend policy gives a (-1,-1,0) edge normal in local space; under a
	// non-uniform scale the world normal is S^-1 * n, not S * n
	tr := mustTransformed(t, &Box{Policy: Blend}, mgl64.Scale3D(2, 1, 1))

	ray := core.NewRay(core.NewVec3(-6, -3, 0), core.NewVec3(2, 1, 0))
	var hit core.HitRecord
	require.True(t, tr.LocalIntersect(ray, &hit))

	assert.InDelta(t, 2.0, hit.T, 1e-9)
	assertVecNear(t, core.NewVec3(-2, -1, 0), hit.Point)
	assertVecNear(t, core.NewVec3(-1/math.Sqrt(5), -2/math.Sqrt(5), 0), hit.Normal)
}

func TestTransformed_SharedRecordOrderIndependent(t *testing.T) {
	nearBox := mustTransformed(t, NewBox("near"), mgl64.Ident4())
	farBox := mustTransformed(t, NewBox("far"), mgl64.Translate3D(0, 0, 3))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	orders := [][]core.Primitive{
		{nearBox, farBox},
		{farBox, nearBox},
	}

	var results []core.HitRecord
	for _, order := range orders {
		var hit core.HitRecord
		for _, prim := range order {
			prim.LocalIntersect(ray, &hit)
		}
		require.True(t, hit.Valid())
		assert.InDelta(t, 4.0, hit.T, 1e-9)
		assertVecNear(t, core.NewVec3(0, 0, -1), hit.Normal)
		assert.Same(t, nearBox, hit.Object)
		results = append(results, hit)
	}
	assert.Equal(t, results[0], results[1])
}

func TestTransformed_MissLeavesRecord(t *testing.T) {
	tr := mustTransformed(t, NewSphere(""), mgl64.Translate3D(10, 0, 0))
	ray := core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1))

	var hit core.HitRecord
	hit.Record(1.5, core.NewVec3(0, 0, -3.5), core.NewVec3(0, 0, -1), NewBox("x"))
	before := hit

	assert.False(t, tr.LocalIntersect(ray, &hit))
	assert.Equal(t, before, hit)
}

func TestTransformed_Errors(t *testing.T) {
	_, err := NewTransformed(NewBox(""), mgl64.Scale3D(0, 1, 1))
	assert.True(t, errors.Is(err, ErrSingularTransform))

	_, err = NewTransformed(nil, mgl64.Ident4())
	assert.Error(t, err)
}

type unboundedPrimitive struct{ id int }

func (u *unboundedPrimitive) LocalIntersect(ray core.Ray, hit *core.HitRecord) bool { return false }

func TestTransformed_Bounds(t *testing.T) {
	tr := mustTransformed(t, NewBox(""), TRS(core.NewVec3(0, 0, 3), core.NewVec3(2, 2, 2), core.Vec3{}))
	bounds := tr.Bounds()
	assertVecNear(t, core.NewVec3(-2, -2, 1), bounds.Min)
	assertVecNear(t, core.NewVec3(2, 2, 5), bounds.Max)

	// 45 degree turn about Z widens the X/Y extent to sqrt(2)
	rotated := mustTransformed(t, NewBox(""), TRS(core.Vec3{}, core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 45)))
	rb := rotated.Bounds()
	assert.InDelta(t, math.Sqrt2, rb.Max.X, 1e-9)
	assert.InDelta(t, math.Sqrt2, rb.Max.Y, 1e-9)
	assert.InDelta(t, 1.0, rb.Max.Z, 1e-9)

	inf := mustTransformed(t, &unboundedPrimitive{}, mgl64.Ident4()).Bounds()
	assert.True(t, math.IsInf(inf.Min.X, -1))
	assert.True(t, math.IsInf(inf.Max.Z, 1))
}
