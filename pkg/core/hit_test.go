package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPrimitive gives tests a distinct Object identity
type stubPrimitive struct{ name string }

func (s *stubPrimitive) LocalIntersect(ray Ray, hit *HitRecord) bool { return false }

func TestHitRecord_ZeroValueIsEmpty(t *testing.T) {
	var hit HitRecord
	assert.False(t, hit.Valid())
	assert.True(t, hit.Accepts(0))
	assert.True(t, hit.Accepts(1e300))
	assert.False(t, hit.Accepts(-1), "negative t is never accepted")
	assert.False(t, hit.Accepts(math.NaN()))
}

func TestHitRecord_Record(t *testing.T) {
	near := &stubPrimitive{"near"}
	far := &stubPrimitive{"far"}

	var hit HitRecord
	require.True(t, hit.Record(7, NewVec3(0, 0, 2), NewVec3(0, 0, -1), far))
	assert.True(t, hit.Valid())
	assert.Equal(t, 7.0, hit.T)
	assert.Same(t, far, hit.Object)

	require.True(t, hit.Record(4, NewVec3(0, 0, -1), NewVec3(0, 0, -1), near))
	assert.Equal(t, 4.0, hit.T)
	assert.Same(t, near, hit.Object)

	before := hit
	assert.False(t, hit.Record(4, NewVec3(9, 9, 9), NewVec3(1, 0, 0), far), "equal t is not strictly closer")
	assert.False(t, hit.Record(5, NewVec3(9, 9, 9), NewVec3(1, 0, 0), far))
	assert.False(t, hit.Record(-0.5, NewVec3(9, 9, 9), NewVec3(1, 0, 0), far))
	assert.Equal(t, before, hit, "rejected candidates must leave the record unchanged")
}

// A legitimately negative candidate must not be confused with "no hit yet"
func TestHitRecord_NegativeCandidateDoesNotPopulate(t *testing.T) {
	var hit HitRecord
	assert.False(t, hit.Record(-1, NewVec3(0, 0, 0), NewVec3(0, 0, 1), &stubPrimitive{}))
	assert.False(t, hit.Valid())
	assert.Equal(t, HitRecord{}, hit)
}

func TestHitRecord_ZeroTIsAValidHit(t *testing.T) {
	var hit HitRecord
	require.True(t, hit.Record(0, NewVec3(1, 0, 0), NewVec3(1, 0, 0), &stubPrimitive{}))
	assert.True(t, hit.Valid())
	assert.Equal(t, 0.0, hit.T)
	assert.False(t, hit.Accepts(0))
}

func TestHitRecord_Merge(t *testing.T) {
	a := &stubPrimitive{"a"}
	b := &stubPrimitive{"b"}

	var left, right HitRecord
	left.Record(6, NewVec3(0, 0, 1), NewVec3(0, 0, 1), a)
	right.Record(3, NewVec3(0, 0, -2), NewVec3(0, 0, -1), b)

	merged := HitRecord{}
	assert.True(t, merged.Merge(left))
	assert.True(t, merged.Merge(right))
	assert.False(t, merged.Merge(left))
	assert.False(t, merged.Merge(HitRecord{}), "empty records never win")
	assert.Equal(t, right, merged)

	// Order independence
	other := HitRecord{}
	other.Merge(right)
	other.Merge(left)
	assert.Equal(t, merged, other)
}

func TestHitRecord_Reset(t *testing.T) {
	var hit HitRecord
	hit.Record(2, NewVec3(1, 1, 1), NewVec3(1, 0, 0), &stubPrimitive{})
	hit.Reset()
	assert.False(t, hit.Valid())
	assert.Equal(t, HitRecord{}, hit)
}
