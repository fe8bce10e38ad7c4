package scene

import (
	"go.uber.org/zap"

	"github.com/df07/go-raycast/pkg/core"
	"github.com/df07/go-raycast/pkg/logger"
)

// Scene is a flat collection of primitives tested against rays.
//
// Primitives receive rays exactly as passed to the cast methods; anything
// that needs its own frame is expected to be wrapped (see
// geometry.Transformed) before it is added.
type Scene struct {
	Primitives []core.Primitive
	BVH        *BVH // Acceleration structure, nil until Preprocess

	log *zap.Logger
}

// New creates a scene. A nil logger disables logging.
func New(log *zap.Logger, prims ...core.Primitive) *Scene {
	return &Scene{
		Primitives: append([]core.Primitive(nil), prims...),
		log:        logger.OrNop(log),
	}
}

// Add appends primitives and discards any BVH built so far
func (s *Scene) Add(prims ...core.Primitive) {
	s.Primitives = append(s.Primitives, prims...)
	s.BVH = nil
}

// Preprocess builds the BVH used by Cast and CastInto
func (s *Scene) Preprocess() {
	s.BVH = NewBVH(s.Primitives)

	stats := s.BVH.Stats()
	s.log.Debug("built bvh",
		zap.Int("primitives", len(s.Primitives)),
		zap.Int("nodes", stats.TotalNodes),
		zap.Int("leaves", stats.LeafNodes),
		zap.Int("maxDepth", stats.MaxDepth),
		zap.Int("unbounded", stats.Unbounded))
}

// Cast returns the closest non-negative hit along ray, or an empty record
func (s *Scene) Cast(ray core.Ray) core.HitRecord {
	var hit core.HitRecord
	s.CastInto(ray, &hit)
	return hit
}

// CastInto tests every primitive against a caller-owned record and reports
// whether any of them improved it
func (s *Scene) CastInto(ray core.Ray, hit *core.HitRecord) bool {
	if s.BVH != nil {
		return s.BVH.Intersect(ray, hit)
	}
	return intersectAll(s.Primitives, ray, hit)
}

// intersectAll is the plain sequential accumulation loop
func intersectAll(prims []core.Primitive, ray core.Ray, hit *core.HitRecord) bool {
	updated := false
	for _, p := range prims {
		if p.LocalIntersect(ray, hit) {
			updated = true
		}
	}
	return updated
}
