package scene

import (
	"math"
	"sort"

	"github.com/df07/go-raycast/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Primitives  []core.Primitive // Leaf contents (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy over bounded primitives.
// Primitives without finite bounds are kept aside and tested linearly.
type BVH struct {
	Root      *BVHNode
	Unbounded []core.Primitive
}

// Leaf threshold: if we have this many or fewer primitives, store them in a leaf node
const leafThreshold = 8

type boundedPrimitive struct {
	prim   core.Primitive
	bounds core.AABB
}

// NewBVH constructs a BVH from a slice of primitives. The input slice is not modified.
func NewBVH(prims []core.Primitive) *BVH {
	bvh := &BVH{}

	var items []boundedPrimitive
	for _, p := range prims {
		b, ok := p.(core.Bounded)
		if !ok {
			bvh.Unbounded = append(bvh.Unbounded, p)
			continue
		}
		bounds := b.Bounds()
		if !bounds.IsValid() || !bounds.Min.IsFinite() || !bounds.Max.IsFinite() {
			bvh.Unbounded = append(bvh.Unbounded, p)
			continue
		}
		items = append(items, boundedPrimitive{prim: p, bounds: bounds})
	}

	if len(items) > 0 {
		bvh.Root = buildBVH(items)
	}
	return bvh
}

// buildBVH recursively builds the BVH using a median split along the longest axis
func buildBVH(items []boundedPrimitive) *BVHNode {
	boundingBox := items[0].bounds
	for _, item := range items[1:] {
		boundingBox = boundingBox.Union(item.bounds)
	}

	if len(items) <= leafThreshold {
		prims := make([]core.Primitive, len(items))
		for i, item := range items {
			prims[i] = item.prim
		}
		return &BVHNode{BoundingBox: boundingBox, Primitives: prims}
	}

	axis := boundingBox.LongestAxis()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].bounds.Center().Axis(axis) < items[j].bounds.Center().Axis(axis)
	})

	mid := len(items) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(items[:mid]),
		Right:       buildBVH(items[mid:]),
	}
}

// Intersect tests the ray against every primitive whose bounds could still
// hold a closer hit than the one in hit, and reports whether hit was updated
func (bvh *BVH) Intersect(ray core.Ray, hit *core.HitRecord) bool {
	updated := false
	for _, p := range bvh.Unbounded {
		if p.LocalIntersect(ray, hit) {
			updated = true
		}
	}
	if bvh.Root != nil && bvh.intersectNode(bvh.Root, ray, hit) {
		updated = true
	}
	return updated
}

func (bvh *BVH) intersectNode(node *BVHNode, ray core.Ray, hit *core.HitRecord) bool {
	tMax := math.Inf(1)
	if hit.Valid() {
		tMax = hit.T
	}
	if !node.BoundingBox.Hit(ray, 0, tMax) {
		return false
	}

	if node.Primitives != nil {
		updated := false
		for _, p := range node.Primitives {
			if p.LocalIntersect(ray, hit) {
				updated = true
			}
		}
		return updated
	}

	left := node.Left != nil && bvh.intersectNode(node.Left, ray, hit)
	right := node.Right != nil && bvh.intersectNode(node.Right, ray, hit)
	return left || right
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes      int
	LeafNodes       int
	MaxDepth        int
	AvgDepth        float64
	TotalPrimitives int
	Unbounded       int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Unbounded: len(bvh.Unbounded)}
	if bvh.Root == nil {
		return stats
	}

	bvh.collectStats(bvh.Root, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.TotalNodes++

	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if node.Primitives != nil {
		stats.LeafNodes++
		stats.TotalPrimitives += len(node.Primitives)
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}
