// Package bvh implements the scene's acceleration structure: a
// surface-area-heuristic bounding volume hierarchy over core.Primitive,
// flattened into a single array for cache-friendly, non-recursive traversal
// driven by an explicit node stack.
package bvh

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// parallelBuildThreshold is the primitive count above which a subtree's two
// children are built concurrently rather than depth-first on one goroutine.
const parallelBuildThreshold = 64 * 1024

// numBuckets is the number of equal-width SAH buckets evaluated per split
// axis; with 12 buckets there are numBuckets-1 = 11 candidate split planes.
const numBuckets = 12

// traverseCost is the relative cost of descending one more BVH node versus
// testing one more primitive, in the SAH cost model.
const traverseCost = 0.5

// BVH is a flattened SAH bounding volume hierarchy over a fixed set of
// primitives, built once and queried many times; it implements
// core.Aggregate.
type BVH struct {
	nodes      []linearNode
	primitives []*core.Primitive
}

// linearNode is one entry in the DFS-flattened node array. For an interior
// node, Offset is the index of the second child (the first child always
// immediately follows its parent); for a leaf, Offset is the index into
// primitives where its contiguous run starts.
type linearNode struct {
	Bounds       core.AABB
	Offset       int
	NPrimitives  uint16 // 0 for interior nodes
	Axis         uint8  // split axis, used to choose traversal order
}

func (n *linearNode) isLeaf() bool { return n.NPrimitives > 0 }

// primInfo caches a primitive's bounds and centroid once up front so the
// recursive build never has to recompute them.
type primInfo struct {
	index    int
	bounds   core.AABB
	centroid core.Vec3
}

// buildNode is the intermediate, pointer-based tree the recursive builder
// constructs before Flatten linearizes it. Built nodes are discarded once
// flattened; nothing here survives into the BVH that answers queries.
type buildNode struct {
	bounds      core.AABB
	left, right *buildNode
	splitAxis   int
	firstPrim   int // index into the ordered-primitive slice
	nPrims      int
}

// NewBVH builds a BVH over the given primitives. The input slice is not
// mutated; the BVH keeps its own reordered copy so that every leaf's
// primitives are contiguous.
func NewBVH(prims []*core.Primitive) *BVH {
	if len(prims) == 0 {
		return &BVH{nodes: []linearNode{{Bounds: core.EmptyAABB(), NPrimitives: 0}}}
	}

	infos := make([]primInfo, len(prims))
	for i, p := range prims {
		b := p.BoundingBox()
		infos[i] = primInfo{index: i, bounds: b, centroid: b.Center()}
	}

	ordered := make([]*core.Primitive, 0, len(prims))
	var orderedMu sync.Mutex // guards ordered against concurrent appends from parallel subtree builds

	appendOrdered := func(idx []int) int {
		orderedMu.Lock()
		defer orderedMu.Unlock()
		start := len(ordered)
		for _, i := range idx {
			ordered = append(ordered, prims[i])
		}
		return start
	}

	root := buildRecursive(infos, prims, appendOrdered)

	nodeCount := countNodes(root)
	b := &BVH{nodes: make([]linearNode, 0, nodeCount), primitives: ordered}
	flatten(root, &b.nodes)
	return b
}

func countNodes(n *buildNode) int {
	if n == nil {
		return 0
	}
	return 1 + countNodes(n.left) + countNodes(n.right)
}

// buildRecursive splits infos top-down using binned SAH, recursing on each
// side; subtrees larger than parallelBuildThreshold build their two children
// concurrently via errgroup.
func buildRecursive(infos []primInfo, prims []*core.Primitive, appendOrdered func([]int) int) *buildNode {
	bounds := core.EmptyAABB()
	for _, info := range infos {
		bounds = bounds.Union(info.bounds)
	}

	makeLeaf := func() *buildNode {
		idx := make([]int, len(infos))
		for i, info := range infos {
			idx[i] = info.index
		}
		start := appendOrdered(idx)
		return &buildNode{bounds: bounds, firstPrim: start, nPrims: len(infos)}
	}

	if len(infos) <= 2 {
		return makeLeaf()
	}

	centroidBounds := core.EmptyAABB()
	for _, info := range infos {
		centroidBounds = centroidBounds.UnionPoint(info.centroid)
	}
	axis := centroidBounds.LongestAxis()
	lo, hi := centroidBounds.Axis(axis)
	if hi-lo < 1e-12 {
		// Degenerate centroid extent: all primitives effectively coincide
		// on this axis, SAH can't discriminate, so stop splitting.
		return makeLeaf()
	}

	type bucket struct {
		count  int
		bounds core.AABB
	}
	var buckets [numBuckets]bucket
	for i := range buckets {
		buckets[i].bounds = core.EmptyAABB()
	}

	bucketFor := func(c core.Vec3) int {
		var v float64
		switch axis {
		case 0:
			v = c.X
		case 1:
			v = c.Y
		default:
			v = c.Z
		}
		b := int(float64(numBuckets) * (v - lo) / (hi - lo))
		if b == numBuckets {
			b = numBuckets - 1
		}
		return b
	}

	for _, info := range infos {
		b := bucketFor(info.centroid)
		buckets[b].count++
		buckets[b].bounds = buckets[b].bounds.Union(info.bounds)
	}

	// Evaluate the numBuckets-1 candidate split planes via prefix/suffix
	// bounds sweeps, each O(numBuckets) rather than O(numBuckets^2).
	var costs [numBuckets - 1]float64
	leftBounds := core.EmptyAABB()
	leftCount := 0
	var leftCounts [numBuckets - 1]int
	var leftAreas [numBuckets - 1]float64
	for i := 0; i < numBuckets-1; i++ {
		leftBounds = leftBounds.Union(buckets[i].bounds)
		leftCount += buckets[i].count
		leftCounts[i] = leftCount
		leftAreas[i] = leftBounds.SurfaceArea()
	}
	rightBounds := core.EmptyAABB()
	rightCount := 0
	for i := numBuckets - 1; i >= 1; i-- {
		rightBounds = rightBounds.Union(buckets[i].bounds)
		rightCount += buckets[i].count
		parentArea := bounds.SurfaceArea()
		if parentArea == 0 {
			costs[i-1] = traverseCost
			continue
		}
		costs[i-1] = traverseCost + (float64(leftCounts[i-1])*leftAreas[i-1]+float64(rightCount)*rightBounds.SurfaceArea())/parentArea
	}

	minCost := costs[0]
	minSplit := 0
	for i := 1; i < numBuckets-1; i++ {
		if costs[i] < minCost {
			minCost = costs[i]
			minSplit = i
		}
	}

	leafCost := float64(len(infos))
	if minCost >= leafCost && len(infos) <= 4 {
		return makeLeaf()
	}

	mid := partition(infos, func(info primInfo) bool {
		return bucketFor(info.centroid) <= minSplit
	})
	if mid == 0 || mid == len(infos) {
		// SAH plane didn't actually separate anything (can happen with
		// heavily clustered centroids); fall back to an equal-count split
		// so the recursion always makes progress.
		sort.Slice(infos, func(i, j int) bool {
			return axisOf(infos[i].centroid, axis) < axisOf(infos[j].centroid, axis)
		})
		mid = len(infos) / 2
	}

	leftInfos, rightInfos := infos[:mid], infos[mid:]

	var left, right *buildNode
	if len(infos) > parallelBuildThreshold {
		var g errgroup.Group
		g.Go(func() error {
			left = buildRecursive(leftInfos, prims, appendOrdered)
			return nil
		})
		g.Go(func() error {
			right = buildRecursive(rightInfos, prims, appendOrdered)
			return nil
		})
		_ = g.Wait()
	} else {
		left = buildRecursive(leftInfos, prims, appendOrdered)
		right = buildRecursive(rightInfos, prims, appendOrdered)
	}

	return &buildNode{bounds: bounds, left: left, right: right, splitAxis: axis}
}

func axisOf(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// partition reorders infos in place so every element satisfying pred comes
// before every element that doesn't, returning the split index.
func partition(infos []primInfo, pred func(primInfo) bool) int {
	i := 0
	for j := 0; j < len(infos); j++ {
		if pred(infos[j]) {
			infos[i], infos[j] = infos[j], infos[i]
			i++
		}
	}
	return i
}

// flatten walks the build tree in DFS order, appending linearNodes so that
// an interior node's first child is always the very next entry and its
// second child's index is recorded explicitly.
func flatten(n *buildNode, nodes *[]linearNode) int {
	idx := len(*nodes)
	*nodes = append(*nodes, linearNode{Bounds: n.bounds})

	if n.left == nil && n.right == nil {
		(*nodes)[idx].NPrimitives = uint16(n.nPrims)
		(*nodes)[idx].Offset = n.firstPrim
		return idx
	}

	flatten(n.left, nodes)
	secondChild := flatten(n.right, nodes)
	(*nodes)[idx].Axis = uint8(n.splitAxis)
	(*nodes)[idx].Offset = secondChild
	return idx
}

// BoundingBox returns the bounds of the root node.
func (b *BVH) BoundingBox() core.AABB {
	if len(b.nodes) == 0 {
		return core.EmptyAABB()
	}
	return b.nodes[0].Bounds
}

// maxTraversalStack bounds the explicit node stack; a balanced SAH tree over
// any realistic primitive count stays well under this depth, but a
// pathological build (e.g. every primitive sharing one centroid) could
// exceed it, so Intersect and IntersectP fall back to growing the stack
// rather than corrupting traversal.
const maxTraversalStack = 64

// Intersect returns the closest primitive hit along the ray within
// [tMin,tMax], traversing the flattened hierarchy with a small fixed stack
// of node indices (no recursion, no per-node heap allocation).
func (b *BVH) Intersect(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	if len(b.nodes) == 0 {
		return nil, false
	}
	ri := core.NewRayInterval(ray)

	var stackBuf [maxTraversalStack]int
	stack := stackBuf[:0]
	push := func(v int) { stack = append(stack, v) } // grows past stackBuf on a pathological tree
	pop := func() int {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	var closest *core.Intersection
	closestT := tMax
	push(0)
	for len(stack) > 0 {
		nodeIdx := pop()
		node := &b.nodes[nodeIdx]
		if !node.Bounds.Hit(ray, ri, tMin, closestT) {
			continue
		}
		if node.isLeaf() {
			for i := 0; i < int(node.NPrimitives); i++ {
				prim := b.primitives[node.Offset+i]
				if hit, ok := prim.Intersect(ray, tMin, closestT); ok {
					closest = hit
					closestT = hit.T
				}
			}
			continue
		}
		// Visit the near child first so that a hit found there tightens
		// closestT before the far child's (possibly now-pruned) test.
		first, second := nodeIdx+1, node.Offset
		if ri.Sign[node.Axis] == 1 {
			first, second = second, first
		}
		push(second)
		push(first)
	}
	return closest, closest != nil
}

// IntersectP reports whether anything occludes the ray within [tMin,tMax],
// stopping at the first hit found (no need to find the closest one).
func (b *BVH) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	if len(b.nodes) == 0 {
		return false
	}
	ri := core.NewRayInterval(ray)

	var stackBuf [maxTraversalStack]int
	stack := stackBuf[:0]
	push := func(v int) { stack = append(stack, v) }
	pop := func() int {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}

	push(0)
	for len(stack) > 0 {
		nodeIdx := pop()
		node := &b.nodes[nodeIdx]
		if !node.Bounds.Hit(ray, ri, tMin, tMax) {
			continue
		}
		if node.isLeaf() {
			for i := 0; i < int(node.NPrimitives); i++ {
				if b.primitives[node.Offset+i].IntersectP(ray, tMin, tMax) {
					return true
				}
			}
			continue
		}
		push(nodeIdx + 1)
		push(node.Offset)
	}
	return false
}

