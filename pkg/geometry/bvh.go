package geometry

import "github.com/df07/go-mesh-pathtracer/pkg/core"

// Leaf threshold: ranges with this many or fewer triangles become leaves
const leafThreshold = 2

// traversalStackSize is the initial capacity of the traversal stack. Deeper
// trees still work; the stack grows past it.
const traversalStackSize = 64

// BVHNode is a node in the node arena. A leaf has Count > 0 and covers
// Indices[First:First+Count]; an interior node references its children by
// arena index.
type BVHNode struct {
	Box         core.AABB
	Left, Right int32
	First       int32
	Count       int32
}

// IsLeaf reports whether the node stores triangles directly
func (n *BVHNode) IsLeaf() bool {
	return n.Count > 0
}

// BVH is a bounding volume hierarchy over a triangle mesh. Nodes live in a
// flat arena with the root at index 0. The vertex and triangle slices are
// borrowed and must not change while the BVH is in use.
type BVH struct {
	Nodes     []BVHNode
	Indices   []int // Triangle indices reordered so each leaf range is contiguous
	vertices  []core.Vec3
	triangles []Triangle
	centroids []core.Vec3
}

// TriangleHit describes the closest mesh intersection found by Intersect
type TriangleHit struct {
	T        float64
	Point    core.Vec3
	Normal   core.Vec3 // Geometric normal, not oriented toward the ray
	Triangle int       // Index into the triangle array
	U, V     float64   // Barycentric weights of the triangle's second and third vertex
}

// NewBVH builds a BVH over the given triangles. An empty triangle list
// yields a BVH with no root; Intersect on it always misses.
func NewBVH(vertices []core.Vec3, triangles []Triangle) *BVH {
	bvh := &BVH{
		vertices:  vertices,
		triangles: triangles,
	}
	if len(triangles) == 0 {
		return bvh
	}

	bvh.Indices = make([]int, len(triangles))
	bvh.centroids = make([]core.Vec3, len(triangles))
	for i, tri := range triangles {
		bvh.Indices[i] = i
		bvh.centroids[i] = Centroid(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]])
	}

	// A binary tree with n leaves of at least one triangle has at most 2n-1 nodes
	bvh.Nodes = make([]BVHNode, 0, 2*len(triangles))
	bvh.build(0, len(triangles))
	bvh.centroids = nil
	return bvh
}

// HasRoot reports whether the BVH contains any geometry
func (bvh *BVH) HasRoot() bool {
	return bvh != nil && len(bvh.Nodes) > 0
}

// Bounds returns the root bounding box, or an empty box when there is no root
func (bvh *BVH) Bounds() core.AABB {
	if !bvh.HasRoot() {
		return core.EmptyAABB()
	}
	return bvh.Nodes[0].Box
}

// build creates the node for Indices[left:right] and returns its arena index
func (bvh *BVH) build(left, right int) int32 {
	box := core.EmptyAABB()
	for i := left; i < right; i++ {
		tri := bvh.triangles[bvh.Indices[i]]
		box = box.Expand(bvh.vertices[tri[0]]).
			Expand(bvh.vertices[tri[1]]).
			Expand(bvh.vertices[tri[2]])
	}

	nodeIndex := int32(len(bvh.Nodes))
	bvh.Nodes = append(bvh.Nodes, BVHNode{Box: box, Left: -1, Right: -1})

	count := right - left
	if count <= leafThreshold {
		bvh.Nodes[nodeIndex].First = int32(left)
		bvh.Nodes[nodeIndex].Count = int32(count)
		return nodeIndex
	}

	// Midpoint split along the longest axis, partitioning by centroid in place
	axis := box.LongestAxis()
	split := box.Min.Axis(axis) + box.Size().Axis(axis)*0.5
	mid := left
	for i := left; i < right; i++ {
		if bvh.centroids[bvh.Indices[i]].Axis(axis) < split {
			bvh.Indices[i], bvh.Indices[mid] = bvh.Indices[mid], bvh.Indices[i]
			mid++
		}
	}

	// All centroids on one side: split by count so the recursion terminates
	if mid == left || mid == right {
		mid = left + count/2
	}

	leftChild := bvh.build(left, mid)
	rightChild := bvh.build(mid, right)
	bvh.Nodes[nodeIndex].Left = leftChild
	bvh.Nodes[nodeIndex].Right = rightChild
	return nodeIndex
}

// Intersect returns the closest triangle hit with distance below tMax
func (bvh *BVH) Intersect(ray core.Ray, tMax float64) (TriangleHit, bool) {
	var hit TriangleHit
	if !bvh.HasRoot() {
		return hit, false
	}

	closest := tMax
	found := false

	var buf [traversalStackSize]int32
	stack := append(buf[:0], 0)

	for len(stack) > 0 {
		node := &bvh.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if !node.Box.Hit(ray, closest) {
			continue
		}

		if node.IsLeaf() {
			for i := node.First; i < node.First+node.Count; i++ {
				triIndex := bvh.Indices[i]
				tri := bvh.triangles[triIndex]
				t, u, v, ok := IntersectTriangle(ray, bvh.vertices[tri[0]], bvh.vertices[tri[1]], bvh.vertices[tri[2]])
				if ok && t < closest {
					closest = t
					found = true
					hit.T = t
					hit.Triangle = triIndex
					hit.U = u
					hit.V = v
				}
			}
			continue
		}

		// Left is pushed last so it is visited first
		stack = append(stack, node.Right, node.Left)
	}

	if found {
		tri := bvh.triangles[hit.Triangle]
		hit.Point = ray.At(hit.T)
		hit.Normal = TriangleNormal(bvh.vertices[tri[0]], bvh.vertices[tri[1]], bvh.vertices[tri[2]])
	}
	return hit, found
}

// BVHStats contains statistics about the BVH structure
type BVHStats struct {
	TotalNodes     int
	LeafNodes      int
	MaxDepth       int
	AvgDepth       float64
	TotalTriangles int
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() BVHStats {
	if !bvh.HasRoot() {
		return BVHStats{}
	}

	stats := BVHStats{}
	bvh.collectStats(0, 0, &stats)

	// Calculate average depth after collecting all data
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}

	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(index int32, depth int, stats *BVHStats) {
	node := &bvh.Nodes[index]
	stats.TotalNodes++
	stats.MaxDepth = max(stats.MaxDepth, depth)

	if node.IsLeaf() {
		stats.LeafNodes++
		stats.TotalTriangles += int(node.Count)
		stats.AvgDepth += float64(depth) // Accumulate depth for average calculation
		return
	}

	bvh.collectStats(node.Left, depth+1, stats)
	bvh.collectStats(node.Right, depth+1, stats)
}
