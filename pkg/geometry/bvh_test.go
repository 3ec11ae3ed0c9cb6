package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-mesh-pathtracer/pkg/core"
)

// randomSoup creates n small random triangles inside [-1,1]^3
func randomSoup(n int, seed uint32) ([]core.Vec3, []Triangle) {
	random := core.NewRand(seed)
	vertices := make([]core.Vec3, 0, 3*n)
	triangles := make([]Triangle, 0, n)

	randomPoint := func() core.Vec3 {
		return core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
	}
	for i := 0; i < n; i++ {
		base := randomPoint()
		offset := func() core.Vec3 {
			return core.NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5).Multiply(0.3)
		}
		vertices = append(vertices, base, base.Add(offset()), base.Add(offset()))
		triangles = append(triangles, Triangle{3 * i, 3*i + 1, 3*i + 2})
	}
	return vertices, triangles
}

// leafRanges collects every leaf reachable from the root
func leafRanges(bvh *BVH) []BVHNode {
	var leaves []BVHNode
	var walk func(index int32)
	walk = func(index int32) {
		node := bvh.Nodes[index]
		if node.IsLeaf() {
			leaves = append(leaves, node)
			return
		}
		walk(node.Left)
		walk(node.Right)
	}
	walk(0)
	return leaves
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil, nil)
	if bvh.HasRoot() {
		t.Error("Expected no root for empty BVH")
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	if _, ok := bvh.Intersect(ray, math.Inf(1)); ok {
		t.Error("Expected no hit for empty BVH")
	}
	if stats := bvh.Stats(); stats.TotalNodes != 0 {
		t.Errorf("Expected no nodes, got %d", stats.TotalNodes)
	}

	var nilBVH *BVH
	if nilBVH.HasRoot() {
		t.Error("Expected nil BVH to have no root")
	}
}

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	vertices, triangles := randomSoup(2, 1)
	stats := NewBVH(vertices, triangles).Stats()
	if stats.TotalNodes != 1 || stats.LeafNodes != 1 {
		t.Errorf("Expected a single leaf for 2 triangles, got %d nodes / %d leaves", stats.TotalNodes, stats.LeafNodes)
	}

	vertices, triangles = randomSoup(3, 1)
	stats = NewBVH(vertices, triangles).Stats()
	if stats.LeafNodes < 2 {
		t.Errorf("Expected split for 3 triangles, got %d leaves", stats.LeafNodes)
	}
}

func TestBVH_CoverageInvariant(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 64, 500} {
		vertices, triangles := randomSoup(n, uint32(n))
		bvh := NewBVH(vertices, triangles)

		covered := make([]int, n)
		slots := make([]int, n)
		for _, leaf := range leafRanges(bvh) {
			for i := leaf.First; i < leaf.First+leaf.Count; i++ {
				slots[i]++
				covered[bvh.Indices[i]]++
			}
		}

		for i := 0; i < n; i++ {
			if slots[i] != 1 {
				t.Errorf("n=%d: index slot %d covered by %d leaves", n, i, slots[i])
			}
			if covered[i] != 1 {
				t.Errorf("n=%d: triangle %d appears in %d leaves", n, i, covered[i])
			}
		}

		if stats := bvh.Stats(); stats.TotalTriangles != n {
			t.Errorf("n=%d: expected %d triangles in leaves, got %d", n, n, stats.TotalTriangles)
		}
	}
}

func TestBVH_BoxContainment(t *testing.T) {
	vertices, triangles := randomSoup(300, 42)
	bvh := NewBVH(vertices, triangles)

	for i, node := range bvh.Nodes {
		if node.IsLeaf() {
			for j := node.First; j < node.First+node.Count; j++ {
				tri := triangles[bvh.Indices[j]]
				for _, vi := range tri {
					if !node.Box.ContainsPoint(vertices[vi]) {
						t.Errorf("Leaf %d does not contain vertex %v", i, vertices[vi])
					}
				}
			}
			continue
		}
		if !node.Box.Contains(bvh.Nodes[node.Left].Box) {
			t.Errorf("Node %d does not contain its left child", i)
		}
		if !node.Box.Contains(bvh.Nodes[node.Right].Box) {
			t.Errorf("Node %d does not contain its right child", i)
		}
	}
}

func TestBVH_IdenticalCentroids(t *testing.T) {
	// Every triangle shares the same centroid, forcing the split-by-count fallback
	vertices := []core.Vec3{}
	triangles := []Triangle{}
	for i := 0; i < 9; i++ {
		s := float64(i+1) * 0.1
		base := len(vertices)
		vertices = append(vertices,
			core.NewVec3(-s, -s, 0),
			core.NewVec3(2*s, -s, 0),
			core.NewVec3(-s, 2*s, 0),
		)
		triangles = append(triangles, Triangle{base, base + 1, base + 2})
	}

	bvh := NewBVH(vertices, triangles)
	stats := bvh.Stats()
	if stats.TotalTriangles != 9 {
		t.Errorf("Expected 9 triangles in leaves, got %d", stats.TotalTriangles)
	}
	if stats.LeafNodes < 2 {
		t.Errorf("Expected fallback split to produce several leaves, got %d", stats.LeafNodes)
	}

	ray := core.NewRay(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1))
	hit, ok := bvh.Intersect(ray, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got %f", hit.T)
	}
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	vertices, triangles := randomSoup(400, 7)
	bvh := NewBVH(vertices, triangles)
	random := core.NewRand(11)

	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*6-3, random.Float64()*6-3, random.Float64()*6-3)
		ray := core.NewRay(origin, core.RandomUnitVector(random))

		bestT := math.Inf(1)
		bestTri := -1
		for ti, tri := range triangles {
			if d, _, _, ok := IntersectTriangle(ray, vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]); ok && d < bestT {
				bestT = d
				bestTri = ti
			}
		}

		hit, ok := bvh.Intersect(ray, math.Inf(1))
		if ok != (bestTri >= 0) {
			t.Fatalf("Ray %d: BVH hit=%v, brute force hit=%v", i, ok, bestTri >= 0)
		}
		if ok && math.Abs(hit.T-bestT) > 1e-9 {
			t.Fatalf("Ray %d: BVH t=%f, brute force t=%f", i, hit.T, bestT)
		}
	}
}

func TestBVH_RespectsMaxDistance(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(-1, -1, 5), core.NewVec3(1, -1, 5), core.NewVec3(0, 1, 5),
	}
	bvh := NewBVH(vertices, []Triangle{{0, 1, 2}})
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	if _, ok := bvh.Intersect(ray, 4.0); ok {
		t.Error("Expected no hit beyond tMax")
	}
	hit, ok := bvh.Intersect(ray, 10.0)
	if !ok {
		t.Fatal("Expected hit within tMax")
	}
	if hit.Triangle != 0 || !hit.Point.Equals(core.NewVec3(0, 0, 5)) {
		t.Errorf("Unexpected hit %+v", hit)
	}
	if math.Abs(math.Abs(hit.Normal.Z)-1.0) > 1e-9 {
		t.Errorf("Expected normal along Z, got %v", hit.Normal)
	}
}
