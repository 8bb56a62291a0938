package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"pulse/internal/domain"
)

// maxIterations bounds the k-means refinement loop; assignments almost
// always stabilize long before this.
const maxIterations = 100

// Result is the outcome of clustering one batch of vectors.
// Assignments is index-aligned with the input vectors; K is the effective
// cluster count after reduction; Degenerate is set when every vector was
// empty and a single synthetic cluster was forced.
type Result struct {
	Assignments []int
	K           int
	Degenerate  bool
}

// Cluster partitions vectors into at most k groups using seeded k-means++
// with cosine similarity. Identical (vectors, dim, k, seed) inputs always
// produce identical assignments. If fewer than k distinct non-empty vectors
// exist, k is reduced to that count (minimum 1).
func Cluster(vectors []domain.Vector, dim, k int, seed int64) *Result {
	n := len(vectors)
	if n == 0 {
		return &Result{Assignments: nil, K: 1, Degenerate: true}
	}
	assignments := make([]int, n)

	unique := distinctNonEmpty(vectors)
	if len(unique) == 0 {
		return &Result{Assignments: assignments, K: 1, Degenerate: true}
	}
	if k > len(unique) {
		k = len(unique)
	}
	if k < 1 {
		k = 1
	}
	if k == 1 {
		return &Result{Assignments: assignments, K: 1}
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(vectors, unique, dim, k, rng)

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, vec := range vectors {
			best := nearestCentroid(vec, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recomputeCentroids(vectors, assignments, centroids, dim)
	}
	return &Result{Assignments: assignments, K: k}
}

// distinctNonEmpty returns the indices of the first occurrence of each
// distinct non-empty vector, in input order.
func distinctNonEmpty(vectors []domain.Vector) []int {
	seen := make(map[string]struct{}, len(vectors))
	var idxs []int
	for i, vec := range vectors {
		if len(vec) == 0 {
			continue
		}
		key := fingerprint(vec)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		idxs = append(idxs, i)
	}
	return idxs
}

// seedCentroids runs k-means++ initialization over the distinct vectors.
func seedCentroids(vectors []domain.Vector, unique []int, dim, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := unique[rng.Intn(len(unique))]
	centroids = append(centroids, toDense(vectors[first], dim))

	dists := make([]float64, len(unique))
	for len(centroids) < k {
		total := 0.0
		for j, idx := range unique {
			d := math.MaxFloat64
			for _, c := range centroids {
				if cd := cosineDistance(vectors[idx], c); cd < d {
					d = cd
				}
			}
			dists[j] = d
			total += d
		}
		var next int
		if total <= 0 {
			next = unique[rng.Intn(len(unique))]
		} else {
			target := rng.Float64() * total
			acc := 0.0
			next = unique[len(unique)-1]
			for j, idx := range unique {
				acc += dists[j]
				if acc >= target {
					next = idx
					break
				}
			}
		}
		centroids = append(centroids, toDense(vectors[next], dim))
	}
	return centroids
}

// nearestCentroid returns the index of the most similar centroid; ties go
// to the lowest index for determinism.
func nearestCentroid(vec domain.Vector, centroids [][]float64) int {
	best := 0
	bestSim := sparseDot(vec, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if sim := sparseDot(vec, centroids[c]); sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	return best
}

// recomputeCentroids replaces each centroid with the normalized mean of its
// member vectors. A cluster that lost all members keeps its old centroid.
func recomputeCentroids(vectors []domain.Vector, assignments []int, centroids [][]float64, dim int) {
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range centroids {
		sums[c] = make([]float64, dim)
	}
	for i, vec := range vectors {
		c := assignments[i]
		counts[c]++
		for idx, w := range vec {
			sums[c][idx] += w
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		norm := 0.0
		for idx := range sums[c] {
			sums[c][idx] /= float64(counts[c])
			norm += sums[c][idx] * sums[c][idx]
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for idx := range sums[c] {
				sums[c][idx] /= norm
			}
		}
		centroids[c] = sums[c]
	}
}

// cosineDistance assumes the sparse vector is L2-normalized and the dense
// centroid is normalized or zero.
func cosineDistance(vec domain.Vector, centroid []float64) float64 {
	d := 1.0 - sparseDot(vec, centroid)
	if d < 0 {
		return 0
	}
	return d
}

// sparseDot accumulates in ascending index order so that float summation
// order, and therefore the result, never depends on map iteration order.
func sparseDot(vec domain.Vector, dense []float64) float64 {
	sum := 0.0
	for _, idx := range sortedIndices(vec) {
		if idx < len(dense) {
			sum += vec[idx] * dense[idx]
		}
	}
	return sum
}

func sortedIndices(vec domain.Vector) []int {
	idxs := make([]int, 0, len(vec))
	for idx := range vec {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// fingerprint canonicalizes a sparse vector for distinctness checks.
func fingerprint(vec domain.Vector) string {
	var b strings.Builder
	for _, idx := range sortedIndices(vec) {
		fmt.Fprintf(&b, "%d:%.12g;", idx, vec[idx])
	}
	return b.String()
}

func toDense(vec domain.Vector, dim int) []float64 {
	out := make([]float64, dim)
	for idx, w := range vec {
		if idx < dim {
			out[idx] = w
		}
	}
	return out
}
