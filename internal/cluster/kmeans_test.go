package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulse/internal/domain"
)

func vec(pairs ...any) domain.Vector {
	v := make(domain.Vector)
	for i := 0; i < len(pairs); i += 2 {
		v[pairs[i].(int)] = pairs[i+1].(float64)
	}
	return v
}

func TestClusterSeparatesDistinctGroups(t *testing.T) {
	vectors := []domain.Vector{
		vec(0, 1.0),
		vec(0, 0.9, 1, 0.1),
		vec(5, 1.0),
		vec(5, 0.9, 6, 0.1),
	}
	res := Cluster(vectors, 7, 2, 42)
	require.Equal(t, 2, res.K)
	assert.False(t, res.Degenerate)
	assert.Equal(t, res.Assignments[0], res.Assignments[1])
	assert.Equal(t, res.Assignments[2], res.Assignments[3])
	assert.NotEqual(t, res.Assignments[0], res.Assignments[2])
}

func TestClusterDeterministicForSameSeed(t *testing.T) {
	vectors := []domain.Vector{
		vec(0, 0.8, 1, 0.6),
		vec(1, 1.0),
		vec(2, 1.0),
		vec(2, 0.7, 3, 0.7),
		vec(4, 1.0),
	}
	a := Cluster(vectors, 5, 3, 7)
	b := Cluster(vectors, 5, 3, 7)
	assert.Equal(t, a.Assignments, b.Assignments)
	assert.Equal(t, a.K, b.K)
}

func TestClusterReducesKToDistinctCount(t *testing.T) {
	same := vec(0, 0.7, 1, 0.7)
	vectors := []domain.Vector{same, same, same, same, same}
	res := Cluster(vectors, 2, 5, 42)
	assert.Equal(t, 1, res.K)
	assert.False(t, res.Degenerate)
	for _, a := range res.Assignments {
		assert.Equal(t, 0, a)
	}
}

func TestClusterTwoDistinctAmongDuplicates(t *testing.T) {
	a := vec(0, 1.0)
	b := vec(1, 1.0)
	res := Cluster([]domain.Vector{a, a, b}, 2, 3, 42)
	assert.Equal(t, 2, res.K)
	assert.Equal(t, res.Assignments[0], res.Assignments[1])
	assert.NotEqual(t, res.Assignments[0], res.Assignments[2])
}

func TestClusterAllEmptyVectorsIsDegenerate(t *testing.T) {
	vectors := []domain.Vector{{}, {}, {}}
	res := Cluster(vectors, 0, 4, 42)
	assert.Equal(t, 1, res.K)
	assert.True(t, res.Degenerate)
	for _, a := range res.Assignments {
		assert.Equal(t, 0, a)
	}
}

func TestClusterEmptyVectorGetsValidAssignment(t *testing.T) {
	vectors := []domain.Vector{vec(0, 1.0), {}, vec(1, 1.0)}
	res := Cluster(vectors, 2, 2, 42)
	for _, a := range res.Assignments {
		assert.GreaterOrEqual(t, a, 0)
		assert.Less(t, a, res.K)
	}
}

func TestClusterNoVectors(t *testing.T) {
	res := Cluster(nil, 0, 3, 42)
	assert.Equal(t, 1, res.K)
	assert.True(t, res.Degenerate)
	assert.Empty(t, res.Assignments)
}
