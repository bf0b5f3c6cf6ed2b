package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferRelationship(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Pixel
		want  string
		wantD float64
	}{
		{"same point", Pixel{500, 500}, Pixel{500, 500}, "aligned_with-level_with", 0},
		{"b further right and down", Pixel{100, 100}, Pixel{400, 400}, "left_of-above", math.Hypot(300, 300) / math.Hypot(1000, 1000)},
		{"b to the left", Pixel{400, 100}, Pixel{100, 100}, "right_of-level_with", 300 / math.Hypot(1000, 1000)},
		{"b higher up", Pixel{100, 400}, Pixel{100, 100}, "aligned_with-below", 300 / math.Hypot(1000, 1000)},
		{"within cutoff", Pixel{100, 100}, Pixel{200, 200}, "aligned_with-level_with", math.Hypot(100, 100) / math.Hypot(1000, 1000)},
		{"just beyond cutoff", Pixel{100, 100}, Pixel{201, 100}, "left_of-level_with", 101 / math.Hypot(1000, 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, dist, err := InferRelationship(tt.a, tt.b, 1000, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.want, label)
			assert.InDelta(t, tt.wantD, dist, 1e-12)
		})
	}
}

func TestInferRelationship_NonSquareImage(t *testing.T) {
	// 150px is 10% of 1500 (not beyond) but 15% of 1000.
	label, _, err := InferRelationship(Pixel{0, 0}, Pixel{150, 150}, 1500, 1000)
	require.NoError(t, err)
	assert.Equal(t, "aligned_with-above", label)
}

func TestInferRelationship_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 100}, {100, 0}, {0, 0}, {-5, 100}} {
		_, _, err := InferRelationship(Pixel{1, 1}, Pixel{2, 2}, dims[0], dims[1])
		require.Error(t, err, "dims %v", dims)
		assert.True(t, errors.Is(err, ErrInvalidInput), "dims %v: %v", dims, err)
		assert.False(t, errors.Is(err, ErrConfiguration))
	}
}

func TestInferRelationship_Deterministic(t *testing.T) {
	a, b := Pixel{37, 812}, Pixel{640, 90}
	l1, d1, err1 := InferRelationship(a, b, 1280, 960)
	l2, d2, err2 := InferRelationship(a, b, 1280, 960)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, d1, d2)
}

func TestInverseRelationship(t *testing.T) {
	points := []Pixel{{0, 0}, {500, 0}, {0, 500}, {500, 500}, {250, 260}, {900, 100}}
	for _, a := range points {
		for _, b := range points {
			forward, _, err := InferRelationship(a, b, 1000, 1000)
			require.NoError(t, err)
			backward, _, err := InferRelationship(b, a, 1000, 1000)
			require.NoError(t, err)
			assert.Equal(t, backward, InverseRelationship(forward), "a=%v b=%v", a, b)
		}
	}

	assert.Equal(t, "garbage", InverseRelationship("garbage"))
}
