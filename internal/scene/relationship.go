package scene

import (
	"math"
	"strings"
)

// relationshipCutoff is the fraction of the image width/height an offset must
// exceed before it counts as a directional relationship.
const relationshipCutoff = 0.1

// Horizontal relationship components.
const (
	LeftOf      = "left_of"
	RightOf     = "right_of"
	AlignedWith = "aligned_with"
)

// Vertical relationship components.
const (
	Above     = "above"
	Below     = "below"
	LevelWith = "level_with"
)

// NoRelationship marks the absent side of a gained or lost relationship.
const NoRelationship = "none"

// InferRelationship labels the spatial relationship of b relative to a.
//
// The label has the form "{horizontal}-{vertical}", e.g. "left_of-above".
// The offset b-a is normalized by the image width and height; offsets within
// 10% of the dimension are "aligned_with" / "level_with". The returned
// distance is the Euclidean pixel distance divided by the image diagonal.
//
// Parameters:
//   - a: Pixel center of the reference object.
//   - b: Pixel center of the object being described.
//   - width, height: Image dimensions in pixels.
//
// Returns:
//   - string: The relationship label of b relative to a.
//   - float64: Center distance divided by the image diagonal, in [0, 1] for
//     points inside the image.
//   - error: Non-nil when the dimensions are unusable.
//
// Swapping a and b yields InverseRelationship of the label.
//
// # Errors
//
//   - Returns ErrInvalidInput if width or height is not positive
func InferRelationship(a, b Pixel, width, height int) (string, float64, error) {
	if width <= 0 || height <= 0 {
		return "", 0, InvalidInput("infer relationship", "image dimensions must be positive, got %dx%d", width, height)
	}

	dx := float64(b.X() - a.X())
	dy := float64(b.Y() - a.Y())

	dxNorm := dx / float64(width)
	dyNorm := dy / float64(height)

	horizontal := AlignedWith
	switch {
	case dxNorm > relationshipCutoff:
		horizontal = LeftOf
	case dxNorm < -relationshipCutoff:
		horizontal = RightOf
	}

	vertical := LevelWith
	switch {
	case dyNorm > relationshipCutoff:
		vertical = Above
	case dyNorm < -relationshipCutoff:
		vertical = Below
	}

	diagonal := math.Hypot(float64(width), float64(height))
	return horizontal + "-" + vertical, math.Hypot(dx, dy) / diagonal, nil
}

// InverseRelationship returns the label InferRelationship produces when its
// two points are swapped. Unrecognized components are returned unchanged.
func InverseRelationship(label string) string {
	h, v, ok := strings.Cut(label, "-")
	if !ok {
		return label
	}
	return invertComponent(h) + "-" + invertComponent(v)
}

func invertComponent(c string) string {
	switch c {
	case LeftOf:
		return RightOf
	case RightOf:
		return LeftOf
	case Above:
		return Below
	case Below:
		return Above
	default:
		return c
	}
}
