package imaging

import (
	"image"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ObjectColorResult is the mean color inside an object's bounding box.
type ObjectColorResult struct {
	BBox   scene.BoundingBox `json:"bbox"`
	Hex    string            `json:"hex"`
	HSL    HSLColor          `json:"hsl"`
	Pixels int               `json:"pixels"`
}

// ObjectColor averages the pixels inside bbox. Averaging happens in linear
// RGB so that a black and white checkerboard reads as mid gray rather than
// dark gray. Fully transparent pixels are ignored.
func ObjectColor(img image.Image, bbox scene.BoundingBox) (*ObjectColorResult, error) {
	const op = "object color"
	r, err := bboxRect(op, img.Bounds(), bbox)
	if err != nil {
		return nil, err
	}

	var sr, sg, sb float64
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			lr, lg, lb := c.LinearRgb()
			sr += lr
			sg += lg
			sb += lb
			n++
		}
	}
	if n == 0 {
		return nil, scene.InvalidInput(op, "bbox %v contains only transparent pixels", bbox)
	}

	mean := colorful.LinearRgb(sr/float64(n), sg/float64(n), sb/float64(n)).Clamped()
	h, s, l := mean.Hsl()
	return &ObjectColorResult{
		BBox: bbox,
		Hex:  mean.Hex(),
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Pixels: n,
	}, nil
}
