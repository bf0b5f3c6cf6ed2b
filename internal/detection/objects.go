package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// Shape labels assigned by DetectObjects.
const (
	LabelRectangle = "rectangle"
	LabelCircle    = "circle"
)

// Options tunes DetectObjects.
type Options struct {
	// MinArea is the smallest bounding-box area, in square pixels, kept as an object.
	MinArea int

	// Tolerance is the minimum shape score for a rectangle or circle label.
	// Contours scoring below it are reported with scene.UnknownLabel.
	Tolerance float64

	// EdgeThreshold is the Sobel response (0-255) at which a pixel becomes an edge.
	EdgeThreshold uint8

	// BlurRadius is the Gaussian blur applied before edge detection. Zero disables it.
	BlurRadius float64
}

// DefaultOptions returns the detector defaults.
func DefaultOptions() Options {
	return Options{
		MinArea:       500,
		Tolerance:     0.85,
		EdgeThreshold: 64,
		BlurRadius:    1.0,
	}
}

// ObjectsResult contains the objects found in an image.
type ObjectsResult struct {
	Width   int                 `json:"width"`
	Height  int                 `json:"height"`
	Objects []scene.SceneObject `json:"objects"`
	Count   int                 `json:"count"`
}

// DetectObjects finds closed outlines in img and reports each as a
// scene.SceneObject, largest first.
//
// Each contour is scored against an axis-aligned rectangle and a circle
// inscribed in its bounding box; the better score labels the object if it
// reaches opts.Tolerance. Positions are normalized by the image dimensions.
func DetectObjects(img image.Image, opts Options) (*ObjectsResult, error) {
	const op = "detect objects"
	if img == nil {
		return nil, scene.InvalidInput(op, "image is nil")
	}
	if opts.MinArea <= 0 {
		return nil, scene.Configuration(op, "min area must be positive, got %d", opts.MinArea)
	}
	if opts.Tolerance <= 0 || opts.Tolerance > 1 {
		return nil, scene.Configuration(op, "tolerance must be in (0, 1], got %v", opts.Tolerance)
	}
	if opts.BlurRadius < 0 {
		return nil, scene.Configuration(op, "blur radius must not be negative, got %v", opts.BlurRadius)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	result := &ObjectsResult{Width: width, Height: height, Objects: []scene.SceneObject{}}
	if width < 3 || height < 3 {
		return result, nil
	}

	for _, contour := range findContours(edgeMap(img, opts.BlurRadius, opts.EdgeThreshold)) {
		obj, ok := classifyContour(contour, width, height, opts)
		if ok {
			result.Objects = append(result.Objects, obj)
		}
	}

	sort.SliceStable(result.Objects, func(i, j int) bool {
		return result.Objects[i].Area > result.Objects[j].Area
	})
	result.Count = len(result.Objects)
	return result, nil
}

func classifyContour(contour []point, width, height int, opts Options) (scene.SceneObject, bool) {
	minX, minY, maxX, maxY := contourBounds(contour)
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 || w*h < opts.MinArea {
		return scene.SceneObject{}, false
	}

	rect := rectangularity(contour, minX, minY, maxX, maxY)
	circ := circularity(contour, minX, minY, maxX, maxY)

	label, score := scene.UnknownLabel, math.Max(rect, circ)
	switch {
	case rect >= circ && rect >= opts.Tolerance:
		label = LabelRectangle
	case circ > rect && circ >= opts.Tolerance:
		label = LabelCircle
	}

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return scene.SceneObject{
		Label:      label,
		Position:   scene.Position{float64(cx) / float64(width), float64(cy) / float64(height)},
		Center:     scene.Pixel{cx, cy},
		BBox:       scene.BoundingBox{minX, minY, maxX, maxY},
		Area:       w * h,
		Confidence: score,
	}, true
}

// rectangularity is the fraction of contour pixels lying in a band along
// the bounding-box sides.
func rectangularity(contour []point, minX, minY, maxX, maxY int) float64 {
	band := math.Max(8, 0.08*float64(min(maxX-minX, maxY-minY)))
	hits := 0
	for _, p := range contour {
		d := min(p.X-minX, maxX-p.X, p.Y-minY, maxY-p.Y)
		if float64(d) <= band {
			hits++
		}
	}
	return float64(hits) / float64(len(contour))
}

// circularity is the fraction of contour pixels whose distance from the
// bounding-box center is close to the mean distance.
func circularity(contour []point, minX, minY, maxX, maxY int) float64 {
	cx := float64(minX+maxX) / 2
	cy := float64(minY+maxY) / 2
	dists := make([]float64, len(contour))
	radius := 0.0
	for i, p := range contour {
		dists[i] = math.Hypot(float64(p.X)-cx, float64(p.Y)-cy)
		radius += dists[i]
	}
	radius /= float64(len(contour))

	band := math.Max(5, 0.1*radius)
	hits := 0
	for _, d := range dists {
		if math.Abs(d-radius) <= band {
			hits++
		}
	}
	return float64(hits) / float64(len(contour))
}
