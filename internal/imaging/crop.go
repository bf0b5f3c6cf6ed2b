package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// CropResult is a PNG rendering of one object's bounding box.
type CropResult struct {
	BBox        scene.BoundingBox `json:"bbox"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	ImageBase64 string            `json:"image_base64"`
	MimeType    string            `json:"mime_type"`
}

// bboxRect converts a bounding box to an image rectangle, clipped to bounds.
// XMax and YMax are treated as inclusive pixel coordinates.
func bboxRect(op string, bounds image.Rectangle, bbox scene.BoundingBox) (image.Rectangle, error) {
	if bbox.XMax() < bbox.XMin() || bbox.YMax() < bbox.YMin() {
		return image.Rectangle{}, scene.InvalidInput(op, "bbox %v is inverted", bbox)
	}
	r := image.Rect(bbox.XMin(), bbox.YMin(), bbox.XMax()+1, bbox.YMax()+1).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return image.Rectangle{}, scene.InvalidInput(op, "bbox %v lies outside the %dx%d image",
			bbox, bounds.Dx(), bounds.Dy())
	}
	return r, nil
}

// CropObject cuts the object's bounding box out of img. When maxSize is
// positive the crop is scaled down to fit within maxSize x maxSize, keeping
// its aspect ratio; crops already inside that box are returned unscaled.
func CropObject(img image.Image, bbox scene.BoundingBox, maxSize int) (*CropResult, error) {
	r, err := bboxRect("crop object", img.Bounds(), bbox)
	if err != nil {
		return nil, err
	}

	cropped := imaging.Crop(img, r)
	if maxSize > 0 && (cropped.Bounds().Dx() > maxSize || cropped.Bounds().Dy() > maxSize) {
		cropped = imaging.Fit(cropped, maxSize, maxSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		BBox:        bbox,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
