package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of decoded images NewImageCache keeps.
const DefaultCacheSize = 16

// ImageCache keeps decoded images keyed by the path they were loaded from.
//
// Scene tools usually touch the same image several times in one session
// (detect, build, crop, color), so decoded images are cached. Once the cache
// is full the least recently used image is evicted. ImageCache is safe for
// concurrent use.
type ImageCache struct {
	images    *lru.Cache[string, image.Image]
	evictions atomic.Int64
}

// NewImageCache returns an empty cache holding DefaultCacheSize images.
func NewImageCache() *ImageCache {
	return NewImageCacheWithLimit(DefaultCacheSize)
}

// NewImageCacheWithLimit returns an empty cache holding at most limit images.
// A limit below one falls back to DefaultCacheSize.
func NewImageCacheWithLimit(limit int) *ImageCache {
	if limit < 1 {
		limit = DefaultCacheSize
	}
	c := &ImageCache{}
	c.images, _ = lru.NewWithEvict[string, image.Image](limit, c.handleEviction)
	return c
}

func (c *ImageCache) handleEviction(string, image.Image) {
	c.evictions.Add(1)
}

// Load returns the cached image for path, decoding it from disk on first use.
// PNG, JPEG and GIF are supported. Paths are cached verbatim, so a relative
// and an absolute path to the same file are separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	if img, ok := c.images.Get(path); ok {
		return img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}

	c.images.Add(path, img)
	return img, nil
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	return c.images.Len()
}

// Evictions reports how many least recently used images were dropped.
func (c *ImageCache) Evictions() int64 {
	return c.evictions.Load()
}

// Dimensions is the pixel size of an image. It supplies the width and height
// a scene graph is built against.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions loads path through the cache and returns its size.
func GetDimensions(cache *ImageCache, path string) (*Dimensions, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &Dimensions{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
