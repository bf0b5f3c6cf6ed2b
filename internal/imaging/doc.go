// Package imaging loads images and extracts per-object pixel data for the
// scene tools.
//
// Object regions are given as scene.BoundingBox values in pixel coordinates
// with the origin at the top-left corner. Both corners of a bounding box are
// inclusive, and boxes that run past the image edge are clipped.
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless.
package imaging
