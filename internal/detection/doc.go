// Package detection finds simple outlined shapes in an image and reports
// them as scene objects.
//
// DetectObjects is a lightweight stand-in for a real object detector: it is
// good enough for diagrams and synthetic scenes, and its output feeds
// scene.Build directly.
//
// # Pipeline
//
//  1. Optional Gaussian blur to suppress noise
//  2. Grayscale conversion and Sobel edge response, thresholded to a binary map
//  3. 8-connected flood fill grouping edge pixels into contours
//  4. Contours whose bounding box is smaller than MinArea are dropped
//  5. Each contour is scored as a rectangle and as a circle
//
// # Labels
//
// A contour is labeled "rectangle" or "circle" when the better of the two
// scores reaches Options.Tolerance, and scene.UnknownLabel otherwise. The
// score is reported as the object's confidence. Unknown objects are kept in
// the result; scene.Build skips them.
//
// # Coordinate System
//
// Pixel coordinates have their origin at the top-left corner with Y
// increasing downward. Object positions are the bounding-box center divided
// by the image dimensions.
//
// # Limitations
//
// Shapes are assumed to be axis-aligned and not to touch each other. Filled
// shapes and outlines both work; photographs generally do not.
package detection
