package detection

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// minContourPixels discards edge specks before any area filtering.
const minContourPixels = 10

// point is a pixel coordinate relative to the image origin.
type point struct {
	X, Y int
}

// edgeMap smooths img, runs a Sobel filter over its grayscale version and
// thresholds the response. The one-pixel image border is never an edge.
func edgeMap(img image.Image, blurRadius float64, threshold uint8) [][]bool {
	src := img
	if blurRadius > 0 {
		src = blur.Gaussian(src, blurRadius)
	}
	sobel := effect.Sobel(effect.Grayscale(src))

	b := sobel.Bounds()
	width, height := b.Dx(), b.Dy()
	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			c := sobel.RGBAAt(x+b.Min.X, y+b.Min.Y)
			v := c.R
			if c.G > v {
				v = c.G
			}
			if c.B > v {
				v = c.B
			}
			edges[y][x] = v >= threshold
		}
	}
	return edges
}

// findContours groups 8-connected edge pixels into contours.
func findContours(edges [][]bool) [][]point {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var contours [][]point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] || visited[y][x] {
				continue
			}
			contour := floodFill(edges, visited, x, y)
			if len(contour) >= minContourPixels {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

// floodFill collects the component containing (x, y) with an explicit stack.
func floodFill(edges, visited [][]bool, x, y int) []point {
	height, width := len(edges), len(edges[0])
	var contour []point
	stack := []point{{x, y}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if visited[p.Y][p.X] || !edges[p.Y][p.X] {
			continue
		}
		visited[p.Y][p.X] = true
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx != 0 || dy != 0 {
					stack = append(stack, point{p.X + dx, p.Y + dy})
				}
			}
		}
	}
	return contour
}

// contourBounds returns the inclusive extent of a contour.
func contourBounds(contour []point) (minX, minY, maxX, maxY int) {
	minX, minY = contour[0].X, contour[0].Y
	maxX, maxY = minX, minY
	for _, p := range contour[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return minX, minY, maxX, maxY
}
