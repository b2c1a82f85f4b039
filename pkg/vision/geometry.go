package vision

import (
	"image"
	"math"
)

// DistanceBetweenPoints calculates the Euclidean distance between two points
func DistanceBetweenPoints(p1, p2 image.Point) float64 {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Center returns the integer centre of a width x height frame
func Center(width, height int) image.Point {
	return image.Pt(width/2, height/2)
}

// ClampRadius limits a radius to [0, min(width, height)/2]
func ClampRadius(radius, width, height int) int {
	limit := min(width, height) / 2
	if radius < 0 {
		return 0
	}
	if radius > limit {
		return limit
	}
	return radius
}
