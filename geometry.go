package main

import "math"

// Point is a location, usually in the coordinate space of the displayed image.
type Point struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Scale returns s multiplied uniformly by f.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an image's on-screen position and size.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect returns a Rect, clamping negative width and height to zero.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: math.Max(width, 0), Height: math.Max(height, 0)}
}

// Origin returns the top-left corner of r.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Recenter returns the new top-left origin for rect after the image has been
// rescaled by scaleRatio (new scale / previous scale), chosen so the content
// under cursor stays under cursor. cursor is relative to the image.
//
// Only the position of rect is read. scaleRatio must be positive; it is not
// validated here.
func Recenter(rect Rect, scaleRatio float64, cursor Point) Point {
	scaled := Point{X: cursor.X * scaleRatio, Y: cursor.Y * scaleRatio}
	return Point{
		X: rect.X - (scaled.X - cursor.X),
		Y: rect.Y - (scaled.Y - cursor.Y),
	}
}

// FitScale returns the uniform scale that makes content fit inside viewport.
// It returns -1 when either size is empty.
func FitScale(content, viewport Size) float64 {
	if content.Empty() || viewport.Empty() {
		return -1
	}
	return math.Min(viewport.Width/content.Width, viewport.Height/content.Height)
}
