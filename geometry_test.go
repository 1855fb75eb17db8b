package main

import (
	"math"
	"testing"
)

func TestRecenter(t *testing.T) {
	tests := []struct {
		name       string
		rect       Rect
		scaleRatio float64
		cursor     Point
		expected   Point
	}{
		{"Zoom in at center", NewRect(0, 0, 1000, 2000), 1.1, Point{500, 1000}, Point{-50, -100}},
		{"Zoom in at quarter", NewRect(0, 0, 1000, 2000), 1.1, Point{250, 500}, Point{-25, -50}},
		{"Identity ratio", NewRect(-30, -40, 1000, 2000), 1, Point{123, 456}, Point{-30, -40}},
		{"Cursor at origin", NewRect(-10, -20, 100, 100), 3, Point{0, 0}, Point{-10, -20}},
		{"Zoom out", NewRect(0, 0, 400, 400), 0.5, Point{200, 100}, Point{100, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Recenter(tt.rect, tt.scaleRatio, tt.cursor)
			if result != tt.expected {
				t.Errorf("Recenter(%+v, %v, %+v) = %+v, want %+v", tt.rect, tt.scaleRatio, tt.cursor, result, tt.expected)
			}
		})
	}
}

func TestRecenterIgnoresSize(t *testing.T) {
	a := Recenter(NewRect(5, 6, 10, 10), 2, Point{3, 4})
	b := Recenter(NewRect(5, 6, 9999, 1), 2, Point{3, 4})
	if a != b {
		t.Errorf("Recenter depends on size: %+v vs %+v", a, b)
	}
}

func TestNewRectClampsSize(t *testing.T) {
	r := NewRect(1, 2, -5, -6)
	if r.Width != 0 || r.Height != 0 {
		t.Errorf("NewRect with negative size = %+v, want zero size", r)
	}
	if r.Origin() != (Point{1, 2}) {
		t.Errorf("Origin() = %+v", r.Origin())
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name     string
		content  Size
		viewport Size
		expected float64
	}{
		{"Wide content", Size{2000, 1000}, Size{1000, 1000}, 0.5},
		{"Tall content", Size{1000, 4000}, Size{1000, 1000}, 0.25},
		{"Smaller content", Size{100, 50}, Size{1000, 1000}, 10},
		{"Empty content", Size{0, 100}, Size{1000, 1000}, -1},
		{"Empty viewport", Size{100, 100}, Size{}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FitScale(tt.content, tt.viewport); result != tt.expected {
				t.Errorf("FitScale(%+v, %+v) = %v, want %v", tt.content, tt.viewport, result, tt.expected)
			}
		})
	}
}

func TestRecenterComposes(t *testing.T) {
	ratios := []struct{ r1, r2 float64 }{
		{1.12, 1.12}, {0.88, 1.12}, {2, 0.25}, {1.5, 3.7}, {0.01, 50},
	}
	cursor := Point{X: 321.5, Y: 77}
	start := NewRect(-40, -90, 1000, 2000)

	for _, tt := range ratios {
		first := Recenter(start, tt.r1, cursor)
		// the content point under the cursor is now cursor*r1 into the image
		moved := Point{X: cursor.X * tt.r1, Y: cursor.Y * tt.r1}
		stepwise := Recenter(NewRect(first.X, first.Y, 1000*tt.r1, 2000*tt.r1), tt.r2, moved)
		direct := Recenter(start, tt.r1*tt.r2, cursor)

		if math.Abs(stepwise.X-direct.X) > 1e-9 || math.Abs(stepwise.Y-direct.Y) > 1e-9 {
			t.Errorf("ratios %v then %v: stepwise %+v, direct %+v", tt.r1, tt.r2, stepwise, direct)
		}
	}
}
