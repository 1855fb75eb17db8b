package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Color is a straight (non-premultiplied) alpha color with 8-bit channels.
type Color struct {
	A, R, G, B uint8
}

// DefaultBackground is the color transparent pixels are flattened onto.
var DefaultBackground = Color{A: 255, R: 68, G: 68, B: 68}

// ColorFromNRGBA converts a color.NRGBA into a Color.
func ColorFromNRGBA(c color.NRGBA) Color {
	return Color{A: c.A, R: c.R, G: c.G, B: c.B}
}

// NRGBA returns c as a color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats an opaque color as #RRGGBB, otherwise as #AARRGGBB.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// ParseHexColor parses #RRGGBB or #AARRGGBB.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: want #RRGGBB or #AARRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := Color{
		A: 255,
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
	if len(hex) == 8 {
		c.A = uint8(v >> 24)
	}
	return c, nil
}

// Composite draws foreground over background and returns the flattened color.
//
// The foreground alpha is its opacity. The result is the Porter-Duff "over"
// composite re-expressed relative to the top layer; color channels are
// truncated toward zero, the alpha is the rounded combined coverage. When both
// alphas are zero there is no coverage at all and background is returned as is.
func Composite(background, foreground Color) Color {
	// Exact results of the formula below, without floating point noise.
	switch foreground.A {
	case 255:
		return foreground
	case 0:
		return background
	}

	opaF := float64(foreground.A) / 255
	opaB := float64(background.A) / 255
	combined := opaF + opaB - float64(opaF*opaB)
	if combined <= 0 {
		return background
	}

	shareF := opaF / combined
	a1 := 1 - shareF
	a2 := shareF * (1 - opaF)
	a3 := shareF * opaF

	return Color{
		A: clampChannel(math.Round(combined * 255)),
		R: blendChannel(background.R, foreground.R, a1, a2, a3),
		G: blendChannel(background.G, foreground.G, a1, a2, a3),
		B: blendChannel(background.B, foreground.B, a1, a2, a3),
	}
}

func blendChannel(bg, fg uint8, a1, a2, a3 float64) uint8 {
	b, f := float64(bg), float64(fg)
	// float64 conversions keep each product rounded on its own (no FMA)
	return clampChannel(float64(b*a1) + float64(f*a2) + float64(f*a3))
}

// clampChannel truncates v toward zero into [0, 255].
func clampChannel(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

// FlattenTransparency composites every pixel of img that is not fully opaque
// onto background, in place. Opaque pixels are left untouched, so running it
// twice is a no-op. Row bands are processed concurrently.
func FlattenTransparency(ctx context.Context, background Color, img *image.NRGBA) error {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	rows := b.Dy()
	if rows <= 0 || b.Dx() <= 0 {
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	band := (rows + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for y0 := b.Min.Y; y0 < b.Max.Y; y0 += band {
		y1 := min(y0+band, b.Max.Y)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
				flattenRow(background, row)
			}
			return nil
		})
	}
	return g.Wait()
}

func flattenRow(background Color, row []uint8) {
	for i := 0; i+3 < len(row); i += 4 {
		if row[i+3] == 255 {
			continue
		}
		c := Composite(background, Color{A: row[i+3], R: row[i], G: row[i+1], B: row[i+2]})
		row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
	}
}
