package glview

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// HSV interpolation follows Esme Lamb's (@dedelala) color manipulation work
// presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

var red = color.RGBA{R: 255, A: 255}

// ColorConversionGrayscale maps intensity in 0..1 to gray levels. Returns red for NaN values.
func ColorConversionGrayscale(t float32) color.Color {
	if math.IsNaN(t) {
		return red
	}
	return color.Gray{Y: unorm8(t)}
}

// ColorConversionTint maps intensity t in 0..1 to tint*t with white
// highlights near saturation. It matches what the quad fragment shader
// displays when [Config.Tint] is set. Returns red for NaN values.
func ColorConversionTint(tint color.Color) func(t float32) color.Color {
	r, g, b := colorToRGB(tint)
	return func(t float32) color.Color {
		if math.IsNaN(t) {
			return red
		}
		t = ms1.Clamp(t, 0, 1)
		hl := t * t * t * t
		return color.RGBA{R: unorm8(r*t + hl), G: unorm8(g*t + hl), B: unorm8(b*t + hl), A: 255}
	}
}

// ColorConversionLinearGradient creates a color conversion that blends from
// c0 at intensity 0 to c1 at intensity 1 through HSV space. Intensities
// outside 0..1 are clamped. Returns red for NaN values.
func ColorConversionLinearGradient(c0, c1 color.Color) func(t float32) color.Color {
	h0 := toHSV(colorToRGB(c0))
	h1 := toHSV(colorToRGB(c1))
	return func(t float32) color.Color {
		if math.IsNaN(t) {
			return red
		} else if t <= 0 {
			return c0
		} else if t >= 1 {
			return c1
		}
		r, g, b := interpHSV(h0, h1, t).rgb()
		return color.RGBA{R: unorm8(r), G: unorm8(g), B: unorm8(b), A: 255}
	}
}

// unorm8 converts a normalized 0..1 value to a byte, clamping out of range values.
func unorm8(v float32) uint8 {
	return uint8(ms1.Clamp(v, 0, 1)*math.MaxUint8 + 0.5)
}

func colorToRGB(c color.Color) (r, g, b float32) {
	r0, g0, b0, _ := c.RGBA()
	return float32(r0) / math.MaxUint16, float32(g0) / math.MaxUint16, float32(b0) / math.MaxUint16
}

// hsv holds hue, saturation and value in 0..1.
type hsv struct {
	h, s, v float32
}

func interpHSV(c0, c1 hsv, t float32) hsv {
	// Take the shortest path around the hue circle.
	switch {
	case c1.h-c0.h > 0.5:
		c0.h += 1
	case c1.h-c0.h < -0.5:
		c1.h += 1
	}
	h := ms1.Interp(c0.h, c1.h, t)
	if h >= 1 {
		h -= 1
	}
	return hsv{
		h: h,
		s: ms1.Interp(c0.s, c1.s, t),
		v: ms1.Interp(c0.v, c1.v, t),
	}
}

func (c hsv) rgb() (r, g, b float32) {
	var (
		chroma = c.s * c.v
		x      = chroma * (1 - math.Abs(math.Mod(c.h*6, 2)-1))
		m      = c.v - chroma
	)
	switch sector := int(c.h * 6); sector {
	case 0, 6:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return r + m, g + m, b + m
}

func toHSV(r, g, b float32) (c hsv) {
	xmax := max(r, g, b)
	xmin := min(r, g, b)
	chroma := xmax - xmin
	c.v = xmax
	switch {
	case chroma == 0:
		c.h = 0
	case xmax == r:
		c.h = (g - b) / (chroma * 6)
	case xmax == g:
		c.h = 1.0/3 + (b-r)/(chroma*6)
	default:
		c.h = 2.0/3 + (r-g)/(chroma*6)
	}
	if c.h < 0 {
		c.h += 1
	}
	if xmax > 0 {
		c.s = chroma / xmax
	}
	return c
}
