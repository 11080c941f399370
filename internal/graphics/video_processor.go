package graphics

import "math"

// VideoProcessor applies brightness/contrast/saturation adjustments to a
// rendered NES frame buffer before it reaches the window. Adjustments are
// post-processing only -- they never touch the PPU's own NTSC palette.
type VideoProcessor struct {
	brightness float32
	contrast   float32
	saturation float32
}

// NewVideoProcessor creates a processor with the given brightness, contrast,
// and saturation multipliers. 1.0 for all three is the identity transform.
func NewVideoProcessor(brightness, contrast, saturation float32) *VideoProcessor {
	return &VideoProcessor{
		brightness: brightness,
		contrast:   contrast,
		saturation: saturation,
	}
}

// ProcessFrame applies the configured adjustments to every pixel of a
// 256x240 ARGB-packed frame buffer. With identity settings it returns the
// input slice itself; otherwise it returns a new buffer and leaves the
// input untouched.
func (vp *VideoProcessor) ProcessFrame(frameBuffer []uint32) []uint32 {
	if vp.isIdentity() {
		return frameBuffer
	}

	out := make([]uint32, len(frameBuffer))
	for i, pixel := range frameBuffer {
		out[i] = vp.adjustPixel(pixel)
	}
	return out
}

func (vp *VideoProcessor) isIdentity() bool {
	return vp.brightness == 1.0 && vp.contrast == 1.0 && vp.saturation == 1.0
}

func (vp *VideoProcessor) adjustPixel(pixel uint32) uint32 {
	r := float32((pixel >> 16) & 0xFF)
	g := float32((pixel >> 8) & 0xFF)
	b := float32(pixel & 0xFF)

	r *= vp.brightness
	g *= vp.brightness
	b *= vp.brightness

	r = ((r/255.0 - 0.5) * vp.contrast + 0.5) * 255.0
	g = ((g/255.0 - 0.5) * vp.contrast + 0.5) * 255.0
	b = ((b/255.0 - 0.5) * vp.contrast + 0.5) * 255.0

	if vp.saturation != 1.0 {
		h, s, l := rgbToHSL(r/255.0, g/255.0, b/255.0)
		s *= vp.saturation
		if s > 1.0 {
			s = 1.0
		}
		r, g, b = hslToRGB(h, s, l)
		r *= 255.0
		g *= 255.0
		b *= 255.0
	}

	r = clamp(r, 0, 255)
	g = clamp(g, 0, 255)
	b = clamp(b, 0, 255)

	return (uint32(r) << 16) | (uint32(g) << 8) | uint32(b)
}

func clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// rgbToHSL converts RGB (each component in 0..1) to hue/saturation/lightness.
func rgbToHSL(r, g, b float32) (h, s, l float32) {
	maxC := math.Max(float64(r), math.Max(float64(g), float64(b)))
	minC := math.Min(float64(r), math.Min(float64(g), float64(b)))

	l = float32((maxC + minC) / 2.0)

	if maxC == minC {
		return 0, 0, l
	}

	d := float32(maxC - minC)
	if l > 0.5 {
		s = d / float32(2.0-maxC-minC)
	} else {
		s = d / float32(maxC+minC)
	}

	switch maxC {
	case float64(r):
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case float64(g):
		h = (b-r)/d + 2
	case float64(b):
		h = (r-g)/d + 4
	}
	h /= 6

	return h, s, l
}

// hslToRGB converts hue/saturation/lightness back to RGB (each component in 0..1).
func hslToRGB(h, s, l float32) (r, g, b float32) {
	if s == 0 {
		return l, l, l
	}

	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1.0/3.0)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3.0)

	return r, g, b
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// SetBrightness updates the brightness multiplier.
func (vp *VideoProcessor) SetBrightness(brightness float32) {
	vp.brightness = brightness
}

// SetContrast updates the contrast multiplier.
func (vp *VideoProcessor) SetContrast(contrast float32) {
	vp.contrast = contrast
}

// SetSaturation updates the saturation multiplier.
func (vp *VideoProcessor) SetSaturation(saturation float32) {
	vp.saturation = saturation
}
