package memoryposter

import "math"

// Options are the style controls of one render. Values outside their ranges
// are clamped by Clamped; nothing is rejected.
type Options struct {
	// Side length of the square canvas in pixels. Blur radii and stroke widths
	// are tuned for 1024 and scale linearly with Size.
	Size int
	// Fog amount, [0,1.2]. 0 disables the fog noise.
	MistStrength float64
	// Fog blur, [0,1]. Higher => wider, smoother fog.
	MistSmoothness float64
	// Bloom, [0,1]. 0 disables the glow pass.
	MistGlow float64
	// Blob size, count and blur, [0,1]. 0 disables the watercolor layer.
	WatercolorSpread float64
	// Number of stacked blob layers, [0,8]. 0 disables the watercolor layer.
	WatercolorLayers int
	// Blob color saturation, [0,1]. Lower => blobs pulled toward white.
	WatercolorSaturation float64
	// Pastel blur, [0,1].
	PastelSoftness float64
	// Gaussian grain, [0,1]. Noise std is 15*PastelGrain.
	PastelGrain float64
	// Weight of the pastel result over the pre-pastel canvas, [0,1].
	PastelBlend float64
	// Draw the city-signature strokes as the topmost layer.
	CitySignature bool
	// Stroke count, opacity and glow of the city signature, [0,1].
	EmotionLink float64
}

const (
	DefaultSize = 1024
	MinSize     = 64
	MaxSize     = 4096

	maxWatercolorLayers = 8
)

func DefaultOptions() Options {
	return Options{
		Size:                 DefaultSize,
		MistStrength:         0.6,
		MistSmoothness:       0.7,
		MistGlow:             0.4,
		WatercolorSpread:     0.5,
		WatercolorLayers:     3,
		WatercolorSaturation: 0.6,
		PastelSoftness:       0.5,
		PastelGrain:          0.3,
		PastelBlend:          0.5,
		EmotionLink:          0.5,
	}
}

// OptionsFromSize returns DefaultOptions for a canvas of the given side length.
func OptionsFromSize(size int) Options {
	opt := DefaultOptions()
	if size > 0 {
		opt.Size = size
	}
	return opt.Clamped()
}

// Clamped returns a copy with every field inside its declared range. A zero
// or negative Size becomes DefaultSize; NaN values become 0.
func (o Options) Clamped() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	o.Size = max(MinSize, min(MaxSize, o.Size))
	o.MistStrength = clampFinite(o.MistStrength, 0, 1.2)
	o.MistSmoothness = clampFinite(o.MistSmoothness, 0, 1)
	o.MistGlow = clampFinite(o.MistGlow, 0, 1)
	o.WatercolorSpread = clampFinite(o.WatercolorSpread, 0, 1)
	o.WatercolorLayers = max(0, min(maxWatercolorLayers, o.WatercolorLayers))
	o.WatercolorSaturation = clampFinite(o.WatercolorSaturation, 0, 1)
	o.PastelSoftness = clampFinite(o.PastelSoftness, 0, 1)
	o.PastelGrain = clampFinite(o.PastelGrain, 0, 1)
	o.PastelBlend = clampFinite(o.PastelBlend, 0, 1)
	o.EmotionLink = clampFinite(o.EmotionLink, 0, 1)
	return o
}

// scale is the factor applied to pixel constants tuned for a 1024 canvas.
func (o Options) scale() float64 {
	return float64(o.Size) / DefaultSize
}

func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, lo, hi)
}
