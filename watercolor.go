package memoryposter

import (
	"image"
	"image/color"
	"math/rand/v2"
)

// watercolorLayer stamps translucent soft blobs in palette colors. Every layer
// is blurred and composited before the next one is drawn.
func watercolorLayer(img *image.NRGBA, p Palette, spread float64, layers int, saturation, scale float64, rng *rand.Rand) *image.NRGBA {
	if spread <= 0 || layers <= 0 {
		return img
	}
	if len(p) == 0 {
		p = DefaultPalette()
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	blobs := int(20 + spread*40)
	maxRadius := int(float64(min(w, h)) * (0.25 + spread*0.4))
	minRadius := int(float64(maxRadius) * 0.2)
	fade := 0.6 * (1 - saturation)
	blur := (10 + spread*40) * scale

	base := img
	for range layers {
		overlay := image.NewRGBA(b)
		for range blobs {
			c := channels(p[rng.IntN(len(p))])
			fill := color.NRGBA{
				R: clampChannel(c[0] + (255-c[0])*fade),
				G: clampChannel(c[1] + (255-c[1])*fade),
				B: clampChannel(c[2] + (255-c[2])*fade),
			}
			cx := randInt(rng, 0, w)
			cy := randInt(rng, 0, h)
			rx := randInt(rng, minRadius, maxRadius)
			ry := randInt(rng, minRadius, maxRadius)
			fill.A = uint8(60 + 120*rng.Float64())
			fillEllipse(overlay, float64(cx), float64(cy), float64(rx), float64(ry), fill)
		}
		base = composite(base, gaussianBlur(overlay, blur))
	}
	return base
}

// randInt returns a uniform integer in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
