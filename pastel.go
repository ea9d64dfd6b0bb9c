package memoryposter

import (
	"image"
	"image/color"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

var pastelVeil = color.NRGBA{R: 245, G: 245, B: 248, A: 255}

const (
	pastelLift      = 1.05
	pastelVeilAlpha = 0.25
	grainSigma      = 15.0
)

// pastelLayer softens, lifts and grains a copy of img, veils it with a light
// tint and mixes it back over img by ratio. ratio 0 returns img unchanged.
func pastelLayer(img *image.NRGBA, softness, grain, ratio, scale float64, rng *rand.Rand) *image.NRGBA {
	ratio = clamp01(ratio)
	if ratio <= 0 {
		return img
	}
	b := img.Bounds()

	soft := image.Image(img)
	if softness > 0 {
		soft = gaussianBlur(img, (2+8*softness)*scale)
	}
	lifted := brighten(soft, pastelLift)
	if grain > 0 {
		addGrain(lifted, grainSigma*grain, rng)
	}
	pastel := blend(lifted, flat(b.Dx(), b.Dy(), pastelVeil), pastelVeilAlpha)
	return blend(img, pastel, ratio)
}

// addGrain adds zero-mean Gaussian noise in place, one sample per pixel shared
// by the three channels. Pixels are visited in row order so a seeded rng
// reproduces the same grain.
func addGrain(img *image.NRGBA, sigma float64, rng *rand.Rand) {
	n := distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X-1, y)+4]
		for i := 0; i < len(row); i += 4 {
			d := n.Rand()
			row[i] = clampChannel(float64(row[i]) + d)
			row[i+1] = clampChannel(float64(row[i+1]) + d)
			row[i+2] = clampChannel(float64(row[i+2]) + d)
		}
	}
}
