package memoryposter

import (
	"image"
	"image/color"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

var mistWhite = color.NRGBA{R: 245, G: 245, B: 250, A: 255}

// mistLayer adds a near-white fog built from blurred noise, then a glow computed
// from the fogged canvas. Returns img untouched when strength and glow are both <= 0.
func mistLayer(img *image.NRGBA, strength, smoothness, glow, scale float64, rng *rand.Rand) *image.NRGBA {
	if strength <= 0 && glow <= 0 {
		return img
	}
	b := img.Bounds()
	base := img

	if strength > 0 {
		noise := image.NewGray(b)
		u := distuv.Uniform{Min: 0, Max: 1, Src: rng}
		for i := range noise.Pix {
			noise.Pix[i] = uint8(u.Rand() * 255)
		}
		fog := gaussianBlur(noise, (20+40*smoothness)*scale)
		fog = blend(flat(b.Dx(), b.Dy(), mistWhite), fog, 0.5)
		base = blend(base, fog, min(0.25+0.5*strength, 0.95))
	}

	if glow > 0 {
		halo := blend(base, gaussianBlur(base, (8+25*glow)*scale), 0.6)
		halo = brighten(halo, 1.05+0.3*glow)
		base = blend(base, halo, 0.6)
	}
	return base
}
