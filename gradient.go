package memoryposter

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// gradientLayer synthesizes the size*size base raster. Colors 0->1 run along the
// diagonal, color 2 pulls the center in proportion to intensity.
func gradientLayer(size int, p Palette, intensity, scale float64) *image.NRGBA {
	cs := gradientColors(p)
	c1, c2, c3 := channels(cs[0]), channels(cs[1]), channels(cs[2])

	// axis[i] = i/(size-1)
	axis := floats.Span(make([]float64, size), 0, 1)
	half := float64(size) / 2
	norm := 0.75 * float64(size)
	pull := 0.8 * (0.4 + 0.6*clamp01(intensity))

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		ty := axis[y]
		dy := float64(y) - half
		row := img.Pix[y*img.Stride : y*img.Stride+size*4]
		for x := range size {
			tDiag := (axis[x] + ty) / 2
			dCenter := min(1, math.Hypot(float64(x)-half, dy)/norm)
			k := (1 - dCenter) * pull
			px := row[x*4 : x*4+4 : x*4+4]
			for ch := range 3 {
				diag := c1[ch]*(1-tDiag) + c2[ch]*tDiag
				px[ch] = clampChannel(diag*(1-k) + c3[ch]*k)
			}
			px[3] = 255
		}
	}
	return gaussianBlur(img, 2*scale)
}
