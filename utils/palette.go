package utils

import (
	"image"
	"image/color"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/rs/zerolog/log"
	mp "github.com/setanarut/memoryposter"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	// PaletteMethodKMeans seeds its clusters from the clock, so repeated
	// extractions of the same image can differ slightly.
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod maps "kmeans" to PaletteMethodKMeans and anything else to
// PaletteMethodDominantColor.
func ParsePaletteMethod(s string) PaletteMethod {
	if strings.EqualFold(strings.TrimSpace(s), "kmeans") {
		return PaletteMethodKMeans
	}
	return PaletteMethodDominantColor
}

// Reference images are reduced to fit this box before clustering.
const sampleBox = 256

type weightedColor struct {
	col colorful.Color
	w   float64
}

// ExtractPalette picks k (1..5) well separated colors from a reference image,
// biased toward the colors that cover the most area.
func ExtractPalette(img image.Image, k int, method PaletteMethod) mp.Palette {
	k = max(1, min(5, k))
	small := imaging.Fit(img, sampleBox, sampleBox, imaging.Box)
	if method == PaletteMethodKMeans {
		if p := kmeansPalette(small, k); len(p) != 0 {
			return p
		}
		log.Warn().Str("method", method.String()).Msg("empty palette, falling back to dominantcolor")
	}
	return dominantPalette(small, k)
}

func dominantPalette(img image.Image, k int) mp.Palette {
	found := dominantcolor.FindWeight(img, max(24, k*8))
	if len(found) == 0 {
		found = []dominantcolor.Color{{RGBA: color.RGBA{R: 128, G: 128, B: 128, A: 255}, Weight: 1}}
	}
	cands := make([]weightedColor, 0, len(found))
	for _, c := range found {
		col, _ := colorful.MakeColor(c.RGBA)
		cands = append(cands, weightedColor{col: col, w: c.Weight})
	}
	return pickDiverse(cands, k)
}

func kmeansPalette(img image.Image, k int) mp.Palette {
	b := img.Bounds()
	obs := make(clusters.Observations, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			obs = append(obs, clusters.Coordinates{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255})
		}
	}
	if len(obs) == 0 {
		return nil
	}
	cc, err := kmeans.New().Partition(obs, min(k*3, len(obs)))
	if err != nil {
		log.Warn().Err(err).Msg("kmeans partition")
		return nil
	}
	cands := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		cands = append(cands, weightedColor{col: col, w: float64(len(c.Observations))})
	}
	return pickDiverse(cands, k)
}

// pickDiverse starts from the heaviest candidate and greedily adds the one
// farthest (in Lab) from everything picked so far, damped by its weight.
func pickDiverse(cands []weightedColor, k int) mp.Palette {
	if len(cands) == 0 {
		return nil
	}
	heaviest := 0.0
	labs := make([][3]float64, len(cands))
	for i := range cands {
		cands[i].col = cands[i].col.Clamped()
		cands[i].w = max(cands[i].w, 1e-6)
		heaviest = max(heaviest, cands[i].w)
		l, a, bb := cands[i].col.Lab()
		labs[i] = [3]float64{l, a, bb}
	}

	first := 0
	for i := range cands {
		if cands[i].w > cands[first].w {
			first = i
		}
	}
	picked := []int{first}
	used := make([]bool, len(cands))
	used[first] = true

	for len(picked) < min(k, len(cands)) {
		best, bestScore := -1, -1.0
		for i := range cands {
			if used[i] {
				continue
			}
			nearest := math.MaxFloat64
			for _, j := range picked {
				nearest = min(nearest, labDist2(labs[i], labs[j]))
			}
			score := math.Sqrt(nearest) * (0.55 + 0.45*math.Sqrt(cands[i].w/heaviest))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		used[best] = true
		picked = append(picked, best)
	}

	out := make(mp.Palette, 0, len(picked))
	for _, i := range picked {
		r, g, b := cands[i].col.RGB255()
		out = append(out, colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255})
	}
	return out
}

func labDist2(a, b [3]float64) float64 {
	d0, d1, d2 := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return d0*d0 + d1*d1 + d2*d2
}

// SortByBrightness orders p from darkest to brightest by relative luminance.
func SortByBrightness(p mp.Palette) {
	slices.SortStableFunc(p, func(a, b colorful.Color) int {
		return cmpFloat(luminance(a), luminance(b))
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// HexPalette formats p as "#rrggbb" strings.
func HexPalette(p mp.Palette) []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}
