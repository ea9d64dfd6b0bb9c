package memoryposter

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// StrokeBias shapes where signature strokes sit vertically.
type StrokeBias int

const (
	BiasCenter StrokeBias = iota
	BiasTop               // strokes hang from the upper part of the canvas
	BiasBottom            // strokes rise from the lower part of the canvas
)

// City is a recognized city with its signature neon colors.
type City struct {
	Name   string
	Keys   []string // lowercase substrings matched against the input name
	Colors []string
	Bias   StrokeBias
}

var cities = []City{
	{Name: "Tokyo", Keys: []string{"tokyo", "东京", "東京"}, Colors: []string{"#FF2E88", "#00E5FF", "#B388FF"}, Bias: BiasTop},
	{Name: "Shanghai", Keys: []string{"shanghai", "上海"}, Colors: []string{"#FF3D7F", "#FFC400", "#00B8D4"}, Bias: BiasBottom},
	{Name: "Hong Kong", Keys: []string{"hong kong", "hongkong", "香港"}, Colors: []string{"#FF1744", "#00E676", "#FFEA00"}, Bias: BiasTop},
	{Name: "New York", Keys: []string{"new york", "nyc", "纽约"}, Colors: []string{"#FFD600", "#FF6D00", "#2979FF"}, Bias: BiasBottom},
	{Name: "Paris", Keys: []string{"paris", "巴黎"}, Colors: []string{"#FF80AB", "#FFD180", "#8C9EFF"}, Bias: BiasCenter},
	{Name: "London", Keys: []string{"london", "伦敦"}, Colors: []string{"#FF5252", "#40C4FF", "#E040FB"}, Bias: BiasCenter},
	{Name: "Seoul", Keys: []string{"seoul", "首尔"}, Colors: []string{"#F50057", "#1DE9B6", "#D500F9"}, Bias: BiasTop},
	{Name: "Beijing", Keys: []string{"beijing", "北京"}, Colors: []string{"#D50000", "#FFAB00", "#FF6E40"}, Bias: BiasBottom},
	{Name: "Taipei", Keys: []string{"taipei", "台北"}, Colors: []string{"#00E5FF", "#76FF03", "#FF4081"}, Bias: BiasCenter},
	{Name: "Berlin", Keys: []string{"berlin", "柏林"}, Colors: []string{"#651FFF", "#00E5FF", "#FF1744"}, Bias: BiasBottom},
}

// LookupCity matches name against the city table by case-insensitive substring.
func LookupCity(name string) (City, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return City{}, false
	}
	for _, c := range cities {
		for _, k := range c.Keys {
			if strings.Contains(name, k) {
				return c, true
			}
		}
	}
	return City{}, false
}

// Cities returns a copy of the city table.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

const signatureBrighten = 1.3

// SignatureColors returns the 2-4 stroke colors for a city: the table colors for
// a recognized city, otherwise the fallback palette brightened and saturated.
func SignatureColors(city string, fallback Palette) Palette {
	c, _ := LookupCity(city)
	return c.palette(fallback)
}

// palette is the stroke color set of c. The zero City has no colors and uses
// the fallback.
func (c City) palette(fallback Palette) Palette {
	if len(c.Colors) > 0 {
		return ParsePalette(c.Colors)
	}
	if len(fallback) == 0 {
		fallback = DefaultPalette()
	}
	out := make(Palette, 0, 4)
	for _, c := range fallback {
		bright := colorful.Color{
			R: c.R * signatureBrighten,
			G: c.G * signatureBrighten,
			B: c.B * signatureBrighten,
		}.Clamped()
		h, s, v := bright.Hsv()
		out = append(out, quantize(colorful.Hsv(h, max(s, 0.75), v)))
		if len(out) == 4 {
			break
		}
	}
	if len(out) == 1 {
		h, s, v := out[0].Hsv()
		out = append(out, quantize(colorful.Hsv(math.Mod(h+180, 360), s, v)))
	}
	return out
}

// signatureLayer draws vertical neon strokes with a soft glow on top of img.
// city is the resolved table entry, or the zero City when unrecognized.
func signatureLayer(img *image.NRGBA, city City, link float64, fallback Palette, scale float64, rng *rand.Rand) *image.NRGBA {
	link = clamp01(link)
	colors := city.palette(fallback)

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	strokes := int(25 + link*60)
	alpha := uint8(min(255, 90+140*link))

	overlay := image.NewRGBA(b)
	for range strokes {
		x := float64(rng.IntN(w))
		y0, y1 := strokeSpan(city.Bias, float64(h), rng)
		width := (2 + 4*rng.Float64()) * max(scale, 0.5)
		c := channels(colors[rng.IntN(len(colors))])
		fill := color.NRGBA{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: alpha}
		fillRect(overlay, x-width/2, y0, x+width/2, y1, fill)
	}

	glow := gaussianBlur(overlay, (1.5+4*link)*scale)
	return composite(composite(img, glow), overlay)
}

// strokeSpan picks the vertical extent of one stroke on a canvas of height h.
func strokeSpan(bias StrokeBias, h float64, rng *rand.Rand) (float64, float64) {
	length := h * uniform(rng, 0.3, 0.9)
	var top float64
	switch bias {
	case BiasTop:
		top = h * uniform(rng, 0, 0.15)
	case BiasBottom:
		top = h - length - h*uniform(rng, 0, 0.15)
	default:
		top = (h - length) * rng.Float64()
	}
	top = max(0, top)
	return top, min(h, top+length)
}
