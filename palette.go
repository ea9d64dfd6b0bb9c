package memoryposter

import (
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered list of 1-5 colors. Index 0, 1 and 2 are the primary,
// secondary and accent colors of the gradient.
type Palette []colorful.Color

const maxPaletteColors = 5

// DefaultPalette is substituted whenever a palette is empty or unusable.
func DefaultPalette() Palette {
	return Palette{
		rgb255(200, 220, 230),
		rgb255(230, 240, 245),
		rgb255(180, 200, 210),
	}
}

// Mood is a coarse emotional label. The zero value is MoodCalm.
type Mood int

const (
	MoodCalm Mood = iota
	MoodNostalgic
	MoodDreamy
	MoodSad
	MoodHappy
	MoodRomantic
	MoodTense
)

// moodBase holds the base hue (degrees), saturation and value of each mood.
var moodBase = [...]struct {
	name    string
	h, s, v float64
}{
	MoodCalm:      {"calm", 200, 0.25, 0.95},
	MoodNostalgic: {"nostalgic", 35, 0.35, 0.96},
	MoodDreamy:    {"dreamy", 260, 0.30, 0.98},
	MoodSad:       {"sad", 210, 0.22, 0.90},
	MoodHappy:     {"happy", 50, 0.45, 0.99},
	MoodRomantic:  {"romantic", 330, 0.35, 0.97},
	MoodTense:     {"tense", 350, 0.60, 0.92},
}

func (m Mood) String() string {
	if m < 0 || int(m) >= len(moodBase) {
		return moodBase[MoodCalm].name
	}
	return moodBase[m].name
}

// Moods returns every mood in declaration order.
func Moods() []Mood {
	out := make([]Mood, len(moodBase))
	for i := range moodBase {
		out[i] = Mood(i)
	}
	return out
}

// ParseMood resolves a label case-insensitively. Unknown labels map to MoodCalm.
func ParseMood(label string) Mood {
	label = strings.ToLower(strings.TrimSpace(label))
	for i, m := range moodBase {
		if m.name == label {
			return Mood(i)
		}
	}
	return MoodCalm
}

// MoodResult is the output of mood analysis and the input of Render.
type MoodResult struct {
	City      string
	Mood      Mood
	Intensity float64 // [0,1]
	Palette   Palette
	Summary   string
}

// Normalized returns a copy with intensity clamped and the palette replaced by
// DefaultPalette when empty.
func (m MoodResult) Normalized() MoodResult {
	m.Intensity = clamp01(m.Intensity)
	if m.Mood < 0 || int(m.Mood) >= len(moodBase) {
		m.Mood = MoodCalm
	}
	if len(m.Palette) == 0 {
		m.Palette = DefaultPalette()
	}
	if len(m.Palette) > maxPaletteColors {
		m.Palette = m.Palette[:maxPaletteColors]
	}
	return m
}

// MoodPalette maps a mood and intensity to 3-5 colors. Each color is the mood's
// base HSV perturbed by rng; higher intensity darkens the result.
func MoodPalette(mood Mood, intensity float64, rng *rand.Rand) Palette {
	if mood < 0 || int(mood) >= len(moodBase) {
		mood = MoodCalm
	}
	base := moodBase[mood]
	intensity = clamp01(intensity)

	n := 3 + rng.IntN(3)
	out := make(Palette, 0, n)
	for range n {
		h := math.Mod(base.h/360+uniform(rng, -0.12, 0.12)+1, 1)
		s := clamp(base.s+uniform(rng, -0.25, 0.2), 0.05, 0.95)
		v := clamp(base.v+uniform(rng, -0.2, 0.2), 0.4, 1.0)
		v *= 0.9 - 0.3*intensity
		out = append(out, quantize(colorful.Hsv(h*360, s, v)))
	}
	return out
}

// ParsePalette converts "#RRGGBB" (or "#RGB") strings. Invalid entries are skipped.
func ParsePalette(hexes []string) Palette {
	out := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, ok := parseHex(h)
		if !ok {
			continue
		}
		out = append(out, c)
		if len(out) == maxPaletteColors {
			break
		}
	}
	return out
}

// PaletteFromAny normalizes loosely typed palette input such as decoded JSON.
// Accepted entries are hex strings and RGB triples; a flat numeric triple is read
// as a single color. Anything else is dropped, so the result may be empty.
func PaletteFromAny(v any) Palette {
	switch p := v.(type) {
	case nil:
		return nil
	case Palette:
		return append(Palette(nil), p...)
	case []colorful.Color:
		return append(Palette(nil), p...)
	case []string:
		return ParsePalette(p)
	case []color.Color:
		out := make(Palette, 0, len(p))
		for _, c := range p {
			if c == nil {
				continue
			}
			cc, _ := colorful.MakeColor(c)
			out = append(out, quantize(cc))
		}
		return limit(out)
	case [][]int:
		out := make(Palette, 0, len(p))
		for _, t := range p {
			if len(t) != 3 {
				continue
			}
			out = append(out, rgb255(t[0], t[1], t[2]))
		}
		return limit(out)
	case [][]float64:
		out := make(Palette, 0, len(p))
		for _, t := range p {
			if c, ok := tripleFromFloats(t); ok {
				out = append(out, c)
			}
		}
		return limit(out)
	case []float64:
		if c, ok := tripleFromFloats(p); ok {
			return Palette{c}
		}
		return nil
	case []int:
		if len(p) == 3 {
			return Palette{rgb255(p[0], p[1], p[2])}
		}
		return nil
	case []any:
		if c, ok := tripleFromAny(p); ok {
			return Palette{c}
		}
		out := make(Palette, 0, len(p))
		for _, e := range p {
			switch e := e.(type) {
			case string:
				if c, ok := parseHex(e); ok {
					out = append(out, c)
				}
			case []any:
				if c, ok := tripleFromAny(e); ok {
					out = append(out, c)
				}
			}
		}
		return limit(out)
	}
	return nil
}

// gradientColors pads or truncates p to exactly three colors.
func gradientColors(p Palette) [3]colorful.Color {
	switch len(p) {
	case 0:
		d := DefaultPalette()
		return [3]colorful.Color{d[0], d[1], d[2]}
	case 1:
		return [3]colorful.Color{p[0], p[0], p[0]}
	case 2:
		return [3]colorful.Color{p[0], p[1], p[1]}
	}
	return [3]colorful.Color{p[0], p[1], p[2]}
}

func parseHex(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

func tripleFromAny(t []any) (colorful.Color, bool) {
	if len(t) != 3 {
		return colorful.Color{}, false
	}
	var f [3]float64
	for i, e := range t {
		switch n := e.(type) {
		case float64:
			f[i] = n
		case int:
			f[i] = float64(n)
		default:
			return colorful.Color{}, false
		}
	}
	return tripleFromFloats(f[:])
}

func tripleFromFloats(t []float64) (colorful.Color, bool) {
	if len(t) != 3 {
		return colorful.Color{}, false
	}
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return colorful.Color{}, false
		}
	}
	return rgb255(int(t[0]), int(t[1]), int(t[2])), true
}

func limit(p Palette) Palette {
	if len(p) > maxPaletteColors {
		return p[:maxPaletteColors]
	}
	return p
}

func rgb255(r, g, b int) colorful.Color {
	return colorful.Color{
		R: float64(max(0, min(255, r))) / 255,
		G: float64(max(0, min(255, g))) / 255,
		B: float64(max(0, min(255, b))) / 255,
	}
}

// quantize snaps c to the 8-bit grid, truncating like int(v*255).
func quantize(c colorful.Color) colorful.Color {
	c = c.Clamped()
	return rgb255(int(c.R*255), int(c.G*255), int(c.B*255))
}

// channels returns c in [0,255] float space.
func channels(c colorful.Color) [3]float64 {
	return [3]float64{c.R * 255, c.G * 255, c.B * 255}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}
