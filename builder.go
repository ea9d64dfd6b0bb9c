package memoryposter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultSeed is used when a seed is missing or cannot be parsed.
const DefaultSeed int64 = 42

// pcgStream is the fixed PCG stream selector; only the seed varies per render.
const pcgStream = 0x9e3779b97f4a7c15

// ErrEncode reports that the final canvas could not be serialized.
var ErrEncode = errors.New("encode poster")

// Stage is a snapshot of the canvas after one layer.
type Stage struct {
	Name  string
	Image *image.NRGBA
}

// PosterBuilder runs the layer sequence for one render. It owns its canvas and
// random stream; use one builder per render.
type PosterBuilder struct {
	Mood    MoodResult
	Options Options
	Canvas  *image.NRGBA
	// KeepStages records a snapshot after every layer in Stages.
	KeepStages bool
	Stages     []Stage

	rng *rand.Rand
}

func NewPosterBuilder(m MoodResult, opt Options) *PosterBuilder {
	return &PosterBuilder{
		Mood:    m.Normalized(),
		Options: opt.Clamped(),
	}
}

// NewStream returns the random stream a render with this seed draws from.
func NewStream(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), pcgStream))
}

// ParseSeed reads a decimal seed, falling back to DefaultSeed.
func ParseSeed(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return DefaultSeed
	}
	return v
}

// Build reseeds the stream and runs gradient, mist, watercolor, pastel and the
// optional city signature, in that order. The signature is always last.
func (pb *PosterBuilder) Build(seed int64) *image.NRGBA {
	pb.rng = NewStream(seed)
	pb.Stages = nil
	opt := pb.Options
	scale := opt.scale()

	pb.Canvas = gradientLayer(opt.Size, pb.Mood.Palette, pb.Mood.Intensity, scale)
	pb.snapshot("gradient")

	pb.Canvas = mistLayer(pb.Canvas, opt.MistStrength, opt.MistSmoothness, opt.MistGlow, scale, pb.rng)
	pb.snapshot("mist")

	pb.Canvas = watercolorLayer(pb.Canvas, pb.Mood.Palette, opt.WatercolorSpread, opt.WatercolorLayers, opt.WatercolorSaturation, scale, pb.rng)
	pb.snapshot("watercolor")

	pb.Canvas = pastelLayer(pb.Canvas, opt.PastelSoftness, opt.PastelGrain, opt.PastelBlend, scale, pb.rng)
	pb.snapshot("pastel")

	if opt.CitySignature {
		city, _ := LookupCity(pb.Mood.City)
		pb.Canvas = signatureLayer(pb.Canvas, city, opt.EmotionLink, pb.Mood.Palette, scale, pb.rng)
		pb.snapshot("signature")
	}
	return pb.Canvas
}

func (pb *PosterBuilder) snapshot(name string) {
	if !pb.KeepStages {
		return
	}
	pb.Stages = append(pb.Stages, Stage{Name: name, Image: pb.Canvas})
}

// Encode writes the canvas as an opaque RGB PNG.
func (pb *PosterBuilder) Encode(w io.Writer) error {
	if pb.Canvas == nil {
		return fmt.Errorf("%w: canvas not built", ErrEncode)
	}
	if err := imaging.Encode(w, pb.Canvas, imaging.PNG); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Render builds one poster and returns its PNG bytes. Identical inputs always
// produce identical bytes.
func Render(m MoodResult, opt Options, seed int64) ([]byte, error) {
	pb := NewPosterBuilder(m, opt)
	pb.Build(seed)
	var buf bytes.Buffer
	if err := pb.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
