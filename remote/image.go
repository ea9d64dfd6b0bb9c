package remote

import (
	"context"
	"fmt"
	"strings"
	"time"

	mp "github.com/setanarut/memoryposter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/genai"
)

// GenerateImage asks the image model for one square poster. The Gemini API
// rejects an explicit seed for image models, so prompts carry the seed as a
// variation tag instead and results are not reproducible.
func (c *Client) GenerateImage(ctx context.Context, prompt string, seed int64) ([]byte, error) {
	start := time.Now()
	resp, err := c.models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, fmt.Errorf("remote: generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, ErrEmptyResponse
	}
	img := resp.GeneratedImages[0].Image
	c.log.Debug().
		Str("model", c.imageModel).
		Int64("seed", seed).
		Str("mime", img.MIMEType).
		Int("bytes", len(img.ImageBytes)).
		Dur("took", time.Since(start)).
		Msg("image generated")
	return img.ImageBytes, nil
}

// StylePrompt describes the poster the local pipeline would paint, in words an
// image model can follow.
func StylePrompt(m mp.MoodResult, opt mp.Options, seed int64) string {
	m = m.Normalized()
	opt = opt.Clamped()

	var b strings.Builder
	b.WriteString("Abstract square poster evoking a personal memory")
	if city := strings.TrimSpace(m.City); city != "" {
		fmt.Fprintf(&b, " of %s", cases.Title(language.Und).String(city))
	}
	fmt.Fprintf(&b, ". Mood: %s, emotional intensity %.2f.", m.Mood, m.Intensity)

	hex := make([]string, len(m.Palette))
	for i, c := range m.Palette {
		hex[i] = c.Hex()
	}
	fmt.Fprintf(&b, " Palette: %s.", strings.Join(hex, ", "))
	b.WriteString(" Soft diagonal color gradient base")
	fmt.Fprintf(&b, ", %s mist", amount(opt.MistStrength/1.2))
	if opt.MistGlow > 0 {
		fmt.Fprintf(&b, " with %s glow", amount(opt.MistGlow))
	}
	if opt.WatercolorSpread > 0 && opt.WatercolorLayers > 0 {
		fmt.Fprintf(&b, ", %d layers of %s watercolor blooms", opt.WatercolorLayers, amount(opt.WatercolorSpread))
	}
	if opt.PastelBlend > 0 {
		fmt.Fprintf(&b, ", %s pastel finish with %s film grain", amount(opt.PastelBlend), amount(opt.PastelGrain))
	}
	b.WriteString(".")
	if opt.CitySignature {
		colors := mp.SignatureColors(m.City, m.Palette)
		neon := make([]string, len(colors))
		for i, c := range colors {
			neon[i] = c.Hex()
		}
		fmt.Fprintf(&b, " Thin vertical neon light strokes on top in %s, %s glow.", strings.Join(neon, ", "), amount(opt.EmotionLink))
	}
	fmt.Fprintf(&b, " No text, no people, no recognizable landmarks. Variation %d.", seed)
	return b.String()
}

func amount(v float64) string {
	switch {
	case v <= 0:
		return "no"
	case v < 0.25:
		return "faint"
	case v < 0.5:
		return "light"
	case v < 0.75:
		return "gentle"
	default:
		return "strong"
	}
}
