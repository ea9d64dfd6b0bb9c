package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/analysis"
	"google.golang.org/genai"
)

const analysisTemperature = 0.4

// foldSeed maps a render seed onto the model's int32 seed. Seeds in range pass
// through; larger ones fold their high half into the low half.
func foldSeed(seed int64) int32 {
	if seed == int64(int32(seed)) {
		return int32(seed)
	}
	return int32(seed ^ seed>>32)
}

func moodSchema() *genai.Schema {
	labels := make([]string, 0, len(mp.Moods()))
	for _, m := range mp.Moods() {
		labels = append(labels, m.String())
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mood": {Type: genai.TypeString, Enum: labels},
			"intensity": {
				Type:    genai.TypeNumber,
				Minimum: genai.Ptr(0.0),
				Maximum: genai.Ptr(1.0),
			},
			"palette": {
				Type:        genai.TypeArray,
				Description: "3 to 5 soft colors as #rrggbb",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"summary": {Type: genai.TypeString},
		},
		Required: []string{"mood", "intensity", "palette", "summary"},
	}
}

func analysisPrompt(in analysis.Input) string {
	var b strings.Builder
	b.WriteString("You read a short personal memory about a city and describe its emotional color ")
	b.WriteString("for an abstract, soft, pastel poster.\n")
	fmt.Fprintf(&b, "City: %s\n", strings.TrimSpace(in.City))
	fmt.Fprintf(&b, "Memory: %s\n", strings.TrimSpace(in.Memory))
	b.WriteString("Pick the closest mood, an intensity between 0 and 1, a palette of 3 to 5 gentle ")
	b.WriteString("hex colors that match the feeling, and a one sentence summary.")
	return b.String()
}

// Analyze asks the text model for a mood reading of the memory.
func (c *Client) Analyze(ctx context.Context, in analysis.Input) (mp.MoodResult, error) {
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.textModel, genai.Text(analysisPrompt(in)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   moodSchema(),
		Temperature:      genai.Ptr[float32](analysisTemperature),
		Seed:             genai.Ptr(foldSeed(in.Seed)),
	})
	if err != nil {
		return mp.MoodResult{}, fmt.Errorf("remote: analyze: %w", err)
	}
	c.log.Debug().Str("model", c.textModel).Dur("took", time.Since(start)).Msg("analysis done")
	return parseAnalysis(resp.Text(), in)
}

type analysisReply struct {
	Mood      string   `json:"mood"`
	Intensity *float64 `json:"intensity"`
	Palette   any      `json:"palette"`
	Summary   string   `json:"summary"`
}

// parseAnalysis normalizes a model reply. The palette may come back as hex
// strings or RGB triples; when nothing usable remains it is derived from the
// mood like the local analyzer does.
func parseAnalysis(text string, in analysis.Input) (mp.MoodResult, error) {
	text = stripFence(text)
	if text == "" {
		return mp.MoodResult{}, ErrEmptyResponse
	}
	var r analysisReply
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return mp.MoodResult{}, fmt.Errorf("remote: decode analysis: %w", err)
	}

	palette := mp.PaletteFromAny(r.Palette)
	m := mp.MoodResult{
		City:      in.City,
		Mood:      mp.ParseMood(r.Mood),
		Intensity: 0.5,
		Palette:   palette,
		Summary:   strings.TrimSpace(r.Summary),
	}
	if r.Intensity != nil {
		m.Intensity = *r.Intensity
	}
	m = m.Normalized()
	if len(palette) == 0 {
		m.Palette = mp.MoodPalette(m.Mood, m.Intensity, mp.NewStream(in.Seed))
	}
	if m.Summary == "" {
		m.Summary = analysis.Summary(in.City, m.Mood, m.Intensity)
	}
	return m, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
