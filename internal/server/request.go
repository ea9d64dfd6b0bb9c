package server

import (
	"encoding/json"
	"strings"

	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/studio"
)

type posterRequest struct {
	City   string `json:"city"`
	Memory string `json:"memory"`
	// Seed may be a number or a numeric string.
	Seed json.RawMessage `json:"seed"`

	// Mood, Intensity and Palette override the analysis when Mood is set.
	// An absent palette is derived from the mood; a supplied but unusable one
	// falls back to the default palette.
	Mood      string   `json:"mood"`
	Intensity *float64 `json:"intensity"`
	Palette   any      `json:"palette"`

	Style       styleRequest `json:"style"`
	RemoteImage *bool        `json:"remote_image"`
}

type styleRequest struct {
	Size                 *int     `json:"size"`
	MistStrength         *float64 `json:"mist_strength"`
	MistSmoothness       *float64 `json:"mist_smoothness"`
	MistGlow             *float64 `json:"mist_glow"`
	WatercolorSpread     *float64 `json:"watercolor_spread"`
	WatercolorLayers     *int     `json:"watercolor_layers"`
	WatercolorSaturation *float64 `json:"watercolor_saturation"`
	PastelSoftness       *float64 `json:"pastel_softness"`
	PastelGrain          *float64 `json:"pastel_grain"`
	PastelBlend          *float64 `json:"pastel_blend"`
	CitySignature        *bool    `json:"city_signature"`
	EmotionLink          *float64 `json:"emotion_link"`
}

func (s styleRequest) apply(o mp.Options) mp.Options {
	set(&o.Size, s.Size)
	set(&o.MistStrength, s.MistStrength)
	set(&o.MistSmoothness, s.MistSmoothness)
	set(&o.MistGlow, s.MistGlow)
	set(&o.WatercolorSpread, s.WatercolorSpread)
	set(&o.WatercolorLayers, s.WatercolorLayers)
	set(&o.WatercolorSaturation, s.WatercolorSaturation)
	set(&o.PastelSoftness, s.PastelSoftness)
	set(&o.PastelGrain, s.PastelGrain)
	set(&o.PastelBlend, s.PastelBlend)
	set(&o.CitySignature, s.CitySignature)
	set(&o.EmotionLink, s.EmotionLink)
	return o.Clamped()
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (r posterRequest) seed() int64 {
	return mp.ParseSeed(strings.Trim(string(r.Seed), `"`))
}

func (r posterRequest) studioRequest(size int, remoteImage bool) studio.Request {
	req := studio.Request{
		City:        strings.TrimSpace(r.City),
		Memory:      strings.TrimSpace(r.Memory),
		Seed:        r.seed(),
		Options:     r.Style.apply(mp.OptionsFromSize(size)),
		RemoteImage: remoteImage,
	}
	if r.RemoteImage != nil {
		req.RemoteImage = *r.RemoteImage
	}
	if strings.TrimSpace(r.Mood) != "" {
		m := mp.MoodResult{
			City:      req.City,
			Mood:      mp.ParseMood(r.Mood),
			Intensity: 0.5,
			Palette:   mp.PaletteFromAny(r.Palette),
		}
		if r.Intensity != nil {
			m.Intensity = *r.Intensity
		}
		if r.Palette == nil {
			m.Palette = mp.MoodPalette(m.Mood, m.Intensity, mp.NewStream(req.Seed))
		}
		req.Mood = &m
	}
	return req
}
