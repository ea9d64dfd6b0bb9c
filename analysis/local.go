// Package analysis turns a city and a memory text into a MoodResult.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	mp "github.com/setanarut/memoryposter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Input struct {
	City   string
	Memory string
	// Seed drives the palette stream; the same input and seed give the same palette.
	Seed int64
}

type Analyzer interface {
	Analyze(ctx context.Context, in Input) (mp.MoodResult, error)
}

type rule struct {
	mood      mp.Mood
	intensity float64
	words     []string
}

// Emotional cues, checked in order; the first rule with a matching word wins.
var moodRules = []rule{
	{mp.MoodSad, 0.7, []string{"sad", "cry", "alone", "lonely", "lost", "empty", "寂寞", "失落", "难过"}},
	{mp.MoodHappy, 0.6, []string{"happy", "joy", "excited", "smile", "满足", "开心", "快乐"}},
	{mp.MoodRomantic, 0.55, []string{"romantic", "love", "kiss", "date", "牵手", "告白", "浪漫"}},
	{mp.MoodNostalgic, 0.6, []string{"nostalgic", "memory", "childhood", "old", "过去", "从前", "回忆"}},
	{mp.MoodDreamy, 0.65, []string{"dream", "dreamy", "fog", "mist", "night", "neon", "幻", "朦胧"}},
	{mp.MoodTense, 0.7, []string{"fight", "argue", "anxious", "压力", "紧张", "争吵"}},
}

// Scenery cues, used only when no emotional cue matched.
var sceneRules = []rule{
	{mp.MoodNostalgic, 0.55, []string{"rain", "fog", "mist", "雨", "雾"}},
	{mp.MoodCalm, 0.5, []string{"sea", "ocean", "港口", "海边", "海"}},
	{mp.MoodDreamy, 0.6, []string{"night", "灯光", "城市", "霓虹"}},
}

const (
	defaultIntensity = 0.4
	minIntensity     = 0.3
	maxIntensity     = 0.85
)

// Local is the offline keyword analyzer. It never fails.
type Local struct{}

func (Local) Analyze(ctx context.Context, in Input) (mp.MoodResult, error) {
	mood, intensity := Classify(in.City, in.Memory)
	return mp.MoodResult{
		City:      in.City,
		Mood:      mood,
		Intensity: intensity,
		Palette:   mp.MoodPalette(mood, intensity, mp.NewStream(in.Seed)),
		Summary:   Summary(in.City, mood, intensity),
	}, nil
}

// Classify picks a mood from keyword cues in city and memory, then raises the
// intensity for long texts and exclamation marks. Intensity is kept in [0.3, 0.85].
func Classify(city, memory string) (mp.Mood, float64) {
	text := strings.ToLower(city + " " + memory)
	mood, intensity := mp.MoodCalm, defaultIntensity
	if r, ok := firstMatch(moodRules, text); ok {
		mood, intensity = r.mood, r.intensity
	} else if r, ok := firstMatch(sceneRules, text); ok {
		mood, intensity = r.mood, r.intensity
	}

	length := min(float64(utf8.RuneCountInString(memory))/400, 1)
	bangs := strings.Count(memory, "!") + strings.Count(memory, "！")
	intensity += 0.1*length + 0.05*float64(bangs)
	return mood, max(minIntensity, min(maxIntensity, intensity))
}

func firstMatch(rules []rule, text string) (rule, bool) {
	for _, r := range rules {
		for _, w := range r.words {
			if strings.Contains(text, w) {
				return r, true
			}
		}
	}
	return rule{}, false
}

// Summary is a one-line description of the detected mood.
func Summary(city string, mood mp.Mood, intensity float64) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return fmt.Sprintf("This memory carries a %s tone, intensity %.2f.", mood, intensity)
	}
	return fmt.Sprintf("Memories of %s carry a %s tone, intensity %.2f.", cases.Title(language.Und).String(city), mood, intensity)
}
