package analysis

import (
	"context"
	"strings"
	"testing"

	mp "github.com/setanarut/memoryposter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		city      string
		memory    string
		mood      mp.Mood
		intensity float64
	}{
		{name: "default", city: "Kyoto", memory: "we walked", mood: mp.MoodCalm, intensity: 0.4},
		{name: "sad", memory: "I felt so lonely", mood: mp.MoodSad, intensity: 0.7},
		{name: "sad wins over happy", memory: "happy but lost", mood: mp.MoodSad, intensity: 0.7},
		{name: "happy", memory: "a big smile", mood: mp.MoodHappy, intensity: 0.6},
		{name: "romantic", memory: "our first date", mood: mp.MoodRomantic, intensity: 0.55},
		{name: "nostalgic", memory: "my childhood street", mood: mp.MoodNostalgic, intensity: 0.6},
		{name: "dreamy", memory: "neon reflections", mood: mp.MoodDreamy, intensity: 0.65},
		{name: "tense", memory: "we would argue", mood: mp.MoodTense, intensity: 0.7},
		{name: "chinese cue", city: "上海", memory: "那天很开心", mood: mp.MoodHappy, intensity: 0.6},
		{name: "rain scene", memory: "rain on the window", mood: mp.MoodNostalgic, intensity: 0.55},
		{name: "sea scene", memory: "by the sea", mood: mp.MoodCalm, intensity: 0.5},
		{name: "city scene", memory: "城市的灯光", mood: mp.MoodDreamy, intensity: 0.6},
		{name: "case insensitive", memory: "SO HAPPY", mood: mp.MoodHappy, intensity: 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mood, intensity := Classify(tt.city, tt.memory)
			assert.Equal(t, tt.mood, mood)
			assert.InDelta(t, tt.intensity, intensity, 0.02)
		})
	}
}

func TestClassifyIntensityBoost(t *testing.T) {
	_, base := Classify("", "by the sea")
	_, bang := Classify("", "by the sea!！")
	assert.InDelta(t, base+0.1, bang, 0.001)

	_, long := Classify("", strings.Repeat("a", 800))
	assert.InDelta(t, 0.5, long, 1e-9)

	_, capped := Classify("", "lonely"+strings.Repeat("!", 20))
	assert.Equal(t, 0.85, capped)
}

func TestLocalAnalyze(t *testing.T) {
	in := Input{City: "new york", Memory: "a kiss in the rain", Seed: 42}
	a, err := Local{}.Analyze(context.Background(), in)
	require.NoError(t, err)
	b, err := Local{}.Analyze(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, mp.MoodRomantic, a.Mood)
	assert.Equal(t, "new york", a.City)
	assert.GreaterOrEqual(t, len(a.Palette), 3)
	assert.LessOrEqual(t, len(a.Palette), 5)
	assert.Equal(t, "Memories of New York carry a romantic tone, intensity 0.55.", a.Summary)
}

func TestSummaryWithoutCity(t *testing.T) {
	assert.Equal(t, "This memory carries a calm tone, intensity 0.40.", Summary(" ", mp.MoodCalm, 0.4))
}
