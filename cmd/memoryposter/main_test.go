package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"-city", "Paris", "-layers", "12", "-signature", "-size", "32"}, 1024)
	require.NoError(t, err)
	assert.Equal(t, "Paris", f.city)
	assert.Equal(t, 8, f.opt.WatercolorLayers)
	assert.True(t, f.opt.CitySignature)
	assert.Equal(t, mp.MinSize, f.opt.Size)
	assert.Equal(t, "42", f.seed)

	_, err = parseFlags([]string{"-nope"}, 1024)
	assert.Error(t, err)
}

func TestRequestMoodOverride(t *testing.T) {
	f, err := parseFlags([]string{"-mood", "calm", "-intensity", "0.4", "-palette", "#A9C8D8,#E4EEF5,#6FA3C8", "-seed", "x"}, 64)
	require.NoError(t, err)
	req, err := f.request()
	require.NoError(t, err)
	require.NotNil(t, req.Mood)
	assert.Equal(t, mp.MoodCalm, req.Mood.Mood)
	assert.Len(t, req.Mood.Palette, 3)
	assert.Equal(t, mp.DefaultSeed, req.Seed)

	f, err = parseFlags([]string{"-city", "Oslo", "-memory", "so lonely"}, 64)
	require.NoError(t, err)
	req, err = f.request()
	require.NoError(t, err)
	assert.Nil(t, req.Mood)
}

func TestRequestPaletteFallbacks(t *testing.T) {
	f, err := parseFlags([]string{"-mood", "calm", "-intensity", "0.4", "-palette", "nope,#xyzxyz", "-seed", "42"}, 64)
	require.NoError(t, err)
	req, err := f.request()
	require.NoError(t, err)
	require.NotNil(t, req.Mood)
	assert.Empty(t, req.Mood.Palette)

	f, err = parseFlags([]string{"-mood", "calm", "-intensity", "0.4", "-palette", "", "-seed", "42"}, 64)
	require.NoError(t, err)
	req, err = f.request()
	require.NoError(t, err)
	assert.Empty(t, req.Mood.Palette)

	f, err = parseFlags([]string{"-mood", "tense", "-intensity", "0.7", "-seed", "9"}, 64)
	require.NoError(t, err)
	req, err = f.request()
	require.NoError(t, err)
	assert.Equal(t, mp.MoodPalette(mp.MoodTense, 0.7, mp.NewStream(9)), req.Mood.Palette)
	assert.False(t, req.KeepStages)
}

func TestRunUnusablePaletteMatchesDefault(t *testing.T) {
	out := filepath.Join(t.TempDir(), "poster.png")
	err := run(context.Background(), []string{
		"-mood", "calm", "-intensity", "0.4", "-palette", "nope", "-seed", "42", "-out", out,
	}, zerolog.Nop(), config.Config{PosterSize: 64})
	require.NoError(t, err)

	want, err := mp.Render(mp.MoodResult{Mood: mp.MoodCalm, Intensity: 0.4}, mp.OptionsFromSize(64), 42)
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "poster.png")
	swatch := filepath.Join(dir, "swatch.png")
	stages := filepath.Join(dir, "stages")

	err := run(context.Background(), []string{
		"-city", "Taipei", "-memory", "night market with old friends",
		"-out", out, "-swatch", swatch, "-stages", stages, "-signature",
	}, zerolog.Nop(), config.Config{PosterSize: 64})
	require.NoError(t, err)

	for _, p := range []string{out, swatch, filepath.Join(stages, "04_signature.png")} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	entries, err := os.ReadDir(stages)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestRunMissingReference(t *testing.T) {
	err := run(context.Background(), []string{"-ref", filepath.Join(t.TempDir(), "none.png")}, zerolog.Nop(), config.Config{PosterSize: 64})
	assert.Error(t, err)
}
