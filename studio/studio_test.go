package studio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	m     mp.MoodResult
	err   error
	calls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, in analysis.Input) (mp.MoodResult, error) {
	f.calls++
	if f.err != nil {
		return mp.MoodResult{}, f.err
	}
	m := f.m
	m.City = in.City
	return m, nil
}

type fakeImages struct {
	data   []byte
	err    error
	prompt string
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string, seed int64) ([]byte, error) {
	f.prompt = prompt
	return f.data, f.err
}

func smallRequest() Request {
	return Request{
		City:    "Kyoto",
		Memory:  "rain on the temple roof",
		Seed:    42,
		Options: mp.OptionsFromSize(64),
	}
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestCreateLocalOnly(t *testing.T) {
	res, err := New(Options{}).Create(context.Background(), smallRequest())
	require.NoError(t, err)

	assert.Equal(t, SourceLocal, res.Source)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, mp.MoodNostalgic, res.Mood.Mood)
	assert.Equal(t, image.Rect(0, 0, 64, 64), decode(t, res.PNG).Bounds())
	assert.Equal(t, image.Rect(0, 0, 64, 64), res.Image.Bounds())

	again, err := New(Options{}).Create(context.Background(), smallRequest())
	require.NoError(t, err)
	assert.Equal(t, res.PNG, again.PNG)
}

func TestCreateUsesAnalyzer(t *testing.T) {
	a := &fakeAnalyzer{m: mp.MoodResult{Mood: mp.MoodTense, Intensity: 0.8, Palette: mp.DefaultPalette()}}
	res, err := New(Options{Analyzer: a}).Create(context.Background(), smallRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, mp.MoodTense, res.Mood.Mood)
	assert.Equal(t, "Kyoto", res.Mood.City)
	assert.Empty(t, res.Warnings)
}

func TestCreateAnalyzerFallback(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("quota")}
	res, err := New(Options{Analyzer: a}).Create(context.Background(), smallRequest())
	require.NoError(t, err)

	local, _ := analysis.Local{}.Analyze(context.Background(), analysis.Input{
		City: "Kyoto", Memory: "rain on the temple roof", Seed: 42,
	})
	assert.Equal(t, local, res.Mood)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "quota")
	assert.Equal(t, SourceLocal, res.Source)
}

func TestCreateMoodOverride(t *testing.T) {
	a := &fakeAnalyzer{}
	req := smallRequest()
	req.Mood = &mp.MoodResult{Mood: mp.MoodCalm, Intensity: 0.4, Palette: mp.ParsePalette([]string{"#A9C8D8", "#E4EEF5", "#6FA3C8"})}
	res, err := New(Options{Analyzer: a}).Create(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, a.calls)
	assert.Equal(t, "Kyoto", res.Mood.City)
	assert.NotEmpty(t, res.Mood.Summary)

	direct, err := mp.Render(*req.Mood, req.Options, req.Seed)
	require.NoError(t, err)
	assert.Equal(t, direct, res.PNG)
}

func TestCreateKeepStages(t *testing.T) {
	plain, err := New(Options{}).Create(context.Background(), smallRequest())
	require.NoError(t, err)
	assert.Empty(t, plain.Stages)

	req := smallRequest()
	req.KeepStages = true
	res, err := New(Options{}).Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Stages, 4)
	assert.Equal(t, "pastel", res.Stages[3].Name)
	assert.Same(t, res.Image, res.Stages[3].Image)
	assert.Equal(t, plain.PNG, res.PNG)
}

func TestCreateRemoteImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(40, 20, color.NRGBA{R: 200, A: 255}), imaging.JPEG))
	images := &fakeImages{data: buf.Bytes()}

	req := smallRequest()
	req.RemoteImage = true
	res, err := New(Options{Images: images}).Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, SourceRemote, res.Source)
	assert.Empty(t, res.Stages)
	assert.Contains(t, images.prompt, "Kyoto")
	img := decode(t, res.PNG)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	r, _, _, a := img.At(32, 32).RGBA()
	assert.InDelta(t, 200, r>>8, 6)
	assert.Equal(t, uint32(0xffff), a)
}

func TestCreateRemoteImageFallback(t *testing.T) {
	tests := []struct {
		name   string
		images ImageGenerator
	}{
		{name: "not configured", images: nil},
		{name: "error", images: &fakeImages{err: errors.New("blocked")}},
		{name: "garbage bytes", images: &fakeImages{data: []byte("not an image")}},
	}
	local, err := New(Options{}).Create(context.Background(), smallRequest())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := smallRequest()
			req.RemoteImage = true
			res, err := New(Options{Images: tt.images}).Create(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, SourceLocal, res.Source)
			require.Len(t, res.Warnings, 1)
			assert.Equal(t, local.PNG, res.PNG)
		})
	}
}
