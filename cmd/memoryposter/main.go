package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/analysis"
	"github.com/setanarut/memoryposter/internal/app"
	"github.com/setanarut/memoryposter/internal/config"
	"github.com/setanarut/memoryposter/studio"
	"github.com/setanarut/memoryposter/utils"
	"golang.org/x/sync/errgroup"
)

type flags struct {
	city, memory, seed string
	out, swatch        string
	stages             string
	ref, refMethod     string
	mood, palette      string
	paletteSet         bool
	intensity          float64
	remote             bool
	opt                mp.Options
}

func parseFlags(args []string, size int) (flags, error) {
	var f flags
	def := mp.OptionsFromSize(size)
	fs := flag.NewFlagSet("memoryposter", flag.ContinueOnError)

	fs.StringVar(&f.city, "city", "", "city the memory belongs to")
	fs.StringVar(&f.memory, "memory", "", "the memory, in a sentence or a paragraph")
	fs.StringVar(&f.seed, "seed", "42", "random seed; the same inputs and seed give the same poster")
	fs.StringVar(&f.out, "out", "poster.png", "output PNG path")
	fs.StringVar(&f.swatch, "swatch", "", "also write a swatch of the poster's dominant colors to this path")
	fs.StringVar(&f.stages, "stages", "", "also write every layer snapshot into this directory")
	fs.StringVar(&f.ref, "ref", "", "take the palette from this reference image")
	fs.StringVar(&f.refMethod, "ref-method", "dominantcolor", "palette extraction for -ref: dominantcolor or kmeans")
	fs.StringVar(&f.mood, "mood", "", "skip analysis and use this mood")
	fs.StringVar(&f.palette, "palette", "", "comma separated hex colors used with -mood or -ref")
	fs.Float64Var(&f.intensity, "intensity", 0.5, "intensity used with -mood")
	fs.BoolVar(&f.remote, "remote", false, "ask the remote image model for the poster")

	fs.IntVar(&f.opt.Size, "size", def.Size, "poster side length in pixels")
	fs.Float64Var(&f.opt.MistStrength, "mist", def.MistStrength, "mist strength [0,1.2]")
	fs.Float64Var(&f.opt.MistSmoothness, "smooth", def.MistSmoothness, "mist smoothness [0,1]")
	fs.Float64Var(&f.opt.MistGlow, "glow", def.MistGlow, "mist glow [0,1]")
	fs.Float64Var(&f.opt.WatercolorSpread, "spread", def.WatercolorSpread, "watercolor spread [0,1]")
	fs.IntVar(&f.opt.WatercolorLayers, "layers", def.WatercolorLayers, "watercolor layers [0,8]")
	fs.Float64Var(&f.opt.WatercolorSaturation, "saturation", def.WatercolorSaturation, "watercolor saturation [0,1]")
	fs.Float64Var(&f.opt.PastelSoftness, "softness", def.PastelSoftness, "pastel softness [0,1]")
	fs.Float64Var(&f.opt.PastelGrain, "grain", def.PastelGrain, "pastel grain [0,1]")
	fs.Float64Var(&f.opt.PastelBlend, "blend", def.PastelBlend, "pastel blend [0,1]")
	fs.BoolVar(&f.opt.CitySignature, "signature", def.CitySignature, "draw the city signature strokes on top")
	fs.Float64Var(&f.opt.EmotionLink, "link", def.EmotionLink, "city signature emotion link [0,1]")

	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "palette" {
			f.paletteSet = true
		}
	})
	f.opt = f.opt.Clamped()
	return f, nil
}

// request turns the flags into a studio request. A reference image or an
// explicit mood replaces analysis; the mood then comes from -mood or the
// local keyword classifier.
func (f flags) request() (studio.Request, error) {
	req := studio.Request{
		City:        f.city,
		Memory:      f.memory,
		Seed:        mp.ParseSeed(f.seed),
		Options:     f.opt,
		RemoteImage: f.remote,
		KeepStages:  f.stages != "",
	}
	if f.mood == "" && f.ref == "" {
		return req, nil
	}

	m := mp.MoodResult{City: f.city, Mood: mp.ParseMood(f.mood), Intensity: f.intensity}
	if f.mood == "" {
		m.Mood, m.Intensity = analysis.Classify(f.city, f.memory)
	}
	if f.paletteSet {
		m.Palette = mp.ParsePalette(strings.Split(f.palette, ","))
	}
	if f.ref != "" {
		img, err := utils.ReadImage(f.ref)
		if err != nil {
			return studio.Request{}, err
		}
		m.Palette = utils.ExtractPalette(img, 5, utils.ParsePaletteMethod(f.refMethod))
		utils.SortByBrightness(m.Palette)
	}
	// an unusable -palette stays empty and renders with the default palette
	if !f.paletteSet && f.ref == "" {
		m.Palette = mp.MoodPalette(m.Mood, m.Intensity, mp.NewStream(req.Seed))
	}
	req.Mood = &m
	return req, nil
}

func run(ctx context.Context, args []string, log zerolog.Logger, cfg config.Config) error {
	f, err := parseFlags(args, cfg.PosterSize)
	if err != nil {
		return err
	}
	req, err := f.request()
	if err != nil {
		return err
	}

	res, err := app.NewStudio(ctx, cfg, log).Create(ctx, req)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return os.WriteFile(f.out, res.PNG, 0o644)
	})
	if f.swatch != "" {
		g.Go(func() error {
			swatch := utils.ExtractPalette(res.Image, 5, utils.PaletteMethodDominantColor)
			utils.SortByBrightness(swatch)
			return utils.SavePalette(swatch, 64, f.swatch)
		})
	}
	if f.stages != "" && len(res.Stages) > 0 {
		g.Go(func() error {
			return utils.SaveStages(res.Stages, f.stages)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("mood:      %s (%.2f)\n", res.Mood.Mood, res.Mood.Intensity)
	fmt.Printf("palette:   %s\n", strings.Join(utils.HexPalette(res.Mood.Palette), " "))
	fmt.Printf("summary:   %s\n", res.Mood.Summary)
	fmt.Printf("source:    %s\n", res.Source)
	fmt.Printf("poster:    %s\n", f.out)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.LogFormat = "console"
	}
	log := config.NewLogger(os.Stderr, cfg)

	if err := run(context.Background(), os.Args[1:], log, cfg); err != nil {
		log.Error().Err(err).Msg("memoryposter")
		os.Exit(1)
	}
}
