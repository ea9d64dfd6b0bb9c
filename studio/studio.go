// Package studio turns one poster request into PNG bytes: it reads the mood
// (remote analyzer first, local keywords as fallback), optionally asks a remote
// image model for the picture and otherwise paints it with the local pipeline.
package studio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/analysis"
	"github.com/setanarut/memoryposter/remote"
)

// ErrUnavailable wraps failures of optional collaborators. Create records them
// as warnings and falls back; it never returns them.
var ErrUnavailable = errors.New("collaborator unavailable")

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, seed int64) ([]byte, error)
}

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

type Options struct {
	// Analyzer is tried first; nil means local analysis only.
	Analyzer analysis.Analyzer
	// Images paints remote posters; nil disables remote images.
	Images ImageGenerator
	Logger *zerolog.Logger
}

type Studio struct {
	analyzer analysis.Analyzer
	images   ImageGenerator
	log      zerolog.Logger
}

func New(opts Options) *Studio {
	s := &Studio{
		analyzer: opts.Analyzer,
		images:   opts.Images,
		log:      zerolog.Nop(),
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	}
	return s
}

type Request struct {
	City   string
	Memory string
	Seed   int64
	// Mood skips analysis when set.
	Mood        *mp.MoodResult
	Options     mp.Options
	RemoteImage bool
	// KeepStages fills Result.Stages when the poster is painted locally.
	KeepStages bool
}

type Result struct {
	PNG []byte
	// Image is the decoded poster, S x S and opaque.
	Image    *image.NRGBA
	Mood     mp.MoodResult
	Source   Source
	Warnings []string
	Stages   []mp.Stage
}

// Create produces one poster. Only a failure to encode the final PNG is
// returned as an error; collaborator failures end up in Result.Warnings.
func (s *Studio) Create(ctx context.Context, req Request) (Result, error) {
	log := s.logger(ctx)
	opt := req.Options.Clamped()
	res := Result{Source: SourceLocal}

	res.Mood = s.mood(ctx, req, &res)

	if req.RemoteImage {
		data, img, err := s.remotePoster(ctx, res.Mood, opt, req.Seed)
		if err == nil {
			res.PNG, res.Image, res.Source = data, img, SourceRemote
			return res, nil
		}
		log.Warn().Err(err).Msg("remote image failed, painting locally")
		res.Warnings = append(res.Warnings, err.Error())
	}

	pb := mp.NewPosterBuilder(res.Mood, opt)
	pb.KeepStages = req.KeepStages
	pb.Build(req.Seed)
	var buf bytes.Buffer
	if err := pb.Encode(&buf); err != nil {
		return Result{}, err
	}
	res.PNG, res.Image, res.Stages = buf.Bytes(), pb.Canvas, pb.Stages
	return res, nil
}

func (s *Studio) mood(ctx context.Context, req Request, res *Result) mp.MoodResult {
	if req.Mood != nil {
		m := req.Mood.Normalized()
		if m.City == "" {
			m.City = req.City
		}
		if m.Summary == "" {
			m.Summary = analysis.Summary(m.City, m.Mood, m.Intensity)
		}
		return m
	}

	in := analysis.Input{City: req.City, Memory: req.Memory, Seed: req.Seed}
	if s.analyzer != nil {
		m, err := s.analyzer.Analyze(ctx, in)
		if err == nil {
			return m.Normalized()
		}
		err = fmt.Errorf("%w: analysis: %w", ErrUnavailable, err)
		s.logger(ctx).Warn().Err(err).Msg("falling back to local analysis")
		res.Warnings = append(res.Warnings, err.Error())
	}
	m, _ := analysis.Local{}.Analyze(ctx, in)
	return m
}

// remotePoster asks the image model for the poster and normalizes the reply
// to an opaque S x S PNG.
func (s *Studio) remotePoster(ctx context.Context, m mp.MoodResult, opt mp.Options, seed int64) ([]byte, *image.NRGBA, error) {
	if s.images == nil {
		return nil, nil, fmt.Errorf("%w: no image generator configured", ErrUnavailable)
	}
	data, err := s.images.GenerateImage(ctx, remote.StylePrompt(m, opt, seed), seed)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: image: %w", ErrUnavailable, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decode image: %w", ErrUnavailable, err)
	}
	canvas := imaging.New(opt.Size, opt.Size, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	canvas = imaging.Overlay(canvas, imaging.Fill(img, opt.Size, opt.Size, imaging.Center, imaging.Lanczos), image.Point{}, 1)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", mp.ErrEncode, err)
	}
	return buf.Bytes(), canvas, nil
}

// logger prefers the request-scoped logger put in ctx by the HTTP middleware.
func (s *Studio) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}
