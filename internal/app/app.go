// Package app wires configuration into a ready Studio for the binaries.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/setanarut/memoryposter/internal/config"
	"github.com/setanarut/memoryposter/internal/httpclient"
	"github.com/setanarut/memoryposter/remote"
	"github.com/setanarut/memoryposter/studio"
)

// NewStudio returns a Studio backed by Gemini when an API key is configured,
// and by the local analyzer and painter otherwise.
func NewStudio(ctx context.Context, cfg config.Config, log zerolog.Logger) *studio.Studio {
	opts := studio.Options{Logger: &log}
	if !cfg.RemoteEnabled() {
		log.Info().Msg("GEMINI_API_KEY not set, using local analysis only")
		return studio.New(opts)
	}

	client, err := remote.New(ctx, remote.Options{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,
		HTTPClient: httpclient.New(httpclient.Options{
			PreferIPv4: cfg.PreferIPv4,
			Timeout:    cfg.HTTPTimeout,
		}),
		Logger: &log,
	})
	if err != nil {
		log.Warn().Err(err).Msg("gemini unavailable, using local analysis only")
		return studio.New(opts)
	}
	opts.Analyzer = client
	opts.Images = client
	log.Info().Str("text_model", cfg.TextModel).Str("image_model", cfg.ImageModel).Msg("gemini enabled")
	return studio.New(opts)
}
