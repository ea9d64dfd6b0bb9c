// Package remote talks to Gemini: a text model that reads a memory into a
// MoodResult and an image model that paints a poster from a style prompt.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

var (
	ErrNoAPIKey      = errors.New("remote: api key is not set")
	ErrEmptyResponse = errors.New("remote: empty response")
)

type Options struct {
	APIKey     string
	TextModel  string
	ImageModel string
	// BaseURL overrides the Gemini endpoint, mostly for tests and proxies.
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
)

// Client implements both the mood analyzer and the image generator.
type Client struct {
	models     *genai.Models
	textModel  string
	imageModel string
	log        zerolog.Logger
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions.BaseURL = opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("remote: create gemini client: %w", err)
	}

	c := &Client{
		models:     client.Models,
		textModel:  opts.TextModel,
		imageModel: opts.ImageModel,
		log:        zerolog.Nop(),
	}
	if c.textModel == "" {
		c.textModel = DefaultTextModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "gemini").Logger()
	}
	return c, nil
}
