package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	mp "github.com/setanarut/memoryposter"
	"github.com/setanarut/memoryposter/internal/middleware"
	"github.com/setanarut/memoryposter/studio"
	"github.com/setanarut/memoryposter/utils"
	"golang.org/x/sync/semaphore"
)

const maxBodyBytes = 64 << 10

type Options struct {
	Studio         *studio.Studio
	PosterSize     int
	MaxConcurrent  int
	RequestTimeout time.Duration
	// RemoteImage is used when a request does not say.
	RemoteImage bool
	Logger      zerolog.Logger
}

type Server struct {
	studio         *studio.Studio
	posterSize     int
	requestTimeout time.Duration
	remoteImage    bool
	sem            *semaphore.Weighted
	log            zerolog.Logger
}

func New(opts Options) *Server {
	s := &Server{
		studio:         opts.Studio,
		posterSize:     opts.PosterSize,
		requestTimeout: opts.RequestTimeout,
		remoteImage:    opts.RemoteImage,
		sem:            semaphore.NewWeighted(int64(max(1, opts.MaxConcurrent))),
		log:            opts.Logger,
	}
	if s.studio == nil {
		s.studio = studio.New(studio.Options{Logger: &opts.Logger})
	}
	if s.posterSize <= 0 {
		s.posterSize = mp.DefaultSize
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = 240 * time.Second
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(s.log),
		chimw.Recoverer,
	)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/moods", s.moods)
		r.Post("/poster", s.poster)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type moodsResponse struct {
	Moods  []string `json:"moods"`
	Cities []string `json:"cities"`
}

func (s *Server) moods(w http.ResponseWriter, r *http.Request) {
	var resp moodsResponse
	for _, m := range mp.Moods() {
		resp.Moods = append(resp.Moods, m.String())
	}
	for _, c := range mp.Cities() {
		resp.Cities = append(resp.Cities, c.Name)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) poster(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var req posterRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	sreq := req.studioRequest(s.posterSize, s.remoteImage)

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "server busy, try again later")
		return
	}
	res, err := s.studio.Create(ctx, sreq)
	s.sem.Release(1)
	if err != nil {
		log.Error().Err(err).Msg("create poster")
		status := http.StatusInternalServerError
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, "could not create poster")
		return
	}

	swatch := utils.ExtractPalette(res.Image, 5, utils.PaletteMethodDominantColor)
	log.Info().
		Str("mood", res.Mood.Mood.String()).
		Float64("intensity", res.Mood.Intensity).
		Str("source", string(res.Source)).
		Int64("seed", sreq.Seed).
		Strs("warnings", res.Warnings).
		Msg("poster created")

	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="memory-poster-%d.png"`, sreq.Seed))
	h.Set("X-Poster-Mood", res.Mood.Mood.String())
	h.Set("X-Poster-Source", string(res.Source))
	h.Set("X-Poster-Palette", strings.Join(utils.HexPalette(swatch), ","))
	if len(res.Warnings) > 0 {
		h.Set("X-Poster-Warnings", strings.Join(res.Warnings, "; "))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
