package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/maniplus/podfeed/pkg/config"
	"github.com/maniplus/podfeed/pkg/data"
	"github.com/maniplus/podfeed/pkg/feed"
	"github.com/maniplus/podfeed/pkg/model"
)

type Server struct {
	http.Server
}

// episodeSource is the ingestion side consumed by the endpoints.
type episodeSource interface {
	Fetch(ctx context.Context) (*model.Feed, error)
	Invalidate()
}

type handlers struct {
	cfg       *config.Config
	upstream  episodeSource
	generator *feed.Generator
}

func NewServer(cfg *config.Config, upstream episodeSource, generator *feed.Generator) *Server {
	bindAddress := cfg.Server.BindAddress
	if bindAddress == "*" {
		bindAddress = ""
	}

	srv := Server{}
	srv.Addr = fmt.Sprintf("%s:%d", bindAddress, cfg.Server.Port)
	srv.Handler = newRouter(&handlers{
		cfg:       cfg,
		upstream:  upstream,
		generator: generator,
	})

	return &srv
}

func newRouter(h *handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/feed.xml", h.rssFeed)
	r.Get("/atom.xml", h.atomFeed)
	r.Get("/feed.json", h.jsonFeed)
	r.Get("/episodes", h.episodes)
	r.Post("/webhook", h.webhook)
	r.Get("/healthz", h.health)

	return r
}

// syndicationHeaders are shared by all feed endpoints: an hour of
// shared-cache freshness with a day of stale-while-revalidate, and no
// indexing of the raw feed documents.
func syndicationHeaders(w http.ResponseWriter, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	w.Header().Set("X-Robots-Tag", "noindex, follow")
}

// episodeList resolves the episodes to syndicate: the upstream feed
// when it is reachable, the compiled-in fallback table otherwise.
// Syndication consumers get stale fallback data over a hard failure.
func (h *handlers) episodeList(ctx context.Context) []*model.Episode {
	upstream, err := h.upstream.Fetch(ctx)
	if err != nil || len(upstream.Episodes) == 0 {
		if err != nil {
			log.WithError(err).Warn("upstream fetch failed, serving fallback episodes")
		}
		return data.Episodes()
	}
	return upstream.Episodes
}

func (h *handlers) rssFeed(w http.ResponseWriter, r *http.Request) {
	out, err := h.generator.RSS(h.episodeList(r.Context()))
	if err != nil {
		h.serverError(w, err, "failed to generate RSS feed")
		return
	}

	syndicationHeaders(w, "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (h *handlers) atomFeed(w http.ResponseWriter, r *http.Request) {
	out, err := h.generator.Atom(h.episodeList(r.Context()))
	if err != nil {
		h.serverError(w, err, "failed to generate Atom feed")
		return
	}

	syndicationHeaders(w, "application/atom+xml; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (h *handlers) jsonFeed(w http.ResponseWriter, r *http.Request) {
	syndicationHeaders(w, "application/feed+json; charset=utf-8")
	writeJSON(w, http.StatusOK, h.generator.JSONFeed(h.episodeList(r.Context())))
}

type episodesResponse struct {
	Episodes        []*model.Episode `json:"episodes"`
	FeedTitle       string           `json:"feedTitle"`
	FeedDescription string           `json:"feedDescription"`
	LastUpdated     string           `json:"lastUpdated"`
	Error           string           `json:"error,omitempty"`
}

func (h *handlers) episodes(w http.ResponseWriter, r *http.Request) {
	upstream, err := h.upstream.Fetch(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to fetch upstream feed")

		// Degraded response: fallback table plus an error marker
		writeJSON(w, http.StatusInternalServerError, episodesResponse{
			Episodes:        data.Episodes(),
			FeedTitle:       h.cfg.Site.Name,
			FeedDescription: h.cfg.Site.Description,
			LastUpdated:     time.Now().UTC().Format(time.RFC3339),
			Error:           "failed to fetch episodes from upstream feed",
		})
		return
	}

	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=7200")
	writeJSON(w, http.StatusOK, episodesResponse{
		Episodes:        model.SortEpisodesByDate(upstream.Episodes),
		FeedTitle:       upstream.Title,
		FeedDescription: upstream.Description,
		LastUpdated:     upstream.LastBuildDate,
	})
}

type webhookRequest struct {
	Action  string        `json:"action"`
	Episode model.Episode `json:"episode"`
}

type webhookResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// webhook is triggered by the publishing workflow when episodes
// change. It drops the ingest cache so the next feed request picks up
// the new catalog.
func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	secret := h.cfg.Server.WebhookSecret
	if secret == "" || r.Header.Get("Authorization") != "Bearer "+secret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	switch req.Action {
	case "episode_published", "episode_updated", "episode_deleted":
		log.WithFields(log.Fields{
			"action":  req.Action,
			"episode": req.Episode.Title,
		}).Info("episode change notification")
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid action"})
		return
	}

	h.upstream.Invalidate()

	writeJSON(w, http.StatusOK, webhookResponse{
		Success:   true,
		Message:   "feeds scheduled for regeneration",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handlers) serverError(w http.ResponseWriter, err error, message string) {
	log.WithError(err).Error(message)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}
