// Package api exposes the HTTP surface of the campaign generator demo:
// connecting data sources to a session, the streamed generate endpoint, the
// static catalog enumerations and a liveness probe.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/campaignstream/backend/internal/campaign"
	"github.com/campaignstream/backend/internal/middleware"
	"github.com/campaignstream/backend/internal/stream"
)

// SessionDirectory is the slice of the session store the handlers need.
type SessionDirectory interface {
	Connect(sessionID, sourceID string) ([]string, error)
	ConnectedSources(sessionID string) ([]string, error)
	Len() int
}

type Server struct {
	store     SessionDirectory
	generator campaign.Generator
	emitter   *stream.Emitter
	staticDir string
	startedAt time.Time
	log       *logrus.Logger
}

func NewServer(store SessionDirectory, generator campaign.Generator, emitter *stream.Emitter, staticDir string, log *logrus.Logger) *Server {
	return &Server{
		store:     store,
		generator: generator,
		emitter:   emitter,
		staticDir: staticDir,
		startedAt: time.Now(),
		log:       log,
	}
}

// Router assembles the full route tree including middleware.
func (s *Server) Router(allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	s.Register(r)

	if s.staticDir != "" {
		s.log.WithField("dir", s.staticDir).Info("Serving static frontend")
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	return r
}

// Register mounts the API handlers on an existing router.
func (s *Server) Register(r chi.Router) {
	r.Post("/connect", s.handleConnect)
	r.Get("/generate-campaign", s.handleGenerateCampaign)
	r.Get("/data-sources", s.handleDataSources)
	r.Get("/channels", s.handleChannels)
	r.Get("/health", s.handleHealth)
}
