// Package ws carries the campaign stream over a websocket for clients that
// prefer it to server-sent events. Frames are identical to the SSE payloads,
// sent as JSON text messages.
package ws

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/campaignstream/backend/internal/api"
	"github.com/campaignstream/backend/internal/campaign"
	"github.com/campaignstream/backend/internal/session"
	"github.com/campaignstream/backend/internal/stream"
)

// SessionReader is the read-only slice of the session store the websocket
// endpoint needs for generate validation.
type SessionReader interface {
	ConnectedSources(sessionID string) ([]string, error)
}

type Server struct {
	store     SessionReader
	generator campaign.Generator
	emitter   *stream.Emitter
	upgrader  websocket.Upgrader
	log       *logrus.Logger
}

func NewServer(store SessionReader, generator campaign.Generator, emitter *stream.Emitter, allowedOrigins []string, log *logrus.Logger) *Server {
	s := &Server{
		store:     store,
		generator: generator,
		emitter:   emitter,
		log:       log,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: originChecker(allowedOrigins),
	}
	return s
}

// Register mounts the websocket stream endpoint on an existing router.
func (s *Server) Register(r chi.Router) {
	r.Get("/ws/generate-campaign", s.handleGenerateCampaign)
}

// handleGenerateCampaign mirrors the SSE endpoint's contract: validation
// failures are plain HTTP errors before the upgrade, and an upgraded
// connection ends either with the terminal frame or on client disconnect.
func (s *Server) handleGenerateCampaign(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	campaignType := r.URL.Query().Get("type")
	if campaignType == "" {
		campaignType = "general"
	}
	channels := api.SplitCSV(r.URL.Query().Get("channels"))

	sourceIDs, err := s.store.ConnectedSources(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			api.Error(w, http.StatusBadRequest, "No session found. Please connect a data source first.")
			return
		}
		api.Error(w, http.StatusInternalServerError, "Session lookup failed")
		return
	}
	if len(sourceIDs) == 0 {
		api.Error(w, http.StatusBadRequest, "No data sources connected")
		return
	}

	doc, err := s.generator.Generate(sourceIDs, campaignType, channels)
	if err != nil {
		s.log.WithError(err).Error("Campaign generation failed")
		api.Error(w, http.StatusInternalServerError, "Campaign generation failed")
		return
	}
	serialized, err := stream.Serialize(doc)
	if err != nil {
		s.log.WithError(err).Error("Campaign document not serializable")
		api.Error(w, http.StatusInternalServerError, "Campaign generation failed")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read side exists only to notice the client going away; the write
	// side is owned by the emitter goroutine below.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log := s.log.WithFields(logrus.Fields{
		"session":   sessionID,
		"type":      campaignType,
		"transport": "websocket",
	})
	log.Info("Campaign stream opened")

	err = s.emitter.Stream(ctx, wsFrameWriter{conn}, doc, serialized)
	switch {
	case err == nil:
		log.Info("Campaign stream completed")
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	case errors.Is(err, context.Canceled):
		log.Info("Client disconnected mid-stream")
	default:
		log.WithError(err).Warn("Campaign stream aborted")
	}
}

type wsFrameWriter struct {
	conn *websocket.Conn
}

func (w wsFrameWriter) WriteFrame(f stream.Frame) error {
	return w.conn.WriteJSON(f)
}

// originChecker allows configured origins, same-host requests, and local
// development hosts.
func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) > 0 {
			return allowed[origin] || allowed["*"]
		}

		parsed, err := url.Parse(origin)
		if err != nil || parsed.Host == "" {
			return false
		}
		host := parsed.Host
		if host == r.Host {
			return true
		}
		if host == "localhost" || strings.HasPrefix(host, "localhost:") {
			return true
		}
		if host == "127.0.0.1" || strings.HasPrefix(host, "127.0.0.1:") {
			return true
		}
		return false
	}
}
