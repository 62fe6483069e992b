package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/campaignstream/backend/internal/catalog"
	"github.com/campaignstream/backend/internal/session"
	"github.com/campaignstream/backend/internal/sse"
	"github.com/campaignstream/backend/internal/stream"
)

type connectRequest struct {
	SessionID string `json:"sessionId"`
	Source    string `json:"source"`
}

type connectResponse struct {
	Success                     bool           `json:"success"`
	SessionID                   string         `json:"sessionId"`
	SourceDisplayName           string         `json:"sourceDisplayName"`
	MockPayload                 map[string]any `json:"mockPayload"`
	ConnectedSourceDisplayNames []string       `json:"connectedSourceDisplayNames"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// A fresh client may not have a session id yet; mint one for it.
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	names, err := s.store.Connect(req.SessionID, req.Source)
	if err != nil {
		if errors.Is(err, session.ErrInvalidSource) {
			Error(w, http.StatusBadRequest, "Invalid data source")
			return
		}
		Error(w, http.StatusInternalServerError, "Failed to connect data source")
		return
	}

	src, _ := catalog.SourceByID(req.Source)
	s.log.WithFields(logrus.Fields{
		"session": req.SessionID,
		"source":  req.Source,
	}).Info("Data source connected")

	JSON(w, http.StatusOK, connectResponse{
		Success:                     true,
		SessionID:                   req.SessionID,
		SourceDisplayName:           src.Name,
		MockPayload:                 src.MockPayload,
		ConnectedSourceDisplayNames: names,
	})
}

// handleGenerateCampaign validates the session, generates and serializes the
// campaign document, and only then switches the response into streaming mode.
// Once the stream is open the connection ends in exactly one of two ways:
// the terminal frame is delivered, or the client disconnects.
func (s *Server) handleGenerateCampaign(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	campaignType := r.URL.Query().Get("type")
	if campaignType == "" {
		campaignType = "general"
	}
	channels := SplitCSV(r.URL.Query().Get("channels"))

	sourceIDs, err := s.store.ConnectedSources(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			Error(w, http.StatusBadRequest, "No session found. Please connect a data source first.")
			return
		}
		Error(w, http.StatusInternalServerError, "Session lookup failed")
		return
	}
	if len(sourceIDs) == 0 {
		Error(w, http.StatusBadRequest, "No data sources connected")
		return
	}

	doc, err := s.generator.Generate(sourceIDs, campaignType, channels)
	if err != nil {
		s.log.WithError(err).Error("Campaign generation failed")
		Error(w, http.StatusInternalServerError, "Campaign generation failed")
		return
	}
	serialized, err := stream.Serialize(doc)
	if err != nil {
		s.log.WithError(err).Error("Campaign document not serializable")
		Error(w, http.StatusInternalServerError, "Campaign generation failed")
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		Error(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	log := s.log.WithFields(logrus.Fields{
		"session": sessionID,
		"type":    campaignType,
		"bytes":   len(serialized),
	})
	log.Info("Campaign stream opened")

	// EventSource clients ignore comment lines, so this opens the stream
	// without disturbing the frame sequence.
	if err := writer.WriteComment("campaign stream open"); err != nil {
		log.WithError(err).Warn("Campaign stream aborted")
		return
	}

	err = s.emitter.Stream(r.Context(), sseFrameWriter{writer}, doc, serialized)
	switch {
	case err == nil:
		log.Info("Campaign stream completed")
	case errors.Is(err, context.Canceled):
		log.Info("Client disconnected mid-stream")
	default:
		log.WithError(err).Warn("Campaign stream aborted")
	}
}

func (s *Server) handleDataSources(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"dataSources": catalog.Sources()})
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"channels": catalog.Channels()})
}

// sseFrameWriter adapts the SSE writer to the emitter's transport interface.
type sseFrameWriter struct {
	w *sse.Writer
}

func (s sseFrameWriter) WriteFrame(f stream.Frame) error {
	return s.w.WriteEvent(f)
}

// SplitCSV splits a comma-separated query parameter into its non-empty,
// whitespace-trimmed values. An empty input yields nil.
func SplitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
