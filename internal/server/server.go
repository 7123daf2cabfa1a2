// Package server exposes the bot over HTTP for slash-command integrations.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"nextbus/internal/bot"
	"nextbus/internal/config"
	"nextbus/internal/metrics"
	"nextbus/internal/render"
)

// Server is the HTTP server for the nextbus slash-command endpoint.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	bot    *bot.Bot
	logger *slog.Logger
}

// New creates a new Server with all routes registered.
func New(cfg *config.Config, b *bot.Bot, m *metrics.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{mux: mux, cfg: cfg, bot: b, logger: logger}

	mux.HandleFunc("POST /slack/command", s.slashCommand)
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /metrics", m.Handler())

	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("server starting", "addr", addr)
	return http.ListenAndServe(addr, withMiddleware(s.mux, s.logger, s.cfg.RatePerMin))
}

// Handler returns the server's handler wrapped in its middleware stack.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger, s.cfg.RatePerMin)
}

// slashResponse is the message format Slack-compatible chat services expect
// back from a slash-command webhook.
type slashResponse struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

func (s *Server) slashCommand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if s.cfg.SlashToken != "" && r.PostFormValue("token") != s.cfg.SlashToken {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	text := r.PostFormValue("text")
	cmd := bot.ParseCommand(text)

	var (
		msgs []string
		err  error
	)
	switch cmd.Kind {
	case bot.CommandNextBus:
		msgs, err = s.bot.NextBus(r.Context(), render.ChannelMonospace)
	case bot.CommandNearbyStops:
		msgs, err = s.bot.NearbyStops(r.Context())
	case bot.CommandStop:
		msgs, err = s.bot.NextBusAtStop(r.Context(), cmd.StopID, render.ChannelMonospace)
	default:
		s.reply(w, slashResponse{
			ResponseType: "ephemeral",
			Text:         "Try `bus`, `bus stops`, or `bus stop <id>`.",
		})
		return
	}

	if err != nil {
		s.logger.Error("command failed", "text", text, "error", err)
		s.reply(w, slashResponse{ResponseType: "ephemeral", Text: bot.UserMessage(err)})
		return
	}
	s.reply(w, slashResponse{ResponseType: "in_channel", Text: joinMessages(msgs)})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) reply(w http.ResponseWriter, resp slashResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func joinMessages(msgs []string) string {
	out := ""
	for i, m := range msgs {
		if i > 0 {
			out += "\n\n"
		}
		out += m
	}
	return out
}
