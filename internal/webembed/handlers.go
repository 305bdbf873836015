// ABOUTME: Route handlers for the embed page, message sends, and refresh
// ABOUTME: Maps settings load failures to the static widget error page

package webembed

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/emberhq/ember-widget/internal/widget"
)

// loadError maps a settings load failure to a status and the message the
// widget shows instead of the chat UI.
func loadError(err error) (int, string) {
	switch {
	case errors.Is(err, widget.ErrAgentRequired):
		return http.StatusBadRequest, "Agent ID is required"
	case errors.Is(err, widget.ErrNotPublic):
		return http.StatusNotFound, "Configuration not found"
	default:
		return http.StatusBadGateway, "Failed to load chat settings"
	}
}

// conversationFor resolves the visitor's conversation with an agent.
// Settings are fetched once per conversation: a live conversation keeps
// the settings it resolved with, so sends never refetch; only a fresh
// mount (or one evicted from the registry) hits the backend.
func (s *Server) conversationFor(ctx context.Context, visitorID, agentID string) (*widget.Conversation, *widget.Settings, error) {
	if strings.TrimSpace(agentID) == "" {
		return nil, nil, widget.ErrAgentRequired
	}

	userID, err := widget.EnsureUserID(ctx, s.store, visitorID)
	if err != nil {
		return nil, nil, err
	}

	conv := s.registry.GetOrCreate(visitorID, agentID, userID)
	if settings := conv.Settings(); settings != nil {
		return conv, settings, nil
	}

	settings, err := widget.LoadSettings(ctx, s.backend, agentID)
	if err != nil {
		return nil, nil, err
	}
	conv.Resolve(ctx, settings)
	return conv, settings, nil
}

// handleEmbed serves the widget page for one agent
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := r.URL.Query().Get("agent_id")
	urlTheme := r.URL.Query().Get("theme")
	visitorID := VisitorIDFromContext(ctx)

	conv, settings, err := s.conversationFor(ctx, visitorID, agentID)
	if err != nil {
		status, message := loadError(err)
		s.logger.Warn("widget mount rejected", "agent_id", agentID, "error", err)
		s.renderErrorPage(w, status, message)
		return
	}

	s.metrics.mounts.Inc()
	s.renderEmbedPage(w, embedPageData(settings, conv, urlTheme))
}

// handleSend relays one message and returns the refreshed message list
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := r.FormValue("agent_id")
	text := r.FormValue("message")
	visitorID := VisitorIDFromContext(ctx)

	conv, _, err := s.conversationFor(ctx, visitorID, agentID)
	if err != nil {
		status, message := loadError(err)
		http.Error(w, message, status)
		return
	}

	s.metrics.messages.Inc()
	if err := conv.Send(ctx, text); err != nil {
		// The conversation already shows the apology turn; the partial
		// below carries it to the browser.
		s.metrics.messageFailures.Inc()
	}

	s.renderMessagesPartial(w, messagesData{
		AgentID:  agentID,
		Messages: messageViews(conv.Messages()),
		Loading:  conv.Loading(),
	})
}

// handleRefresh clears the session and redirects to a clean mount
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := r.FormValue("agent_id")
	visitorID := VisitorIDFromContext(ctx)

	userID, err := widget.EnsureUserID(ctx, s.store, visitorID)
	if err != nil {
		http.Error(w, "failed to resolve visitor", http.StatusInternalServerError)
		return
	}

	conv := s.registry.GetOrCreate(visitorID, agentID, userID)
	if err := conv.Reset(ctx); err != nil {
		s.logger.Error("failed to reset conversation", "agent_id", agentID, "error", err)
	}
	s.registry.Remove(visitorID, agentID)

	query := url.Values{"agent_id": {agentID}}
	if th := r.FormValue("theme"); th != "" {
		query.Set("theme", th)
	}

	target := "/embed?" + query.Encode()
	// HTMX needs the redirect as a header to replace the whole page
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleAdminSessions lists a visitor's past sessions with an agent
func (s *Server) handleAdminSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agentID := r.URL.Query().Get("agent_id")
	if agentID == "" {
		s.renderErrorPage(w, http.StatusBadRequest, "Agent ID is required")
		return
	}

	userID := r.URL.Query().Get("user")
	if userID == "" {
		var err error
		userID, err = widget.EnsureUserID(ctx, s.store, VisitorIDFromContext(ctx))
		if err != nil {
			http.Error(w, "failed to resolve visitor", http.StatusInternalServerError)
			return
		}
	}

	sessions, err := s.backend.ListSessions(ctx, agentID, userID)
	if err != nil {
		s.logger.Error("failed to list sessions", "agent_id", agentID, "error", err)
		s.renderErrorPage(w, http.StatusBadGateway, "Failed to load sessions")
		return
	}

	s.renderSessionsPage(w, sessionsData{
		Title:    "Sessions",
		AgentID:  agentID,
		UserID:   userID,
		Sessions: sessions,
	})
}
