// ABOUTME: Template rendering for the widget pages and HTMX partials
// ABOUTME: Markdown-renders assistant turns, escapes user turns

package webembed

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/emberhq/ember-widget/internal/backend"
	"github.com/emberhq/ember-widget/internal/theme"
	"github.com/emberhq/ember-widget/internal/widget"
)

// messageView is one chat turn prepared for rendering
type messageView struct {
	Role     string
	HTML     template.HTML
	DateTime string // machine-readable, for the <time> element
	When     string // short display form
}

type messagesData struct {
	AgentID  string
	Messages []messageView
	Loading  bool
}

type embedData struct {
	Title    string
	Settings *widget.Settings
	Messages messagesData

	ThemeMode  string
	PanelClass string
	StyleAttr  template.CSS

	// ThemeParam carries the URL theme through refresh round trips
	ThemeParam string

	ShowSuggestions bool
}

type errorData struct {
	Title   string
	Message string
}

type sessionsData struct {
	Title    string
	AgentID  string
	UserID   string
	Sessions []backend.SessionSummary
}

// renderMarkdown converts assistant markdown to HTML. Goldmark omits raw
// HTML by default, so backend content cannot inject script into the page.
func renderMarkdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(content) + "</p>")
	}
	return template.HTML(buf.String())
}

// messageViews prepares chat turns for the template. Assistant turns are
// markdown; user turns render as escaped plain text.
func messageViews(msgs []widget.ChatMessage) []messageView {
	views := make([]messageView, 0, len(msgs))
	for _, msg := range msgs {
		var body template.HTML
		if msg.Role == widget.RoleAssistant {
			body = renderMarkdown(msg.Content)
		} else {
			escaped := template.HTMLEscapeString(msg.Content)
			body = template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
		}
		views = append(views, messageView{
			Role:     string(msg.Role),
			HTML:     body,
			DateTime: msg.Timestamp.Format(time.RFC3339),
			When:     msg.Timestamp.Format("15:04"),
		})
	}
	return views
}

// embedPageData assembles the full embed page model for one conversation
func embedPageData(settings *widget.Settings, conv *widget.Conversation, urlTheme string) embedData {
	th := theme.Theme{
		Mode:         theme.Resolve(settings.Theme, urlTheme),
		PrimaryColor: settings.PrimaryColor,
	}
	panel := theme.NewRoot()
	th.Apply(panel)

	title := settings.DisplayName
	if title == "" {
		title = "Chat"
	}

	return embedData{
		Title:    title,
		Settings: settings,
		Messages: messagesData{
			AgentID:  settings.AgentID,
			Messages: messageViews(conv.Messages()),
			Loading:  conv.Loading(),
		},
		ThemeMode:       string(th.Mode),
		PanelClass:      strings.Join(panel.Classes, " "),
		StyleAttr:       template.CSS(th.StyleAttr()),
		ThemeParam:      urlTheme,
		ShowSuggestions: conv.State() == widget.StateFresh && len(settings.SuggestedQuestions) > 0,
	}
}

func (s *Server) renderEmbedPage(w http.ResponseWriter, data embedData) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html", "templates/embed.html", "templates/partials/messages.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render embed page", "error", err)
	}
}

func (s *Server) renderErrorPage(w http.ResponseWriter, status int, message string) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html", "templates/error.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, errorData{Title: "Chat unavailable", Message: message}); err != nil {
		s.logger.Error("failed to render error page", "error", err)
	}
}

func (s *Server) renderMessagesPartial(w http.ResponseWriter, data messagesData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/partials/messages.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "messages", data); err != nil {
		s.logger.Error("failed to render messages partial", "error", err)
	}
}

func (s *Server) renderSessionsPage(w http.ResponseWriter, data sessionsData) {
	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html", "templates/sessions.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render sessions page", "error", err)
	}
}
