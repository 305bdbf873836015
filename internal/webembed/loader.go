// ABOUTME: Serves the widget loader script host pages include
// ABOUTME: The script is rendered once at startup with the server base URL

package webembed

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"text/template"
)

// buildLoaderScript renders the loader with the configured base URL so a
// host page only needs the agent id.
func buildLoaderScript(baseURL string) ([]byte, error) {
	raw, err := templateFS.ReadFile("templates/widget.js.tmpl")
	if err != nil {
		return nil, fmt.Errorf("reading loader template: %w", err)
	}

	tmpl, err := template.New("widget.js").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing loader template: %w", err)
	}

	var buf bytes.Buffer
	// strconv.Quote keeps the URL a valid JS string literal
	if err := tmpl.Execute(&buf, map[string]string{"BaseURL": strconv.Quote(baseURL)}); err != nil {
		return nil, fmt.Errorf("rendering loader script: %w", err)
	}
	return buf.Bytes(), nil
}

// handleLoaderScript serves widget.js
func (s *Server) handleLoaderScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if _, err := w.Write(s.loader); err != nil {
		s.logger.Error("failed to write loader script", "error", err)
	}
}
