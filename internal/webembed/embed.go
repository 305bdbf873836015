// ABOUTME: Embeds HTML templates and the loader script into the binary
// ABOUTME: Provides templateFS for loading templates at runtime

package webembed

import "embed"

//go:embed templates/*.html templates/partials/*.html templates/widget.js.tmpl
var templateFS embed.FS
