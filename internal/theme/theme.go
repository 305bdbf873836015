// ABOUTME: Scoped widget theming applied to the panel and bubble roots
// ABOUTME: Idempotent attribute/class application; host page styles never leak

package theme

import (
	"sort"
	"strings"
)

// Mode is the widget color scheme
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// classPrefix namespaces every theme class the widget sets, so Apply can
// strip stale ones without touching host classes.
const classPrefix = "ember-theme-"

// Resolve picks the effective mode: the widget settings' configured theme
// wins over any URL-supplied parameter; anything unrecognized is light.
func Resolve(settingsTheme, urlTheme string) Mode {
	for _, candidate := range []string{settingsTheme, urlTheme} {
		switch strings.ToLower(strings.TrimSpace(candidate)) {
		case "dark":
			return ModeDark
		case "light":
			return ModeLight
		}
	}
	return ModeLight
}

// Theme is the resolved presentation for one widget mount
type Theme struct {
	Mode         Mode
	PrimaryColor string
}

// Root models the attribute and class state of one widget DOM root.
// The embed page has two structurally independent roots (the main panel
// and the floating toggle bubble); both must agree on theme.
type Root struct {
	Attrs   map[string]string
	Classes []string
}

// NewRoot creates an empty root
func NewRoot() *Root {
	return &Root{Attrs: make(map[string]string)}
}

// Apply sets the theme attributes on a root. Prior theme classes and
// attributes are cleared before being reset, so reapplying the same theme
// leaves the root in an identical state instead of accumulating.
func (t Theme) Apply(root *Root) {
	if root.Attrs == nil {
		root.Attrs = make(map[string]string)
	}

	// Strip anything a previous Apply set
	kept := root.Classes[:0]
	for _, class := range root.Classes {
		if !strings.HasPrefix(class, classPrefix) {
			kept = append(kept, class)
		}
	}
	root.Classes = append(kept, t.Class())

	root.Attrs["data-theme"] = string(t.Mode)
	if t.PrimaryColor != "" {
		root.Attrs["style"] = t.StyleAttr()
	} else {
		delete(root.Attrs, "style")
	}
}

// ApplyAll applies the theme to every root so the panel and bubble stay
// in visual agreement.
func (t Theme) ApplyAll(roots ...*Root) {
	for _, root := range roots {
		t.Apply(root)
	}
}

// Class returns the namespaced theme class
func (t Theme) Class() string {
	return classPrefix + string(t.Mode)
}

// StyleAttr returns the inline style carrying the primary color custom
// property, empty when no primary color is configured. Scoping the
// variable to the widget root keeps it out of the host document.
func (t Theme) StyleAttr() string {
	if t.PrimaryColor == "" {
		return ""
	}
	return "--ember-primary:" + t.PrimaryColor + ";"
}

// Fingerprint returns a stable summary of a root's theme-relevant state,
// useful for asserting idempotence.
func (r *Root) Fingerprint() string {
	classes := make([]string, len(r.Classes))
	copy(classes, r.Classes)
	sort.Strings(classes)

	keys := make([]string, 0, len(r.Attrs))
	for k := range r.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(r.Attrs[k])
		b.WriteString(";")
	}
	b.WriteString("classes:")
	b.WriteString(strings.Join(classes, " "))
	return b.String()
}
