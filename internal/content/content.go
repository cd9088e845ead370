package content

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
)

// Handle is the opaque renderable body of a window.
type Handle interface {
	// View renders the body into at most width x height terminal cells.
	View(width, height int) string
}

// Kind distinguishes what activating an icon does.
type Kind int

const (
	// KindNone means the icon has no content and opens nothing.
	KindNone Kind = iota
	// KindWindow opens (or focuses) a window with a Handle.
	KindWindow
	// KindEffect runs a side effect instead of opening a window.
	KindEffect
)

// Effect is a collaborator-defined side effect, such as a simulated fault
// overlay that dismisses itself after Duration.
type Effect struct {
	Name     string
	Duration time.Duration
}

// Resolved is the capability an icon id maps to.
type Resolved struct {
	Kind   Kind
	Handle Handle
	Effect Effect
}

// Provider turns a catalog entry into its capability.
type Provider interface {
	Resolve(def icons.Def) Resolved
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(def icons.Def) Resolved

// Resolve implements Provider.
func (f ProviderFunc) Resolve(def icons.Def) Resolved {
	return f(def)
}

// Registry maps icon ids to providers. Lookups happen once per catalog via
// ResolveAll; callers keep the resulting map.
type Registry struct {
	byID     map[string]Provider
	fallback Provider
}

// NewRegistry creates a registry whose unregistered ids resolve through
// fallback. A nil fallback uses Placeholder.
func NewRegistry(fallback Provider) *Registry {
	if fallback == nil {
		fallback = Placeholder()
	}
	return &Registry{
		byID:     make(map[string]Provider),
		fallback: fallback,
	}
}

// Register binds a provider to an icon id, replacing any previous binding.
func (r *Registry) Register(id string, p Provider) {
	r.byID[id] = p
}

// ResolveAll resolves every catalog entry.
func (r *Registry) ResolveAll(catalog []icons.Def) map[string]Resolved {
	out := make(map[string]Resolved, len(catalog))
	for _, def := range catalog {
		p, ok := r.byID[def.ID]
		if !ok {
			p = r.fallback
		}
		out[def.ID] = p.Resolve(def)
	}
	return out
}

// Text is a static text body.
type Text struct {
	Body string
	// Preferred is used when the window is not resizable.
	Preferred geom.Size
}

// View implements Handle. Lines are truncated to width and the body is
// clipped to height.
func (t Text) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(t.Body, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width, "…")
	}
	return strings.Join(lines, "\n")
}

// PreferredSize implements windows.Sizer.
func (t Text) PreferredSize() geom.Size {
	return t.Preferred
}

// TextProvider serves a fixed body.
func TextProvider(body string, preferred geom.Size) Provider {
	return ProviderFunc(func(icons.Def) Resolved {
		return Resolved{Kind: KindWindow, Handle: Text{Body: body, Preferred: preferred}}
	})
}

// FaultProvider serves an overlay effect instead of a window.
func FaultProvider(name string, d time.Duration) Provider {
	return ProviderFunc(func(icons.Def) Resolved {
		return Resolved{Kind: KindEffect, Effect: Effect{Name: name, Duration: d}}
	})
}

// Placeholder renders the icon's title and file path.
func Placeholder() Provider {
	return ProviderFunc(func(def icons.Def) Resolved {
		var b strings.Builder
		b.WriteString(def.Title)
		if def.FilePath != "" {
			b.WriteString("\n\n")
			b.WriteString(def.FilePath)
		}
		return Resolved{Kind: KindWindow, Handle: Text{Body: b.String()}}
	})
}
