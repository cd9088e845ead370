package windows

import (
	"sort"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
)

// Config holds the placement and sizing parameters of the registry.
type Config struct {
	DefaultSize  geom.Size
	AutoFitSize  geom.Size
	MinSize      geom.Size
	CascadeStep  int
	CascadeCycle int
}

// DefaultConfig returns the standard placement parameters.
func DefaultConfig() Config {
	return Config{
		DefaultSize:  geom.Size{Width: 640, Height: 480},
		AutoFitSize:  geom.Size{Width: 420, Height: 320},
		MinSize:      geom.Size{Width: 200, Height: 120},
		CascadeStep:  30,
		CascadeCycle: 10,
	}
}

// Sizer is implemented by content that knows its preferred size. It is used
// for windows that are not resizable.
type Sizer interface {
	PreferredSize() geom.Size
}

// Registry owns the set of open windows and their stacking order. Every
// operation on an unknown id is a no-op. It is not safe for concurrent use.
type Registry struct {
	cfg      Config
	viewport geom.Size
	windows  map[string]*AppWindow
}

// NewRegistry creates an empty registry for the given viewport.
func NewRegistry(cfg Config, viewport geom.Size) *Registry {
	if cfg.CascadeCycle <= 0 {
		cfg.CascadeCycle = 1
	}
	return &Registry{
		cfg:      cfg,
		viewport: viewport,
		windows:  make(map[string]*AppWindow),
	}
}

// SetViewport updates the area used for placement and maximized geometry.
func (r *Registry) SetViewport(size geom.Size) {
	r.viewport = size
}

// Viewport returns the placement area.
func (r *Registry) Viewport() geom.Size {
	return r.viewport
}

// Len returns the number of open windows.
func (r *Registry) Len() int {
	return len(r.windows)
}

// Get returns a copy of the window with the given id.
func (r *Registry) Get(id string) (AppWindow, bool) {
	w, ok := r.windows[id]
	if !ok {
		return AppWindow{}, false
	}
	return *w, true
}

// List returns copies of all windows ordered bottom to top.
func (r *Registry) List() []AppWindow {
	out := make([]AppWindow, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// Open focuses the window for def if it exists, otherwise creates it on top
// of the stack. content is stored only on creation.
func (r *Registry) Open(def icons.Def, content any) {
	if _, ok := r.windows[def.ID]; ok {
		r.BringToFront(def.ID)
		return
	}

	size := r.cfg.DefaultSize
	resizable := def.IsResizable()
	if !resizable {
		size = r.cfg.AutoFitSize
		if s, ok := content.(Sizer); ok {
			if pref := s.PreferredSize(); !pref.Empty() {
				size = pref
			}
		}
	}

	offset := r.cfg.CascadeStep * (len(r.windows) % r.cfg.CascadeCycle)
	pos := geom.Point{
		X: r.viewport.Width/2 - size.Width/2 + offset,
		Y: r.viewport.Height/2 - size.Height/2 + offset,
	}
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}

	title := def.Title
	if title == "" {
		title = def.ID
	}
	r.windows[def.ID] = &AppWindow{
		ID:        def.ID,
		Title:     title,
		IconPath:  def.IconPath,
		ZIndex:    r.maxZ() + 1,
		Position:  pos,
		Size:      size,
		Resizable: resizable,
		Content:   content,
	}
}

// Close removes a window permanently.
func (r *Registry) Close(id string) {
	delete(r.windows, id)
}

// Minimize hides a window without changing its stacking order.
func (r *Registry) Minimize(id string) {
	if w, ok := r.windows[id]; ok {
		w.Minimized = true
	}
}

// MinimizeAll hides every window.
func (r *Registry) MinimizeAll() {
	for _, w := range r.windows {
		w.Minimized = true
	}
}

// ToggleMaximize flips the maximized flag and always brings the window to front.
func (r *Registry) ToggleMaximize(id string) {
	w, ok := r.windows[id]
	if !ok {
		return
	}
	w.Maximized = !w.Maximized
	r.BringToFront(id)
}

// BringToFront raises the window above every other and restores it. The
// z counter advances even when the window is already on top.
func (r *Registry) BringToFront(id string) {
	w, ok := r.windows[id]
	if !ok {
		return
	}
	w.ZIndex = r.maxZ() + 1
	w.Minimized = false
}

// Focused returns the id of the visible window with the highest z-index.
func (r *Registry) Focused() (string, bool) {
	best := ""
	bestZ := 0
	for id, w := range r.windows {
		if w.Minimized {
			continue
		}
		if best == "" || w.ZIndex > bestZ {
			best, bestZ = id, w.ZIndex
		}
	}
	return best, best != ""
}

// TaskbarClick toggles focus: a minimized window is restored, the focused
// window is minimized and any other window is focused.
func (r *Registry) TaskbarClick(id string) {
	w, ok := r.windows[id]
	if !ok {
		return
	}
	if w.Minimized {
		r.BringToFront(id)
		return
	}
	if focused, ok := r.Focused(); ok && focused == id {
		r.Minimize(id)
		return
	}
	r.BringToFront(id)
}

// OnDrag stores a new window position, clamped so the title bar stays
// reachable. Ignored while maximized.
func (r *Registry) OnDrag(id string, pos geom.Point) {
	w, ok := r.windows[id]
	if !ok || w.Maximized {
		return
	}
	w.Position = r.clampPosition(pos, w.Size)
}

// OnResize stores new window geometry. Ignored while maximized or for
// windows that are not resizable. The size is raised to the minimum.
func (r *Registry) OnResize(id string, size geom.Size, pos geom.Point) {
	w, ok := r.windows[id]
	if !ok || w.Maximized || !w.Resizable {
		return
	}
	w.Size = size.AtLeast(r.cfg.MinSize)
	w.Position = r.clampPosition(pos, w.Size)
}

// EffectiveRect returns the on-screen geometry: the full work area when
// maximized, the stored geometry otherwise. workArea is typically the
// viewport minus the taskbar.
func (r *Registry) EffectiveRect(id string, workArea geom.Rect) (geom.Rect, bool) {
	w, ok := r.windows[id]
	if !ok {
		return geom.Rect{}, false
	}
	if w.Maximized {
		return workArea, true
	}
	return w.Rect(), true
}

// TopmostAt returns the visible window whose effective rect contains p.
func (r *Registry) TopmostAt(p geom.Point, workArea geom.Rect) (string, bool) {
	best := ""
	bestZ := 0
	for id, w := range r.windows {
		if w.Minimized {
			continue
		}
		rect, _ := r.EffectiveRect(id, workArea)
		if !rect.Contains(p) {
			continue
		}
		if best == "" || w.ZIndex > bestZ {
			best, bestZ = id, w.ZIndex
		}
	}
	return best, best != ""
}

// Restore inserts windows from a snapshot. Stacking is renumbered from 1 in
// the snapshot's z order so z-indices stay unique.
func (r *Registry) Restore(saved []AppWindow) {
	ordered := make([]AppWindow, len(saved))
	copy(ordered, saved)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ZIndex < ordered[j].ZIndex
	})
	r.windows = make(map[string]*AppWindow, len(ordered))
	for i, w := range ordered {
		w := w
		if _, dup := r.windows[w.ID]; dup {
			continue
		}
		w.ZIndex = i + 1
		w.Size = w.Size.AtLeast(r.cfg.MinSize)
		w.Position = r.clampPosition(w.Position, w.Size)
		r.windows[w.ID] = &w
	}
}

// SetContent replaces the opaque body of a window.
func (r *Registry) SetContent(id string, content any) {
	if w, ok := r.windows[id]; ok {
		w.Content = content
	}
}

func (r *Registry) maxZ() int {
	max := 0
	for _, w := range r.windows {
		if w.ZIndex > max {
			max = w.ZIndex
		}
	}
	return max
}

// visibleStrip is how much of a window, in pixels, always stays inside the
// viewport horizontally and below the top edge.
const visibleStrip = 40

// clampPosition keeps the title bar reachable: y is never negative, and at
// least visibleStrip pixels of the window stay within the viewport.
func (r *Registry) clampPosition(p geom.Point, size geom.Size) geom.Point {
	if minX := visibleStrip - size.Width; p.X < minX {
		p.X = minX
	}
	if r.viewport.Width > 0 {
		if maxX := r.viewport.Width - visibleStrip; p.X > maxX {
			p.X = maxX
		}
	}
	if r.viewport.Height > 0 {
		if maxY := r.viewport.Height - visibleStrip; p.Y > maxY {
			p.Y = maxY
		}
	}
	if p.Y < 0 {
		p.Y = 0
	}
	return p
}
