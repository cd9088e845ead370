package windows

import "github.com/1broseidon/deskshell/internal/geom"

// AppWindow is an open application window. Its ID matches the catalog icon
// that opened it, so at most one window exists per icon.
type AppWindow struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	IconPath  string     `json:"icon"`
	Minimized bool       `json:"minimized"`
	Maximized bool       `json:"maximized"`
	ZIndex    int        `json:"z_index"`
	Position  geom.Point `json:"position"`
	Size      geom.Size  `json:"size"`
	Resizable bool       `json:"resizable"`

	// Content is the opaque body supplied by the content provider.
	Content any `json:"-"`
}

// Rect returns the stored (restored) geometry.
func (w AppWindow) Rect() geom.Rect {
	return geom.RectOf(w.Position, w.Size)
}

// Visible reports whether the window is drawn.
func (w AppWindow) Visible() bool {
	return !w.Minimized
}

// Edge is a bitmask of window borders grabbed by a resize gesture.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom

	EdgeTopLeft     = EdgeTop | EdgeLeft
	EdgeTopRight    = EdgeTop | EdgeRight
	EdgeBottomLeft  = EdgeBottom | EdgeLeft
	EdgeBottomRight = EdgeBottom | EdgeRight
)

// ResizeRect applies a pointer delta to the grabbed edges of r. Sizes are
// clamped to min; when a left or top edge hits the minimum, the opposite edge
// stays anchored.
func ResizeRect(r geom.Rect, edge Edge, delta geom.Point, min geom.Size) geom.Rect {
	out := r
	if edge&EdgeRight != 0 {
		out.Width = r.Width + delta.X
	}
	if edge&EdgeBottom != 0 {
		out.Height = r.Height + delta.Y
	}
	if edge&EdgeLeft != 0 {
		out.Width = r.Width - delta.X
		out.X = r.X + delta.X
	}
	if edge&EdgeTop != 0 {
		out.Height = r.Height - delta.Y
		out.Y = r.Y + delta.Y
	}

	if out.Width < min.Width {
		if edge&EdgeLeft != 0 {
			out.X = r.X + r.Width - min.Width
		}
		out.Width = min.Width
	}
	if out.Height < min.Height {
		if edge&EdgeTop != 0 {
			out.Y = r.Y + r.Height - min.Height
		}
		out.Height = min.Height
	}
	return out
}
