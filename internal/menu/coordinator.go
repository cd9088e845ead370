package menu

import "github.com/1broseidon/deskshell/internal/geom"

// Surface identifies one of the mutually exclusive overlay surfaces.
type Surface int

const (
	SurfaceStartMenu Surface = iota
	SurfaceCalendar
	SurfaceContextMenu
)

// String returns the string representation of the surface
func (s Surface) String() string {
	switch s {
	case SurfaceStartMenu:
		return "start_menu"
	case SurfaceCalendar:
		return "calendar"
	case SurfaceContextMenu:
		return "context_menu"
	default:
		return "unknown"
	}
}

// Surfaces lists every overlay surface.
var Surfaces = []Surface{SurfaceStartMenu, SurfaceCalendar, SurfaceContextMenu}

// ContextMenu is the visibility and anchor of the desktop context menu.
type ContextMenu struct {
	Open     bool       `json:"open"`
	Position geom.Point `json:"position"`
}

// Visibility is the open/closed state of the three overlay surfaces. At most
// one surface is open at a time.
type Visibility struct {
	StartMenu   bool        `json:"start_menu"`
	Calendar    bool        `json:"calendar"`
	ContextMenu ContextMenu `json:"context_menu"`
}

// AnyOpen reports whether any surface is showing.
func (v Visibility) AnyOpen() bool {
	return v.StartMenu || v.Calendar || v.ContextMenu.Open
}

// IsOpen reports whether s is showing.
func (v Visibility) IsOpen(s Surface) bool {
	switch s {
	case SurfaceStartMenu:
		return v.StartMenu
	case SurfaceCalendar:
		return v.Calendar
	case SurfaceContextMenu:
		return v.ContextMenu.Open
	}
	return false
}

// HitTester reports whether p falls inside the surface's own bounds,
// including the control that toggles it.
type HitTester interface {
	Contains(s Surface, p geom.Point) bool
}

// HitTestFunc adapts a function to HitTester.
type HitTestFunc func(s Surface, p geom.Point) bool

// Contains implements HitTester.
func (f HitTestFunc) Contains(s Surface, p geom.Point) bool {
	return f(s, p)
}

// Coordinator enforces exclusive visibility among the overlay surfaces and
// owns the global click-outside listener. It is not safe for concurrent use.
type Coordinator struct {
	vis       Visibility
	listening bool
}

// NewCoordinator returns a coordinator with every surface closed and the
// click-outside listener detached.
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Visibility returns the current state.
func (c *Coordinator) Visibility() Visibility {
	return c.vis
}

// ToggleStartMenu closes the start menu if open, otherwise opens it alone.
func (c *Coordinator) ToggleStartMenu() {
	if c.vis.StartMenu {
		c.vis.StartMenu = false
		return
	}
	c.vis = Visibility{StartMenu: true}
}

// ToggleCalendar closes the calendar if open, otherwise opens it alone.
func (c *Coordinator) ToggleCalendar() {
	if c.vis.Calendar {
		c.vis.Calendar = false
		return
	}
	c.vis = Visibility{Calendar: true}
}

// OpenContextMenu shows the context menu at p regardless of its previous
// state. The other surfaces close.
func (c *Coordinator) OpenContextMenu(p geom.Point) {
	c.vis = Visibility{ContextMenu: ContextMenu{Open: true, Position: p}}
}

// Close hides one surface.
func (c *Coordinator) Close(s Surface) {
	switch s {
	case SurfaceStartMenu:
		c.vis.StartMenu = false
	case SurfaceCalendar:
		c.vis.Calendar = false
	case SurfaceContextMenu:
		c.vis.ContextMenu.Open = false
	}
}

// CloseAll hides every surface.
func (c *Coordinator) CloseAll() {
	c.vis.StartMenu = false
	c.vis.Calendar = false
	c.vis.ContextMenu.Open = false
}

// Attach enables the click-outside listener.
func (c *Coordinator) Attach() {
	c.listening = true
}

// Detach disables the click-outside listener.
func (c *Coordinator) Detach() {
	c.listening = false
}

// Listening reports whether the click-outside listener is attached.
func (c *Coordinator) Listening() bool {
	return c.listening
}

// ClickOutside evaluates each open surface independently against target and
// closes every one that does not contain it. It returns the surfaces closed.
// Nothing happens while the listener is detached.
func (c *Coordinator) ClickOutside(target geom.Point, hit HitTester) []Surface {
	if !c.listening || hit == nil {
		return nil
	}
	var closed []Surface
	for _, s := range Surfaces {
		if !c.vis.IsOpen(s) {
			continue
		}
		if hit.Contains(s, target) {
			continue
		}
		c.Close(s)
		closed = append(closed, s)
	}
	return closed
}
