package shell

import (
	"github.com/1broseidon/deskshell/internal/drag"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/windows"
)

// DragKind is what a pointer gesture is moving.
type DragKind int

const (
	DragNone DragKind = iota
	DragIcon
	DragWindow
	DragResize
)

func (k DragKind) String() string {
	switch k {
	case DragNone:
		return "none"
	case DragIcon:
		return "icon"
	case DragWindow:
		return "window"
	case DragResize:
		return "resize"
	default:
		return "unknown"
	}
}

type dragTarget struct {
	kind  DragKind
	id    string
	edge  windows.Edge
	start geom.Rect // window geometry at press time
}

// BeginIconDrag presses on a desktop icon. Icons without a grid cell are
// ignored.
func (s *Session) BeginIconDrag(id string, at geom.Point) {
	s.interact("begin_icon_drag", func() {
		if _, ok := s.engine.Position(id); !ok {
			return
		}
		s.press(dragTarget{kind: DragIcon, id: id}, at)
	})
}

// BeginWindowDrag presses on a window title bar. The window is focused
// immediately; its position only changes if the gesture becomes a drag.
func (s *Session) BeginWindowDrag(id string, at geom.Point) {
	s.interact("begin_window_drag", func() {
		w, ok := s.windows.Get(id)
		if !ok {
			return
		}
		s.windows.BringToFront(id)
		s.press(dragTarget{kind: DragWindow, id: id, start: w.Rect()}, at)
	})
}

// BeginWindowResize presses on a window border.
func (s *Session) BeginWindowResize(id string, edge windows.Edge, at geom.Point) {
	s.interact("begin_window_resize", func() {
		w, ok := s.windows.Get(id)
		if !ok || edge == 0 {
			return
		}
		s.windows.BringToFront(id)
		s.press(dragTarget{kind: DragResize, id: id, edge: edge, start: w.Rect()}, at)
	})
}

func (s *Session) press(t dragTarget, at geom.Point) {
	s.target = t
	s.preview = geom.Point{}
	s.drag.Press(at)
}

// PointerMove feeds pointer motion to the active gesture.
func (s *Session) PointerMove(at geom.Point) {
	s.interact("pointer_move", func() { s.drag.Move(at) })
}

// PointerUp ends the active gesture, committing it if it became a drag. It
// reports whether the gesture ended as a click, including on this final
// position.
func (s *Session) PointerUp(at geom.Point) bool {
	clicked := false
	s.interact("pointer_up", func() {
		active := s.drag.Phase() != drag.PhaseIdle
		committed := s.drag.Release(at)
		clicked = active && !committed
		s.target = dragTarget{}
	})
	return clicked
}

// CancelDrag abandons the active gesture without committing.
func (s *Session) CancelDrag() {
	s.interact("cancel_drag", func() {
		s.drag.Cancel()
		s.target = dragTarget{}
	})
}

// DragPhase reports the controller phase, mainly for front-ends and tests.
func (s *Session) DragPhase() drag.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag.Phase()
}

func (s *Session) commitDrag(g drag.Gesture) {
	t := s.target
	switch t.kind {
	case DragIcon:
		s.engine.UpdateIconPosition(t.id, g.Pointer, s.desktopOrigin(), s.cfg.Icons.CellSize)
	case DragWindow:
		s.windows.OnDrag(t.id, t.start.Origin().Add(g.Delta()))
	case DragResize:
		minSize := geom.Size{Width: s.cfg.Windows.MinWidth, Height: s.cfg.Windows.MinHeight}
		r := windows.ResizeRect(t.start, t.edge, g.Delta(), minSize)
		s.windows.OnResize(t.id, r.Size(), r.Origin())
	}
	s.logger.Debug("drag committed", "kind", t.kind.String(), "id", t.id, "x", g.Pointer.X, "y", g.Pointer.Y)
}

func (s *Session) clickDrag(at geom.Point) {
	s.logger.Debug("click", "kind", s.target.kind.String(), "id", s.target.id, "x", at.X, "y", at.Y)
}
