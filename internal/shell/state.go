package shell

import (
	"context"
	"fmt"
	"time"

	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/drag"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/menu"
	"github.com/1broseidon/deskshell/internal/store"
	"github.com/1broseidon/deskshell/internal/windows"
)

// WindowState is a window as seen by a front-end.
type WindowState struct {
	windows.AppWindow
	// Frame is where the window is drawn: the work area when maximized.
	Frame   geom.Rect `json:"frame"`
	Focused bool      `json:"focused"`
}

// IconState is a catalog icon plus its grid cell, if placed.
type IconState struct {
	icons.Def
	Cell   icons.GridPos `json:"cell"`
	Placed bool          `json:"placed"`
}

// DragState describes a gesture past the threshold.
type DragState struct {
	Kind   string     `json:"kind"`
	ID     string     `json:"id"`
	Offset geom.Point `json:"offset"`
}

// State is a point-in-time copy of the session.
type State struct {
	SessionID string          `json:"session_id"`
	Locked    bool            `json:"locked"`
	Viewport  geom.Size       `json:"viewport"`
	WorkArea  geom.Rect       `json:"work_area"`
	CellSize  int             `json:"cell_size"`
	Origin    geom.Point      `json:"origin"`
	Windows   []WindowState   `json:"windows"` // z ascending
	Focused   string          `json:"focused,omitempty"`
	Icons     []IconState     `json:"icons"` // authoritative order
	SortKey   icons.SortKey   `json:"sort_key,omitempty"`
	Direction icons.Direction `json:"direction"`
	Menus     menu.Visibility `json:"menus"`
	Overlay   string          `json:"overlay,omitempty"`
	Drag      *DragState      `json:"drag,omitempty"`
	Month     time.Time       `json:"month"`
}

// State returns a snapshot of the session for rendering or reporting.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.workArea()
	focused, _ := s.windows.Focused()
	key, dir := s.engine.Sort()

	st := State{
		SessionID: s.id,
		Locked:    s.gate.Locked(),
		Viewport:  s.viewport,
		WorkArea:  work,
		CellSize:  s.cfg.Icons.CellSize,
		Origin:    s.desktopOrigin(),
		Focused:   focused,
		SortKey:   key,
		Direction: dir,
		Menus:     s.menus.Visibility(),
		Overlay:   s.overlay,
		Month:     s.pager.Month(),
	}
	for _, w := range s.windows.List() {
		frame, _ := s.windows.EffectiveRect(w.ID, work)
		st.Windows = append(st.Windows, WindowState{AppWindow: w, Frame: frame, Focused: w.ID == focused})
	}
	for _, def := range s.engine.Icons() {
		cell, placed := s.engine.Position(def.ID)
		st.Icons = append(st.Icons, IconState{Def: def, Cell: cell, Placed: placed})
	}
	if s.target.kind != DragNone && s.drag.Phase() == drag.PhaseDragging {
		st.Drag = &DragState{Kind: s.target.kind.String(), ID: s.target.id, Offset: s.preview}
	}
	return st
}

// Snapshot captures the restorable part of the session under name.
func (s *Session) Snapshot(name string) store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, dir := s.engine.Sort()
	return store.Snapshot{
		Name:      name,
		SessionID: s.id,
		Windows:   s.windows.List(),
		SortKey:   key,
		Direction: dir,
	}
}

// Restore replaces the window stack and sort order with snap. Windows whose
// id is no longer in the catalog, or no longer opens a window, are dropped.
func (s *Session) Restore(snap store.Snapshot) error {
	s.mu.Lock()
	if s.gate.Locked() {
		s.mu.Unlock()
		return ErrLocked
	}
	kept := make([]windows.AppWindow, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		if _, ok := s.engine.Lookup(w.ID); !ok {
			s.logger.Debug("snapshot window dropped", "id", w.ID)
			continue
		}
		resolved := s.contents[w.ID]
		if resolved.Kind != content.KindWindow {
			s.logger.Debug("snapshot window dropped", "id", w.ID, "reason", "no window content")
			continue
		}
		w.Content = resolved.Handle
		kept = append(kept, w)
	}
	s.windows.Restore(kept)
	s.engine.RestoreSort(snap.SortKey, snap.Direction)
	s.relayout()
	s.mu.Unlock()

	s.logger.Info("snapshot restored", "name", snap.Name, "windows", len(kept))
	s.notify()
	return nil
}

// SaveSnapshot writes the current session to st.
func (s *Session) SaveSnapshot(ctx context.Context, st *store.Store, name string) error {
	if err := st.Save(ctx, s.Snapshot(name)); err != nil {
		return err
	}
	s.logger.Info("snapshot saved", "name", name)
	return nil
}

// LoadSnapshot reads name from st and restores it.
func (s *Session) LoadSnapshot(ctx context.Context, st *store.Store, name string) error {
	snap, err := st.Load(ctx, name)
	if err != nil {
		return err
	}
	if err := s.Restore(snap); err != nil {
		return fmt.Errorf("restore %q: %w", name, err)
	}
	return nil
}
