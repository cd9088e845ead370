package icons

import (
	"sort"
	"strings"

	"github.com/1broseidon/deskshell/internal/geom"
)

// SortKey selects the ordering applied by Engine.SortIcons.
type SortKey string

const (
	SortNone         SortKey = ""
	SortName         SortKey = "name"
	SortType         SortKey = "type"
	SortDateModified SortKey = "dateModified"
)

// Valid reports whether k is one of the supported sort keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortName, SortType, SortDateModified:
		return true
	}
	return false
}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Engine owns the authoritative icon ordering and the grid assignment of
// desktop icons. It is not safe for concurrent use.
type Engine struct {
	icons     []Def
	positions map[string]GridPos
	sortKey   SortKey
	direction Direction
}

// NewEngine creates an engine over a copy of the catalog order. No layout is
// computed until Relayout is called.
func NewEngine(catalog []Def) *Engine {
	icons := make([]Def, len(catalog))
	copy(icons, catalog)
	return &Engine{
		icons:     icons,
		positions: make(map[string]GridPos),
		direction: Ascending,
	}
}

// Icons returns the authoritative ordering, used by both layout and menus.
func (e *Engine) Icons() []Def {
	out := make([]Def, len(e.icons))
	copy(out, e.icons)
	return out
}

// Lookup returns the icon with the given id.
func (e *Engine) Lookup(id string) (Def, bool) {
	for _, icon := range e.icons {
		if icon.ID == id {
			return icon, true
		}
	}
	return Def{}, false
}

// DesktopIcons returns the icons shown on the desktop, in authoritative order.
func (e *Engine) DesktopIcons() []Def {
	out := make([]Def, 0, len(e.icons))
	for _, icon := range e.icons {
		if icon.ShowOnDesktop {
			out = append(out, icon)
		}
	}
	return out
}

// SetIcons replaces the icon set, keeping the current sort applied.
// The caller is expected to relayout afterwards.
func (e *Engine) SetIcons(catalog []Def) {
	e.icons = make([]Def, len(catalog))
	copy(e.icons, catalog)
	if e.sortKey != SortNone {
		e.applySort()
	}
}

// Relayout recomputes every desktop icon position from scratch, discarding
// manual placements. When the viewport cannot fit a row the existing
// positions are kept and false is returned.
func (e *Engine) Relayout(viewportHeight, cellSize int) bool {
	positions, ok := CalculateLayout(e.DesktopIcons(), viewportHeight, cellSize)
	if !ok {
		return false
	}
	e.positions = positions
	return true
}

// Position returns the grid cell of an icon.
func (e *Engine) Position(id string) (GridPos, bool) {
	p, ok := e.positions[id]
	return p, ok
}

// Positions returns a copy of all grid assignments.
func (e *Engine) Positions() map[string]GridPos {
	out := make(map[string]GridPos, len(e.positions))
	for id, p := range e.positions {
		out[id] = p
	}
	return out
}

// UpdateIconPosition commits a completed icon drag: the pointer position is
// snapped to the nearest cell relative to the desktop origin. Unknown ids are
// ignored. The placement holds until the next Relayout.
func (e *Engine) UpdateIconPosition(id string, pointer, desktopOrigin geom.Point, cellSize int) {
	if _, ok := e.positions[id]; !ok {
		return
	}
	e.positions[id] = CellAt(pointer.X, pointer.Y, desktopOrigin.X, desktopOrigin.Y, cellSize)
}

// IconAt returns the id of the icon occupying cell, if any. When manual
// placements stack icons, the one latest in authoritative order wins.
func (e *Engine) IconAt(cell GridPos) (string, bool) {
	found := ""
	for _, icon := range e.icons {
		if p, ok := e.positions[icon.ID]; ok && p == cell {
			found = icon.ID
		}
	}
	return found, found != ""
}

// Sort returns the current sort key and direction.
func (e *Engine) Sort() (SortKey, Direction) {
	return e.sortKey, e.direction
}

// SortIcons reorders the authoritative icon list. Repeating the current key
// flips the direction; a new key starts ascending. Unsupported keys are ignored.
func (e *Engine) SortIcons(key SortKey) {
	if !key.Valid() {
		return
	}
	if key == e.sortKey {
		if e.direction == Ascending {
			e.direction = Descending
		} else {
			e.direction = Ascending
		}
	} else {
		e.sortKey = key
		e.direction = Ascending
	}
	e.applySort()
}

// RestoreSort sets key and direction without toggling, then reorders.
func (e *Engine) RestoreSort(key SortKey, dir Direction) {
	if !key.Valid() {
		e.sortKey = SortNone
		e.direction = Ascending
		return
	}
	if dir != Descending {
		dir = Ascending
	}
	e.sortKey = key
	e.direction = dir
	e.applySort()
}

func (e *Engine) applySort() {
	less := lessFunc(e.sortKey)
	if less == nil {
		return
	}
	desc := e.direction == Descending
	sort.SliceStable(e.icons, func(i, j int) bool {
		if desc {
			return less(e.icons[j], e.icons[i])
		}
		return less(e.icons[i], e.icons[j])
	})
}

func lessFunc(key SortKey) func(a, b Def) bool {
	switch key {
	case SortName:
		return func(a, b Def) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortType:
		return func(a, b Def) bool {
			return a.Type < b.Type
		}
	case SortDateModified:
		return func(a, b Def) bool {
			return a.Modified() < b.Modified()
		}
	}
	return nil
}
