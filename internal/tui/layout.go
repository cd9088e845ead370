package tui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/menu"
	"github.com/1broseidon/deskshell/internal/shell"
)

const (
	startButtonLabel = " ◆ Start "
	taskButtonWidth  = 18
	startMenuWidth   = 34
	startMenuRows    = 10
	contextMenuWidth = 28
	calendarWidth    = 23
)

// box is a rectangle in terminal cells.
type box struct {
	X, Y, W, H int
}

func (b box) contains(col, row int) bool {
	return col >= b.X && col < b.X+b.W && row >= b.Y && row < b.Y+b.H
}

// entry is one selectable menu row.
type entry struct {
	label   string
	detail  string
	action  string
	checked bool
}

// menuBox is an open menu: its frame and the rows inside it, one per line
// starting offset rows below the top border.
type menuBox struct {
	box
	offset  int
	entries []entry
}

// actionAt returns the action of the entry row under (col, row).
func (m *menuBox) actionAt(col, row int) (string, bool) {
	if m == nil || !m.contains(col, row) {
		return "", false
	}
	i := row - m.Y - m.offset
	if i < 0 || i >= len(m.entries) {
		return "", false
	}
	return m.entries[i].action, true
}

type taskButton struct {
	box
	id        string
	title     string
	focused   bool
	minimized bool
}

type winBox struct {
	frame     box
	id        string
	title     string
	focused   bool
	maximized bool
	resizable bool
}

type windowControl int

const (
	controlNone windowControl = iota
	controlBody
	controlTitle
	controlMinimize
	controlMaximize
	controlClose
	controlResize
)

const windowButtons = "[_][□][x]"

// control returns the part of the window under (col, row).
func (w winBox) control(col, row int) windowControl {
	f := w.frame
	if !f.contains(col, row) {
		return controlNone
	}
	if row == f.Y {
		start := f.X + f.W - 1 - runewidth.StringWidth(windowButtons)
		switch off := col - start; {
		case off >= 0 && off < 3:
			return controlMinimize
		case off >= 3 && off < 6:
			return controlMaximize
		case off >= 6 && off < 9:
			return controlClose
		}
		return controlTitle
	}
	if w.resizable && !w.maximized && col == f.X+f.W-1 && row == f.Y+f.H-1 {
		return controlResize
	}
	return controlBody
}

type iconBox struct {
	box
	id    string
	title string
	glyph string
}

// screen maps a session state onto terminal cells. It is rebuilt from the
// state for every frame and every pointer event so both always agree.
type screen struct {
	cols, rows int
	cw, ch     int

	taskTop int
	start   box
	clock   box
	buttons []taskButton

	windows []winBox // z ascending
	icons   []iconBox

	startMenu *menuBox
	calendar  *box
	context   *menuBox
	prev      box
	next      box
}

// newScreen lays out st on a cols x rows terminal where each cell is cw x ch
// pixels. startEntries and contextEntries are the rows of the open menus.
func newScreen(st shell.State, cols, rows, cw, ch int, startEntries, contextEntries []entry) screen {
	s := screen{cols: cols, rows: rows, cw: cw, ch: ch}

	workBottom := st.WorkArea.Y + st.WorkArea.Height
	s.taskTop = ceilDiv(workBottom, ch)
	if s.taskTop > rows-1 {
		s.taskTop = rows - 1
	}
	if s.taskTop < 0 {
		s.taskTop = 0
	}
	bar := rows - 1

	s.start = box{X: 0, Y: bar, W: runewidth.StringWidth(startButtonLabel), H: 1}
	s.clock = box{X: cols - 7, Y: bar, W: 7, H: 1}

	x := s.start.W + 1
	for _, w := range st.Windows {
		if x+taskButtonWidth > s.clock.X {
			break
		}
		s.buttons = append(s.buttons, taskButton{
			box:       box{X: x, Y: bar, W: taskButtonWidth, H: 1},
			id:        w.ID,
			title:     w.Title,
			focused:   w.Focused && !w.Minimized,
			minimized: w.Minimized,
		})
		x += taskButtonWidth + 1
	}

	for _, w := range st.Windows {
		if w.Minimized {
			continue
		}
		s.windows = append(s.windows, winBox{
			frame:     s.rectBox(w.Frame),
			id:        w.ID,
			title:     w.Title,
			focused:   w.Focused,
			maximized: w.Maximized,
			resizable: w.Resizable,
		})
	}

	cellCols := max(1, st.CellSize/cw)
	cellRows := max(2, st.CellSize/ch)
	for _, ic := range st.Icons {
		if !ic.Placed {
			continue
		}
		px := st.Origin.Add(geom.Point{X: ic.Cell.Col * st.CellSize, Y: ic.Cell.Row * st.CellSize})
		s.icons = append(s.icons, iconBox{
			box:   box{X: px.X / cw, Y: px.Y / ch, W: cellCols, H: cellRows},
			id:    ic.ID,
			title: ic.Title,
			glyph: glyphFor(ic.Type),
		})
	}

	if st.Menus.StartMenu {
		shown := startEntries
		if len(shown) > startMenuRows {
			shown = shown[:startMenuRows]
		}
		h := len(shown) + 3
		s.startMenu = &menuBox{
			box:     box{X: 0, Y: max(0, s.taskTop-h), W: min(startMenuWidth, cols), H: h},
			offset:  2, // search field
			entries: shown,
		}
	}
	if st.Menus.Calendar {
		h := 4 + 6
		cal := box{X: max(0, cols-calendarWidth), Y: max(0, s.taskTop-h), W: min(calendarWidth, cols), H: h}
		s.calendar = &cal
		s.prev = box{X: cal.X + 1, Y: cal.Y + 1, W: 3, H: 1}
		s.next = box{X: cal.X + cal.W - 4, Y: cal.Y + 1, W: 3, H: 1}
	}
	if st.Menus.ContextMenu.Open {
		h := len(contextEntries) + 2
		at := st.Menus.ContextMenu.Position
		x, y := at.X/cw, at.Y/ch
		if x+contextMenuWidth > cols {
			x = max(0, cols-contextMenuWidth)
		}
		if y+h > s.taskTop {
			y = max(0, s.taskTop-h)
		}
		s.context = &menuBox{
			box:     box{X: x, Y: y, W: min(contextMenuWidth, cols), H: h},
			offset:  1,
			entries: contextEntries,
		}
	}
	return s
}

// rectBox converts a pixel rect to the cells it covers, keeping at least a
// title row and a border.
func (s screen) rectBox(r geom.Rect) box {
	return box{
		X: r.X / s.cw,
		Y: r.Y / s.ch,
		W: max(12, r.Width/s.cw),
		H: max(3, r.Height/s.ch),
	}
}

// pixel returns the viewport point at the top-left of cell (col, row).
func pixel(col, row, cw, ch int) geom.Point {
	return geom.Point{X: col * cw, Y: row * ch}
}

// Contains implements menu.HitTester. A surface contains its own frame and
// the taskbar control that toggles it.
func (s screen) Contains(surface menu.Surface, p geom.Point) bool {
	col, row := p.X/s.cw, p.Y/s.ch
	switch surface {
	case menu.SurfaceStartMenu:
		return s.start.contains(col, row) || (s.startMenu != nil && s.startMenu.contains(col, row))
	case menu.SurfaceCalendar:
		return s.clock.contains(col, row) || (s.calendar != nil && s.calendar.contains(col, row))
	case menu.SurfaceContextMenu:
		return s.context != nil && s.context.contains(col, row)
	}
	return false
}

// windowAt returns the topmost visible window under (col, row).
func (s screen) windowAt(col, row int) (winBox, bool) {
	for i := len(s.windows) - 1; i >= 0; i-- {
		if s.windows[i].frame.contains(col, row) {
			return s.windows[i], true
		}
	}
	return winBox{}, false
}

func (s screen) iconAt(col, row int) (iconBox, bool) {
	for _, ic := range s.icons {
		if ic.contains(col, row) {
			return ic, true
		}
	}
	return iconBox{}, false
}

func (s screen) buttonAt(col, row int) (taskButton, bool) {
	for _, b := range s.buttons {
		if b.contains(col, row) {
			return b, true
		}
	}
	return taskButton{}, false
}

func (s screen) onTaskbar(row int) bool {
	return row >= s.taskTop
}

// startEntries flattens the start menu into rows matching query, each with a
// humanized modification date when the catalog has one.
func startEntries(root *menu.Node, st shell.State, query string, now time.Time) []entry {
	if root == nil {
		return nil
	}
	modified := make(map[string]int64, len(st.Icons))
	for _, ic := range st.Icons {
		modified[ic.ID] = ic.Modified()
	}
	var out []entry
	for _, leaf := range menu.Search(root, query) {
		e := entry{label: leaf.Label, action: leaf.Action}
		if id, ok := strings.CutPrefix(leaf.Action, menu.ActionOpenPrefix); ok {
			if ms := modified[id]; ms > 0 {
				e.detail = humanize.RelTime(time.UnixMilli(ms), now, "ago", "from now")
			}
		}
		out = append(out, e)
	}
	return out
}

// contextEntries flattens the context menu tree, prefixing submenu leaves
// with their parent label.
func contextEntries(root *menu.Node) []entry {
	if root == nil {
		return nil
	}
	var out []entry
	for _, child := range root.Children {
		if !child.IsParent() {
			out = append(out, entry{label: child.Label, action: child.Action, checked: child.Checked})
			continue
		}
		for _, leaf := range child.Children {
			out = append(out, entry{
				label:   child.Label + ": " + leaf.Label,
				action:  leaf.Action,
				checked: leaf.Checked,
			})
		}
	}
	return out
}

func glyphFor(kind string) string {
	switch strings.ToLower(kind) {
	case "folder":
		return "▤"
	case "app", "application":
		return "◈"
	case "document", "text", "pdf":
		return "≣"
	case "effect":
		return "⚠"
	case "trash", "system":
		return "♻"
	default:
		return "■"
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
