package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/menu"
	"github.com/1broseidon/deskshell/internal/shell"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Icons.CellSize = 100
	cfg.TUI = config.TUIConfig{CellWidth: 10, CellHeight: 20}
	return cfg
}

func testCatalog() []icons.Def {
	return []icons.Def{
		{ID: "about", Title: "About", Type: "app", ShowOnDesktop: true, Pinned: true},
		{ID: "games", Title: "Games", Type: "folder", ShowOnDesktop: true},
		{ID: "notes", Title: "Notes", Type: "document", ShowOnDesktop: true, DateModified: "2024-01-02"},
	}
}

// newTestModel returns an unlocked 100x30 desktop: viewport 1000x600, work
// area 1000x560, taskbar from row 28.
func newTestModel(t *testing.T) model {
	t.Helper()
	cfg := testConfig()
	sess := shell.New(cfg, testCatalog(), content.NewRegistry(nil), nil)
	if !sess.Unlock("") {
		t.Fatal("unlock failed")
	}
	m := newModel(sess, cfg)
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	m.clock = fixed
	m = send(t, m, changedMsg{})
	return send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func send(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func press(t *testing.T, m model, b tea.MouseButton, x, y int) model {
	t.Helper()
	return send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: b})
}

func motion(t *testing.T, m model, x, y int) model {
	t.Helper()
	return send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
}

func releaseAt(t *testing.T, m model, x, y int) model {
	t.Helper()
	return send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func leftClick(t *testing.T, m model, x, y int) model {
	t.Helper()
	return releaseAt(t, press(t, m, tea.MouseButtonLeft, x, y), x, y)
}

func cellOf(t *testing.T, st shell.State, id string) icons.GridPos {
	t.Helper()
	for _, ic := range st.Icons {
		if ic.ID == id {
			return ic.Cell
		}
	}
	t.Fatalf("icon %q not in state", id)
	return icons.GridPos{}
}

func TestWindowSizeSetsViewport(t *testing.T) {
	m := newTestModel(t)
	st := m.session.State()
	if st.Viewport.Width != 1000 || st.Viewport.Height != 600 {
		t.Fatalf("viewport = %+v, want 1000x600", st.Viewport)
	}

	scr, _ := m.screen()
	if scr.taskTop != 28 {
		t.Fatalf("taskTop = %d, want 28", scr.taskTop)
	}
	if got := cellOf(t, st, "games"); got != (icons.GridPos{Col: 0, Row: 1}) {
		t.Fatalf("games cell = %+v, want (0,1)", got)
	}
	ic, ok := scr.iconAt(2, 6)
	if !ok || ic.id != "games" {
		t.Fatalf("iconAt(2,6) = %+v, %v; want games", ic, ok)
	}
}

func TestDoubleClickOpensIcon(t *testing.T) {
	m := newTestModel(t)

	m = leftClick(t, m, 2, 1)
	if len(m.session.State().Windows) != 0 {
		t.Fatal("single click should not open a window")
	}
	m = leftClick(t, m, 2, 1)

	st := m.session.State()
	if len(st.Windows) != 1 || st.Windows[0].ID != "about" {
		t.Fatalf("expected about window, got %+v", st.Windows)
	}
	if st.Focused != "about" {
		t.Fatalf("focused = %q, want about", st.Focused)
	}
}

func TestDragReleaseIsNotAClick(t *testing.T) {
	m := newTestModel(t)

	m = leftClick(t, m, 2, 1)
	m = press(t, m, tea.MouseButtonLeft, 2, 1)
	m = releaseAt(t, m, 42, 11)
	if got := cellOf(t, m.session.State(), "about"); got != (icons.GridPos{Col: 4, Row: 2}) {
		t.Fatalf("about cell = %+v, want (4,2)", got)
	}
	if m.last.id != "" {
		t.Fatalf("drag release recorded as click on %q", m.last.id)
	}

	scr, _ := m.screen()
	var moved iconBox
	for _, ic := range scr.icons {
		if ic.id == "about" {
			moved = ic
		}
	}
	m = leftClick(t, m, moved.X, moved.Y)
	if n := len(m.session.State().Windows); n != 0 {
		t.Fatalf("single click after a drag opened %d windows", n)
	}
}

func TestIconDragSnapsToCell(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.MouseButtonLeft, 2, 1)
	m = motion(t, m, 42, 11)
	if st := m.session.State(); st.Drag == nil || st.Drag.ID != "about" {
		t.Fatalf("expected icon drag in progress, got %+v", st.Drag)
	}
	m = releaseAt(t, m, 42, 11)

	if got := cellOf(t, m.session.State(), "about"); got != (icons.GridPos{Col: 4, Row: 2}) {
		t.Fatalf("about cell = %+v, want (4,2)", got)
	}
	if m.session.State().Drag != nil {
		t.Fatal("drag should be finished")
	}
}

func TestWindowControls(t *testing.T) {
	m := newTestModel(t)
	m.session.ActivateIcon("about")

	scr, _ := m.screen()
	if len(scr.windows) != 1 {
		t.Fatalf("expected 1 window box, got %d", len(scr.windows))
	}
	w := scr.windows[0]
	if w.frame != (box{X: 18, Y: 3, W: 64, H: 24}) {
		t.Fatalf("frame = %+v", w.frame)
	}

	buttons := w.frame.X + w.frame.W - 1 - 9
	m = leftClick(t, m, buttons+4, w.frame.Y)
	if st := m.session.State(); !st.Windows[0].Maximized {
		t.Fatal("maximize button should maximize")
	}
	scr, _ = m.screen()
	maxed := scr.windows[0].frame
	if maxed != (box{X: 0, Y: 0, W: 100, H: 28}) {
		t.Fatalf("maximized frame = %+v, want the work area", maxed)
	}
	m = leftClick(t, m, maxed.X+maxed.W-1-9+4, maxed.Y)
	if st := m.session.State(); st.Windows[0].Maximized {
		t.Fatal("second click should restore")
	}

	// Title drag moves the window by the pointer delta.
	m = press(t, m, tea.MouseButtonLeft, w.frame.X+2, w.frame.Y)
	m = motion(t, m, w.frame.X+5, w.frame.Y+2)
	m = releaseAt(t, m, w.frame.X+5, w.frame.Y+2)
	if got := m.session.State().Windows[0].Position; got.X != 210 || got.Y != 100 {
		t.Fatalf("position = %+v, want (210,100)", got)
	}

	scr, _ = m.screen()
	w = scr.windows[0]
	m = leftClick(t, m, w.frame.X+w.frame.W-1-9+7, w.frame.Y)
	if n := len(m.session.State().Windows); n != 0 {
		t.Fatalf("close button should close, %d windows left", n)
	}
}

func TestWindowResizeCorner(t *testing.T) {
	m := newTestModel(t)
	m.session.ActivateIcon("about")

	scr, _ := m.screen()
	f := scr.windows[0].frame
	if c := scr.windows[0].control(f.X+f.W-1, f.Y+f.H-1); c != controlResize {
		t.Fatalf("corner control = %v, want resize", c)
	}

	m = press(t, m, tea.MouseButtonLeft, f.X+f.W-1, f.Y+f.H-1)
	m = motion(t, m, f.X+f.W-11, f.Y+f.H-1)
	m = releaseAt(t, m, f.X+f.W-11, f.Y+f.H-1)

	size := m.session.State().Windows[0].Size
	if size.Width != 540 || size.Height != 480 {
		t.Fatalf("size = %+v, want 540x480", size)
	}
}

func TestTaskbarButtonCyclesWindow(t *testing.T) {
	m := newTestModel(t)
	m.session.ActivateIcon("about")

	scr, _ := m.screen()
	if len(scr.buttons) != 1 {
		t.Fatalf("expected 1 taskbar button, got %d", len(scr.buttons))
	}
	b := scr.buttons[0]

	m = leftClick(t, m, b.X+1, b.Y)
	if !m.session.State().Windows[0].Minimized {
		t.Fatal("clicking the focused window's button should minimize it")
	}
	m = leftClick(t, m, b.X+1, b.Y)
	if m.session.State().Windows[0].Minimized {
		t.Fatal("clicking a minimized window's button should restore it")
	}
}

func TestStartMenuClickOpensApp(t *testing.T) {
	m := newTestModel(t)

	scr, _ := m.screen()
	m = leftClick(t, m, scr.start.X+1, scr.start.Y)
	if !m.session.State().Menus.StartMenu {
		t.Fatal("start button should open the start menu")
	}

	scr, _ = m.screen()
	if scr.startMenu == nil || len(scr.startMenu.entries) == 0 {
		t.Fatal("start menu has no entries")
	}
	first := scr.startMenu.entries[0]
	if first.action != menu.ActionOpenPrefix+"about" {
		t.Fatalf("first entry = %+v, want pinned about", first)
	}

	m = leftClick(t, m, scr.startMenu.X+2, scr.startMenu.Y+scr.startMenu.offset)
	st := m.session.State()
	if st.Menus.StartMenu {
		t.Fatal("selecting an entry should close the start menu")
	}
	if len(st.Windows) != 1 || st.Windows[0].ID != "about" {
		t.Fatalf("expected about window, got %+v", st.Windows)
	}
}

func TestStartMenuSearch(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.session.State().Menus.StartMenu {
		t.Fatal("ctrl+s should open the start menu")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("nts")})
	if got := m.search.Value(); got != "nts" {
		t.Fatalf("search = %q", got)
	}

	scr, _ := m.screen()
	if len(scr.startMenu.entries) == 0 || scr.startMenu.entries[0].label != "Notes" {
		t.Fatalf("entries = %+v, want Notes first", scr.startMenu.entries)
	}
	if scr.startMenu.entries[0].detail == "" {
		t.Fatal("expected a relative modification date for Notes")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	st := m.session.State()
	if len(st.Windows) != 1 || st.Windows[0].ID != "notes" {
		t.Fatalf("enter should open the best match, got %+v", st.Windows)
	}
}

func TestClickOutsideClosesMenu(t *testing.T) {
	m := newTestModel(t)
	m.session.ToggleCalendar()

	scr, _ := m.screen()
	if scr.calendar == nil {
		t.Fatal("calendar should be laid out")
	}
	// Inside the calendar: stays open.
	m = leftClick(t, m, scr.calendar.X+5, scr.calendar.Y+4)
	if !m.session.State().Menus.Calendar {
		t.Fatal("click inside the calendar should keep it open")
	}
	// On the desktop: closes.
	m = leftClick(t, m, 50, 20)
	if m.session.State().Menus.Calendar {
		t.Fatal("click outside should close the calendar")
	}
}

func TestContextMenuSort(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.MouseButtonRight, 50, 10)
	st := m.session.State()
	if !st.Menus.ContextMenu.Open {
		t.Fatal("right click on the desktop should open the context menu")
	}
	if st.Menus.ContextMenu.Position.X != 500 || st.Menus.ContextMenu.Position.Y != 200 {
		t.Fatalf("context menu at %+v, want (500,200)", st.Menus.ContextMenu.Position)
	}

	scr, _ := m.screen()
	row := -1
	for i, e := range scr.context.entries {
		if e.action == menu.ActionSortPrefix+string(icons.SortType) {
			row = scr.context.Y + scr.context.offset + i
		}
	}
	if row < 0 {
		t.Fatalf("no sort-by-type entry in %+v", scr.context.entries)
	}
	m = leftClick(t, m, scr.context.X+3, row)

	st = m.session.State()
	if st.SortKey != icons.SortType {
		t.Fatalf("sort key = %q, want type", st.SortKey)
	}
	if st.Menus.ContextMenu.Open {
		t.Fatal("context menu should close after a selection")
	}
}

func TestLockScreen(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !m.session.Locked() {
		t.Fatal("ctrl+l should lock")
	}
	m = send(t, m, changedMsg{})
	if m.lockForm == nil {
		t.Fatal("locking should show the credential form")
	}
	if v := m.View(); !strings.Contains(v, "locked") {
		t.Fatalf("lock screen view missing title:\n%s", v)
	}

	// Pointer input is ignored while locked.
	m = press(t, m, tea.MouseButtonRight, 50, 10)
	if m.session.State().Menus.ContextMenu.Open {
		t.Fatal("context menu opened while locked")
	}

	m.session.Unlock("")
	m = send(t, m, changedMsg{})
	if m.lockForm != nil {
		t.Fatal("unlocking elsewhere should drop the credential form")
	}
}

func TestViewDrawsDesktop(t *testing.T) {
	m := newTestModel(t)
	m.session.ActivateIcon("notes")

	scr, st := m.screen()
	out := m.draw(scr, st).plain()
	lines := strings.Split(out, "\n")
	if len(lines) != 30 {
		t.Fatalf("expected 30 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[29], "Start") || !strings.Contains(lines[29], "12:00") {
		t.Fatalf("taskbar = %q", lines[29])
	}
	if !strings.Contains(lines[29], "Notes") {
		t.Fatalf("taskbar missing window button: %q", lines[29])
	}
	if !strings.Contains(out, windowButtons) {
		t.Fatal("window title bar missing controls")
	}
}

func TestCanvasText(t *testing.T) {
	cv := newCanvas(8, 2)
	if n := cv.text(1, 0, "abcdefghij", 5, paintBody); n != 5 {
		t.Fatalf("wrote %d columns, want 5", n)
	}
	cv.text(0, 1, "日本", 8, paintBody)

	want := " abcd…  \n日本    "
	if got := cv.plain(); got != want {
		t.Fatalf("plain = %q, want %q", got, want)
	}
}

func TestContextEntries(t *testing.T) {
	root, err := menu.BuildContextMenu(icons.SortName)
	if err != nil {
		t.Fatalf("BuildContextMenu: %v", err)
	}
	entries := contextEntries(root)
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %+v", entries)
	}
	if entries[0].label != "Sort by: Name" || !entries[0].checked {
		t.Fatalf("first entry = %+v", entries[0])
	}
	if entries[3].action != menu.ActionRefresh {
		t.Fatalf("last entry = %+v", entries[3])
	}
}
