package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/drag"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/windows"
)

// doubleClick is the longest gap between two clicks on the same icon that
// still opens it.
const doubleClick = 400 * time.Millisecond

// changedMsg is sent whenever the session reports a state transition.
type changedMsg struct{}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type click struct {
	id string
	at time.Time
}

// model is the root bubbletea model: a terminal rendering of one session.
type model struct {
	session *shell.Session
	cfg     *config.Config
	keys    keyMap
	now     func() time.Time

	width  int
	height int
	clock  time.Time

	search  textinput.Model
	pressed string // icon under the last left press
	last    click

	lockForm *huh.Form
	lockErr  string
}

func newModel(session *shell.Session, cfg *config.Config) model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	search := textinput.New()
	search.Placeholder = "Search apps"
	search.Prompt = "⌕ "
	search.CharLimit = 64

	m := model{
		session: session,
		cfg:     cfg,
		keys:    defaultKeyMap(),
		now:     time.Now,
		search:  search,
	}
	m.clock = m.now()
	if session.Locked() {
		m.lockForm = newLockForm()
	}
	return m
}

func newLockForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("credential").
				Title("Passphrase").
				Description("Enter to unlock").
				EchoMode(huh.EchoModePassword),
		),
	).WithWidth(40).WithShowHelp(false).WithShowErrors(true)
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.lockForm != nil {
		cmds = append(cmds, m.lockForm.Init())
	}
	return tea.Batch(cmds...)
}

func (m model) cellSize() (int, int) {
	return m.cfg.TUI.CellWidth, m.cfg.TUI.CellHeight
}

func (m model) pixel(col, row int) geom.Point {
	cw, ch := m.cellSize()
	return pixel(col, row, cw, ch)
}

// screen lays out the current session state on the terminal.
func (m model) screen() (screen, shell.State) {
	st := m.session.State()
	cw, ch := m.cellSize()

	var start, ctx []entry
	if st.Menus.StartMenu {
		root, err := m.session.StartMenu()
		if err == nil {
			start = startEntries(root, st, m.search.Value(), m.clock)
		}
	}
	if st.Menus.ContextMenu.Open {
		root, err := m.session.ContextMenu()
		if err == nil {
			ctx = contextEntries(root)
		}
	}
	return newScreen(st, m.width, m.height, cw, ch, start, ctx), st
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cw, ch := m.cellSize()
		m.session.SetViewport(geom.Size{Width: msg.Width * cw, Height: msg.Height * ch})
		return m, nil

	case tickMsg:
		m.clock = time.Time(msg)
		return m, tick()

	case changedMsg:
		return m.syncLock()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.session.Locked() {
			return m.updateLock(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.session.Locked() {
			return m, nil
		}
		return m.handleMouse(msg)
	}

	if m.lockForm != nil {
		return m.updateLock(msg)
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// syncLock creates or drops the credential form after the session locked or
// unlocked from elsewhere, such as the IPC socket.
func (m model) syncLock() (tea.Model, tea.Cmd) {
	locked := m.session.Locked()
	switch {
	case locked && m.lockForm == nil:
		m.lockForm = newLockForm()
		m.lockErr = ""
		m.search.Reset()
		return m, m.lockForm.Init()
	case !locked && m.lockForm != nil:
		m.lockForm = nil
		m.lockErr = ""
	}
	if locked {
		return m, nil
	}
	st := m.session.State()
	if !st.Menus.StartMenu && m.search.Focused() {
		m.search.Reset()
		m.search.Blur()
	}
	return m, nil
}

func (m model) updateLock(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.lockForm == nil {
		m.lockForm = newLockForm()
		return m, m.lockForm.Init()
	}
	form, cmd := m.lockForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.lockForm = f
	}

	switch m.lockForm.State {
	case huh.StateCompleted:
		credential := m.lockForm.GetString("credential")
		if m.session.Unlock(credential) {
			m.lockForm = nil
			m.lockErr = ""
			return m, nil
		}
		m.lockErr = "Wrong passphrase"
		m.lockForm = newLockForm()
		return m, m.lockForm.Init()
	case huh.StateAborted:
		m.lockForm = newLockForm()
		return m, m.lockForm.Init()
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.session.State()

	switch {
	case key.Matches(msg, m.keys.Lock):
		m.session.Lock()
		return m, nil
	case key.Matches(msg, m.keys.StartMenu):
		return m.toggleStartMenu()
	case key.Matches(msg, m.keys.Calendar):
		m.session.ToggleCalendar()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		m.session.Relayout()
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		if m.session.DragPhase() != drag.PhaseIdle {
			m.session.CancelDrag()
			return m, nil
		}
		m.session.CloseMenus()
		m.search.Reset()
		m.search.Blur()
		return m, nil
	}

	if st.Menus.StartMenu {
		if key.Matches(msg, m.keys.Open) {
			scr, _ := m.screen()
			if scr.startMenu != nil && len(scr.startMenu.entries) > 0 {
				m.session.Select(scr.startMenu.entries[0].action)
			}
			m.search.Reset()
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	if st.Menus.Calendar {
		switch {
		case key.Matches(msg, m.keys.PrevMonth):
			m.session.CalendarPrev()
		case key.Matches(msg, m.keys.NextMonth):
			m.session.CalendarNext()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.SortName):
		m.session.SortIcons(icons.SortName)
	case key.Matches(msg, m.keys.SortType):
		m.session.SortIcons(icons.SortType)
	case key.Matches(msg, m.keys.SortDate):
		m.session.SortIcons(icons.SortDateModified)
	}
	return m, nil
}

func (m model) toggleStartMenu() (tea.Model, tea.Cmd) {
	m.session.ToggleStartMenu()
	m.search.Reset()
	if m.session.State().Menus.StartMenu {
		return m, m.search.Focus()
	}
	m.search.Blur()
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := m.pixel(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.session.DragPhase() != drag.PhaseIdle {
			m.session.PointerMove(p)
		}
		return m, nil

	case tea.MouseActionRelease:
		return m.release(p)

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.leftPress(msg.X, msg.Y, p)
		case tea.MouseButtonRight:
			return m.rightPress(msg.X, msg.Y, p)
		}
	}
	return m, nil
}

func (m model) leftPress(col, row int, p geom.Point) (tea.Model, tea.Cmd) {
	scr, _ := m.screen()

	if action, ok := scr.startMenu.actionAt(col, row); ok {
		m.session.Select(action)
		m.search.Reset()
		m.search.Blur()
		return m, nil
	}
	if action, ok := scr.context.actionAt(col, row); ok {
		m.session.Select(action)
		return m, nil
	}
	if scr.calendar != nil {
		switch {
		case scr.prev.contains(col, row):
			m.session.CalendarPrev()
			return m, nil
		case scr.next.contains(col, row):
			m.session.CalendarNext()
			return m, nil
		}
	}

	m.session.ClickOutside(p, scr)

	switch {
	case scr.start.contains(col, row):
		return m.toggleStartMenu()
	case scr.clock.contains(col, row):
		m.session.ToggleCalendar()
		return m, nil
	case scr.onTaskbar(row):
		if b, ok := scr.buttonAt(col, row); ok {
			m.session.TaskbarClick(b.id)
		}
		return m, nil
	}

	if w, ok := scr.windowAt(col, row); ok {
		switch w.control(col, row) {
		case controlClose:
			m.session.Close(w.id)
		case controlMaximize:
			m.session.ToggleMaximize(w.id)
		case controlMinimize:
			m.session.Minimize(w.id)
		case controlResize:
			m.session.BeginWindowResize(w.id, windows.EdgeBottomRight, p)
		case controlTitle:
			if w.maximized {
				m.session.BringToFront(w.id)
			} else {
				m.session.BeginWindowDrag(w.id, p)
			}
		default:
			m.session.BringToFront(w.id)
		}
		return m, nil
	}

	if ic, ok := scr.iconAt(col, row); ok {
		m.pressed = ic.id
		m.session.BeginIconDrag(ic.id, p)
	}
	return m, nil
}

func (m model) rightPress(col, row int, p geom.Point) (tea.Model, tea.Cmd) {
	scr, _ := m.screen()
	m.session.ClickOutside(p, scr)
	if scr.onTaskbar(row) {
		return m, nil
	}
	if _, ok := scr.windowAt(col, row); ok {
		return m, nil
	}
	m.session.OpenContextMenu(p)
	return m, nil
}

// release ends the gesture. A press on an icon that never became a drag is a
// click; two clicks on the same icon within doubleClick open it. A drag
// forgets any earlier click.
func (m model) release(p geom.Point) (tea.Model, tea.Cmd) {
	wasClick := m.session.PointerUp(p)

	id := m.pressed
	m.pressed = ""
	if !wasClick {
		m.last = click{}
		return m, nil
	}
	if id == "" {
		return m, nil
	}
	now := m.now()
	if m.last.id == id && now.Sub(m.last.at) <= doubleClick {
		m.last = click{}
		m.session.ActivateIcon(id)
		return m, nil
	}
	m.last = click{id: id, at: now}
	return m, nil
}
