package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/windows"
)

var (
	lockTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	lockClockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75")).
			MarginBottom(1)

	lockErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	lockPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	overlayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("19")).
			Padding(1, 4)
)

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.session.Locked() {
		return m.lockView()
	}

	scr, st := m.screen()
	if st.Overlay != "" {
		return m.overlayView(st.Overlay)
	}
	return m.draw(scr, st).render()
}

// draw paints the desktop back to front: icons, windows in z order, the
// taskbar, then whichever menu is open.
func (m model) draw(scr screen, st shell.State) *canvas {
	cv := newCanvas(scr.cols, scr.rows)

	for _, ic := range scr.icons {
		drawIcon(cv, ic)
	}
	for _, w := range scr.windows {
		m.drawWindow(cv, w)
	}
	if st.Drag != nil {
		drawPreview(cv, scr, st, m.cfg.Windows.MinWidth, m.cfg.Windows.MinHeight)
	}

	drawTaskbar(cv, scr, m.clock.Format("15:04"))

	if scr.startMenu != nil {
		drawMenu(cv, scr.startMenu, m.search.View())
	}
	if scr.calendar != nil {
		drawCalendar(cv, *scr.calendar, st.Month, m.session.CalendarWeeks(), m.clock)
	}
	if scr.context != nil {
		drawMenu(cv, scr.context, "")
	}
	return cv
}

func drawIcon(cv *canvas, ic iconBox) {
	mid := ic.X + ic.W/2
	cv.text(mid-1, ic.Y, "["+ic.glyph+"]", 3, paintIcon)
	label := runewidth.Truncate(ic.title, ic.W, "…")
	lx := ic.X + (ic.W-runewidth.StringWidth(label))/2
	cv.text(lx, ic.Y+1, label, ic.W, paintIconLabel)
}

func (m model) drawWindow(cv *canvas, w winBox) {
	f := w.frame
	border, title := paintBorder, paintTitle
	if w.focused {
		border, title = paintBorderFocused, paintTitleFocused
	}

	cv.fill(box{X: f.X, Y: f.Y + 1, W: f.W, H: f.H - 1}, ' ', paintBody)
	cv.frame(box{X: f.X, Y: f.Y, W: f.W, H: f.H}, border)
	cv.fill(box{X: f.X, Y: f.Y, W: f.W, H: 1}, ' ', title)

	buttons := runewidth.StringWidth(windowButtons)
	cv.text(f.X+1, f.Y, w.title, f.W-buttons-3, title)
	cv.text(f.X+f.W-1-buttons, f.Y, windowButtons, buttons, title)

	innerW, innerH := f.W-2, f.H-2
	if innerW > 0 && innerH > 0 {
		body := m.session.WindowView(w.id, innerW, innerH)
		for i, line := range strings.Split(body, "\n") {
			if i >= innerH {
				break
			}
			cv.text(f.X+1, f.Y+1+i, line, innerW, paintBody)
		}
	}
	if w.resizable && !w.maximized {
		cv.set(f.X+f.W-1, f.Y+f.H-1, '◢', border)
	}
}

// drawPreview outlines where an in-flight drag would land.
func drawPreview(cv *canvas, scr screen, st shell.State, minW, minH int) {
	d := st.Drag
	switch d.Kind {
	case shell.DragIcon.String():
		for _, ic := range scr.icons {
			if ic.id == d.ID {
				cv.outline(box{X: ic.X + d.Offset.X/scr.cw, Y: ic.Y + d.Offset.Y/scr.ch, W: ic.W, H: ic.H})
			}
		}
	case shell.DragWindow.String(), shell.DragResize.String():
		for _, w := range st.Windows {
			if w.ID != d.ID {
				continue
			}
			r := w.Frame.Translate(d.Offset)
			if d.Kind == shell.DragResize.String() {
				r = windows.ResizeRect(w.Frame, windows.EdgeBottomRight, d.Offset, geom.Size{Width: minW, Height: minH})
			}
			cv.outline(scr.rectBox(r))
		}
	}
}

func drawTaskbar(cv *canvas, scr screen, clock string) {
	cv.fill(box{X: 0, Y: scr.taskTop, W: scr.cols, H: scr.rows - scr.taskTop}, ' ', paintTaskbar)

	start := paintButton
	if scr.startMenu != nil {
		start = paintButtonFocused
	}
	cv.text(scr.start.X, scr.start.Y, startButtonLabel, scr.start.W, start)

	for _, b := range scr.buttons {
		p := paintButton
		switch {
		case b.focused:
			p = paintButtonFocused
		case b.minimized:
			p = paintButtonMinimized
		}
		cv.fill(b.box, ' ', p)
		cv.text(b.X+1, b.Y, b.title, b.W-2, p)
	}

	p := paintTaskbar
	if scr.calendar != nil {
		p = paintButtonFocused
	}
	cv.fill(scr.clock, ' ', p)
	cv.text(scr.clock.X+1, scr.clock.Y, clock, scr.clock.W-2, p)
}

// drawMenu draws a menu frame with its entries. header, when set, takes the
// first row inside the frame.
func drawMenu(cv *canvas, mb *menuBox, header string) {
	cv.fill(mb.box, ' ', paintMenu)
	cv.frame(mb.box, paintMenuDim)
	innerW := mb.W - 2
	if header != "" {
		cv.text(mb.X+1, mb.Y+1, header, innerW, paintMenu)
	}
	for i, e := range mb.entries {
		y := mb.Y + mb.offset + i
		p := paintMenu
		mark := "  "
		if e.checked {
			p = paintMenuChecked
			mark = "✓ "
		}
		n := cv.text(mb.X+1, y, mark+e.label, innerW, p)
		if e.detail != "" {
			dw := runewidth.StringWidth(e.detail)
			if n+dw+1 < innerW {
				cv.text(mb.X+1+innerW-dw, y, e.detail, dw, paintMenuDim)
			}
		}
	}
}

func drawCalendar(cv *canvas, b box, month time.Time, weeks [][7]int, today time.Time) {
	cv.fill(b, ' ', paintMenu)
	cv.frame(b, paintMenuDim)
	innerW := b.W - 2

	title := month.Format("January 2006")
	cv.text(b.X+1, b.Y+1, " ‹ ", 3, paintMenuChecked)
	cv.text(b.X+1+(innerW-runewidth.StringWidth(title))/2, b.Y+1, title, innerW-6, paintMenu)
	cv.text(b.X+b.W-4, b.Y+1, " › ", 3, paintMenuChecked)
	cv.text(b.X+1, b.Y+2, " Su Mo Tu We Th Fr Sa", innerW, paintMenuDim)

	current := month.Year() == today.Year() && month.Month() == today.Month()
	for i, week := range weeks {
		var line strings.Builder
		for _, day := range week {
			if day == 0 {
				line.WriteString("   ")
				continue
			}
			fmt.Fprintf(&line, "%3d", day)
		}
		cv.text(b.X+1, b.Y+3+i, line.String(), innerW, paintMenu)
		if !current {
			continue
		}
		for col, day := range week {
			if day == today.Day() {
				cv.text(b.X+1+col*3, b.Y+3+i, fmt.Sprintf("%3d", day), 3, paintMenuChecked)
			}
		}
	}
}

func (m model) lockView() string {
	parts := []string{
		lockTitleStyle.Render("deskshell is locked"),
		lockClockStyle.Render(m.clock.Format("Monday, January 2 · 15:04")),
	}
	if m.lockForm != nil {
		parts = append(parts, m.lockForm.View())
	}
	if m.lockErr != "" {
		parts = append(parts, lockErrorStyle.Render(m.lockErr))
	}
	panel := lockPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	help := helpStyle.Render(m.keys.shortHelp())
	body := lipgloss.JoinVertical(lipgloss.Center, panel, help)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m model) overlayView(name string) string {
	msg := fmt.Sprintf(":(\n\n%s\n\nThe desktop ran into a problem and will recover shortly.", strings.ToUpper(name))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(msg),
		lipgloss.WithWhitespaceBackground(lipgloss.Color("19")))
}
