package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type paint int

const (
	paintDesktop paint = iota
	paintIcon
	paintIconLabel
	paintBorder
	paintBorderFocused
	paintTitle
	paintTitleFocused
	paintBody
	paintTaskbar
	paintButton
	paintButtonFocused
	paintButtonMinimized
	paintMenu
	paintMenuChecked
	paintMenuDim
	paintPreview
)

var paints = map[paint]lipgloss.Style{
	paintDesktop:         lipgloss.NewStyle().Background(lipgloss.Color("24")),
	paintIcon:            lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("228")).Bold(true),
	paintIconLabel:       lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("15")),
	paintBorder:          lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("245")),
	paintBorderFocused:   lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("75")),
	paintTitle:           lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("250")),
	paintTitleFocused:    lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	paintBody:            lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("252")),
	paintTaskbar:         lipgloss.NewStyle().Background(lipgloss.Color("234")).Foreground(lipgloss.Color("250")),
	paintButton:          lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(lipgloss.Color("252")),
	paintButtonFocused:   lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15")).Bold(true),
	paintButtonMinimized: lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("243")),
	paintMenu:            lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("15")),
	paintMenuChecked:     lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("114")).Bold(true),
	paintMenuDim:         lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("244")),
	paintPreview:         lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
}

type cell struct {
	r rune // 0 marks the second column of a wide rune
	p paint
}

// canvas is a fixed grid of styled terminal cells painted back to front.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	c.fill(box{W: w, H: h}, ' ', paintDesktop)
	return c
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, p: p}
}

func (c *canvas) fill(b box, r rune, p paint) {
	for y := b.Y; y < b.Y+b.H; y++ {
		for x := b.X; x < b.X+b.W; x++ {
			c.set(x, y, r, p)
		}
	}
}

// text writes s starting at x, clipped to limit columns. It returns the number
// of columns written.
func (c *canvas) text(x, y int, s string, limit int, p paint) int {
	if limit <= 0 {
		return 0
	}
	s = runewidth.Truncate(s, limit, "…")
	col := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		c.set(x+col, y, r, p)
		if rw == 2 {
			c.set(x+col+1, y, 0, p)
		}
		col += rw
	}
	return col
}

// frame draws a single-line border around b.
func (c *canvas) frame(b box, p paint) {
	if b.W < 2 || b.H < 2 {
		return
	}
	right, bottom := b.X+b.W-1, b.Y+b.H-1
	for x := b.X + 1; x < right; x++ {
		c.set(x, b.Y, '─', p)
		c.set(x, bottom, '─', p)
	}
	for y := b.Y + 1; y < bottom; y++ {
		c.set(b.X, y, '│', p)
		c.set(right, y, '│', p)
	}
	c.set(b.X, b.Y, '┌', p)
	c.set(right, b.Y, '┐', p)
	c.set(b.X, bottom, '└', p)
	c.set(right, bottom, '┘', p)
}

// outline draws a drag preview without touching what lies underneath.
func (c *canvas) outline(b box) {
	if b.W < 2 || b.H < 2 {
		return
	}
	right, bottom := b.X+b.W-1, b.Y+b.H-1
	for x := b.X; x <= right; x++ {
		c.set(x, b.Y, '┄', paintPreview)
		c.set(x, bottom, '┄', paintPreview)
	}
	for y := b.Y + 1; y < bottom; y++ {
		c.set(b.X, y, '┆', paintPreview)
		c.set(right, y, '┆', paintPreview)
	}
}

// render joins the grid into lines, styling runs of equal paint together.
func (c *canvas) render() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := c.cells[y*c.w].p
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.p != cur {
				out.WriteString(paints[cur].Render(run.String()))
				run.Reset()
				cur = cl.p
			}
			if cl.r != 0 {
				run.WriteRune(cl.r)
			}
		}
		out.WriteString(paints[cur].Render(run.String()))
		run.Reset()
	}
	return out.String()
}

// plain returns the grid text without styling.
func (c *canvas) plain() string {
	var out strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		for x := 0; x < c.w; x++ {
			if r := c.cells[y*c.w+x].r; r != 0 {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}
