package menu

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/geom"
)

func TestToggle_OpeningClosesOthers(t *testing.T) {
	c := NewCoordinator()
	c.OpenContextMenu(geom.Point{X: 10, Y: 20})
	c.ToggleStartMenu()

	v := c.Visibility()
	if !v.StartMenu || v.Calendar || v.ContextMenu.Open {
		t.Fatalf("expected only start menu open, got %+v", v)
	}

	c.ToggleCalendar()
	v = c.Visibility()
	if v.StartMenu || !v.Calendar || v.ContextMenu.Open {
		t.Fatalf("expected only calendar open, got %+v", v)
	}
}

func TestToggle_SecondTriggerCloses(t *testing.T) {
	c := NewCoordinator()
	c.ToggleStartMenu()
	c.ToggleStartMenu()
	if c.Visibility().AnyOpen() {
		t.Fatalf("expected everything closed, got %+v", c.Visibility())
	}
	c.ToggleCalendar()
	c.ToggleCalendar()
	if c.Visibility().AnyOpen() {
		t.Fatalf("expected everything closed, got %+v", c.Visibility())
	}
}

func TestOpenContextMenu_AlwaysShowsAtPosition(t *testing.T) {
	c := NewCoordinator()
	c.OpenContextMenu(geom.Point{X: 1, Y: 2})
	c.OpenContextMenu(geom.Point{X: 30, Y: 40})
	v := c.Visibility()
	if !v.ContextMenu.Open || v.ContextMenu.Position != (geom.Point{X: 30, Y: 40}) {
		t.Fatalf("unexpected context menu state %+v", v.ContextMenu)
	}
	c.ToggleCalendar()
	c.OpenContextMenu(geom.Point{X: 5, Y: 5})
	if c.Visibility().Calendar {
		t.Fatalf("expected calendar closed by context menu")
	}
}

func TestClickOutside_RequiresListener(t *testing.T) {
	c := NewCoordinator()
	c.ToggleStartMenu()
	nothingContains := HitTestFunc(func(Surface, geom.Point) bool { return false })

	if closed := c.ClickOutside(geom.Point{}, nothingContains); len(closed) != 0 {
		t.Fatalf("expected detached listener to ignore clicks")
	}
	if !c.Visibility().StartMenu {
		t.Fatalf("expected start menu to stay open")
	}

	c.Attach()
	closed := c.ClickOutside(geom.Point{}, nothingContains)
	if len(closed) != 1 || closed[0] != SurfaceStartMenu {
		t.Fatalf("expected start menu closed, got %v", closed)
	}
}

func TestClickOutside_InsideKeepsSurface(t *testing.T) {
	c := NewCoordinator()
	c.Attach()
	c.ToggleCalendar()
	bounds := geom.Rect{X: 100, Y: 100, Width: 50, Height: 50}
	hit := HitTestFunc(func(s Surface, p geom.Point) bool {
		return s == SurfaceCalendar && bounds.Contains(p)
	})
	c.ClickOutside(geom.Point{X: 120, Y: 120}, hit)
	if !c.Visibility().Calendar {
		t.Fatalf("expected click inside to keep calendar open")
	}
	c.ClickOutside(geom.Point{X: 10, Y: 10}, hit)
	if c.Visibility().Calendar {
		t.Fatalf("expected click outside to close calendar")
	}
}

func TestClickOutside_EvaluatesEachSurface(t *testing.T) {
	// Force an inconsistent state to check that every open surface is tested
	// independently.
	c := &Coordinator{vis: Visibility{StartMenu: true, Calendar: true}}
	c.Attach()
	closed := c.ClickOutside(geom.Point{}, HitTestFunc(func(Surface, geom.Point) bool { return false }))
	if len(closed) != 2 {
		t.Fatalf("expected both surfaces closed by one click, got %v", closed)
	}
}

func TestCloseAll(t *testing.T) {
	c := NewCoordinator()
	c.OpenContextMenu(geom.Point{X: 3, Y: 3})
	c.CloseAll()
	if c.Visibility().AnyOpen() {
		t.Fatalf("expected all closed")
	}
}

func TestSurfaceString(t *testing.T) {
	if SurfaceCalendar.String() != "calendar" || Surface(7).String() != "unknown" {
		t.Fatalf("unexpected surface names")
	}
}
