package windows

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
)

func newTestRegistry() *Registry {
	return NewRegistry(DefaultConfig(), geom.Size{Width: 1280, Height: 800})
}

func def(id string) icons.Def {
	return icons.Def{ID: id, Title: id}
}

type fixedSizer struct{ size geom.Size }

func (f fixedSizer) PreferredSize() geom.Size { return f.size }

func TestOpen_DistinctIDsStrictlyIncreasingZ(t *testing.T) {
	r := newTestRegistry()
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		r.Open(def(id), nil)
	}
	if r.Len() != len(ids) {
		t.Fatalf("expected %d windows, got %d", len(ids), r.Len())
	}
	prev := 0
	seen := map[int]bool{}
	for _, id := range ids {
		w, _ := r.Get(id)
		if w.ZIndex <= prev {
			t.Fatalf("expected z of %s (%d) to exceed %d", id, w.ZIndex, prev)
		}
		if seen[w.ZIndex] {
			t.Fatalf("duplicate z-index %d", w.ZIndex)
		}
		seen[w.ZIndex] = true
		prev = w.ZIndex
	}
}

func TestOpen_ExistingIDRestoresAndFocuses(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("about"), nil)
	r.Open(def("games"), nil)
	r.Minimize("about")
	r.Open(def("about"), nil)

	if r.Len() != 2 {
		t.Fatalf("expected 2 windows, got %d", r.Len())
	}
	about, _ := r.Get("about")
	games, _ := r.Get("games")
	if about.Minimized {
		t.Fatalf("expected about to be restored")
	}
	if about.ZIndex <= games.ZIndex {
		t.Fatalf("expected about (%d) above games (%d)", about.ZIndex, games.ZIndex)
	}
	if focused, _ := r.Focused(); focused != "about" {
		t.Fatalf("expected about focused, got %q", focused)
	}
}

func TestOpen_PlacementCascade(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Open(def("b"), nil)

	a, _ := r.Get("a")
	b, _ := r.Get("b")
	// centre: (1280-640)/2=320, (800-480)/2=160
	if a.Position != (geom.Point{X: 320, Y: 160}) {
		t.Fatalf("unexpected first position %+v", a.Position)
	}
	if b.Position != (geom.Point{X: 350, Y: 190}) {
		t.Fatalf("unexpected cascaded position %+v", b.Position)
	}
	if a.Size != (geom.Size{Width: 640, Height: 480}) {
		t.Fatalf("expected default size, got %+v", a.Size)
	}
}

func TestOpen_CascadeWrapsAtCycle(t *testing.T) {
	r := newTestRegistry()
	for i := 0; i < 10; i++ {
		r.Open(def(string(rune('a'+i))), nil)
	}
	r.Open(def("z"), nil)
	first, _ := r.Get("a")
	wrapped, _ := r.Get("z")
	if wrapped.Position != first.Position {
		t.Fatalf("expected 11th window to reuse offset 0: %+v vs %+v", wrapped.Position, first.Position)
	}
}

func TestOpen_NonResizableAutoFits(t *testing.T) {
	r := newTestRegistry()
	no := false
	d := icons.Def{ID: "calc", Resizable: &no}

	r.Open(d, fixedSizer{geom.Size{Width: 300, Height: 400}})
	w, _ := r.Get("calc")
	if w.Size != (geom.Size{Width: 300, Height: 400}) {
		t.Fatalf("expected preferred size, got %+v", w.Size)
	}
	if w.Resizable {
		t.Fatalf("expected window to be non-resizable")
	}

	d.ID = "other"
	r.Open(d, nil)
	w, _ = r.Get("other")
	if w.Size != DefaultConfig().AutoFitSize {
		t.Fatalf("expected autofit fallback, got %+v", w.Size)
	}
}

func TestTaskbarClick(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Open(def("b"), nil)

	// b is focused -> minimize.
	r.TaskbarClick("b")
	if b, _ := r.Get("b"); !b.Minimized {
		t.Fatalf("expected focused window to minimize")
	}

	// b is minimized -> restore and focus.
	r.TaskbarClick("b")
	if b, _ := r.Get("b"); b.Minimized {
		t.Fatalf("expected minimized window to restore")
	}
	if f, _ := r.Focused(); f != "b" {
		t.Fatalf("expected b focused, got %q", f)
	}

	// a is visible but not focused -> focus without minimizing.
	r.TaskbarClick("a")
	a, _ := r.Get("a")
	if a.Minimized {
		t.Fatalf("expected a to stay visible")
	}
	if f, _ := r.Focused(); f != "a" {
		t.Fatalf("expected a focused, got %q", f)
	}
}

func TestFocused_IgnoresMinimized(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Open(def("b"), nil)
	r.Minimize("b")
	if f, _ := r.Focused(); f != "a" {
		t.Fatalf("expected a focused while b minimized, got %q", f)
	}
	b, _ := r.Get("b")
	a, _ := r.Get("a")
	if b.ZIndex <= a.ZIndex {
		t.Fatalf("minimize must not change z-index")
	}
	r.Minimize("a")
	if _, ok := r.Focused(); ok {
		t.Fatalf("expected no focused window")
	}
}

func TestBringToFront_AlwaysIncrements(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	before, _ := r.Get("a")
	r.BringToFront("a")
	after, _ := r.Get("a")
	if after.ZIndex != before.ZIndex+1 {
		t.Fatalf("expected z %d, got %d", before.ZIndex+1, after.ZIndex)
	}
}

func TestToggleMaximize_AlsoFocuses(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Open(def("b"), nil)
	r.ToggleMaximize("a")
	a, _ := r.Get("a")
	if !a.Maximized {
		t.Fatalf("expected maximized")
	}
	if f, _ := r.Focused(); f != "a" {
		t.Fatalf("expected a focused after maximize, got %q", f)
	}
	r.ToggleMaximize("a")
	if a, _ := r.Get("a"); a.Maximized {
		t.Fatalf("expected second toggle to restore")
	}
}

func TestGeometryIgnoredWhileMaximized(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.ToggleMaximize("a")
	before, _ := r.Get("a")

	r.OnDrag("a", geom.Point{X: 5, Y: 5})
	r.OnResize("a", geom.Size{Width: 900, Height: 900}, geom.Point{X: 1, Y: 1})
	after, _ := r.Get("a")
	if after.Position != before.Position || after.Size != before.Size {
		t.Fatalf("expected geometry unchanged while maximized")
	}

	work := geom.Rect{Width: 1280, Height: 760}
	if rect, _ := r.EffectiveRect("a", work); rect != work {
		t.Fatalf("expected maximized effective rect to be the work area, got %+v", rect)
	}
}

func TestOnResize_ClampsToMinimum(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.OnResize("a", geom.Size{Width: 10, Height: -5}, geom.Point{X: 40, Y: -30})
	w, _ := r.Get("a")
	if w.Size != DefaultConfig().MinSize {
		t.Fatalf("expected minimum size, got %+v", w.Size)
	}
	if w.Position != (geom.Point{X: 40, Y: 0}) {
		t.Fatalf("expected y clamped to 0, got %+v", w.Position)
	}
}

func TestOnDrag_KeepsTitleBarOnScreen(t *testing.T) {
	tests := []struct {
		name string
		pos  geom.Point
		want geom.Point
	}{
		{name: "inside", pos: geom.Point{X: 100, Y: 50}, want: geom.Point{X: 100, Y: 50}},
		{name: "far left", pos: geom.Point{X: -5000, Y: 50}, want: geom.Point{X: 40 - 640, Y: 50}},
		{name: "far right", pos: geom.Point{X: 5000, Y: 50}, want: geom.Point{X: 1280 - 40, Y: 50}},
		{name: "above", pos: geom.Point{X: 100, Y: -200}, want: geom.Point{X: 100, Y: 0}},
		{name: "below", pos: geom.Point{X: 100, Y: 5000}, want: geom.Point{X: 100, Y: 800 - 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			r.Open(def("a"), nil)
			r.OnDrag("a", tt.pos)
			w, _ := r.Get("a")
			if w.Position != tt.want {
				t.Fatalf("OnDrag(%+v) = %+v, want %+v", tt.pos, w.Position, tt.want)
			}
		})
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Close("x")
	r.Minimize("x")
	r.ToggleMaximize("x")
	r.BringToFront("x")
	r.TaskbarClick("x")
	r.OnDrag("x", geom.Point{})
	r.OnResize("x", geom.Size{}, geom.Point{})
	if r.Len() != 1 {
		t.Fatalf("expected registry untouched")
	}
}

func TestClose_IsPermanent(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Minimize("a")
	r.Close("a")
	if _, ok := r.Get("a"); ok {
		t.Fatalf("expected window removed")
	}
	r.Open(def("a"), nil)
	a, _ := r.Get("a")
	if a.Minimized {
		t.Fatalf("expected a fresh window after close")
	}
}

func TestMinimizeAll(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Open(def("b"), nil)
	r.MinimizeAll()
	for _, w := range r.List() {
		if !w.Minimized {
			t.Fatalf("expected %s minimized", w.ID)
		}
	}
	if r.Len() != 2 {
		t.Fatalf("expected window count unchanged")
	}
}

func TestTopmostAt(t *testing.T) {
	r := newTestRegistry()
	r.Open(def("a"), nil)
	r.Open(def("b"), nil)
	work := geom.Rect{Width: 1280, Height: 760}

	// Both windows overlap at 400,300; b is on top.
	if id, _ := r.TopmostAt(geom.Point{X: 400, Y: 300}, work); id != "b" {
		t.Fatalf("expected b on top, got %q", id)
	}
	r.Minimize("b")
	if id, _ := r.TopmostAt(geom.Point{X: 400, Y: 300}, work); id != "a" {
		t.Fatalf("expected a once b is minimized, got %q", id)
	}
	if _, ok := r.TopmostAt(geom.Point{X: 5, Y: 5}, work); ok {
		t.Fatalf("expected no window at the corner")
	}
}

func TestRestore_RenumbersZ(t *testing.T) {
	r := newTestRegistry()
	r.Restore([]AppWindow{
		{ID: "x", ZIndex: 40, Size: geom.Size{Width: 300, Height: 300}},
		{ID: "y", ZIndex: 7, Size: geom.Size{Width: 10, Height: 10}},
	})
	x, _ := r.Get("x")
	y, _ := r.Get("y")
	if y.ZIndex != 1 || x.ZIndex != 2 {
		t.Fatalf("expected renumbered z 1,2 got y=%d x=%d", y.ZIndex, x.ZIndex)
	}
	if y.Size != DefaultConfig().MinSize {
		t.Fatalf("expected restored size clamped, got %+v", y.Size)
	}
}
