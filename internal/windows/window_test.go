package windows

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/geom"
)

func TestResizeRect(t *testing.T) {
	base := geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}
	min := geom.Size{Width: 200, Height: 120}

	tests := []struct {
		name  string
		edge  Edge
		delta geom.Point
		want  geom.Rect
	}{
		{"bottom-right grows", EdgeBottomRight, geom.Point{X: 50, Y: 20}, geom.Rect{X: 100, Y: 100, Width: 450, Height: 320}},
		{"left moves origin", EdgeLeft, geom.Point{X: 30, Y: 99}, geom.Rect{X: 130, Y: 100, Width: 370, Height: 300}},
		{"top-left shrinks", EdgeTopLeft, geom.Point{X: -20, Y: 40}, geom.Rect{X: 80, Y: 140, Width: 420, Height: 260}},
		{"right clamps", EdgeRight, geom.Point{X: -390}, geom.Rect{X: 100, Y: 100, Width: 200, Height: 300}},
		{"left clamp keeps right edge", EdgeLeft, geom.Point{X: 390}, geom.Rect{X: 300, Y: 100, Width: 200, Height: 300}},
		{"top clamp keeps bottom edge", EdgeTop, geom.Point{Y: 290}, geom.Rect{X: 100, Y: 280, Width: 400, Height: 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResizeRect(base, tt.edge, tt.delta, min); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
