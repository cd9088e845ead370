package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/windows"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "snapshots.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	snap := Snapshot{
		Name: "work",
		Windows: []windows.AppWindow{
			{ID: "about", Title: "About", ZIndex: 3, Position: geom.Point{X: 10, Y: 20}, Size: geom.Size{Width: 640, Height: 480}, Resizable: true},
			{ID: "notes", Minimized: true, ZIndex: 1},
		},
		SortKey:   icons.SortName,
		Direction: icons.Descending,
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "work")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Windows) != 2 || got.Windows[0].Position.Y != 20 || !got.Windows[1].Minimized {
		t.Fatalf("unexpected windows %+v", got.Windows)
	}
	if got.SortKey != icons.SortName || got.Direction != icons.Descending {
		t.Fatalf("unexpected sort %q/%q", got.SortKey, got.Direction)
	}
	if got.SavedAt.IsZero() {
		t.Fatalf("expected SavedAt to be set")
	}
}

func TestSave_Replaces(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	if err := s.Save(ctx, Snapshot{Name: "a", Windows: []windows.AppWindow{{ID: "x"}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, Snapshot{Name: "a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Windows != 0 {
		t.Fatalf("expected one replaced snapshot, got %+v", list)
	}
}

func TestList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "new"} {
		if err := s.Save(ctx, Snapshot{Name: name, SavedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "new" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, Snapshot{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	if err := s.Save(ctx, Snapshot{Name: "gone"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Load(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
