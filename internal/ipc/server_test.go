package ipc

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/store"
)

func startServer(t *testing.T, withStore bool) (*Client, *shell.Session) {
	t.Helper()

	// Unix socket paths are length limited; keep the directory short.
	dir, err := os.MkdirTemp("", "ds")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	cfg := config.DefaultConfig()
	cfg.Lock.Passphrase = "letmein"
	session := shell.New(cfg, []icons.Def{
		{ID: "about", Title: "About", ShowOnDesktop: true},
		{ID: "games", Title: "Games", ShowOnDesktop: true},
	}, nil, nil)

	var snaps *store.Store
	if withStore {
		snaps, err = store.Open(filepath.Join(dir, "snap.db"))
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { snaps.Close() })
	}

	srv := NewServerAt(filepath.Join(dir, "s.sock"), session, snaps, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return NewClientAt(srv.SocketPath()), session
}

func TestServer_LockedUntilUnlock(t *testing.T) {
	client, _ := startServer(t, false)

	if err := client.Open("about"); err != nil {
		t.Fatalf("open: %v", err)
	}
	st, err := client.GetState()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !st.Locked || len(st.Windows) != 0 {
		t.Fatalf("expected locked session to ignore open, got %+v", st)
	}

	if err := client.Unlock("wrong"); err == nil || !strings.Contains(err.Error(), "invalid credential") {
		t.Fatalf("expected invalid credential error, got %v", err)
	}
	if err := client.Unlock("letmein"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := client.Open("about"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := client.Open("games"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := client.TaskbarClick("games"); err != nil {
		t.Fatalf("taskbar: %v", err)
	}

	st, err = client.GetState()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(st.Windows) != 2 || st.Focused != "about" {
		t.Fatalf("expected games minimized and about focused, got %+v", st)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Locked || status.WindowCount != 2 || status.SessionID != st.SessionID {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestServer_ValidatesPayloads(t *testing.T) {
	client, _ := startServer(t, false)

	if err := client.SortIcons("size"); err == nil {
		t.Fatalf("expected unknown sort key error")
	}
	if err := client.ToggleMenu("tray", 0, 0); err == nil {
		t.Fatalf("expected unknown menu error")
	}
	if err := client.Close(""); err == nil {
		t.Fatalf("expected missing id error")
	}
	if err := client.SaveSnapshot("x"); err == nil || !strings.Contains(err.Error(), "not available") {
		t.Fatalf("expected missing store error, got %v", err)
	}
}

func TestServer_MenusAndSort(t *testing.T) {
	client, session := startServer(t, false)
	if err := client.Unlock("letmein"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := client.ToggleMenu(MenuStart, 0, 0); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := client.ToggleMenu(MenuContext, 30, 40); err != nil {
		t.Fatalf("context: %v", err)
	}
	v := session.State().Menus
	if v.StartMenu || !v.ContextMenu.Open || v.ContextMenu.Position.X != 30 {
		t.Fatalf("unexpected menus %+v", v)
	}
	if err := client.SortIcons("name"); err != nil {
		t.Fatalf("sort: %v", err)
	}
	if err := client.SortIcons("name"); err != nil {
		t.Fatalf("sort: %v", err)
	}
	st := session.State()
	if st.Direction != icons.Descending || st.Icons[0].ID != "games" {
		t.Fatalf("expected descending name sort, got %s %v", st.Direction, st.Icons)
	}
}

func TestServer_Snapshots(t *testing.T) {
	client, _ := startServer(t, true)
	if err := client.Unlock("letmein"); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := client.Open("about"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := client.SaveSnapshot("one"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := client.Close("about"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := client.LoadSnapshot("one"); err != nil {
		t.Fatalf("load: %v", err)
	}
	st, err := client.GetState()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(st.Windows) != 1 || st.Windows[0].ID != "about" {
		t.Fatalf("expected about restored, got %+v", st.Windows)
	}

	list, err := client.ListSnapshots()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "one" || list[0].Windows != 1 {
		t.Fatalf("unexpected list %+v", list)
	}
	if err := client.LoadSnapshot("missing"); err == nil || !strings.Contains(err.Error(), "Unknown snapshot") {
		t.Fatalf("expected unknown snapshot error, got %v", err)
	}
	if err := client.DeleteSnapshot("one"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestServer_UnknownCommandAndBadJSON(t *testing.T) {
	client, _ := startServer(t, false)

	if _, err := client.sendRequest(&Request{Command: "NOPE"}); err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	conn, err := net.Dial("unix", client.socketPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte("{not json\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(line, `"status":"ERROR"`) {
		t.Fatalf("expected error response, got %q", line)
	}
}
