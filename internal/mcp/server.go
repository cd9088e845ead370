package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
)

const (
	ServerName    = "deskshell"
	ServerVersion = "0.1.0"
)

// Backend is the running desktop session. ipc.Client satisfies it.
type Backend interface {
	GetState() (*shell.State, error)
	Open(id string) error
	Close(id string) error
	Minimize(id string) error
	ToggleMaximize(id string) error
	Focus(id string) error
	TaskbarClick(id string) error
	SortIcons(key string) error
	MoveIcon(id string, x, y int) error
	ToggleMenu(menu string, x, y int) error
	Lock() error
	Unlock(credential string) error
	SaveSnapshot(name string) error
	LoadSnapshot(name string) error
	ListSnapshots() ([]ipc.SnapshotInfo, error)
}

var _ Backend = (*ipc.Client)(nil)

// Server exposes the desktop session as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   Backend
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives backend.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		backend: backend,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_state",
		Description: "Return the desktop state: lock status, open windows in stacking order (last is topmost), icons with their grid cells, the active sort and which menus are open.",
	}, s.handleGetState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Activate a catalog icon. Opens its window, or focuses and restores it if already open; some icons run an effect instead of opening a window. Ignored while the session is locked.",
	}, s.windowTool("open_window", s.backend.Open))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window permanently.",
	}, s.windowTool("close_window", s.backend.Close))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window. Its stacking order is kept.",
	}, s.windowTool("minimize_window", s.backend.Minimize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_maximize",
		Description: "Maximize or restore a window. Always brings it to the front.",
	}, s.windowTool("toggle_maximize", s.backend.ToggleMaximize))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front, restoring it if minimized.",
	}, s.windowTool("focus_window", s.backend.Focus))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "taskbar_click",
		Description: "Click a window's taskbar button: restores a minimized window, minimizes the focused window, focuses any other window.",
	}, s.windowTool("taskbar_click", s.backend.TaskbarClick))

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "sort_icons",
		Description: "Sort desktop icons by name, type or dateModified and lay them out again. Repeating the active key reverses the order.",
	}, s.handleSortIcons)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_icon",
		Description: "Drop a desktop icon at a pointer position; it snaps to the nearest grid cell until the next relayout.",
	}, s.handleMoveIcon)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_menu",
		Description: "Toggle the start menu or calendar, open the desktop context menu at x,y, or close all menus. Only one menu is open at a time.",
	}, s.handleToggleMenu)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lock",
		Description: "Lock the session. Every window is minimized and every menu closed.",
	}, s.handleLock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "unlock",
		Description: "Unlock the session with the configured passphrase.",
	}, s.handleUnlock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_snapshot",
		Description: "Save the open windows and icon sort under a name, replacing any snapshot with that name.",
	}, s.handleSaveSnapshot)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "load_snapshot",
		Description: "Restore windows and icon sort from a saved snapshot. Fails while locked.",
	}, s.handleLoadSnapshot)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_snapshots",
		Description: "List saved snapshots, newest first.",
	}, s.handleListSnapshots)
}
