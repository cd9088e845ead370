package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/store"
)

// requestTimeout bounds snapshot store calls made on behalf of a client.
const requestTimeout = 5 * time.Second

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	session      *shell.Session
	snapshots    *store.Store
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a server on the default socket path. snapshots may be
// nil, in which case snapshot commands fail.
func NewServer(session *shell.Session, snapshots *store.Store, logger *slog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, session, snapshots, logger), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, session *shell.Session, snapshots *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		socketPath: socketPath,
		session:    session,
		snapshots:  snapshots,
		logger:     logger,
		startTime:  time.Now(),
	}
}

// SocketPath returns the listening path.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves one newline-terminated request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(requestTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return ok(s.session.State())
	case CommandOpen:
		return s.withWindow(req.Payload, s.session.ActivateIcon)
	case CommandClose:
		return s.withWindow(req.Payload, s.session.Close)
	case CommandMinimize:
		return s.withWindow(req.Payload, s.session.Minimize)
	case CommandToggleMaximize:
		return s.withWindow(req.Payload, s.session.ToggleMaximize)
	case CommandFocus:
		return s.withWindow(req.Payload, s.session.BringToFront)
	case CommandTaskbarClick:
		return s.withWindow(req.Payload, s.session.TaskbarClick)
	case CommandSortIcons:
		return s.handleSortIcons(req.Payload)
	case CommandMoveIcon:
		return s.handleMoveIcon(req.Payload)
	case CommandToggleMenu:
		return s.handleToggleMenu(req.Payload)
	case CommandLock:
		s.session.Lock()
		return ok(nil)
	case CommandUnlock:
		return s.handleUnlock(req.Payload)
	case CommandRelayout:
		s.session.Relayout()
		return ok(nil)
	case CommandSaveSnapshot:
		return s.handleSaveSnapshot(req.Payload)
	case CommandLoadSnapshot:
		return s.handleLoadSnapshot(req.Payload)
	case CommandListSnapshots:
		return s.handleListSnapshots()
	case CommandDeleteSnapshot:
		return s.handleDeleteSnapshot(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStatus() *Response {
	st := s.session.State()
	return ok(StatusData{
		SessionID:     st.SessionID,
		Locked:        st.Locked,
		WindowCount:   len(st.Windows),
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Snapshots:     s.snapshots != nil,
	})
}

// withWindow decodes a WindowPayload and applies op. Unknown ids are not an
// error: the session ignores them.
func (s *Server) withWindow(payload json.RawMessage, op func(id string)) *Response {
	var req WindowPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	op(req.ID)
	return ok(nil)
}

func (s *Server) handleSortIcons(payload json.RawMessage) *Response {
	var req SortPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid sort payload: %v", err))
	}
	key := icons.SortKey(req.Key)
	if !key.Valid() {
		return NewErrorResponse(fmt.Sprintf("Unknown sort key: %q (want name, type or dateModified)", req.Key))
	}
	s.session.SortIcons(key)
	return ok(nil)
}

func (s *Server) handleMoveIcon(payload json.RawMessage) *Response {
	var req MoveIconPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if req.ID == "" {
		return NewErrorResponse("id is required")
	}
	s.session.MoveIcon(req.ID, geom.Point{X: req.X, Y: req.Y})
	return ok(nil)
}

func (s *Server) handleToggleMenu(payload json.RawMessage) *Response {
	var req MenuPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid menu payload: %v", err))
	}
	switch req.Menu {
	case MenuStart:
		s.session.ToggleStartMenu()
	case MenuCalendar:
		s.session.ToggleCalendar()
	case MenuContext:
		s.session.OpenContextMenu(geom.Point{X: req.X, Y: req.Y})
	case MenuClose:
		s.session.CloseMenus()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown menu: %q", req.Menu))
	}
	return ok(nil)
}

func (s *Server) handleUnlock(payload json.RawMessage) *Response {
	var req UnlockPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid unlock payload: %v", err))
		}
	}
	if !s.session.Unlock(req.Credential) {
		return NewErrorResponse("invalid credential")
	}
	return ok(nil)
}

func (s *Server) snapshotName(payload json.RawMessage) (string, *Response) {
	if s.snapshots == nil {
		return "", NewErrorResponse("snapshot store is not available")
	}
	var req SnapshotPayload
	if err := decodePayload(payload, &req); err != nil {
		return "", NewErrorResponse(fmt.Sprintf("Invalid snapshot payload: %v", err))
	}
	if req.Name == "" {
		return "", NewErrorResponse("name is required")
	}
	return req.Name, nil
}

func (s *Server) handleSaveSnapshot(payload json.RawMessage) *Response {
	name, errResp := s.snapshotName(payload)
	if errResp != nil {
		return errResp
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := s.session.SaveSnapshot(ctx, s.snapshots, name); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save snapshot: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleLoadSnapshot(payload json.RawMessage) *Response {
	name, errResp := s.snapshotName(payload)
	if errResp != nil {
		return errResp
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := s.session.LoadSnapshot(ctx, s.snapshots, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewErrorResponse(fmt.Sprintf("Unknown snapshot: %s", name))
		}
		return NewErrorResponse(fmt.Sprintf("Failed to load snapshot: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleListSnapshots() *Response {
	if s.snapshots == nil {
		return NewErrorResponse("snapshot store is not available")
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	list, err := s.snapshots.List(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list snapshots: %v", err))
	}
	out := make([]SnapshotInfo, len(list))
	for i, sum := range list {
		out[i] = SnapshotInfo{Name: sum.Name, SavedAt: sum.SavedAt, Windows: sum.Windows}
	}
	return ok(out)
}

func (s *Server) handleDeleteSnapshot(payload json.RawMessage) *Response {
	name, errResp := s.snapshotName(payload)
	if errResp != nil {
		return errResp
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := s.snapshots.Delete(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewErrorResponse(fmt.Sprintf("Unknown snapshot: %s", name))
		}
		return NewErrorResponse(fmt.Sprintf("Failed to delete snapshot: %v", err))
	}
	return ok(nil)
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
