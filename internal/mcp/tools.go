package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/shell"
)

// windowTool builds a handler for the tools that take a single window id.
func (s *Server) windowTool(name string, op func(id string) error) func(context.Context, *mcpsdk.CallToolRequest, WindowInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, StateOutput, error) {
		id := strings.TrimSpace(args.ID)
		if id == "" {
			return nil, StateOutput{}, fmt.Errorf("id is required")
		}
		if err := op(id); err != nil {
			return nil, StateOutput{}, fmt.Errorf("%s %q: %w", name, id, err)
		}
		s.logger.Debug("mcp tool", "tool", name, "id", id)
		return s.currentState()
	}
}

func (s *Server) currentState() (*mcpsdk.CallToolResult, StateOutput, error) {
	st, err := s.backend.GetState()
	if err != nil {
		return nil, StateOutput{}, fmt.Errorf("get state: %w", err)
	}
	return nil, summarize(st), nil
}

func (s *Server) handleGetState(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStateInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	return s.currentState()
}

func (s *Server) handleSortIcons(_ context.Context, _ *mcpsdk.CallToolRequest, args SortIconsInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err := s.backend.SortIcons(args.Key); err != nil {
		return nil, StateOutput{}, err
	}
	return s.currentState()
}

func (s *Server) handleMoveIcon(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveIconInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if strings.TrimSpace(args.ID) == "" {
		return nil, StateOutput{}, fmt.Errorf("id is required")
	}
	if err := s.backend.MoveIcon(args.ID, args.X, args.Y); err != nil {
		return nil, StateOutput{}, err
	}
	return s.currentState()
}

func (s *Server) handleToggleMenu(_ context.Context, _ *mcpsdk.CallToolRequest, args ToggleMenuInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err := s.backend.ToggleMenu(strings.ToLower(strings.TrimSpace(args.Menu)), args.X, args.Y); err != nil {
		return nil, StateOutput{}, err
	}
	return s.currentState()
}

func (s *Server) handleLock(_ context.Context, _ *mcpsdk.CallToolRequest, _ LockInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err := s.backend.Lock(); err != nil {
		return nil, StateOutput{}, err
	}
	s.logger.Info("session locked via mcp")
	return s.currentState()
}

func (s *Server) handleUnlock(_ context.Context, _ *mcpsdk.CallToolRequest, args UnlockInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if err := s.backend.Unlock(args.Credential); err != nil {
		return nil, StateOutput{}, err
	}
	return s.currentState()
}

func (s *Server) handleSaveSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapshotInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if strings.TrimSpace(args.Name) == "" {
		return nil, StateOutput{}, fmt.Errorf("name is required")
	}
	if err := s.backend.SaveSnapshot(args.Name); err != nil {
		return nil, StateOutput{}, err
	}
	return s.currentState()
}

func (s *Server) handleLoadSnapshot(_ context.Context, _ *mcpsdk.CallToolRequest, args SnapshotInput) (*mcpsdk.CallToolResult, StateOutput, error) {
	if strings.TrimSpace(args.Name) == "" {
		return nil, StateOutput{}, fmt.Errorf("name is required")
	}
	if err := s.backend.LoadSnapshot(args.Name); err != nil {
		return nil, StateOutput{}, err
	}
	return s.currentState()
}

func (s *Server) handleListSnapshots(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListSnapshotsInput) (*mcpsdk.CallToolResult, ListSnapshotsOutput, error) {
	list, err := s.backend.ListSnapshots()
	if err != nil {
		return nil, ListSnapshotsOutput{}, err
	}
	out := ListSnapshotsOutput{Snapshots: make([]SnapshotSummary, 0, len(list))}
	for _, snap := range list {
		out.Snapshots = append(out.Snapshots, SnapshotSummary{
			Name:    snap.Name,
			SavedAt: snap.SavedAt.Format(time.RFC3339),
			Windows: snap.Windows,
		})
	}
	return nil, out, nil
}

func summarize(st *shell.State) StateOutput {
	out := StateOutput{
		SessionID:   st.SessionID,
		Locked:      st.Locked,
		Focused:     st.Focused,
		SortKey:     string(st.SortKey),
		Direction:   string(st.Direction),
		StartMenu:   st.Menus.StartMenu,
		Calendar:    st.Menus.Calendar,
		ContextMenu: st.Menus.ContextMenu.Open,
		Overlay:     st.Overlay,
		Windows:     make([]WindowSummary, 0, len(st.Windows)),
		Icons:       make([]IconSummary, 0, len(st.Icons)),
	}
	for _, w := range st.Windows {
		out.Windows = append(out.Windows, WindowSummary{
			ID:        w.ID,
			Title:     w.Title,
			ZIndex:    w.ZIndex,
			Minimized: w.Minimized,
			Maximized: w.Maximized,
			Focused:   w.Focused,
			X:         w.Frame.X,
			Y:         w.Frame.Y,
			Width:     w.Frame.Width,
			Height:    w.Frame.Height,
		})
	}
	for _, ic := range st.Icons {
		out.Icons = append(out.Icons, IconSummary{
			ID:            ic.ID,
			Title:         ic.Title,
			Type:          ic.Type,
			ShowOnDesktop: ic.ShowOnDesktop,
			Placed:        ic.Placed,
			Col:           ic.Cell.Col,
			Row:           ic.Cell.Row,
		})
	}
	return out
}
