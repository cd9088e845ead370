package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandGetState       CommandType = "GET_STATE"
	CommandOpen           CommandType = "OPEN"
	CommandClose          CommandType = "CLOSE"
	CommandMinimize       CommandType = "MINIMIZE"
	CommandToggleMaximize CommandType = "TOGGLE_MAXIMIZE"
	CommandFocus          CommandType = "FOCUS"
	CommandTaskbarClick   CommandType = "TASKBAR_CLICK"
	CommandSortIcons      CommandType = "SORT_ICONS"
	CommandMoveIcon       CommandType = "MOVE_ICON"
	CommandToggleMenu     CommandType = "TOGGLE_MENU"
	CommandLock           CommandType = "LOCK"
	CommandUnlock         CommandType = "UNLOCK"
	CommandRelayout       CommandType = "RELAYOUT"
	CommandSaveSnapshot   CommandType = "SAVE_SNAPSHOT"
	CommandLoadSnapshot   CommandType = "LOAD_SNAPSHOT"
	CommandListSnapshots  CommandType = "LIST_SNAPSHOTS"
	CommandDeleteSnapshot CommandType = "DELETE_SNAPSHOT"
)

// Menu names accepted by TOGGLE_MENU.
const (
	MenuStart    = "start"
	MenuCalendar = "calendar"
	MenuContext  = "context"
	MenuClose    = "close"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	SessionID     string `json:"session_id"`
	Locked        bool   `json:"locked"`
	WindowCount   int    `json:"window_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Snapshots     bool   `json:"snapshots"` // snapshot store available
}

// WindowPayload addresses one window (or icon) by id.
type WindowPayload struct {
	ID string `json:"id"`
}

type SortPayload struct {
	Key string `json:"key"`
}

// MoveIconPayload drops an icon at an absolute pointer position.
type MoveIconPayload struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// MenuPayload toggles a surface; X and Y anchor the context menu.
type MenuPayload struct {
	Menu string `json:"menu"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
}

type UnlockPayload struct {
	Credential string `json:"credential"`
}

type SnapshotPayload struct {
	Name string `json:"name"`
}

// SnapshotInfo is one row of LIST_SNAPSHOTS.
type SnapshotInfo struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Windows int       `json:"windows"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	return json.Unmarshal(payload, out)
}
