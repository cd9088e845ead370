package mcp

// GetStateInput is the input for the get_state tool.
type GetStateInput struct{}

// LockInput is the input for the lock tool.
type LockInput struct{}

// WindowInput addresses a window (or, for open_window, a catalog icon).
type WindowInput struct {
	ID string `json:"id" jsonschema:"required,Window id; equal to the catalog icon id that opened it (see get_state)"`
}

// SortIconsInput is the input for the sort_icons tool.
type SortIconsInput struct {
	Key string `json:"key" jsonschema:"required,Sort key: name, type or dateModified. Sorting by the current key again flips the direction."`
}

// MoveIconInput is the input for the move_icon tool.
type MoveIconInput struct {
	ID string `json:"id" jsonschema:"required,Icon id"`
	X  int    `json:"x" jsonschema:"required,Pointer x in viewport pixels where the icon is dropped"`
	Y  int    `json:"y" jsonschema:"required,Pointer y in viewport pixels where the icon is dropped"`
}

// ToggleMenuInput is the input for the toggle_menu tool.
type ToggleMenuInput struct {
	Menu string `json:"menu" jsonschema:"required,One of: start, calendar, context, close"`
	X    int    `json:"x,omitempty" jsonschema:"Context menu anchor x (context only)"`
	Y    int    `json:"y,omitempty" jsonschema:"Context menu anchor y (context only)"`
}

// UnlockInput is the input for the unlock tool.
type UnlockInput struct {
	Credential string `json:"credential,omitempty" jsonschema:"Lock passphrase; may be empty when no passphrase is configured"`
}

// SnapshotInput names a snapshot.
type SnapshotInput struct {
	Name string `json:"name" jsonschema:"required,Snapshot name"`
}

// ListSnapshotsInput is the input for the list_snapshots tool.
type ListSnapshotsInput struct{}

// WindowSummary describes one open window.
type WindowSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ZIndex    int    `json:"z_index"`
	Minimized bool   `json:"minimized"`
	Maximized bool   `json:"maximized"`
	Focused   bool   `json:"focused"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// IconSummary describes one catalog icon.
type IconSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Type          string `json:"type,omitempty"`
	ShowOnDesktop bool   `json:"show_on_desktop"`
	Placed        bool   `json:"placed"`
	Col           int    `json:"col"`
	Row           int    `json:"row"`
}

// StateOutput is returned by get_state and by every tool that changes the
// desktop.
type StateOutput struct {
	SessionID   string          `json:"session_id"`
	Locked      bool            `json:"locked"`
	Focused     string          `json:"focused,omitempty"`
	SortKey     string          `json:"sort_key,omitempty"`
	Direction   string          `json:"direction,omitempty"`
	StartMenu   bool            `json:"start_menu"`
	Calendar    bool            `json:"calendar"`
	ContextMenu bool            `json:"context_menu"`
	Overlay     string          `json:"overlay,omitempty"`
	Windows     []WindowSummary `json:"windows"`
	Icons       []IconSummary   `json:"icons"`
}

// SnapshotSummary is one saved snapshot.
type SnapshotSummary struct {
	Name    string `json:"name"`
	SavedAt string `json:"saved_at"`
	Windows int    `json:"windows"`
}

// ListSnapshotsOutput is the output for the list_snapshots tool.
type ListSnapshotsOutput struct {
	Snapshots []SnapshotSummary `json:"snapshots"`
}
