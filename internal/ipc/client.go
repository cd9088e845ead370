package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetState retrieves the full session state.
func (c *Client) GetState() (*shell.State, error) {
	var st shell.State
	if err := c.call(CommandGetState, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Open activates an icon: opens or focuses its window, or runs its effect.
func (c *Client) Open(id string) error {
	return c.call(CommandOpen, WindowPayload{ID: id}, nil)
}

func (c *Client) Close(id string) error {
	return c.call(CommandClose, WindowPayload{ID: id}, nil)
}

func (c *Client) Minimize(id string) error {
	return c.call(CommandMinimize, WindowPayload{ID: id}, nil)
}

func (c *Client) ToggleMaximize(id string) error {
	return c.call(CommandToggleMaximize, WindowPayload{ID: id}, nil)
}

// Focus brings a window to the front.
func (c *Client) Focus(id string) error {
	return c.call(CommandFocus, WindowPayload{ID: id}, nil)
}

func (c *Client) TaskbarClick(id string) error {
	return c.call(CommandTaskbarClick, WindowPayload{ID: id}, nil)
}

func (c *Client) SortIcons(key string) error {
	return c.call(CommandSortIcons, SortPayload{Key: key}, nil)
}

// MoveIcon drops an icon at an absolute pointer position.
func (c *Client) MoveIcon(id string, x, y int) error {
	return c.call(CommandMoveIcon, MoveIconPayload{ID: id, X: x, Y: y}, nil)
}

// ToggleMenu toggles "start" or "calendar", opens "context" at x,y, or
// closes every menu with "close".
func (c *Client) ToggleMenu(menu string, x, y int) error {
	return c.call(CommandToggleMenu, MenuPayload{Menu: menu, X: x, Y: y}, nil)
}

func (c *Client) Lock() error {
	return c.call(CommandLock, nil, nil)
}

func (c *Client) Unlock(credential string) error {
	return c.call(CommandUnlock, UnlockPayload{Credential: credential}, nil)
}

func (c *Client) Relayout() error {
	return c.call(CommandRelayout, nil, nil)
}

func (c *Client) SaveSnapshot(name string) error {
	return c.call(CommandSaveSnapshot, SnapshotPayload{Name: name}, nil)
}

func (c *Client) LoadSnapshot(name string) error {
	return c.call(CommandLoadSnapshot, SnapshotPayload{Name: name}, nil)
}

func (c *Client) DeleteSnapshot(name string) error {
	return c.call(CommandDeleteSnapshot, SnapshotPayload{Name: name}, nil)
}

func (c *Client) ListSnapshots() ([]SnapshotInfo, error) {
	var list []SnapshotInfo
	if err := c.call(CommandListSnapshots, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
