package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ViewportConfig is the simulated screen size in pixels.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// IconsConfig controls the desktop icon grid.
type IconsConfig struct {
	CellSize int `yaml:"cell_size"`
	OriginX  int `yaml:"origin_x"` // desktop origin used for drop snapping
	OriginY  int `yaml:"origin_y"`
}

// WindowsConfig controls window placement and sizing.
type WindowsConfig struct {
	DefaultWidth  int `yaml:"default_width"`
	DefaultHeight int `yaml:"default_height"`
	AutoFitWidth  int `yaml:"autofit_width"` // used for non-resizable apps without a preferred size
	AutoFitHeight int `yaml:"autofit_height"`
	CascadeStep   int `yaml:"cascade_step"`
	CascadeCycle  int `yaml:"cascade_cycle"`
	MinWidth      int `yaml:"min_width"`
	MinHeight     int `yaml:"min_height"`
}

type DragConfig struct {
	Threshold int `yaml:"threshold"`
}

type LockConfig struct {
	// Passphrase is either plain text or "sha256:<hex>". Empty accepts any
	// credential.
	Passphrase string `yaml:"passphrase"`
}

type CalendarConfig struct {
	NavigationMS int `yaml:"navigation_ms"`
}

// TUIConfig maps terminal cells to viewport pixels.
type TUIConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// Config holds the application configuration.
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	Icons    IconsConfig    `yaml:"icons"`
	Windows  WindowsConfig  `yaml:"windows"`
	Drag     DragConfig     `yaml:"drag"`
	Lock     LockConfig     `yaml:"lock"`
	Calendar CalendarConfig `yaml:"calendar"`
	Catalog  string         `yaml:"catalog"` // empty = embedded default
	Store    string         `yaml:"store"`   // empty = DefaultStorePath
	LogLevel string         `yaml:"log_level"`
	TUI      TUIConfig      `yaml:"tui"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{Width: 1280, Height: 800},
		Icons:    IconsConfig{CellSize: 90},
		Windows: WindowsConfig{
			DefaultWidth:  640,
			DefaultHeight: 480,
			AutoFitWidth:  420,
			AutoFitHeight: 320,
			CascadeStep:   30,
			CascadeCycle:  10,
			MinWidth:      200,
			MinHeight:     120,
		},
		Drag:     DragConfig{Threshold: 5},
		Calendar: CalendarConfig{NavigationMS: 400},
		LogLevel: "info",
		TUI:      TUIConfig{CellWidth: 8, CellHeight: 16},
	}
}

func (c *Config) Validate() error {
	positive := []struct {
		path  string
		value int
	}{
		{"viewport.width", c.Viewport.Width},
		{"viewport.height", c.Viewport.Height},
		{"icons.cell_size", c.Icons.CellSize},
		{"windows.default_width", c.Windows.DefaultWidth},
		{"windows.default_height", c.Windows.DefaultHeight},
		{"windows.autofit_width", c.Windows.AutoFitWidth},
		{"windows.autofit_height", c.Windows.AutoFitHeight},
		{"windows.cascade_cycle", c.Windows.CascadeCycle},
		{"windows.min_width", c.Windows.MinWidth},
		{"windows.min_height", c.Windows.MinHeight},
		{"calendar.navigation_ms", c.Calendar.NavigationMS},
		{"tui.cell_width", c.TUI.CellWidth},
		{"tui.cell_height", c.TUI.CellHeight},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Path: p.path, Err: fmt.Errorf("must be > 0")}
		}
	}
	if c.Icons.OriginX < 0 || c.Icons.OriginY < 0 {
		return &ValidationError{Path: "icons", Err: fmt.Errorf("origin values must be >= 0")}
	}
	if c.Windows.CascadeStep < 0 {
		return &ValidationError{Path: "windows.cascade_step", Err: fmt.Errorf("cascade_step must be >= 0")}
	}
	if c.Drag.Threshold < 0 {
		return &ValidationError{Path: "drag.threshold", Err: fmt.Errorf("threshold must be >= 0")}
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}

// SlogLevel converts log_level for slog handlers.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// NavigationWindow is how long a calendar transition blocks the next one.
func (c *Config) NavigationWindow() time.Duration {
	return time.Duration(c.Calendar.NavigationMS) * time.Millisecond
}

// StorePath returns the snapshot database path, falling back to
// DefaultStorePath.
func (c *Config) StorePath() (string, error) {
	if strings.TrimSpace(c.Store) != "" {
		return expandHome(c.Store)
	}
	return DefaultStorePath()
}

// CatalogPath returns the catalog path with ~ expanded, or "" for the
// embedded catalog.
func (c *Config) CatalogPath() (string, error) {
	if strings.TrimSpace(c.Catalog) == "" {
		return "", nil
	}
	return expandHome(c.Catalog)
}

// DefaultStorePath is ~/.local/share/deskshell/snapshots.db.
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "deskshell", "snapshots.db"), nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
