package icons

import (
	"strconv"
	"strings"
	"time"
)

// Def is a desktop icon supplied by the catalog. It is read-only input to layout.
type Def struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	IconPath      string `json:"icon" yaml:"icon"`
	FilePath      string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Pinned        bool   `json:"pinned" yaml:"pinned"`
	ShowOnDesktop bool   `json:"show_on_desktop" yaml:"show_on_desktop"`
	Type          string `json:"type" yaml:"type"`
	DateModified  string `json:"date_modified,omitempty" yaml:"date_modified,omitempty"`
	// Resizable is nil when the catalog does not say; only an explicit false
	// makes the window auto-fit.
	Resizable *bool `json:"resizable,omitempty" yaml:"resizable,omitempty"`
}

// IsResizable returns the effective value, defaulting to true.
func (d Def) IsResizable() bool {
	if d.Resizable == nil {
		return true
	}
	return *d.Resizable
}

// Modified returns DateModified as a unix millisecond timestamp.
func (d Def) Modified() int64 {
	return ParseDate(d.DateModified)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate converts a catalog date into unix milliseconds. Integers are taken
// as milliseconds already; empty or unparseable values are epoch 0.
func ParseDate(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
