// Package catalog loads the icon catalog that seeds the desktop.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
)

//go:embed default.yaml
var defaultCatalog []byte

// ErrNoIcons is returned for a catalog without entries.
var ErrNoIcons = errors.New("catalog has no icons")

// Entry is one icon plus the content it opens.
type Entry struct {
	icons.Def `yaml:",inline"`

	Body   string `yaml:"body,omitempty"`
	Width  int    `yaml:"width,omitempty"` // preferred size for non-resizable apps
	Height int    `yaml:"height,omitempty"`

	// Effect names a side effect run instead of opening a window.
	Effect   string `yaml:"effect,omitempty"`
	EffectMS int    `yaml:"effect_ms,omitempty"`
}

// Catalog is the ordered list of icons.
type Catalog struct {
	Entries []Entry `yaml:"icons"`
}

// Defs returns the icon definitions in catalog order.
func (c *Catalog) Defs() []icons.Def {
	out := make([]icons.Def, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Def
	}
	return out
}

// Providers builds a content registry for every entry. Entries without a
// body or effect fall back to the placeholder view.
func (c *Catalog) Providers() *content.Registry {
	reg := content.NewRegistry(nil)
	for _, e := range c.Entries {
		switch {
		case e.Effect != "":
			reg.Register(e.ID, content.FaultProvider(e.Effect, time.Duration(e.EffectMS)*time.Millisecond))
		case e.Body != "":
			reg.Register(e.ID, content.TextProvider(strings.TrimRight(e.Body, "\n"), geom.Size{Width: e.Width, Height: e.Height}))
		}
	}
	return reg
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Entries) == 0 {
		return nil, ErrNoIcons
	}
	seen := make(map[string]struct{}, len(c.Entries))
	for i, e := range c.Entries {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("icons[%d]: id is required", i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("icons[%d]: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.Effect != "" && e.EffectMS <= 0 {
			return nil, fmt.Errorf("icons[%d]: effect_ms must be > 0", i)
		}
	}
	return &c, nil
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(ctx context.Context, path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Status is the progress of an asynchronous load.
type Status int

const (
	Loading Status = iota
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader performs the one-shot initial fetch in the background so the
// front-end can render a loading state.
type Loader struct {
	mu      sync.Mutex
	status  Status
	catalog *Catalog
	err     error
	done    chan struct{}
}

// Start begins loading path and returns immediately.
func Start(ctx context.Context, path string) *Loader {
	l := &Loader{done: make(chan struct{})}
	go func() {
		c, err := Load(ctx, path)
		l.mu.Lock()
		if err != nil {
			l.status = Failed
			l.err = err
		} else {
			l.status = Ready
			l.catalog = c
		}
		l.mu.Unlock()
		close(l.done)
	}()
	return l
}

// Done is closed once the load finishes.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Result returns the catalog or the load error. It is only meaningful after
// Done is closed.
func (l *Loader) Result() (*Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.catalog, l.err
}

// Wait blocks until the load finishes or ctx is done.
func (l *Loader) Wait(ctx context.Context) (*Catalog, error) {
	select {
	case <-l.done:
		return l.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
