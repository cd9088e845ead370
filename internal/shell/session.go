// Package shell owns one desktop session: the icon grid, the window stack,
// the overlay menus and the lock gate, plus the single drag controller that
// feeds geometry back into them.
package shell

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/deskshell/internal/calendar"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/drag"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/icons"
	"github.com/1broseidon/deskshell/internal/lock"
	"github.com/1broseidon/deskshell/internal/menu"
	"github.com/1broseidon/deskshell/internal/windows"
)

// TaskbarHeight is the strip at the bottom of the viewport that windows and
// icons never cover.
const TaskbarHeight = 40

// ErrLocked is returned by the few session methods that report errors.
var ErrLocked = errors.New("session is locked")

// Option configures a Session.
type Option func(*Session)

// WithScheduler overrides how timed effects are cleared. It applies to the
// fault overlay and the calendar navigation window.
func WithScheduler(after func(d time.Duration, f func())) Option {
	return func(s *Session) { s.after = after }
}

// WithClock overrides the current time used by the calendar.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is safe for concurrent use. Every mutating method takes the session
// lock, applies the change, then notifies OnChange subscribers.
type Session struct {
	mu     sync.Mutex
	id     string
	cfg    *config.Config
	logger *slog.Logger
	after  func(d time.Duration, f func())
	now    func() time.Time

	contents map[string]content.Resolved
	engine   *icons.Engine
	windows  *windows.Registry
	menus    *menu.Coordinator
	gate     *lock.Gate
	pager    *calendar.Pager
	layout   *layoutListener

	viewport geom.Size
	drag     *drag.Controller
	target   dragTarget
	preview  geom.Point

	overlay    string
	overlaySeq int

	subscribers []func()
}

// New builds a locked session. Content providers are resolved once here.
// A nil logger discards output.
func New(cfg *config.Config, catalog []icons.Def, providers *content.Registry, logger *slog.Logger, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if providers == nil {
		providers = content.NewRegistry(nil)
	}

	s := &Session{
		id:     uuid.NewString(),
		cfg:    cfg,
		logger: logger,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		now:      time.Now,
		contents: providers.ResolveAll(catalog),
		engine:   icons.NewEngine(catalog),
		menus:    menu.NewCoordinator(),
		viewport: geom.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.windows = windows.NewRegistry(windowsConfig(cfg), s.viewport)
	s.pager = calendar.NewPager(cfg.NavigationWindow(), calendar.WithClock(s.now), calendar.WithScheduler(s.after))
	s.layout = &layoutListener{session: s}
	s.gate = lock.NewGate(lock.Passphrase(cfg.Lock.Passphrase), s.windows, s.menus, s.menus, s.layout)
	s.drag = drag.New(drag.Options{
		Threshold: cfg.Drag.Threshold,
		Commit:    s.commitDrag,
		Transform: func(offset geom.Point) { s.preview = offset },
		Click:     s.clickDrag,
	})

	// The initial layout happens regardless of the lock so the desktop is
	// ready the moment it is revealed.
	s.relayout()
	s.logger.Info("session created", "session", s.id, "icons", len(catalog))
	return s
}

func windowsConfig(cfg *config.Config) windows.Config {
	w := cfg.Windows
	return windows.Config{
		DefaultSize:  geom.Size{Width: w.DefaultWidth, Height: w.DefaultHeight},
		AutoFitSize:  geom.Size{Width: w.AutoFitWidth, Height: w.AutoFitHeight},
		MinSize:      geom.Size{Width: w.MinWidth, Height: w.MinHeight},
		CascadeStep:  w.CascadeStep,
		CascadeCycle: w.CascadeCycle,
	}
}

// ID identifies the session in logs and snapshots.
func (s *Session) ID() string {
	return s.id
}

// OnChange registers fn to run after every state transition. fn runs
// without the session lock held and may call back into the session.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// interact runs fn under the lock unless the session is locked, in which case
// the call is dropped.
func (s *Session) interact(op string, fn func()) {
	s.mu.Lock()
	if s.gate.Locked() {
		s.mu.Unlock()
		s.logger.Debug("ignored while locked", "op", op)
		return
	}
	fn()
	s.mu.Unlock()
	s.notify()
}

// WorkArea is the viewport minus the taskbar.
func (s *Session) WorkArea() geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workArea()
}

func (s *Session) workArea() geom.Rect {
	h := s.viewport.Height - TaskbarHeight
	if h < 0 {
		h = 0
	}
	return geom.Rect{Width: s.viewport.Width, Height: h}
}

func (s *Session) desktopOrigin() geom.Point {
	return geom.Point{X: s.cfg.Icons.OriginX, Y: s.cfg.Icons.OriginY}
}

func (s *Session) relayout() {
	if !s.engine.Relayout(s.workArea().Height-s.cfg.Icons.OriginY, s.cfg.Icons.CellSize) {
		s.logger.Debug("layout skipped", "height", s.workArea().Height, "cell", s.cfg.Icons.CellSize)
	}
}

// SetViewport records a new viewport size. While locked the icon relayout is
// deferred until unlock.
func (s *Session) SetViewport(size geom.Size) {
	s.mu.Lock()
	s.viewport = size
	s.windows.SetViewport(size)
	s.layout.resized()
	s.mu.Unlock()
	s.notify()
}

// Relayout recomputes the icon grid, discarding manual placements.
func (s *Session) Relayout() {
	s.interact("relayout", s.relayout)
}

// ActivateIcon opens (or focuses) the window for id, or runs its side effect.
// Unknown ids are ignored.
func (s *Session) ActivateIcon(id string) {
	s.interact("activate", func() { s.activate(id) })
}

func (s *Session) activate(id string) {
	def, ok := s.engine.Lookup(id)
	if !ok {
		s.logger.Debug("activate unknown icon", "id", id)
		return
	}
	resolved := s.contents[id]
	switch resolved.Kind {
	case content.KindEffect:
		s.startOverlay(resolved.Effect)
	case content.KindWindow:
		s.windows.Open(def, resolved.Handle)
	default:
		s.logger.Debug("icon has no content", "id", id)
	}
}

func (s *Session) startOverlay(effect content.Effect) {
	s.overlaySeq++
	seq := s.overlaySeq
	s.overlay = effect.Name
	s.logger.Info("effect started", "effect", effect.Name, "duration", effect.Duration)
	s.after(effect.Duration, func() {
		s.mu.Lock()
		if s.overlaySeq != seq {
			s.mu.Unlock()
			return
		}
		s.overlay = ""
		s.mu.Unlock()
		s.notify()
	})
}

// Close removes a window permanently.
func (s *Session) Close(id string) {
	s.interact("close", func() { s.windows.Close(id) })
}

// Minimize hides a window, keeping its stacking order.
func (s *Session) Minimize(id string) {
	s.interact("minimize", func() { s.windows.Minimize(id) })
}

// ToggleMaximize flips a window between maximized and its stored geometry
// and brings it to the front.
func (s *Session) ToggleMaximize(id string) {
	s.interact("toggle_maximize", func() { s.windows.ToggleMaximize(id) })
}

// BringToFront restores a window and gives it the highest z-index.
func (s *Session) BringToFront(id string) {
	s.interact("bring_to_front", func() { s.windows.BringToFront(id) })
}

// TaskbarClick restores, minimizes or focuses a window as its taskbar
// button would.
func (s *Session) TaskbarClick(id string) {
	s.interact("taskbar_click", func() { s.windows.TaskbarClick(id) })
}

// MoveWindow stores a window position directly, as a committed drag would.
func (s *Session) MoveWindow(id string, pos geom.Point) {
	s.interact("move_window", func() { s.windows.OnDrag(id, pos) })
}

// ResizeWindow stores window geometry directly, as a committed resize would.
func (s *Session) ResizeWindow(id string, size geom.Size, pos geom.Point) {
	s.interact("resize_window", func() { s.windows.OnResize(id, size, pos) })
}

// SortIcons reorders the icons and lays them out again.
func (s *Session) SortIcons(key icons.SortKey) {
	s.interact("sort", func() {
		if !key.Valid() {
			s.logger.Debug("unknown sort key", "key", key)
			return
		}
		s.engine.SortIcons(key)
		s.relayout()
	})
}

// MoveIcon commits an icon drop at an absolute pointer position.
func (s *Session) MoveIcon(id string, pointer geom.Point) {
	s.interact("move_icon", func() {
		s.engine.UpdateIconPosition(id, pointer, s.desktopOrigin(), s.cfg.Icons.CellSize)
	})
}

// ToggleStartMenu opens the start menu, closing the other surfaces, or
// closes it when already open.
func (s *Session) ToggleStartMenu() {
	s.interact("toggle_start_menu", s.menus.ToggleStartMenu)
}

// ToggleCalendar opens the calendar on the current month, closing the other
// surfaces, or closes it when already open.
func (s *Session) ToggleCalendar() {
	s.interact("toggle_calendar", func() {
		s.menus.ToggleCalendar()
		if s.menus.Visibility().Calendar {
			s.pager.Today()
		}
	})
}

// OpenContextMenu shows the desktop context menu at a pointer position.
func (s *Session) OpenContextMenu(at geom.Point) {
	s.interact("open_context_menu", func() { s.menus.OpenContextMenu(at) })
}

// CloseMenus hides every overlay surface.
func (s *Session) CloseMenus() {
	s.interact("close_menus", s.menus.CloseAll)
}

// ClickOutside routes a global pointer press to the overlay surfaces and
// returns the ones it closed.
func (s *Session) ClickOutside(target geom.Point, hit menu.HitTester) []menu.Surface {
	var closed []menu.Surface
	s.interact("click_outside", func() { closed = s.menus.ClickOutside(target, hit) })
	return closed
}

// CalendarNext pages the calendar forward. It reports false while a page
// turn is still animating, while the calendar is closed and while locked.
func (s *Session) CalendarNext() bool {
	return s.pageCalendar("calendar_next", s.pager.Next)
}

// CalendarPrev pages the calendar back. It reports false while a page turn
// is still animating, while the calendar is closed and while locked.
func (s *Session) CalendarPrev() bool {
	return s.pageCalendar("calendar_prev", s.pager.Prev)
}

func (s *Session) pageCalendar(op string, turn func() bool) bool {
	var ok bool
	s.interact(op, func() {
		if !s.menus.Visibility().Calendar {
			s.logger.Debug("calendar closed", "op", op)
			return
		}
		ok = turn()
	})
	return ok
}

// CalendarWeeks returns the displayed month's day grid, Sunday first.
func (s *Session) CalendarWeeks() [][7]int {
	return s.pager.Weeks()
}

// StartMenu builds the start menu from the current icon order.
func (s *Session) StartMenu() (*menu.Node, error) {
	s.mu.Lock()
	defs := s.engine.Icons()
	s.mu.Unlock()
	return menu.BuildStartMenu(defs)
}

// ContextMenu builds the desktop context menu for the current sort key.
func (s *Session) ContextMenu() (*menu.Node, error) {
	s.mu.Lock()
	key, _ := s.engine.Sort()
	s.mu.Unlock()
	return menu.BuildContextMenu(key)
}

// Select runs a menu leaf action and closes the menus.
func (s *Session) Select(action string) {
	if action == menu.ActionLock {
		s.Lock()
		return
	}
	s.interact("select", func() {
		s.menus.CloseAll()
		switch {
		case strings.HasPrefix(action, menu.ActionOpenPrefix):
			s.activate(strings.TrimPrefix(action, menu.ActionOpenPrefix))
		case strings.HasPrefix(action, menu.ActionSortPrefix):
			key := icons.SortKey(strings.TrimPrefix(action, menu.ActionSortPrefix))
			if key.Valid() {
				s.engine.SortIcons(key)
				s.relayout()
			}
		case action == menu.ActionRefresh:
			s.relayout()
		default:
			s.logger.Debug("unknown menu action", "action", action)
		}
	})
}

// Lock minimizes every window and closes every overlay in one step, then
// detaches the global listeners.
func (s *Session) Lock() {
	s.mu.Lock()
	if s.gate.Locked() {
		s.mu.Unlock()
		return
	}
	s.drag.Cancel()
	s.target = dragTarget{}
	s.gate.Lock()
	s.mu.Unlock()
	s.logger.Info("session locked", "session", s.id)
	s.notify()
}

// Unlock verifies credential and reveals the desktop.
func (s *Session) Unlock(credential string) bool {
	s.mu.Lock()
	wasLocked := s.gate.Locked()
	ok := s.gate.Unlock(credential)
	s.mu.Unlock()
	if !ok {
		s.logger.Warn("unlock rejected", "session", s.id)
		return false
	}
	if wasLocked {
		s.logger.Info("session unlocked", "session", s.id)
		s.notify()
	}
	return true
}

// Locked reports whether the session is locked.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.Locked()
}

// WindowView renders a window body into width x height cells.
func (s *Session) WindowView(id string, width, height int) string {
	s.mu.Lock()
	w, ok := s.windows.Get(id)
	s.mu.Unlock()
	if !ok {
		return ""
	}
	if h, ok := w.Content.(content.Handle); ok {
		return h.View(width, height)
	}
	return ""
}

// layoutListener is the viewport-resize listener. While detached, resizes
// only mark the layout stale; attaching applies the pending relayout.
type layoutListener struct {
	session  *Session
	attached bool
	stale    bool
}

func (l *layoutListener) Attach() {
	l.attached = true
	if l.stale {
		l.stale = false
		l.session.relayout()
	}
}

func (l *layoutListener) Detach() {
	l.attached = false
}

func (l *layoutListener) resized() {
	if l.attached {
		l.session.relayout()
		return
	}
	l.stale = true
}
