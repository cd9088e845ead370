// Package calendar provides month paging for the taskbar calendar surface.
package calendar

import (
	"sync"
	"time"
)

// DefaultNavigation is how long a month transition is considered in flight.
const DefaultNavigation = 400 * time.Millisecond

// Pager tracks the displayed month. Next and Prev are rejected while a
// previous transition is still animating.
type Pager struct {
	mu       sync.Mutex
	month    time.Time
	inFlight bool
	window   time.Duration
	now      func() time.Time
	after    func(d time.Duration, f func())
}

// Option configures a Pager.
type Option func(*Pager)

// WithClock overrides the current-time source.
func WithClock(now func() time.Time) Option {
	return func(p *Pager) { p.now = now }
}

// WithScheduler overrides how the in-flight flag is cleared.
func WithScheduler(after func(d time.Duration, f func())) Option {
	return func(p *Pager) { p.after = after }
}

// NewPager creates a pager showing the current month. A non-positive window
// uses DefaultNavigation.
func NewPager(window time.Duration, opts ...Option) *Pager {
	if window <= 0 {
		window = DefaultNavigation
	}
	p := &Pager{
		window: window,
		now:    time.Now,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.month = firstOfMonth(p.now())
	return p
}

// Month returns the first day of the displayed month.
func (p *Pager) Month() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.month
}

// InFlight reports whether a transition is still animating.
func (p *Pager) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Next advances one month. It returns false if a transition is in flight.
func (p *Pager) Next() bool {
	return p.step(1)
}

// Prev goes back one month. It returns false if a transition is in flight.
func (p *Pager) Prev() bool {
	return p.step(-1)
}

// Today jumps back to the current month without starting a transition.
func (p *Pager) Today() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.month = firstOfMonth(p.now())
}

func (p *Pager) step(delta int) bool {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return false
	}
	p.inFlight = true
	p.month = p.month.AddDate(0, delta, 0)
	p.mu.Unlock()

	p.after(p.window, p.settle)
	return true
}

func (p *Pager) settle() {
	p.mu.Lock()
	p.inFlight = false
	p.mu.Unlock()
}

// Weeks returns the displayed month as rows of seven day numbers starting on
// Sunday. Days outside the month are zero.
func (p *Pager) Weeks() [][7]int {
	month := p.Month()
	first := int(month.Weekday())
	days := month.AddDate(0, 1, -1).Day()

	var weeks [][7]int
	var week [7]int
	col := first
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
