package calendar

import (
	"testing"
	"time"
)

type manualScheduler struct {
	pending []func()
	delays  []time.Duration
}

func (m *manualScheduler) after(d time.Duration, f func()) {
	m.delays = append(m.delays, d)
	m.pending = append(m.pending, f)
}

func (m *manualScheduler) fire() {
	for _, f := range m.pending {
		f()
	}
	m.pending = nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)
}

func TestPager_RejectsOverlappingNavigation(t *testing.T) {
	sched := &manualScheduler{}
	p := NewPager(0, WithClock(fixedNow), WithScheduler(sched.after))

	if !p.Next() {
		t.Fatalf("expected first Next to be accepted")
	}
	if p.Next() || p.Prev() {
		t.Fatalf("expected navigation to be rejected while in flight")
	}
	if got := p.Month().Month(); got != time.April {
		t.Fatalf("expected April, got %s", got)
	}
	if len(sched.delays) != 1 || sched.delays[0] != DefaultNavigation {
		t.Fatalf("expected one %s timer, got %v", DefaultNavigation, sched.delays)
	}

	sched.fire()
	if p.InFlight() {
		t.Fatalf("expected flag cleared after timer")
	}
	if !p.Prev() {
		t.Fatalf("expected Prev accepted after settle")
	}
	if got := p.Month().Month(); got != time.March {
		t.Fatalf("expected March, got %s", got)
	}
}

func TestPager_TodayResets(t *testing.T) {
	sched := &manualScheduler{}
	p := NewPager(time.Second, WithClock(fixedNow), WithScheduler(sched.after))
	p.Next()
	sched.fire()
	p.Next()
	sched.fire()
	p.Today()
	if got := p.Month(); !got.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected March 1st, got %s", got)
	}
}

func TestPager_Weeks(t *testing.T) {
	p := NewPager(0, WithClock(fixedNow), WithScheduler(func(time.Duration, func()) {}))
	weeks := p.Weeks()
	// March 2024 starts on a Friday and has 31 days.
	if weeks[0][5] != 1 || weeks[0][4] != 0 {
		t.Fatalf("unexpected first week %v", weeks[0])
	}
	last := weeks[len(weeks)-1]
	if last[0] != 31 {
		t.Fatalf("expected 31st on Sunday of last week, got %v", last)
	}
	if len(weeks) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(weeks))
	}
}
