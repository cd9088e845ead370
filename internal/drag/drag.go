package drag

import "github.com/1broseidon/deskshell/internal/geom"

// DefaultThreshold is the distance in pixels a pointer must travel from the
// press point before a gesture counts as a drag.
const DefaultThreshold = 5

// Phase represents the current phase of a pointer gesture
type Phase int

const (
	// PhaseIdle means no pointer button is held
	PhaseIdle Phase = iota
	// PhasePressed means the button is down but the pointer has not left the threshold radius
	PhasePressed
	// PhaseDragging means the threshold was exceeded and the gesture will commit on release
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Gesture describes a completed drag.
type Gesture struct {
	// Origin is where the button was pressed.
	Origin geom.Point
	// Pointer is the absolute pointer position at release.
	Pointer geom.Point
}

// Delta returns the total pointer travel.
func (g Gesture) Delta() geom.Point {
	return g.Pointer.Sub(g.Origin)
}

// CommitFunc receives the final pointer position of a drag exactly once.
type CommitFunc func(g Gesture)

// TransformFunc receives the purely visual offset from the press point while
// dragging. It is called with a zero offset when the gesture ends.
type TransformFunc func(offset geom.Point)

// ClickFunc is called when a gesture ends before the threshold was exceeded.
type ClickFunc func(at geom.Point)

// Options configures a Controller.
type Options struct {
	Threshold int
	Commit    CommitFunc
	Transform TransformFunc
	Click     ClickFunc
}

// Controller is a press/move/release state machine that separates clicks from drags.
type Controller struct {
	threshold float64
	commit    CommitFunc
	transform TransformFunc
	click     ClickFunc

	phase  Phase
	origin geom.Point
	offset geom.Point
}

// New creates an idle controller. A non-positive threshold uses DefaultThreshold.
func New(opts Options) *Controller {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Controller{
		threshold: float64(threshold),
		commit:    opts.Commit,
		transform: opts.Transform,
		click:     opts.Click,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Origin returns the press point of the current gesture.
func (c *Controller) Origin() geom.Point {
	return c.origin
}

// Offset returns the visual offset tracked while dragging.
func (c *Controller) Offset() geom.Point {
	return c.offset
}

// Active reports whether a button is currently held.
func (c *Controller) Active() bool {
	return c.phase != PhaseIdle
}

// Press starts a gesture. A press while a gesture is in progress restarts it
// without committing the abandoned one.
func (c *Controller) Press(at geom.Point) {
	c.phase = PhasePressed
	c.origin = at
	c.offset = geom.Point{}
}

// Move tracks pointer movement. Only the visual transform is updated.
func (c *Controller) Move(to geom.Point) {
	switch c.phase {
	case PhaseIdle:
		return
	case PhasePressed:
		if to.Dist(c.origin) <= c.threshold {
			return
		}
		c.phase = PhaseDragging
	}
	c.offset = to.Sub(c.origin)
	if c.transform != nil {
		c.transform(c.offset)
	}
}

// Release ends the gesture. The commit callback fires only if the gesture
// exceeded the threshold, either earlier or on this final position. It
// reports whether the gesture committed.
func (c *Controller) Release(at geom.Point) bool {
	if c.phase == PhaseIdle {
		return false
	}
	c.Move(at)

	phase := c.phase
	origin := c.origin
	c.reset()

	if phase == PhaseDragging {
		if c.commit != nil {
			c.commit(Gesture{Origin: origin, Pointer: at})
		}
		return true
	}
	if c.click != nil {
		c.click(at)
	}
	return false
}

// Cancel discards the current gesture without committing.
func (c *Controller) Cancel() {
	if c.phase == PhaseIdle {
		return
	}
	c.reset()
}

func (c *Controller) reset() {
	wasDragging := c.phase == PhaseDragging
	c.phase = PhaseIdle
	c.origin = geom.Point{}
	c.offset = geom.Point{}
	if wasDragging && c.transform != nil {
		c.transform(geom.Point{})
	}
}
