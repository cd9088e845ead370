package lock

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// State is the session lock state.
type State int

const (
	// Locked hides the shell and suppresses interaction. It is the initial state.
	Locked State = iota
	// Unlocked allows interaction.
	Unlocked
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Verifier checks an unlock credential. It is supplied by the host.
type Verifier interface {
	Verify(credential string) bool
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(credential string) bool

// Verify implements Verifier.
func (f VerifierFunc) Verify(credential string) bool {
	return f(credential)
}

// AllowAll accepts any credential.
var AllowAll Verifier = VerifierFunc(func(string) bool { return true })

// Passphrase returns a verifier comparing against a fixed passphrase. A
// "sha256:" prefix marks a hex digest instead of plain text. An empty
// passphrase accepts anything.
func Passphrase(secret string) Verifier {
	if secret == "" {
		return AllowAll
	}
	if digest, ok := strings.CutPrefix(secret, "sha256:"); ok {
		want, err := hex.DecodeString(strings.TrimSpace(digest))
		if err != nil {
			return VerifierFunc(func(string) bool { return false })
		}
		return VerifierFunc(func(credential string) bool {
			sum := sha256.Sum256([]byte(credential))
			return subtle.ConstantTimeCompare(sum[:], want) == 1
		})
	}
	return VerifierFunc(func(credential string) bool {
		return subtle.ConstantTimeCompare([]byte(credential), []byte(secret)) == 1
	})
}

// Listener is a global listener that must only run while unlocked.
type Listener interface {
	Attach()
	Detach()
}

// Minimizer hides every open window.
type Minimizer interface {
	MinimizeAll()
}

// MenuCloser hides every overlay surface.
type MenuCloser interface {
	CloseAll()
}

// Gate is the lock/unlock state machine. Locking minimizes every window and
// closes every overlay surface in the same call, before any listener or
// caller can observe the locked state. It is not safe for concurrent use.
type Gate struct {
	state     State
	verifier  Verifier
	windows   Minimizer
	menus     MenuCloser
	listeners []Listener
}

// NewGate creates a gate in the Locked state. Listeners stay detached until
// the first successful Unlock.
func NewGate(verifier Verifier, windows Minimizer, menus MenuCloser, listeners ...Listener) *Gate {
	if verifier == nil {
		verifier = AllowAll
	}
	return &Gate{
		state:     Locked,
		verifier:  verifier,
		windows:   windows,
		menus:     menus,
		listeners: listeners,
	}
}

// State returns the current state.
func (g *Gate) State() State {
	return g.state
}

// Locked reports whether the gate is locked.
func (g *Gate) Locked() bool {
	return g.state == Locked
}

// Unlock verifies credential and, on success, transitions to Unlocked and
// attaches the listeners. Unlocking an unlocked gate succeeds without effect.
func (g *Gate) Unlock(credential string) bool {
	if g.state == Unlocked {
		return true
	}
	if !g.verifier.Verify(credential) {
		return false
	}
	g.state = Unlocked
	for _, l := range g.listeners {
		l.Attach()
	}
	return true
}

// Lock transitions to Locked: windows are minimized, overlays closed and
// listeners detached. Locking a locked gate does nothing.
func (g *Gate) Lock() {
	if g.state == Locked {
		return
	}
	if g.windows != nil {
		g.windows.MinimizeAll()
	}
	if g.menus != nil {
		g.menus.CloseAll()
	}
	for _, l := range g.listeners {
		l.Detach()
	}
	g.state = Locked
}
