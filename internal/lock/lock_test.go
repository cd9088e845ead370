package lock

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

type fakeWindows struct{ minimized int }

func (f *fakeWindows) MinimizeAll() { f.minimized++ }

type fakeMenus struct{ closed int }

func (f *fakeMenus) CloseAll() { f.closed++ }

type fakeListener struct{ attached bool }

func (f *fakeListener) Attach() { f.attached = true }
func (f *fakeListener) Detach() { f.attached = false }

func TestGate_StartsLockedWithListenersDetached(t *testing.T) {
	l := &fakeListener{}
	g := NewGate(nil, &fakeWindows{}, &fakeMenus{}, l)
	if !g.Locked() {
		t.Fatalf("expected initial state locked")
	}
	if l.attached {
		t.Fatalf("expected listener detached while locked")
	}
}

func TestGate_UnlockAttachesListeners(t *testing.T) {
	l := &fakeListener{}
	g := NewGate(Passphrase("hunter2"), &fakeWindows{}, &fakeMenus{}, l)

	if g.Unlock("wrong") {
		t.Fatalf("expected wrong credential to fail")
	}
	if !g.Locked() || l.attached {
		t.Fatalf("expected gate to stay locked")
	}
	if !g.Unlock("hunter2") {
		t.Fatalf("expected correct credential to unlock")
	}
	if g.State() != Unlocked || !l.attached {
		t.Fatalf("expected unlocked with listener attached")
	}
}

func TestGate_LockMinimizesAndClosesTogether(t *testing.T) {
	w := &fakeWindows{}
	m := &fakeMenus{}
	l := &fakeListener{}
	g := NewGate(AllowAll, w, m, l)

	g.Lock()
	if w.minimized != 0 || m.closed != 0 {
		t.Fatalf("expected lock on a locked gate to do nothing")
	}

	g.Unlock("")
	g.Lock()
	if w.minimized != 1 || m.closed != 1 {
		t.Fatalf("expected one minimize-all and one close-all, got %d/%d", w.minimized, m.closed)
	}
	if l.attached {
		t.Fatalf("expected listener detached after lock")
	}
	if !g.Locked() {
		t.Fatalf("expected locked state")
	}
}

func TestPassphrase_SHA256Digest(t *testing.T) {
	sum := sha256.Sum256([]byte("opensesame"))
	v := Passphrase("sha256:" + hex.EncodeToString(sum[:]))
	if !v.Verify("opensesame") {
		t.Fatalf("expected digest match")
	}
	if v.Verify("opensesam") {
		t.Fatalf("expected mismatch")
	}
	if Passphrase("sha256:not-hex").Verify("") {
		t.Fatalf("expected malformed digest to reject everything")
	}
}

func TestPassphrase_EmptyAcceptsAnything(t *testing.T) {
	if !Passphrase("").Verify("whatever") {
		t.Fatalf("expected empty passphrase to accept any credential")
	}
}
