package webcore

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/chrisuehlinger/webref/js"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ID is the identity of a foreign object as seen from Go. Two live handles
// have the same ID iff they denote the same object.
type ID = js.RefID

// claim is the state shared between a Handle and its cleanup. It must not
// point back at the Handle.
type claim struct {
	br      *Bridge
	id      ID
	dropped atomic.Bool
}

// release gives the claim back to the reference table once.
func (c *claim) release() bool {
	if !c.dropped.CompareAndSwap(false, true) {
		return false
	}
	left, err := c.br.rt.Release(c.id)
	if err != nil {
		c.br.log.Warn("release of unknown reference", zap.Uint64("ref", uint64(c.id)), zap.Error(err))
		return true
	}
	c.br.log.Debug("reference released", zap.Uint64("ref", uint64(c.id)), zap.Int("claims", left))
	return true
}

// Handle is one owning copy of a claim on a foreign object. Copies made by
// Retain are independent: each must be dropped once. The claim only governs
// the Go side's hold on the object; the engine may keep the object alive for
// its own reasons after the last Drop.
//
// A Handle that becomes unreachable without Drop is released by a runtime
// cleanup. Relying on that is a leak in all but name; call Drop.
type Handle struct {
	c       *claim
	cleanup runtime.Cleanup
}

func newHandle(br *Bridge, id ID) *Handle {
	c := &claim{br: br, id: id}
	h := &Handle{c: c}
	h.cleanup = runtime.AddCleanup(h, func(c *claim) {
		if c.release() {
			c.br.log.Warn("reference reclaimed without Drop", zap.Uint64("ref", uint64(c.id)))
		}
	}, c)
	return h
}

// ID returns the identity of the object. It stays valid after Drop.
func (h *Handle) ID() ID {
	if h == nil {
		return 0
	}
	return h.c.id
}

// Equal reports whether h and other denote the same foreign object.
func (h *Handle) Equal(other *Handle) bool {
	return h.ID() != 0 && h.ID() == other.ID()
}

// Retain adds a claim on the same object and returns it as a new owning copy.
func (h *Handle) Retain() (*Handle, error) {
	if h == nil || h.c.dropped.Load() {
		return nil, fmt.Errorf("retain: %w", ErrReleased)
	}
	if err := h.c.br.rt.Retain(h.c.id); err != nil {
		return nil, fmt.Errorf("retain: %w: %w", ErrReleased, err)
	}
	return newHandle(h.c.br, h.c.id), nil
}

// Drop releases this copy's claim. Further calls are no-ops.
func (h *Handle) Drop() {
	if h == nil {
		return
	}
	if h.c.release() {
		h.cleanup.Stop()
	}
}

// Dropped reports whether Drop has been called on this copy.
func (h *Handle) Dropped() bool {
	return h == nil || h.c.dropped.Load()
}

// Claims returns the number of owning copies outstanding for the object,
// across all handles that denote it.
func (h *Handle) Claims() int {
	if h == nil {
		return 0
	}
	return h.c.br.rt.Claims(h.c.id)
}

// Bridge returns the bridge the handle belongs to.
func (h *Handle) Bridge() *Bridge {
	if h == nil {
		return nil
	}
	return h.c.br
}

// object resolves the engine object. Using a dropped copy, or an object
// whose slot is gone, fails with ErrReleased.
func (h *Handle) object() (*goja.Object, error) {
	if h == nil || h.c.dropped.Load() {
		return nil, ErrReleased
	}
	obj, ok := h.c.br.rt.Lookup(h.c.id)
	if !ok {
		return nil, ErrReleased
	}
	return obj, nil
}

// ReferenceType is implemented by every value backed by a foreign object.
type ReferenceType interface {
	Handle() *Handle
}

// Reference is the embeddable base of typed wrappers. It carries the handle
// and exposes the invocation channel on it.
type Reference struct {
	handle *Handle
}

// NewReference wraps h.
func NewReference(h *Handle) Reference {
	return Reference{handle: h}
}

// Handle returns the underlying handle.
func (r Reference) Handle() *Handle { return r.handle }

// ID returns the identity of the referenced object.
func (r Reference) ID() ID { return r.handle.ID() }

// Drop releases the wrapper's claim.
func (r Reference) Drop() { r.handle.Drop() }

// Get reads a property of the referenced object.
func (r Reference) Get(name string) (Value, error) {
	return r.handle.Bridge().Get(r.handle, name)
}

// Set assigns a property of the referenced object.
func (r Reference) Set(name string, v Value) error {
	return r.handle.Bridge().Set(r.handle, name, v)
}

// Call invokes a method of the referenced object.
func (r Reference) Call(name string, args ...Value) (Value, error) {
	return r.handle.Bridge().Call(r.handle, name, args...)
}

// Exec invokes a method and discards its return value. Exceptions are still
// returned.
func (r Reference) Exec(name string, args ...Value) error {
	return r.handle.Bridge().Exec(r.handle, name, args...)
}
