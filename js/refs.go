package js

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"weak"

	"github.com/dop251/goja"
)

// RefID identifies a slot in the reference table. Zero is never issued.
type RefID uint64

// ErrUnknownRef is returned when a RefID has no outstanding claims.
var ErrUnknownRef = errors.New("js: unknown or released reference")

type refEntry struct {
	obj    *goja.Object
	claims int
}

// refTable keeps engine objects reachable while the Go side holds claims on
// them. One slot per object; a slot is removed once its claim count reaches
// zero.
//
// An object keeps its id for as long as it lives: ids maps each object ever
// acquired to its id through a weak pointer, so the mapping survives the
// slot without keeping the object alive. Ids are never reused, so a stale id
// cannot alias another object.
type refTable struct {
	mu      sync.Mutex
	entries map[RefID]*refEntry
	ids     map[weak.Pointer[goja.Object]]RefID
	next    RefID
}

func newRefTable() *refTable {
	return &refTable{
		entries: make(map[RefID]*refEntry),
		ids:     make(map[weak.Pointer[goja.Object]]RefID),
	}
}

// forget drops the id mapping of a collected object.
func (t *refTable) forget(key weak.Pointer[goja.Object]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, key)
}

// Acquire adds one claim on obj and returns its slot id. The same object
// always gets the same id, including after every earlier claim on it was
// released.
func (r *Runtime) Acquire(obj *goja.Object) RefID {
	t := r.refs
	t.mu.Lock()
	defer t.mu.Unlock()

	key := weak.Make(obj)
	id, known := t.ids[key]
	if known {
		if e, ok := t.entries[id]; ok {
			e.claims++
			return id
		}
	} else {
		t.next++
		id = t.next
		t.ids[key] = id
		runtime.AddCleanup(obj, t.forget, key)
	}
	t.entries[id] = &refEntry{obj: obj, claims: 1}
	return id
}

// Retain adds one claim on an existing slot.
func (r *Runtime) Retain(id RefID) error {
	t := r.refs
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return fmt.Errorf("retain %d: %w", id, ErrUnknownRef)
	}
	e.claims++
	return nil
}

// Release removes one claim and returns the claims still outstanding on the
// slot. At zero the slot is removed and the table no longer keeps the object
// reachable; the engine may still hold its own references to it.
func (r *Runtime) Release(id RefID) (int, error) {
	t := r.refs
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return 0, fmt.Errorf("release %d: %w", id, ErrUnknownRef)
	}
	e.claims--
	if e.claims > 0 {
		return e.claims, nil
	}
	delete(t.entries, id)
	return 0, nil
}

// Lookup returns the object held by a live slot.
func (r *Runtime) Lookup(id RefID) (*goja.Object, bool) {
	t := r.refs
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[id]
	if !ok {
		return nil, false
	}
	return e.obj, true
}

// Claims returns the number of outstanding claims on a slot.
func (r *Runtime) Claims(id RefID) int {
	t := r.refs
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[id]; ok {
		return e.claims
	}
	return 0
}

// Outstanding returns the total number of claims across all slots.
func (r *Runtime) Outstanding() int {
	t := r.refs
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, e := range t.entries {
		n += e.claims
	}
	return n
}
