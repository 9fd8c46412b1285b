package webcore

import (
	"fmt"
	"sort"
	"sync"
)

// Interface is a node of a Lattice: one foreign interface and the interfaces
// it directly inherits from or mixes in.
type Interface struct {
	name    string
	parents []*Interface
	lattice *Lattice
}

// Name returns the interface name as the foreign runtime reports it.
func (i *Interface) Name() string { return i.name }

// Parents returns the direct parents in definition order.
func (i *Interface) Parents() []*Interface {
	return append([]*Interface(nil), i.parents...)
}

// Implements reports whether i is other or descends from it.
func (i *Interface) Implements(other *Interface) bool {
	if i == nil || other == nil {
		return false
	}
	if i == other {
		return true
	}
	for _, p := range i.parents {
		if p.Implements(other) {
			return true
		}
	}
	return false
}

// Ancestors returns the names of every interface i implements, itself
// included, sorted.
func (i *Interface) Ancestors() []string {
	seen := map[string]bool{}
	var visit func(*Interface)
	visit = func(n *Interface) {
		if seen[n.name] {
			return
		}
		seen[n.name] = true
		for _, p := range n.parents {
			visit(p)
		}
	}
	visit(i)

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lattice is the graph of foreign interfaces known to the Go side. A parent
// must be defined before its children, so the graph is acyclic.
type Lattice struct {
	mu     sync.RWMutex
	byName map[string]*Interface
}

// NewLattice returns an empty lattice.
func NewLattice() *Lattice {
	return &Lattice{byName: make(map[string]*Interface)}
}

// Define adds an interface. It fails for an empty or duplicate name and for
// parents that are nil or belong to another lattice.
func (l *Lattice) Define(name string, parents ...*Interface) (*Interface, error) {
	if name == "" {
		return nil, fmt.Errorf("webcore: define interface: empty name")
	}
	for _, p := range parents {
		if p == nil {
			return nil, fmt.Errorf("webcore: define %s: nil parent", name)
		}
		if p.lattice != l {
			return nil, fmt.Errorf("webcore: define %s: parent %s belongs to another lattice", name, p.name)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.byName[name]; ok {
		return nil, fmt.Errorf("webcore: define %s: already defined", name)
	}
	iface := &Interface{
		name:    name,
		parents: append([]*Interface(nil), parents...),
		lattice: l,
	}
	l.byName[name] = iface
	return iface, nil
}

// MustDefine is like Define but panics on error. It is meant for package
// level lattice declarations.
func (l *Lattice) MustDefine(name string, parents ...*Interface) *Interface {
	iface, err := l.Define(name, parents...)
	if err != nil {
		panic(err)
	}
	return iface
}

// Lookup returns the interface with the given name.
func (l *Lattice) Lookup(name string) (*Interface, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	iface, ok := l.byName[name]
	return iface, ok
}

// IsA reports whether the interface called name is known and implements the
// interface called ancestor.
func (l *Lattice) IsA(name, ancestor string) bool {
	i, ok := l.Lookup(name)
	if !ok {
		return false
	}
	a, ok := l.Lookup(ancestor)
	if !ok {
		return false
	}
	return i.Implements(a)
}
