// Package memstore is an in-memory store graph. Tests build one directly;
// the file backend decodes snapshots into one.
package memstore

import (
	"context"
	"fmt"

	"alnnames/internal/store"
)

// Store is not safe for concurrent mutation; reads after construction are fine.
type Store struct {
	groups    []*Group
	sequences map[store.Name]*Sequence
	instances map[store.Name]*Instance
}

func New() *Store {
	return &Store{
		sequences: make(map[store.Name]*Sequence),
		instances: make(map[store.Name]*Instance),
	}
}

// AddSequence registers a sequence. Distinct sequences may share a header.
func (s *Store) AddSequence(name store.Name, header string) *Sequence {
	seq := &Sequence{name: name, header: header}
	s.sequences[name] = seq
	return seq
}

// Sequence returns a previously added sequence.
func (s *Store) Sequence(name store.Name) (*Sequence, bool) {
	seq, ok := s.sequences[name]
	return seq, ok
}

// AddGroup appends a top-level group.
func (s *Store) AddGroup(name store.Name) *Group {
	g := &Group{store: s, name: name}
	s.groups = append(s.groups, g)
	return g
}

// HasInstance reports whether an instance with this name was added.
func (s *Store) HasInstance(name store.Name) bool {
	_, ok := s.instances[name]
	return ok
}

func (s *Store) SingleTopLevelGroup(_ context.Context) (store.Group, error) {
	if err := store.TopLevelCount(len(s.groups)); err != nil {
		return nil, err
	}
	return s.groups[0], nil
}

func (s *Store) InstanceByName(_ context.Context, n store.Name) (store.Instance, error) {
	inst, ok := s.instances[n]
	if !ok {
		return nil, fmt.Errorf("instance %s: %w", n, store.ErrNotFound)
	}
	return inst, nil
}

func (s *Store) Close() error { return nil }

type Group struct {
	store     *Store
	name      store.Name
	endpoints []*Endpoint
}

func (g *Group) Name() store.Name { return g.name }

func (g *Group) AddEndpoint(name store.Name) *Endpoint {
	e := &Endpoint{store: g.store, name: name}
	g.endpoints = append(g.endpoints, e)
	return e
}

func (g *Group) Endpoints(_ context.Context) ([]store.Endpoint, error) {
	out := make([]store.Endpoint, len(g.endpoints))
	for i, e := range g.endpoints {
		out[i] = e
	}
	return out, nil
}

type Endpoint struct {
	store     *Store
	name      store.Name
	instances []*Instance
}

func (e *Endpoint) Name() store.Name { return e.name }

// AddInstance adds an instance in its stored orientation. The last instance
// added under a name wins for InstanceByName.
func (e *Endpoint) AddInstance(name store.Name, seq *Sequence, reverseStrand, side bool) *Instance {
	inst := &Instance{name: name, seq: seq, reverseStrand: reverseStrand, side: side}
	e.instances = append(e.instances, inst)
	e.store.instances[name] = inst
	return inst
}

func (e *Endpoint) Instances(_ context.Context) ([]store.Instance, error) {
	out := make([]store.Instance, len(e.instances))
	for i, inst := range e.instances {
		out[i] = inst
	}
	return out, nil
}

type Instance struct {
	name          store.Name
	seq           *Sequence
	reverseStrand bool
	side          bool
	reverse       *Instance
}

func (i *Instance) Name() store.Name { return i.name }
func (i *Instance) IsReverseStrand() bool { return i.reverseStrand }
func (i *Instance) Side() bool { return i.side }

func (i *Instance) Sequence() store.Sequence {
	if i.seq == nil {
		return nil
	}
	return i.seq
}

// Reverse returns the explicitly linked reverse if one was set with
// LinkReverse, otherwise the derived opposite orientation: same name and
// sequence, strand and side flipped.
func (i *Instance) Reverse() store.Instance {
	if i.reverse == nil {
		i.reverse = &Instance{
			name:          i.name,
			seq:           i.seq,
			reverseStrand: !i.reverseStrand,
			side:          !i.side,
			reverse:       i,
		}
	}
	return i.reverse
}

// LinkReverse pairs two instances as each other's reverse.
func (i *Instance) LinkReverse(other *Instance) {
	i.reverse = other
	other.reverse = i
}

type Sequence struct {
	name   store.Name
	header string
}

func (s *Sequence) Name() store.Name { return s.name }
func (s *Sequence) Header() string { return s.header }
