// Package store describes the read-only view of a genome-alignment store
// that the name conversion needs.
//
// The store is a graph: one top-level group holds endpoints, each endpoint
// holds instances, and every instance points back at the sequence it is an
// occurrence of. Backends (memstore, filestore, pgstore) implement these
// interfaces; nothing here writes to a store.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Name is the opaque 64-bit identifier the store uses in place of headers.
type Name int64

// String is the canonical rendering used in converted output.
func (n Name) String() string { return strconv.FormatInt(int64(n), 10) }

// ParseName is the inverse of Name.String.
func ParseName(s string) (Name, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid name %q: %w", s, err)
	}
	return Name(v), nil
}

// ErrNotFound is returned by InstanceByName for unknown names.
var ErrNotFound = errors.New("not found")

// Store is the capability set consumed by the index builder and the BED path.
type Store interface {
	// SingleTopLevelGroup fails with an *AccessError unless exactly one
	// top-level group exists.
	SingleTopLevelGroup(ctx context.Context) (Group, error)
	// InstanceByName returns ErrNotFound (possibly wrapped) for unknown names.
	InstanceByName(ctx context.Context, n Name) (Instance, error)
	Close() error
}

type Group interface {
	Name() Name
	Endpoints(ctx context.Context) ([]Endpoint, error)
}

type Endpoint interface {
	Name() Name
	Instances(ctx context.Context) ([]Instance, error)
}

// Instance is one occurrence of a sequence at an endpoint.
type Instance interface {
	Name() Name
	// IsReverseStrand reports whether this orientation lies on the minus strand.
	IsReverseStrand() bool
	// Reverse returns the same instance seen from the opposite strand.
	Reverse() Instance
	// Side is true for the non-primary side of a two-sided edge.
	Side() bool
	Sequence() Sequence
}

type Sequence interface {
	Name() Name
	Header() string
}

// AccessError reports a store that cannot be opened or does not have the
// expected shape.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	if e.Err == nil {
		return "store: " + e.Op
	}
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *AccessError) Unwrap() error { return e.Err }

// TopLevelCount builds the AccessError for a store exposing n top-level
// groups where exactly one is required.
func TopLevelCount(n int) error {
	if n == 1 {
		return nil
	}
	return &AccessError{
		Op:  "get top-level group",
		Err: fmt.Errorf("expected exactly one top-level group, found %d", n),
	}
}
