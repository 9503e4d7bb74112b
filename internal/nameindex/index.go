// Package nameindex builds the header → internal name table from a store.
package nameindex

import (
	"context"
	"fmt"

	"alnnames/internal/store"
)

// Index maps sequence headers to internal names. It is read-only once Build
// returns.
type Index struct {
	byHeader map[string]store.Name
}

// Lookup returns the name recorded for header.
func (ix *Index) Lookup(header string) (store.Name, bool) {
	if ix == nil {
		return 0, false
	}
	n, ok := ix.byHeader[header]
	return n, ok
}

// Len is the number of distinct headers.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byHeader)
}

// FromMap builds an index directly; callers own no reference to m afterwards.
func FromMap(m map[string]store.Name) *Index {
	cp := make(map[string]store.Name, len(m))
	for h, n := range m {
		cp[h] = n
	}
	return &Index{byHeader: cp}
}

// InconsistentMappingError means one header resolved to two names.
type InconsistentMappingError struct {
	Header      string
	Existing    store.Name
	Conflicting store.Name
}

func (e *InconsistentMappingError) Error() string {
	return fmt.Sprintf("collision with header %s: name %s, other name %s",
		e.Header, e.Conflicting, e.Existing)
}

// Build walks the single top-level group of s and records, for every
// instance, the header of its sequence against the instance name.
//
// Minus-strand instances are first replaced by their reverse, and instances
// on the non-primary side are skipped, so each physical sequence end
// contributes one entry. Seeing the same (header, name) pair again is
// expected; seeing a header with a different name is an
// *InconsistentMappingError.
func Build(ctx context.Context, s store.Store) (*Index, error) {
	group, err := s.SingleTopLevelGroup(ctx)
	if err != nil {
		return nil, err
	}
	endpoints, err := group.Endpoints(ctx)
	if err != nil {
		return nil, err
	}

	ix := &Index{byHeader: make(map[string]store.Name)}
	for _, end := range endpoints {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		instances, err := end.Instances(ctx)
		if err != nil {
			return nil, err
		}
		for _, inst := range instances {
			if inst.IsReverseStrand() {
				inst = inst.Reverse()
			}
			if inst.Side() {
				continue
			}
			seq := inst.Sequence()
			if seq == nil {
				return nil, &store.AccessError{
					Op:  "build name index",
					Err: fmt.Errorf("instance %s has no sequence", inst.Name()),
				}
			}
			if err := ix.add(seq.Header(), inst.Name()); err != nil {
				return nil, err
			}
		}
	}
	return ix, nil
}

func (ix *Index) add(header string, name store.Name) error {
	if prev, ok := ix.byHeader[header]; ok {
		if prev != name {
			return &InconsistentMappingError{Header: header, Existing: prev, Conflicting: name}
		}
		return nil
	}
	ix.byHeader[header] = name
	return nil
}
