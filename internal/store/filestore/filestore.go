// Package filestore opens a store graph from a JSON or YAML snapshot file.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"alnnames/internal/store"
	"alnnames/internal/store/memstore"
)

// Snapshot is the on-disk document.
type Snapshot struct {
	Sequences []SequenceDoc `json:"sequences" yaml:"sequences"`
	Groups    []GroupDoc    `json:"groups" yaml:"groups"`
}

type SequenceDoc struct {
	Name   store.Name `json:"name" yaml:"name"`
	Header string     `json:"header" yaml:"header"`
}

type GroupDoc struct {
	Name      store.Name    `json:"name" yaml:"name"`
	Endpoints []EndpointDoc `json:"endpoints" yaml:"endpoints"`
}

type EndpointDoc struct {
	Name      store.Name    `json:"name" yaml:"name"`
	Instances []InstanceDoc `json:"instances" yaml:"instances"`
}

type InstanceDoc struct {
	Name     store.Name `json:"name" yaml:"name"`
	Sequence store.Name `json:"sequence" yaml:"sequence"`
	Reverse  bool       `json:"reverse" yaml:"reverse"`
	Side     bool       `json:"side" yaml:"side"`
}

// Open reads path and returns the decoded graph. The format is chosen by
// extension: .yaml/.yml decode as YAML, anything else as JSON.
func Open(path string) (*memstore.Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &store.AccessError{Op: "open snapshot", Err: err}
	}
	var snap Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &snap)
	default:
		err = json.Unmarshal(b, &snap)
	}
	if err != nil {
		return nil, &store.AccessError{Op: "decode snapshot " + path, Err: err}
	}
	return Build(snap)
}

// Build materialises a snapshot into an in-memory store.
func Build(snap Snapshot) (*memstore.Store, error) {
	s := memstore.New()
	for _, sd := range snap.Sequences {
		if _, dup := s.Sequence(sd.Name); dup {
			return nil, &store.AccessError{Op: "load snapshot", Err: fmt.Errorf("duplicate sequence %s", sd.Name)}
		}
		s.AddSequence(sd.Name, sd.Header)
	}
	for _, gd := range snap.Groups {
		g := s.AddGroup(gd.Name)
		for _, ed := range gd.Endpoints {
			e := g.AddEndpoint(ed.Name)
			for _, id := range ed.Instances {
				seq, ok := s.Sequence(id.Sequence)
				if !ok {
					return nil, &store.AccessError{
						Op:  "load snapshot",
						Err: fmt.Errorf("instance %s references unknown sequence %s", id.Name, id.Sequence),
					}
				}
				if s.HasInstance(id.Name) {
					return nil, &store.AccessError{Op: "load snapshot", Err: fmt.Errorf("duplicate instance %s", id.Name)}
				}
				e.AddInstance(id.Name, seq, id.Reverse, id.Side)
			}
		}
	}
	return s, nil
}
