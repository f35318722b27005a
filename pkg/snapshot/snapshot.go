// Package snapshot defines the rendering-agnostic structural dump produced
// by every sandbox operation: node identities and labels plus parent/child
// or adjacency relations with advisory weights. The excluded rendering
// layer draws from these; the core never produces markup itself.
//
// The format is designed for round-trip fidelity: export → re-import
// produces identical results. BSON tags allow snapshots to be stored
// as-is in the archive collection.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// Node is a single vertex in a snapshot.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Root  bool   `json:"root,omitempty" bson:"root,omitempty"`
}

// Edge is a parent→child or adjacency relation. Weight is advisory and
// defaults to 1 when the overlay has no entry for the pair.
type Edge struct {
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Weight int    `json:"weight,omitempty" bson:"weight,omitempty"`
}

// Snapshot is the canonical structural dump of one sandbox structure.
type Snapshot struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Placed is a vertex with assigned 2-D coordinates from a layout pass.
type Placed struct {
	ID string  `json:"id" bson:"id"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
}

// Positioned couples a snapshot with per-vertex coordinates.
type Positioned struct {
	Snapshot  Snapshot `json:"snapshot" bson:"snapshot"`
	Positions []Placed `json:"positions" bson:"positions"`
}

// Sort orders nodes and edges deterministically: nodes by ID, edges by
// (From, To). Call before comparing or serializing for stable output.
func (s *Snapshot) Sort() {
	slices.SortFunc(s.Nodes, func(a, b Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	slices.SortFunc(s.Edges, func(a, b Edge) int {
		if a.From != b.From {
			if a.From < b.From {
				return -1
			}
			return 1
		}
		if a.To < b.To {
			return -1
		}
		if a.To > b.To {
			return 1
		}
		return 0
	})
}

// Marshal converts a snapshot to pretty-printed JSON bytes.
func Marshal(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a Snapshot.
func Unmarshal(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}

// WriteFile writes a snapshot to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(s, f)
}

// ReadFile reads a JSON file and returns the decoded snapshot.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

func writeTo(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
