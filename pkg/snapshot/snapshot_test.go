package snapshot

import (
	"path/filepath"
	"testing"
)

func sample() Snapshot {
	return Snapshot{
		Nodes: []Node{
			{ID: "b", Label: "beta"},
			{ID: "a", Label: "alpha", Root: true},
			{ID: "c"},
		},
		Edges: []Edge{
			{From: "b", To: "c", Weight: 3},
			{From: "a", To: "b"},
		},
	}
}

func TestSortDeterministic(t *testing.T) {
	s := sample()
	s.Sort()

	if s.Nodes[0].ID != "a" || s.Nodes[1].ID != "b" || s.Nodes[2].ID != "c" {
		t.Fatalf("nodes out of order: %+v", s.Nodes)
	}
	if s.Edges[0].From != "a" || s.Edges[1].From != "b" {
		t.Fatalf("edges out of order: %+v", s.Edges)
	}

	again := sample()
	again.Sort()
	for i := range s.Nodes {
		if s.Nodes[i] != again.Nodes[i] {
			t.Fatalf("sort not deterministic at node %d", i)
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s := sample()
	s.Sort()

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Nodes) != len(s.Nodes) || len(got.Edges) != len(s.Edges) {
		t.Fatalf("round trip lost elements: %+v", got)
	}
	for i := range s.Nodes {
		if got.Nodes[i] != s.Nodes[i] {
			t.Errorf("node %d: got %+v, want %+v", i, got.Nodes[i], s.Nodes[i])
		}
	}
	for i := range s.Edges {
		if got.Edges[i] != s.Edges[i] {
			t.Errorf("edge %d: got %+v, want %+v", i, got.Edges[i], s.Edges[i])
		}
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	if _, err := Unmarshal([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")

	s := sample()
	s.Sort()
	if err := WriteFile(s, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Fatalf("unexpected contents: %+v", got)
	}
	if got.Nodes[0].Root != true {
		t.Errorf("root flag lost: %+v", got.Nodes[0])
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
