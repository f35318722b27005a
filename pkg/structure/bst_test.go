package structure

import (
	"reflect"
	"testing"
)

func buildBST(keys ...int) *BST {
	b := NewBST()
	b.InsertAll(keys...)
	return b
}

func TestBSTInsertOrdering(t *testing.T) {
	b := buildBST(50, 30, 70, 20, 40, 60, 80)
	want := []int{20, 30, 40, 50, 60, 70, 80}
	if got := b.InOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("InOrder = %v, want %v", got, want)
	}
}

func TestBSTInsertDuplicateNoOp(t *testing.T) {
	b := NewBST()
	if !b.Insert(10) {
		t.Fatal("first insert reported no change")
	}
	if b.Insert(10) {
		t.Fatal("duplicate insert reported a change")
	}
	if got := b.InOrder(); !reflect.DeepEqual(got, []int{10}) {
		t.Fatalf("InOrder = %v, want [10]", got)
	}
}

func TestBSTSearch(t *testing.T) {
	b := buildBST(50, 30, 70)
	for _, tc := range []struct {
		key  int
		want bool
	}{
		{50, true}, {30, true}, {70, true}, {31, false}, {-1, false},
	} {
		if got := b.Search(tc.key); got != tc.want {
			t.Errorf("Search(%d) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestBSTFindMax(t *testing.T) {
	b := NewBST()
	if _, ok := b.FindMax(); ok {
		t.Fatal("FindMax on empty tree reported a value")
	}
	b.InsertAll(50, 30, 70, 65, 90)
	if m, ok := b.FindMax(); !ok || m != 90 {
		t.Fatalf("FindMax = %d,%v, want 90,true", m, ok)
	}
}

func TestBSTHeight(t *testing.T) {
	b := NewBST()
	if b.Height() != 0 {
		t.Fatalf("empty Height = %d, want 0", b.Height())
	}
	b.Insert(10)
	if b.Height() != 1 {
		t.Fatalf("single Height = %d, want 1", b.Height())
	}
	b.InsertAll(5, 15, 3)
	if b.Height() != 3 {
		t.Fatalf("Height = %d, want 3", b.Height())
	}
}

func TestBSTDelete(t *testing.T) {
	tests := []struct {
		name   string
		keys   []int
		del    int
		want   []int
		wantOK bool
	}{
		{"leaf", []int{50, 30, 70}, 30, []int{50, 70}, true},
		{"one child", []int{50, 30, 20}, 30, []int{20, 50}, true},
		{"two children", []int{50, 30, 70, 20, 40}, 30, []int{20, 40, 50, 70}, true},
		{"root", []int{50, 30, 70}, 50, []int{30, 70}, true},
		{"absent", []int{50, 30}, 99, []int{30, 50}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := buildBST(tc.keys...)
			if got := b.Delete(tc.del); got != tc.wantOK {
				t.Fatalf("Delete(%d) = %v, want %v", tc.del, got, tc.wantOK)
			}
			if got := b.InOrder(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("InOrder = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBSTDetachSubtree(t *testing.T) {
	b := buildBST(50, 30, 70, 20, 40)

	frag, ok := b.DetachSubtree(30)
	if !ok {
		t.Fatal("DetachSubtree returned false")
	}
	keys := Keys(frag)
	if want := []int{30, 20, 40}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("fragment keys = %v, want %v", keys, want)
	}
	if got := b.InOrder(); !reflect.DeepEqual(got, []int{50, 70}) {
		t.Fatalf("remaining InOrder = %v, want [50 70]", got)
	}
}

func TestBSTDetachRoot(t *testing.T) {
	b := buildBST(50, 30, 70)
	frag, ok := b.DetachSubtree(50)
	if !ok || frag.Key != 50 {
		t.Fatalf("DetachSubtree(root) = %+v, %v", frag, ok)
	}
	if got := b.InOrder(); len(got) != 0 {
		t.Fatalf("tree should be empty, got %v", got)
	}
}

func TestBSTDetachAbsent(t *testing.T) {
	b := buildBST(50)
	if _, ok := b.DetachSubtree(99); ok {
		t.Fatal("DetachSubtree of absent key succeeded")
	}
}

func TestBSTSnapshotShape(t *testing.T) {
	b := buildBST(50, 30, 70)
	s := b.Snapshot()
	if len(s.Nodes) != 3 || len(s.Edges) != 2 {
		t.Fatalf("snapshot shape %d/%d, want 3/2", len(s.Nodes), len(s.Edges))
	}
	var roots int
	for _, n := range s.Nodes {
		if n.Root {
			roots++
		}
	}
	if roots != 1 {
		t.Fatalf("snapshot flags %d roots, want 1", roots)
	}
}
