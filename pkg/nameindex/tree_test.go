package nameindex

import (
	"fmt"
	"testing"
)

func TestTree_InsertAndSearch(t *testing.T) {
	tree := NewWithDegree[int](3)

	tree.Insert([]byte("banana"), 1)
	tree.Insert([]byte("apple"), 2)
	tree.Insert([]byte("cherry"), 3)
	tree.Insert([]byte("date"), 4)

	v, found := tree.Search([]byte("apple"))
	if !found {
		t.Fatal("should find apple")
	}
	if v != 2 {
		t.Fatalf("apple value = %d, want 2", v)
	}

	if _, found := tree.Search([]byte("missing")); found {
		t.Fatal("missing key should not be found")
	}
}

func TestTree_UpsertOverwrites(t *testing.T) {
	tree := NewWithDegree[int](3)
	tree.Insert([]byte("k"), 1)
	tree.Insert([]byte("k"), 2)

	v, found := tree.Search([]byte("k"))
	if !found || v != 2 {
		t.Fatalf("expected overwritten value 2, got %d found=%v", v, found)
	}
}

func TestTree_UpsertSeesOldValue(t *testing.T) {
	tree := NewWithDegree[int](3)
	tree.Insert([]byte("k"), 10)

	err := tree.Upsert([]byte("k"), func(old int, exists bool) (int, error) {
		if !exists || old != 10 {
			t.Fatalf("expected exists=true old=10, got exists=%v old=%d", exists, old)
		}
		return old + 1, nil
	})
	if err != nil {
		t.Fatalf("upsert returned error: %v", err)
	}

	v, _ := tree.Search([]byte("k"))
	if v != 11 {
		t.Fatalf("value = %d, want 11", v)
	}
}

func TestTree_InsertForcesSplit(t *testing.T) {
	tree := NewWithDegree[int](3) // max 5 keys per node before split

	names := []string{"apple", "banana", "cherry", "date", "elderberry", "fig"}
	for i, n := range names {
		tree.Insert([]byte(n), i)
	}

	for i, n := range names {
		v, found := tree.Search([]byte(n))
		if !found || v != i {
			t.Fatalf("%s: found=%v value=%d, want %d", n, found, v, i)
		}
	}

	if tree.root.leaf {
		t.Fatal("root should no longer be a leaf after forcing a split")
	}
}

func TestTree_Delete(t *testing.T) {
	tree := NewWithDegree[int](3)
	tree.Insert([]byte("apple"), 1)
	tree.Insert([]byte("banana"), 2)
	tree.Insert([]byte("cherry"), 3)

	if !tree.Delete([]byte("banana")) {
		t.Fatal("delete should report found")
	}
	if _, found := tree.Search([]byte("banana")); found {
		t.Fatal("banana should be gone")
	}
	if tree.Delete([]byte("banana")) {
		t.Fatal("second delete should report not found")
	}
}

func TestTree_DeleteRebalancesAcrossSplit(t *testing.T) {
	tree := NewWithDegree[int](3)
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, n := range names {
		tree.Insert([]byte(n), i)
	}

	for _, n := range []string{"a", "c", "e", "g"} {
		if !tree.Delete([]byte(n)) {
			t.Fatalf("delete %q should succeed", n)
		}
	}

	for _, n := range []string{"b", "d", "f", "h"} {
		if _, found := tree.Search([]byte(n)); !found {
			t.Fatalf("%q should still be present", n)
		}
	}
	for _, n := range []string{"a", "c", "e", "g"} {
		if _, found := tree.Search([]byte(n)); found {
			t.Fatalf("%q should have been deleted", n)
		}
	}
}

func TestTree_IteratePrefix(t *testing.T) {
	tree := NewWithDegree[int](3)
	entries := []string{"bloomd.alpha", "bloomd.alpha.bf", "bloomd.beta", "bloomd.gamma"}
	for i, n := range entries {
		tree.Insert([]byte(n), i)
	}

	var got []string
	tree.IteratePrefix([]byte("bloomd.alpha"), func(key []byte, value int) bool {
		got = append(got, string(key))
		return true
	})

	if len(got) != 2 || got[0] != "bloomd.alpha" || got[1] != "bloomd.alpha.bf" {
		t.Fatalf("prefix iteration = %v, want [bloomd.alpha bloomd.alpha.bf]", got)
	}
}

func TestTree_IterateFullOrder(t *testing.T) {
	tree := NewWithDegree[int](3)
	for i := 9; i >= 0; i-- {
		tree.Insert([]byte(fmt.Sprintf("k%d", i)), i)
	}

	var last string
	first := true
	tree.Iterate(func(key []byte, value int) bool {
		if !first && string(key) < last {
			t.Fatalf("keys out of order: %s after %s", key, last)
		}
		last = string(key)
		first = false
		return true
	})
}

func TestTree_IterateEarlyStop(t *testing.T) {
	tree := NewWithDegree[int](3)
	for i := 0; i < 10; i++ {
		tree.Insert([]byte(fmt.Sprintf("k%d", i)), i)
	}

	count := 0
	tree.Iterate(func(key []byte, value int) bool {
		count++
		return count < 3
	})

	if count != 3 {
		t.Fatalf("iterate visited %d entries, want exactly 3 before stopping", count)
	}
}

func TestTree_CloneIsStructurallyIndependent(t *testing.T) {
	tree := NewWithDegree[int](3)
	for i, n := range []string{"a", "b", "c", "d", "e", "f"} {
		tree.Insert([]byte(n), i)
	}

	clone := tree.Clone()

	clone.Insert([]byte("z"), 99)
	if _, found := tree.Search([]byte("z")); found {
		t.Fatal("mutating the clone must not affect the source tree")
	}

	tree.Insert([]byte("y"), 100)
	if _, found := clone.Search([]byte("y")); found {
		t.Fatal("mutating the source must not affect the clone")
	}

	for i, n := range []string{"a", "b", "c", "d", "e", "f"} {
		v, found := clone.Search([]byte(n))
		if !found || v != i {
			t.Fatalf("clone missing shared entry %q: found=%v value=%d", n, found, v)
		}
	}
}

func TestTree_CloneValuesAreShared(t *testing.T) {
	type wrapper struct{ n int }
	tree := NewWithDegree[*wrapper](3)
	w := &wrapper{n: 1}
	tree.Insert([]byte("k"), w)

	clone := tree.Clone()
	v, found := clone.Search([]byte("k"))
	if !found {
		t.Fatal("clone should carry over the entry")
	}
	if v != w {
		t.Fatal("clone must alias the same value pointer as the source, not copy it")
	}
}
