package cache

import "testing"

func TestLRUPutGet(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Put("a", 1)
	c.Put("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) reported a hit")
	}

	// Replacing a key does not grow the cache.
	c.Put("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) after replace = %v, want 10", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int, int](3)
	for i := 1; i <= 3; i++ {
		c.Put(i, i)
	}
	// Touch 1 so 2 becomes the oldest.
	c.Get(1)
	c.Put(4, 4)

	if _, ok := c.Get(2); ok {
		t.Error("least recently used entry 2 survived eviction")
	}
	for _, k := range []int{1, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %d was evicted unexpectedly", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestLRUDeleteFunc(t *testing.T) {
	c := NewLRU[int, string](8)
	for i := 0; i < 6; i++ {
		c.Put(i, "v")
	}
	n := c.DeleteFunc(func(k int) bool { return k%2 == 0 })
	if n != 3 {
		t.Errorf("DeleteFunc removed %d, want 3", n)
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	// Survivors still retrievable and list still consistent.
	for _, k := range []int{1, 3, 5} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %d missing after DeleteFunc", k)
		}
	}
	c.Put(7, "v")
	c.Put(9, "v")
	if c.Len() != 5 {
		t.Errorf("Len after re-insert = %d, want 5", c.Len())
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU[int, int](4)
	c.Put(1, 1)
	c.Put(2, 2)
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	c.Put(3, 3)
	if v, ok := c.Get(3); !ok || v != 3 {
		t.Errorf("Get after Clear = %v, %v; want 3, true", v, ok)
	}
}

func TestLRUDefaultCapacity(t *testing.T) {
	c := NewLRU[int, int](0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", c.Capacity(), DefaultCapacity)
	}
}

func BenchmarkLRUGet(b *testing.B) {
	b.ReportAllocs()
	c := NewLRU[int, int](128)
	for i := 0; i < 128; i++ {
		c.Put(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 128)
	}
}
