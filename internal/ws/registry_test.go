package ws

import "testing"

func TestRegistryEnsureIsIdempotent(t *testing.T) {
	g := NewRegistry()
	a := g.Ensure("r1")
	b := g.Ensure("r1")
	if a != b {
		t.Error("Ensure created a second room for the same id")
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}

	g.Remove("r1")
	if _, ok := g.Get("r1"); ok {
		t.Error("room survived Remove")
	}
	g.Remove("r1") // no-op on absent id
}

func TestConnIndex(t *testing.T) {
	ix := NewConnIndex()

	if _, ok := ix.Resolve("c1"); ok {
		t.Error("resolved a binding that was never made")
	}

	ix.Bind("c1", "r1")
	ix.Bind("c1", "r2") // rebind overwrites
	if roomID, ok := ix.Resolve("c1"); !ok || roomID != "r2" {
		t.Errorf("Resolve = %q, %v, want r2", roomID, ok)
	}

	ix.Unbind("c1")
	if _, ok := ix.Resolve("c1"); ok {
		t.Error("binding survived Unbind")
	}
	ix.Unbind("c1") // no-op on absent id
}
