package syncx

import (
	"sync"
	"testing"
)

func TestGuardGetSetSwap(t *testing.T) {
	g := NewGuard("default template")

	g.Set("custom template")
	if got := g.Get(); got != "custom template" {
		t.Errorf("Get() after Set = %q, want %q", got, "custom template")
	}

	old := g.Swap("reloaded")
	if old != "custom template" {
		t.Errorf("Swap returned %q, want %q", old, "custom template")
	}
	if got := g.Get(); got != "reloaded" {
		t.Errorf("Get() after Swap = %q, want %q", got, "reloaded")
	}
}

func TestView(t *testing.T) {
	g := NewGuard(map[string]int{"a": 1, "b": 2})

	n := View(g, func(m map[string]int) int { return len(m) })
	if n != 2 {
		t.Errorf("View() = %d, want 2", n)
	}
}

func TestModify(t *testing.T) {
	g := NewGuard(map[string]string{"client": "old"})

	prev := Modify(g, func(m *map[string]string) string {
		p := (*m)["client"]
		(*m)["client"] = "new"
		return p
	})

	if prev != "old" {
		t.Errorf("Modify returned %q, want %q", prev, "old")
	}
	if got := View(g, func(m map[string]string) string { return m["client"] }); got != "new" {
		t.Errorf("value = %q, want %q", got, "new")
	}
}

func TestGuardConcurrentSafety(t *testing.T) {
	g := NewGuard(0)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			g.Write(func(v *int) { *v++ })
		}()
		go func() {
			defer wg.Done()
			_ = View(g, func(v int) int { return v })
		}()
	}
	wg.Wait()

	if got := g.Get(); got != 100 {
		t.Errorf("Get() = %d, want 100", got)
	}
}
