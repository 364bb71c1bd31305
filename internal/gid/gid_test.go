package gid

import "testing"

func TestStableWithinGoroutine(t *testing.T) {
	t.Parallel()
	if Get() != Get() {
		t.Fatal("id changed between calls on one goroutine")
	}
}

func TestDistinctAcrossGoroutines(t *testing.T) {
	t.Parallel()
	mine := Get()
	ch := make(chan uint64)
	go func() { ch <- Get() }()
	if other := <-ch; other == mine {
		t.Fatalf("two live goroutines share id %d", mine)
	}
}
