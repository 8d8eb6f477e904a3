package memory

import (
	"sync"
	"testing"
)

func TestIngestGuardSerializesPerDocument(t *testing.T) {
	guard := NewIngestGuard()

	if !guard.TryAcquire("doc-a") {
		t.Fatal("first acquire must succeed")
	}
	if guard.TryAcquire("doc-a") {
		t.Error("second acquire for the same doc must fail while held")
	}
	if !guard.TryAcquire("doc-b") {
		t.Error("other documents must not be blocked")
	}

	guard.Release("doc-a")
	if !guard.TryAcquire("doc-a") {
		t.Error("acquire after release must succeed")
	}
}

func TestIngestGuardConcurrentAcquire(t *testing.T) {
	guard := NewIngestGuard()

	const workers = 32
	var wg sync.WaitGroup
	won := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.TryAcquire("doc") {
				won <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(won)

	if got := len(won); got != 1 {
		t.Errorf("%d goroutines acquired the same doc, want exactly 1", got)
	}
}
