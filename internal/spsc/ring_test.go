package spsc

import (
	"sync"
	"testing"
)

func TestPushPopSingleThread(t *testing.T) {
	t.Parallel()
	r := New[int](8)

	if !r.Empty() {
		t.Fatal("new ring should be empty")
	}

	var out int
	if r.Pop(&out) {
		t.Fatal("pop on empty ring should fail")
	}

	for i := 0; i < 8; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d should succeed", i)
		}
	}
	if r.Push(99) {
		t.Fatal("push on full ring should fail")
	}
	if r.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", r.Len())
	}

	for i := 0; i < 8; i++ {
		if !r.Pop(&out) {
			t.Fatalf("pop %d should succeed", i)
		}
		if out != i {
			t.Fatalf("pop %d = %d, FIFO order violated", i, out)
		}
	}
	if r.Pop(&out) {
		t.Fatal("pop on drained ring should fail")
	}
}

func TestWrapAround(t *testing.T) {
	t.Parallel()
	r := New[uint64](4)

	var out uint64
	for i := uint64(0); i < 1000; i++ {
		if !r.Push(i) {
			t.Fatalf("push %d failed on non-full ring", i)
		}
		if !r.Pop(&out) || out != i {
			t.Fatalf("pop = %d, want %d", out, i)
		}
	}
}

// TestCrossThreadOrdering drives a producer and a consumer on separate
// goroutines and checks the consumer observes every element in push order.
func TestCrossThreadOrdering(t *testing.T) {
	t.Parallel()
	const n = 1 << 20
	r := New[uint64](1024)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(0); i < n; {
			if r.Push(i) {
				i++
			}
		}
	}()

	var out uint64
	for want := uint64(0); want < n; {
		if r.Pop(&out) {
			if out != want {
				t.Errorf("pop = %d, want %d (order violated)", out, want)
				break
			}
			want++
		}
	}
	wg.Wait()
}

func TestNewPanicsOnBadCapacity(t *testing.T) {
	t.Parallel()
	for _, c := range []uint64{0, 3, 6, 1000} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%d) should panic", c)
				}
			}()
			New[int](c)
		}()
	}
}

func BenchmarkPushPop(b *testing.B) {
	r := New[uint64](16384)
	var out uint64
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Push(uint64(i))
		r.Pop(&out)
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	r := New[uint64](16384)
	done := make(chan struct{})
	go func() {
		var out uint64
		for n := 0; n < b.N; {
			if r.Pop(&out) {
				n++
			}
		}
		close(done)
	}()
	for i := 0; i < b.N; {
		if r.Push(uint64(i)) {
			i++
		}
	}
	<-done
}
