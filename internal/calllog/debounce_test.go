package calllog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalesces(t *testing.T) {
	var mu sync.Mutex
	var got []string
	fired := make(chan struct{}, 4)

	d := NewDebouncer(30*time.Millisecond, func(v string) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		fired <- struct{}{}
	})

	for _, v := range []string{"5", "55", "555"} {
		d.Submit(v)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"555"}, got)
}

func TestDebouncerStop(t *testing.T) {
	called := make(chan string, 1)
	d := NewDebouncer(10*time.Millisecond, func(v string) { called <- v })

	d.Submit("x")
	d.Stop()

	select {
	case v := <-called:
		t.Fatalf("unexpected call with %q", v)
	case <-time.After(50 * time.Millisecond):
	}
}
