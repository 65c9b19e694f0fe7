package listctl

import (
	"sync"
	"testing"
	"time"
)

func TestDebouncer_OnlyLastChangeCommits(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(0)
	if d.Delay != DefaultSearchDelay {
		t.Fatalf("expected default delay; got %s", d.Delay)
	}
	s1 := d.Change("g")
	s2 := d.Change("go")
	s3 := d.Change("go ")
	if _, ok := d.Fire(s1); ok {
		t.Fatalf("older tick must not commit")
	}
	if _, ok := d.Fire(s2); ok {
		t.Fatalf("older tick must not commit")
	}
	v, ok := d.Fire(s3)
	if !ok || v != "go" {
		t.Fatalf("expected latest trimmed value; got %q ok=%v", v, ok)
	}
	if _, ok := d.Fire(s3); ok {
		t.Fatalf("a tick commits at most once")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(time.Millisecond)
	seq := d.Change("x")
	d.Cancel()
	if d.Pending() {
		t.Fatalf("expected nothing pending after cancel")
	}
	if _, ok := d.Fire(seq); ok {
		t.Fatalf("cancelled change must not commit")
	}
}

func TestTimerDebouncer_CoalescesBursts(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{}, 4)
	d := NewTimerDebouncer(20*time.Millisecond, func(v string) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		done <- struct{}{}
	})
	defer d.Stop()

	for _, v := range []string{"a", "ab", "abc"} {
		d.Notify(v)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced call never ran")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "abc" {
		t.Fatalf("expected one call with the last value; got %v", got)
	}
}

func TestTimerDebouncer_FlushAndStop(t *testing.T) {
	t.Parallel()

	calls := 0
	var mu sync.Mutex
	d := NewTimerDebouncer(time.Hour, func(int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	d.Notify(1)
	d.Flush()
	d.Flush()
	d.Stop()
	d.Notify(2)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected exactly one flushed call; got %d", calls)
	}
}
