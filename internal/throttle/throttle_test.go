package throttle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitUsesDelay(t *testing.T) {
	c := New(DefaultDelay)
	var got []time.Duration
	c.after = func(d time.Duration) <-chan time.Time {
		got = append(got, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}
	for i := 0; i < 3; i++ {
		if err := c.Wait(context.Background()); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 waits, got %d", len(got))
	}
	for _, d := range got {
		if d != 100*time.Millisecond {
			t.Fatalf("wait delay = %v, want 100ms", d)
		}
	}
}

func TestWaitRealDelay(t *testing.T) {
	c := New(20 * time.Millisecond)
	begin := time.Now()
	if err := c.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(begin); elapsed < 20*time.Millisecond {
		t.Fatalf("Wait returned after %v, want >= 20ms", elapsed)
	}
}

func TestWaitCanceled(t *testing.T) {
	c := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait error = %v, want context.Canceled", err)
	}
}

func TestNewClampsNegativeDelay(t *testing.T) {
	if c := New(-time.Second); c.Delay != 0 {
		t.Fatalf("Delay = %v, want 0", c.Delay)
	}
}
