package resolve

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDedupeBy_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	in := []string{"Apple", "banana", "APPLE", "cherry", "Banana"}
	out := DedupeBy(in, 0, func(s string) string { return lower(s) })

	want := []string{"Apple", "banana", "cherry"}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestDedupeBy_Cap(t *testing.T) {
	t.Parallel()

	in := []int{1, 1, 2, 3, 4, 5}
	out := DedupeBy(in, 3, func(n int) int { return n })
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", out)
	}
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func TestRetry_SucceedsWithinBound(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetry_ExhaustsAndReturnsLastError(t *testing.T) {
	t.Parallel()

	calls := 0
	wantErr := errors.New("still broken")
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want exactly 3", calls)
	}
}

func TestRetry_ContextCancelAbortsWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, time.Hour, func() error {
		calls++
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
