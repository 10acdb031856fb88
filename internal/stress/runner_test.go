package stress

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunCompletes(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), 200*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Cores != 2 {
		t.Errorf("expected 2 cores, got %d", res.Cores)
	}
	if res.Score == 0 {
		t.Error("expected nonzero score after 200ms burn")
	}
	if res.Elapsed < 200*time.Millisecond {
		t.Errorf("elapsed %v shorter than requested duration", res.Elapsed)
	}
}

func TestRunCancellation(t *testing.T) {
	r := NewRunner()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res, err := r.Run(ctx, time.Hour, 2)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
	// Partial score is still reported.
	if res.Cores != 2 {
		t.Errorf("expected 2 cores in result, got %d", res.Cores)
	}
}

func TestRunClampsCores(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), 50*time.Millisecond, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cores != 1 {
		t.Errorf("expected core count clamped to 1, got %d", res.Cores)
	}
}

func TestMoreCoresScoreHigher(t *testing.T) {
	if testing.Short() {
		t.Skip("timing-sensitive comparison")
	}
	r := NewRunner()

	one, err := r.Run(context.Background(), 300*time.Millisecond, 1)
	if err != nil {
		t.Fatalf("Run(1 core): %v", err)
	}
	two, err := r.Run(context.Background(), 300*time.Millisecond, 2)
	if err != nil {
		t.Fatalf("Run(2 cores): %v", err)
	}

	// Not a strict 2x on loaded machines, but two workers should never lose
	// badly to one over the same window.
	if two.Score < one.Score/2 {
		t.Errorf("2-core score %d implausibly low vs 1-core score %d", two.Score, one.Score)
	}
}
