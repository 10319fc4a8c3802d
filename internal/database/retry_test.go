package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/models"
)

func TestBackoffDelay(t *testing.T) {
	t.Parallel()

	b := Backoff{MaxAttempts: 5, BaseDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond}

	tests := []struct {
		attempt int
		min     time.Duration
		max     time.Duration
	}{
		{attempt: 0, min: 10 * time.Millisecond, max: 15 * time.Millisecond},
		{attempt: 1, min: 20 * time.Millisecond, max: 30 * time.Millisecond},
		{attempt: 2, min: 40 * time.Millisecond, max: 60 * time.Millisecond},
		{attempt: 6, min: 50 * time.Millisecond, max: 75 * time.Millisecond},
	}

	for _, tt := range tests {
		for range 20 {
			d := b.Delay(tt.attempt)
			if d < tt.min || d >= tt.max {
				t.Fatalf("attempt %d: delay %v outside [%v, %v)", tt.attempt, d, tt.min, tt.max)
			}
		}
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	b := Backoff{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	calls := 0
	err := Retry(context.Background(), b, nil, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetry_ReturnsLastError(t *testing.T) {
	t.Parallel()

	b := Backoff{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	last := errors.New("third")
	err := Retry(context.Background(), b, nil, func(context.Context) error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("earlier")
	})
	if !errors.Is(err, last) {
		t.Fatalf("Expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{MaxAttempts: 10, BaseDelay: time.Hour}

	calls := 0
	err := Retry(ctx, b, nil, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", calls)
	}
}

func TestOpen_ConnectionErrorAfterRetries(t *testing.T) {
	t.Parallel()

	cfg := config.Database{
		Driver: "postgres",
		DSN:    "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		Retry:  config.Retry{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}

	_, err := Open(context.Background(), cfg, nil)
	if err == nil {
		t.Fatal("Expected connection error")
	}
	if !errors.Is(err, models.ErrConnection) {
		t.Errorf("Expected connection kind, got %v", err)
	}
}
