package jobs

import (
	"testing"
	"time"
)

func TestBackoffDelayDoublesPerAttempt(t *testing.T) {
	base := 2000 * time.Millisecond

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 2000 * time.Millisecond},
		{attempt: 2, want: 4000 * time.Millisecond},
		{attempt: 3, want: 8000 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := BackoffDelay(base, tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %s, got %s", tc.attempt, tc.want, got)
		}
	}
}

func TestBackoffDelayDefaults(t *testing.T) {
	if got := BackoffDelay(0, 1); got != DefaultBackoffBase {
		t.Fatalf("expected default base %s, got %s", DefaultBackoffBase, got)
	}
	if got := BackoffDelay(time.Second, 0); got != time.Second {
		t.Fatalf("expected attempt floor of 1, got %s", got)
	}
}

func TestOptionsIgnoreInvalidOverrides(t *testing.T) {
	opts := Options{MaxAttempts: DefaultMaxAttempts, BackoffBase: DefaultBackoffBase}

	WithMaxAttempts(0)(&opts)
	WithBackoffBase(-time.Second)(&opts)

	if opts.MaxAttempts != DefaultMaxAttempts {
		t.Fatalf("expected max attempts unchanged, got %d", opts.MaxAttempts)
	}
	if opts.BackoffBase != DefaultBackoffBase {
		t.Fatalf("expected backoff base unchanged, got %s", opts.BackoffBase)
	}

	WithMaxAttempts(5)(&opts)
	WithBackoffBase(time.Second)(&opts)

	if opts.MaxAttempts != 5 || opts.BackoffBase != time.Second {
		t.Fatalf("expected overrides applied, got %+v", opts)
	}
}
