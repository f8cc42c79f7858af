package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForElapses(t *testing.T) {
	if err := WaitFor(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestWaitForStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("wait did not return promptly after cancel")
	}
}

func TestWaitForNonPositiveDuration(t *testing.T) {
	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("expected no error for zero duration, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := WaitFor(ctx, -time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled context to be reported, got %v", err)
	}
}

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "disabled limit", input: `{"error":"boom"}`, limit: 0, expect: ""},
		{name: "short body kept", input: `{"error":"boom"}`, limit: 64, expect: `{"error":"boom"}`},
		{name: "long body cut", input: "<html><body>gateway timeout</body></html>", limit: 12, expect: "<html><body>..."},
		{name: "counts runes not bytes", input: "ошибка сервера", limit: 6, expect: "ошибка..."},
		{name: "trailing newline dropped", input: "upstream failed\n", limit: 15, expect: "upstream failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
