package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testProvider() *GeminiProvider {
	return &GeminiProvider{retryWait: time.Millisecond}
}

func TestInvokeWithRetryQuotaExhaustion(t *testing.T) {
	g := testProvider()

	attempts := 0
	call := func() (string, error) {
		attempts++
		return "", errors.New("googleapi: Error 429: quota exceeded")
	}

	var notified []int
	onRetry := func(attempt int, wait time.Duration) {
		notified = append(notified, attempt)
	}

	_, err := g.invokeWithRetry(context.Background(), "gemini-2.5-flash", call, onRetry)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if attempts != maxAttempts {
		t.Fatalf("expected exactly %d attempts, got %d", maxAttempts, attempts)
	}
	if len(notified) != maxAttempts-1 {
		t.Fatalf("expected %d retry notifications, got %d", maxAttempts-1, len(notified))
	}
	if notified[0] != 1 || notified[1] != 2 {
		t.Fatalf("unexpected notify attempts: %v", notified)
	}
}

func TestInvokeWithRetryUnknownModelFailsFast(t *testing.T) {
	g := testProvider()

	attempts := 0
	call := func() (string, error) {
		attempts++
		return "", errors.New("googleapi: Error 404: model not found")
	}

	_, err := g.invokeWithRetry(context.Background(), "gemini-nope", call, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var unknown *UnknownModelError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownModelError, got %v", err)
	}
	if unknown.Model != "gemini-nope" {
		t.Fatalf("expected offending model in error, got %q", unknown.Model)
	}
	if attempts != 1 {
		t.Fatalf("unknown model must not be retried, got %d attempts", attempts)
	}
}

func TestInvokeWithRetryOpaqueFailureFailsFast(t *testing.T) {
	g := testProvider()

	attempts := 0
	call := func() (string, error) {
		attempts++
		return "", errors.New("connection reset by peer")
	}

	_, err := g.invokeWithRetry(context.Background(), "gemini-2.5-flash", call, nil)
	if err == nil || err.Error() != "connection reset by peer" {
		t.Fatalf("expected raw error passed through, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("opaque errors must not be retried, got %d attempts", attempts)
	}
}

func TestInvokeWithRetryRecoversAfterQuota(t *testing.T) {
	g := testProvider()

	attempts := 0
	call := func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("rate limit exceeded")
		}
		return "raw reply", nil
	}

	text, err := g.invokeWithRetry(context.Background(), "gemini-2.5-flash", call, nil)
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if text != "raw reply" {
		t.Fatalf("expected raw reply verbatim, got %q", text)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		quota   bool
		unknown bool
	}{
		{"http 429", errors.New("googleapi: Error 429: too many requests"), true, false},
		{"quota wording", errors.New("Quota exceeded for quota metric"), true, false},
		{"rate limit wording", errors.New("rate limit hit"), true, false},
		{"http 404", errors.New("googleapi: Error 404"), false, true},
		{"not found wording", errors.New("model gemini-x is Not Found"), false, true},
		{"other", errors.New("internal error"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isQuotaError(tt.err); got != tt.quota {
				t.Errorf("isQuotaError() = %v, want %v", got, tt.quota)
			}
			if got := isUnknownModelError(tt.err); got != tt.unknown {
				t.Errorf("isUnknownModelError() = %v, want %v", got, tt.unknown)
			}
		})
	}
}
