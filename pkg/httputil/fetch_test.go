package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mhersch/treeline/pkg/errors"
)

func fastClient() *Client {
	c := NewClient()
	c.delay = time.Millisecond
	return c
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"root","topic":"Root"}`))
	}))
	defer srv.Close()

	body, err := fastClient().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != `{"id":"root","topic":"Root"}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := fastClient().Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("fetch should succeed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchNotFoundNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := fastClient().Fetch(context.Background(), srv.URL)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("4xx should not retry, got %d attempts", calls.Load())
	}
}

func TestFetchRejectsBadURL(t *testing.T) {
	for _, url := range []string{"", "ftp://host/doc.json", "doc.json"} {
		if _, err := fastClient().Fetch(context.Background(), url); err == nil {
			t.Errorf("url %q should be rejected", url)
		}
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return errors.New(errors.ErrCodeInvalidInput, "permanent")
	})
	if err == nil || calls != 1 {
		t.Errorf("non-retryable error should stop immediately, calls=%d err=%v", calls, err)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "transient")}
	})
	if err != context.Canceled {
		t.Errorf("cancelled context should abort retries, got %v", err)
	}
}
