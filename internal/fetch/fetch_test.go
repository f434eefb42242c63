package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient() *Client {
	return New(Config{
		Timeout:     2 * time.Second,
		Retries:     3,
		Backoff:     10 * time.Millisecond,
		PoliteDelay: time.Millisecond,
		UserAgent:   "hv-sync-test/1.0",
	}, nil)
}

func TestFetchOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := newTestClient()
	res := c.Fetch(context.Background(), srv.URL)
	if res.Kind != KindOk {
		t.Fatalf("expected Ok, got %v (%v)", res.Kind, res.Err)
	}
	if string(res.Body) != "<html>ok</html>" {
		t.Fatalf("unexpected body %q", res.Body)
	}
}

func TestFetch404NoRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient()
	res := c.Fetch(context.Background(), srv.URL)
	if res.Kind != KindPermanent || res.Class != ErrHTTP4xx {
		t.Fatalf("expected Permanent/HTTP4xx, got %v/%v", res.Kind, res.Class)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected exactly one request, got %d", hits)
	}
}

func TestFetch5xxRetriesThenFails(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient()
	res := c.Fetch(context.Background(), srv.URL)
	if res.Kind != KindTransient || res.Class != ErrHTTP5xx {
		t.Fatalf("expected Transient/HTTP5xx, got %v/%v", res.Kind, res.Class)
	}
	if got := atomic.LoadInt32(&hits); got != 4 {
		t.Fatalf("expected 1 initial + 3 retries = 4 requests, got %d", got)
	}
}

func TestFetch5xxThenOkRecovers(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := newTestClient()
	res := c.Fetch(context.Background(), srv.URL)
	if res.Kind != KindOk {
		t.Fatalf("expected eventual Ok, got %v", res.Kind)
	}
}

func TestFetch400NoRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient()
	res := c.Fetch(context.Background(), srv.URL)
	if res.Kind != KindPermanent {
		t.Fatalf("expected Permanent, got %v", res.Kind)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected no retry on 400, got %d hits", hits)
	}
}
