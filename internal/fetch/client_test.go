package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "couponwatch-test/1.0", 100)
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "couponwatch-test/1.0" {
		t.Errorf("User-Agent = %q, want couponwatch-test/1.0", gotUA)
	}
}

func TestNewClient_RateLimits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	// 10 rps, burst 1: the second request must wait roughly 100ms.
	client := NewClient(5*time.Second, "ua", 10)

	start := time.Now()
	for i := 0; i < 2; i++ {
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("Get %d failed: %v", i, err)
		}
		resp.Body.Close()
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("two requests completed in %s; limiter did not throttle", elapsed)
	}
}
