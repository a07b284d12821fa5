//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/tablekeep/tablekeep/internal/auth"
	"github.com/tablekeep/tablekeep/internal/client"
)

// env returns the value of key or the provided fallback when the env var is unset.
func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ping checks that a GET request to the given URL returns HTTP 200.
// It is used to quickly skip tests when the dev stack is not running.
func ping(url string) error {
	r, err := http.Get(url)
	if err != nil {
		return err
	}
	r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return &client.APIError{Op: "ping", StatusCode: r.StatusCode, Status: http.StatusText(r.StatusCode)}
	}
	return nil
}

// devClient returns a client for the running campaign-service, authenticated
// with TABLEKEEP_TOKEN or the local dev key. The test is skipped when the
// service is unreachable.
func devClient(t *testing.T) *client.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	base := env("TABLEKEEP_API_URL", "http://localhost:8080")
	if err := ping(base + "/api/health"); err != nil {
		t.Skipf("service %s unreachable: %v", base, err)
	}
	c, err := client.New(base, env("TABLEKEEP_TOKEN", auth.LocalDevAPIKey), client.WithHTTPTimeout(30*time.Second))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	waitForHealthy(t, c, 10*time.Second)
	return c
}

// waitForHealthy polls /api/health until the campaign-service reports
// "healthy" or the timeout elapses.
func waitForHealthy(t *testing.T, c *client.Client, timeout time.Duration) {
	ctx := context.Background()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if status, err := c.Health(ctx); err == nil && status == "healthy" {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("campaign-service not healthy within %s", timeout)
}
