package webclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raysh454/m3u8relay/internal/webclient"
)

func newClient(t *testing.T, httpClient *http.Client) *webclient.NetHTTPClient {
	t.Helper()
	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, httpClient)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewNetHTTPClient_NilLogger(t *testing.T) {
	t.Parallel()
	if _, err := webclient.NewNetHTTPClient(webclient.Config{}, nil, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestNewNetHTTPClient_TimeoutFromConfig(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: 3 * time.Second}, &noopLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	if got := client.HTTPClient().Timeout; got != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", got)
	}

	client, _ = webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, nil)
	if got := client.HTTPClient().Timeout; got != 0 {
		t.Errorf("expected no client timeout by default, got %v", got)
	}
}

// ─── Do: real HTTP round-trip via httptest ──────────────────────────────

func TestNetHTTPClient_Do_GET_ReturnsBody(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Custom", "hello")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "response body")
	}))
	defer ts.Close()

	client := newClient(t, ts.Client())

	resp, err := client.Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    ts.URL + "/test",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if resp.StatusCode != 200 || !resp.OK() {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Status != "OK" {
		t.Errorf("expected status text 'OK', got %q", resp.Status)
	}
	if string(resp.Body) != "response body" {
		t.Errorf("expected 'response body', got %q", resp.Body)
	}
	if resp.Headers.Get("X-Custom") != "hello" {
		t.Errorf("expected X-Custom header 'hello', got %q", resp.Headers.Get("X-Custom"))
	}
	if resp.FetchedAt.IsZero() {
		t.Error("expected FetchedAt to be set")
	}
}

func TestNetHTTPClient_Do_EmptyMethodDefaultsToGET(t *testing.T) {
	t.Parallel()
	var method string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	defer ts.Close()

	client := newClient(t, ts.Client())
	if _, err := client.Do(context.Background(), &webclient.Request{URL: ts.URL}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if method != http.MethodGet {
		t.Errorf("expected GET, got %q", method)
	}
}

func TestNetHTTPClient_Do_POST_SendsBody(t *testing.T) {
	t.Parallel()
	var receivedBody string
	var receivedMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedMethod = r.Method
		body, _ := io.ReadAll(r.Body)
		receivedBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := newClient(t, ts.Client())

	resp, err := client.Do(context.Background(), &webclient.Request{
		Method: "post",
		URL:    ts.URL + "/submit",
		Body:   []byte("payload"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if receivedMethod != "POST" {
		t.Errorf("expected POST, got %s", receivedMethod)
	}
	if receivedBody != "payload" {
		t.Errorf("expected body 'payload', got %q", receivedBody)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}

func TestNetHTTPClient_Do_ForwardsHeaders(t *testing.T) {
	t.Parallel()
	var receivedUA, receivedReferer string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
		receivedReferer = r.Header.Get("Referer")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := newClient(t, ts.Client())

	hdrs := http.Header{}
	hdrs.Set("User-Agent", "Mozilla/5.0 test")
	hdrs.Set("Referer", "https://example.com/")

	_, err := client.Do(context.Background(), &webclient.Request{
		Method:  "GET",
		URL:     ts.URL,
		Headers: hdrs,
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if receivedUA != "Mozilla/5.0 test" {
		t.Errorf("expected User-Agent forwarded, got %q", receivedUA)
	}
	if receivedReferer != "https://example.com/" {
		t.Errorf("expected Referer forwarded, got %q", receivedReferer)
	}
}

func TestNetHTTPClient_Do_PropagatesStatusCode(t *testing.T) {
	t.Parallel()
	codes := []int{200, 301, 404, 500}

	for _, code := range codes {
		code := code
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			httpClient := ts.Client()
			httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			}
			client := newClient(t, httpClient)

			resp, err := client.Do(context.Background(), &webclient.Request{
				Method: "GET",
				URL:    ts.URL,
			})
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if resp.StatusCode != code {
				t.Errorf("expected %d, got %d", code, resp.StatusCode)
			}
			if resp.Status != http.StatusText(code) {
				t.Errorf("expected status text %q, got %q", http.StatusText(code), resp.Status)
			}
			if resp.OK() != (code == 200) {
				t.Errorf("OK() = %v for %d", resp.OK(), code)
			}
		})
	}
}

func TestNetHTTPClient_Do_NilRequest_ReturnsError(t *testing.T) {
	t.Parallel()
	client := newClient(t, nil)

	_, err := client.Do(context.Background(), nil)
	if !errors.Is(err, webclient.ErrNilRequest) {
		t.Fatalf("expected ErrNilRequest, got %v", err)
	}
}

func TestNetHTTPClient_Do_ConnectionRefused_ReturnsError(t *testing.T) {
	t.Parallel()
	client := newClient(t, &http.Client{Timeout: 1 * time.Second})

	_, err := client.Do(context.Background(), &webclient.Request{
		Method: "GET",
		URL:    "http://127.0.0.1:1", // port 1 is unlikely to be open
	})
	if err == nil {
		t.Fatal("expected error for connection refused")
	}
}

func TestNetHTTPClient_Do_ContextCanceled_ReturnsError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer ts.Close()

	client := newClient(t, ts.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := client.Do(ctx, &webclient.Request{
		Method: "GET",
		URL:    ts.URL,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// ─── Large response body ──────────────────────────────────────────────

func TestNetHTTPClient_Do_LargeBody(t *testing.T) {
	t.Parallel()
	largeBody := strings.Repeat("X", 1<<20) // 1 MiB
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, largeBody)
	}))
	defer ts.Close()

	client := newClient(t, ts.Client())

	resp, err := client.Do(context.Background(), &webclient.Request{Method: "GET", URL: ts.URL})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if len(resp.Body) != 1<<20 {
		t.Errorf("expected 1MiB body, got %d bytes", len(resp.Body))
	}
}
