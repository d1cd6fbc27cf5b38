package yahoo

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yfantasy-go/yfantasy/internal/domain/fantasy"
	"github.com/yfantasy-go/yfantasy/internal/platform/logging"
	"github.com/yfantasy-go/yfantasy/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:        server.URL,
		AccessToken:    "secret-token",
		Timeout:        5 * time.Second,
		MaxRetries:     maxRetries,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func disabledBreaker() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{Enabled: false}
}

func TestFetchJSON_DecodesAndSendsAuth(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fantasy_content":{"league":[{"league_key":"388.l.27081"}]}}`))
	})

	client := newTestClient(t, handler, 0, disabledBreaker())
	doc, err := client.FetchJSON(context.Background(), "league/388.l.27081/standings")
	if err != nil {
		t.Fatalf("FetchJSON error: %v", err)
	}
	if _, ok := doc["fantasy_content"]; !ok {
		t.Fatalf("decoded document missing fantasy_content: %v", doc)
	}
	if gotPath != "/league/388.l.27081/standings?format=json" {
		t.Fatalf("request path = %q, want format=json appended", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestFetchJSON_ErrorPayloadIsTransportError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"description":"Invalid week parameter"}}`))
	})

	client := newTestClient(t, handler, 0, disabledBreaker())
	_, err := client.FetchJSON(context.Background(), "league/388.l.27081/scoreboard;week=99")
	if !stderrors.Is(err, fantasy.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport for embedded error payload", err)
	}
}

func TestFetchJSON_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"fantasy_content":{}}`))
	})

	client := newTestClient(t, handler, 1, disabledBreaker())
	if _, err := client.FetchJSON(context.Background(), "league/388.l.27081/settings"); err != nil {
		t.Fatalf("FetchJSON error after retry: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("server hit %d times, want 2", got)
	}
}

func TestFetchJSON_DoesNotRetryClientError(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, handler, 3, disabledBreaker())
	_, err := client.FetchJSON(context.Background(), "league/388.l.27081/standings")
	if !stderrors.Is(err, fantasy.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hit %d times, want 1 (4xx is not retried)", got)
	}
}

func TestFetchJSON_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(t, handler, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	if _, err := client.FetchJSON(context.Background(), "league/388.l.27081/standings"); err == nil {
		t.Fatal("expected error from failing upstream")
	}
	_, err := client.FetchJSON(context.Background(), "league/388.l.27081/settings")
	if !stderrors.Is(err, fantasy.ErrDependencyUnavailable) {
		t.Fatalf("error = %v, want ErrDependencyUnavailable once the circuit opens", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("server hit %d times, want 1 (open circuit short-circuits)", got)
	}
}

func TestPlayersRaw_PathTemplate(t *testing.T) {
	t.Parallel()

	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"fantasy_content":{}}`))
	})

	client := newTestClient(t, handler, 0, disabledBreaker())
	if _, err := client.PlayersRaw(context.Background(), "388.l.27081", 25, "FA", "CF"); err != nil {
		t.Fatalf("PlayersRaw error: %v", err)
	}
	want := "/league/388.l.27081/players;status=FA;position=CF;start=25;out=percent_owned?format=json"
	if gotPath != want {
		t.Fatalf("request path = %q, want %q", gotPath, want)
	}
}

func TestPlayersByKeysRaw_BuildsCompositeKeys(t *testing.T) {
	t.Parallel()

	var gotPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		_, _ = w.Write([]byte(`{"fantasy_content":{}}`))
	})

	client := newTestClient(t, handler, 0, disabledBreaker())
	if _, err := client.PlayersByKeysRaw(context.Background(), "388.l.27081", []int{9490, 8370}); err != nil {
		t.Fatalf("PlayersByKeysRaw error: %v", err)
	}
	want := "/league/388.l.27081/players;player_keys=388.p.9490,388.p.8370?format=json"
	if gotPath != want {
		t.Fatalf("request path = %q, want %q", gotPath, want)
	}
}

func TestGamePrefix(t *testing.T) {
	t.Parallel()

	if got := gamePrefix("388.l.27081"); got != "388" {
		t.Fatalf("gamePrefix = %q, want 388", got)
	}
	if got := gamePrefix("nhl"); got != "nhl" {
		t.Fatalf("gamePrefix = %q, want nhl", got)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText(`dial failed Authorization: Bearer secret-token`, "secret-token")
	if got != "dial failed Authorization: Bearer REDACTED" {
		t.Fatalf("sanitized = %q, token must not leak", got)
	}
}
