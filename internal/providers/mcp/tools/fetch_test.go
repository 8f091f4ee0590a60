package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/retry"
)

// fastRetry keeps table cases quick: one retry, no real backoff.
func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:    1,
		BackoffFactor: 1.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	}
}

func pageArgs(url string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"url": %q}`, url))
}

const venuePage = `<html><body>
<h1>Vinyl Room</h1>
<p>Listening bar on the Bowery. <a href="https://example.com/menu">Menu</a></p>
<table><tr><td>Open</td><td>18:00</td></tr></table>
</body></html>`

func TestFetchVenuePage(t *testing.T) {
	tests := []struct {
		name         string
		handler      http.HandlerFunc
		wantContains []string
		wantErrMsg   string
	}{
		{
			name: "venue page is flattened to text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, venuePage)
			},
			wantContains: []string{"Vinyl Room", "Listening bar on the Bowery"},
		},
		{
			name: "links survive flattening",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, venuePage)
			},
			wantContains: []string{"https://example.com/menu"},
		},
		{
			name: "json endpoints pass through",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"venue": "Vinyl Room", "rating": 4.7}`)
			},
			wantContains: []string{`"rating": 4.7`},
		},
		{
			name: "entities are decoded",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				fmt.Fprint(w, `<html><body><p>Fish &amp; chips, table for two</p></body></html>`)
			},
			wantContains: []string{"Fish & chips"},
		},
		{
			name: "missing page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErrMsg: "HTTP 404",
		},
		{
			name: "upstream failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErrMsg: "HTTP 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			fetch := NewFetchWithTimeout(defaultFetchTimeout, fastRetry())
			result, err := fetch.FetchVenuePage(context.Background(), pageArgs(server.URL))

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContains {
				assert.Contains(t, result, want)
			}
		})
	}
}

func TestFetchVenuePageRejectsBadArgs(t *testing.T) {
	fetch := NewFetch()

	_, err := fetch.FetchVenuePage(context.Background(), json.RawMessage(`{"url": `))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")
}

func TestFetchVenuePageRequiresURL(t *testing.T) {
	fetch := NewFetchWithTimeout(defaultFetchTimeout, fastRetry())

	_, err := fetch.FetchVenuePage(context.Background(), json.RawMessage(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch url")
}

func TestFetchVenuePageCapsResponseSize(t *testing.T) {
	filler := strings.Repeat("a", 64*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		for written := 0; written < maxResponseSize+len(filler); written += len(filler) {
			w.Write([]byte(filler))
		}
	}))
	defer server.Close()

	fetch := NewFetchWithTimeout(defaultFetchTimeout, fastRetry())
	result, err := fetch.FetchVenuePage(context.Background(), pageArgs(server.URL))

	require.NoError(t, err)
	assert.Equal(t, maxResponseSize, strings.Count(result, "a"))
}

func TestFetchVenuePageHonoursClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	fetch := NewFetchWithTimeout(50*time.Millisecond, fastRetry())
	_, err := fetch.FetchVenuePage(context.Background(), pageArgs(server.URL))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch url")
}

func TestFetchVenuePageRetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "Vinyl Room is open tonight")
	}))
	defer server.Close()

	fetch := NewFetchWithTimeout(defaultFetchTimeout, fastRetry())
	result, err := fetch.FetchVenuePage(context.Background(), pageArgs(server.URL))

	require.NoError(t, err)
	assert.Contains(t, result, "Vinyl Room is open tonight")
	assert.Equal(t, 2, attempts)
}

func TestFetchVenuePageSendsScoutUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	fetch := NewFetch()
	_, err := fetch.FetchVenuePage(context.Background(), pageArgs(server.URL))

	require.NoError(t, err)
	assert.Equal(t, core.ScoutUserAgent, gotUA)
}

func TestFetchDefinitions(t *testing.T) {
	defs := NewFetch().GetDefinitions()

	def, ok := defs["fetch_venue_page"]
	require.True(t, ok)
	assert.NotEmpty(t, def.Description)
	assert.Contains(t, def.Schema, `"url"`)
	assert.NotNil(t, def.Handler)
}
