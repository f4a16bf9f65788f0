package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	project, err := os.ReadFile("testdata/project.html")
	require.NoError(t, err)
	profile, err := os.ReadFile("testdata/profile.html")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/projects/playroom/killer-bunnies-quest-deluxe", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(project)
	})
	mux.HandleFunc("/projects/broken/page", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><h1 id=\"title\">Broken</h1></body></html>"))
	})
	mux.HandleFunc("/projects/down/server", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/projects/slow/server", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/profile/jdoe", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(profile)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: baseURL, Timeout: timeout, Locale: DefaultLocale, Logger: zap.NewNop()})
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "not-a-url"})
	require.Error(t, err)

	c, err := NewClient(Options{})
	require.NoError(t, err)
	require.Equal(t, "https://www.kickstarter.com/projects/a/b", c.ProjectURL("a/b"))
	require.Equal(t, "https://www.kickstarter.com/profile/jdoe", c.ProfileURL("jdoe"))

	c, err = NewClient(Options{BaseURL: "http://localhost:8080/"})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/projects/a/b", c.ProjectURL("a/b"))
}

func TestClient_Scrape(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL, time.Second)

	record, err := c.Scrape(context.Background(), "playroom/killer-bunnies-quest-deluxe")
	require.NoError(t, err)
	require.Equal(t, "Killer Bunnies Quest Deluxe", record.Title)
	require.Equal(t, "$1,234,567.50", record.PledgedAmount)
	require.Equal(t, "4213", record.BackerCount)
	require.Equal(t, "12", record.UpdateCount)
	require.True(t, record.EndTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestClient_ScrapeFailures(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL, 200*time.Millisecond)

	cases := []struct {
		name   string
		id     string
		target error
		status int
	}{
		{"server error", "down/server", ErrTransport, http.StatusInternalServerError},
		{"not found", "nobody/here", ErrTransport, http.StatusNotFound},
		{"timeout", "slow/server", ErrTransport, 0},
		{"missing fields", "broken/page", ErrMissingField, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Scrape(context.Background(), tc.id)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.target), "got %v", err)
			require.True(t, IsRecoverable(err))

			var te *TransportError
			if errors.As(err, &te) {
				require.Equal(t, tc.status, te.Status)
			}
		})
	}
}

func TestClient_ScrapeInvalidID(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", time.Second)

	_, err := c.Scrape(context.Background(), "not-an-id")
	require.Error(t, err)
	require.False(t, IsRecoverable(err))
}

func TestClient_ScrapeCanceled(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Scrape(ctx, "slow/server")
	require.ErrorIs(t, err, ErrTransport)
}

func TestClient_ProfileProjects(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL, time.Second)

	ids, err := c.ProfileProjects(context.Background(), "jdoe")
	require.NoError(t, err)
	// links on the fixture are rooted or point at the production host
	require.Contains(t, ids, "playroom/killer-bunnies-quest-deluxe")
	require.Contains(t, ids, "ouya/ouya-a-new-kind-of-video-game-console")

	ids, err = c.ProfileProjects(context.Background(), "  ")
	require.NoError(t, err)
	require.Nil(t, ids)

	_, err = c.ProfileProjects(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrTransport)
}
