package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--env", "test"}, args...))

	err := root.Execute()
	return out.String(), err
}

func fakeListenNotes(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ln-key", r.Header.Get("X-ListenAPI-Key"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("q") == "zzz_no_such_podcast" {
				_, _ = w.Write([]byte(`{"count":0,"total":0,"results":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"count":2,"total":2,"results":[
				{"id":"p1","title_original":"Serial"},
				{"id":"p2","title_original":"Serial Killers"}]}`))
		case "/podcasts/p1":
			_, _ = w.Write([]byte(`{"id":"p1","title":"Serial","episodes":[
				{"id":"e1","title":"Ep1","audio":"https://x/ep1.mp3"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	t.Setenv("LISTEN_NOTES_API_KEY", "ln-key")
	t.Setenv("LISTENNOTES_BASE_URL", srv.URL)
	return srv
}

func TestSearchCommand(t *testing.T) {
	fakeListenNotes(t)

	out, err := runCLI(t, "search", "Serial")
	require.NoError(t, err)
	assert.Contains(t, out, "p1  Serial\n")
	assert.Contains(t, out, "p2  Serial Killers\n")

	out, err = runCLI(t, "search", "zzz_no_such_podcast")
	require.NoError(t, err)
	assert.Equal(t, "no podcasts found\n", out)
}

func TestEpisodesCommand(t *testing.T) {
	fakeListenNotes(t)

	out, err := runCLI(t, "episodes", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Ep1    https://x/ep1.mp3\n")
}

func TestSearchCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("LISTEN_NOTES_API_KEY", "")
	t.Setenv("LISTENNOTES_API_KEY", "")

	_, err := runCLI(t, "search", "Serial")
	assert.ErrorContains(t, err, "APIKey")
}

func TestServeCommand_ValidatesConfig(t *testing.T) {
	t.Setenv("TG_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	_, err := runCLI(t, "serve")
	assert.ErrorContains(t, err, "Token")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "vdev\n", out)

	out, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "podcastbot vdev")
}
