package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bour278/bourbaki/internal/adapters/clients"
	"github.com/bour278/bourbaki/internal/app"
)

var testPosts = map[string]string{
	"riemann.md": "---\ntitle: The zeta function\ncategory: Mathematics\npublishDate: 2024-02-01\ntags: [analysis]\n---\n\nZeros of $\\zeta(s)$ on the critical line.\n",
	"halting.md": "---\ntitle: Halting\ncategory: Computer Science\npublishDate: 2024-03-01\n---\n\nNo decider exists.\n",
	"broken.md":  "---\ntitle: [unclosed\n---\nbody\n",
	"notes.txt":  "not a post",
}

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}

	return dir
}

// run executes the CLI with a private, empty config directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	root := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc1234", BuildTime: "2024-06-01T00:00:00Z"})
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", t.TempDir()}, args...))

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestCheck_Text(t *testing.T) {
	dir := writeContent(t, testPosts)

	out, err := run(t, "check", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "2 posts loaded from "+dir)
	assert.Contains(t, out, "ok    halting")
	assert.Contains(t, out, "ok    riemann")
	assert.Contains(t, out, "skip  broken.md ("+app.SkipMalformed+")")
	assert.NotContains(t, out, "notes.txt")
}

func TestCheck_Strict(t *testing.T) {
	dir := writeContent(t, testPosts)

	_, err := run(t, "check", "--dir", dir, "--strict")
	require.ErrorIs(t, err, ErrContentIssues)

	clean := writeContent(t, map[string]string{"halting.md": testPosts["halting.md"]})

	_, err = run(t, "check", "--dir", clean, "--strict")
	require.NoError(t, err)
}

func TestCheck_YAML(t *testing.T) {
	dir := writeContent(t, testPosts)

	out, err := run(t, "check", "--dir", dir, "-o", "yaml")
	require.NoError(t, err)

	var report app.LoadReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))

	assert.Equal(t, dir, report.Dir)
	assert.ElementsMatch(t, []string{"halting", "riemann"}, report.Loaded)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "broken.md", report.Skipped[0].File)
}

func TestCheck_UnknownFormat(t *testing.T) {
	_, err := run(t, "check", "--dir", t.TempDir(), "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCheck_MissingDirIsEmpty(t *testing.T) {
	out, err := run(t, "check", "--dir", filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Contains(t, out, "0 posts loaded")
}

func TestFeed(t *testing.T) {
	dir := writeContent(t, testPosts)

	out, err := run(t, "feed", "--dir", dir, "--base-url", "https://blog.example.org/")
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(out)
	require.NoError(t, err)
	require.Len(t, parsed.Items, 2)

	assert.Equal(t, "Halting", parsed.Items[0].Title)
	assert.Equal(t, "https://blog.example.org/blog/halting", parsed.Items[0].Link)
	assert.Equal(t, "https://blog.example.org/blog/riemann", parsed.Items[1].Link)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = run(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "abc1234", info["commit"])
	assert.NotEmpty(t, info["goVersion"])
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := run(t, "publish")
	require.Error(t, err)
}

// fakeBlog serves a hand-written API so smoke can be driven into
// disagreement.
func fakeBlog(t *testing.T, categories string, feedItems int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /-/ready", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"slug":"a"},{"id":2,"slug":"b"}]`))
	})
	mux.HandleFunc("GET /api/posts/{slug}", func(w http.ResponseWriter, r *http.Request) {
		id := map[string]int{"a": 1, "b": 2}[r.PathValue("slug")]
		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "slug": r.PathValue("slug")})
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(categories))
	})
	mux.HandleFunc("GET /feed.xml", func(w http.ResponseWriter, _ *http.Request) {
		items := ""
		for range feedItems {
			items += "<item><title>t</title></item>"
		}

		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title>` + items + `</channel></rss>`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestRunSmoke(t *testing.T) {
	tests := []struct {
		name       string
		categories string
		feedItems  int
		wantErr    bool
	}{
		{name: "consistent", categories: `{"Math":1,"CS":1}`, feedItems: 2},
		{name: "category mismatch", categories: `{"Math":1}`, feedItems: 2, wantErr: true},
		{name: "feed mismatch", categories: `{"Math":2}`, feedItems: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := fakeBlog(t, tt.categories, tt.feedItems)

			client, err := clients.New(&clients.Config{BaseURL: server.URL, MaxAttempts: 1})
			require.NoError(t, err)

			var out bytes.Buffer
			err = runSmoke(context.Background(), client, &out)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrSmokeFailed)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, out.String(), "ok    /feed.xml (2 items)")
		})
	}
}

func TestSmokeCommand_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := run(t, "smoke", "--url", url, "--timeout", "200ms")
	require.ErrorIs(t, err, ErrSmokeFailed)
}
