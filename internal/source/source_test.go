package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = ".ci-tron-job-v1:\n  variables:\n    CI_TRON_X: x\n"

func TestHTTP_URL(t *testing.T) {
	tests := []struct {
		name string
		src  HTTP
		want string
	}{
		{
			name: "plain",
			src:  HTTP{BaseURL: "https://gitlab.example.org/gfx-ci/ci-tron", Commit: "main", Path: ".gitlab-ci/dut.yml"},
			want: "https://gitlab.example.org/gfx-ci/ci-tron/-/raw/main/.gitlab-ci/dut.yml",
		},
		{
			name: "trims slashes",
			src:  HTTP{BaseURL: "https://gitlab.example.org/p/", Commit: "abc123", Path: "/dut.yml"},
			want: "https://gitlab.example.org/p/-/raw/abc123/dut.yml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.URL())
		})
	}
}

func TestHTTP_Fetch(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = fmt.Fprint(w, testTemplate)
	}))
	t.Cleanup(server.Close)

	src := HTTP{BaseURL: server.URL + "/gfx-ci/ci-tron", Commit: "v1", Path: ".gitlab-ci/dut.yml", Timeout: 5 * time.Second}
	doc, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/gfx-ci/ci-tron/-/raw/v1/.gitlab-ci/dut.yml", gotPath)
	assert.Equal(t, testTemplate, string(doc.Data))
	assert.Equal(t, src.URL(), doc.Name)
	assert.Len(t, doc.Digest, 64)
}

func TestHTTP_FetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such file", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	_, err := HTTP{BaseURL: server.URL, Commit: "main", Path: "dut.yml"}.Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTP_FetchCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, testTemplate)
	}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HTTP{BaseURL: server.URL, Commit: "main", Path: "dut.yml"}.Fetch(ctx)
	require.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFile_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dut.yml")
	require.NoError(t, os.WriteFile(path, []byte(testTemplate), 0o600))

	doc, err := File{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, doc.Name)
	assert.Equal(t, testTemplate, string(doc.Data))

	other := newDocument("other", []byte(testTemplate))
	assert.Equal(t, other.Digest, doc.Digest, "digest depends only on content")

	_, err = File{Path: filepath.Join(t.TempDir(), "missing.yml")}.Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetch_UsesLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, testTemplate)
	}))
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "dut.yml")
	require.NoError(t, os.WriteFile(path, []byte(testTemplate), 0o600))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := HTTP{BaseURL: server.URL, Commit: "main", Path: "dut.yml", Logger: logger}.Fetch(context.Background())
	require.NoError(t, err)
	_, err = File{Path: path, Logger: logger}.Fetch(context.Background())
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "Downloading template")
	assert.Contains(t, out, "Loading template from local file")
	assert.Equal(t, 2, strings.Count(out, "Loaded template"))
}
