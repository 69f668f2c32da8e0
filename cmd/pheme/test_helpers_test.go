package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// mangaServer serves a minimal search page whose latest chapter can be
// swapped between CLI invocations.
type mangaServer struct {
	*httptest.Server

	mu      sync.Mutex
	chapter string
}

func newMangaServer(t *testing.T, chapter string) *mangaServer {
	t.Helper()
	srv := &mangaServer{chapter: chapter}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		current := srv.chapter
		srv.mu.Unlock()
		fmt.Fprintf(w, `<html><body>
<div class="story_item">
  <h3 class="story_name">One Piece</h3>
  <em class="story_chapter">%s</em>
</div>
</body></html>`, current)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *mangaServer) setChapter(chapter string) {
	s.mu.Lock()
	s.chapter = chapter
	s.mu.Unlock()
}

func writeCLIConfig(t *testing.T, mangaURL string) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q

[providers]
manga_base_url = %q
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), mangaURL)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
