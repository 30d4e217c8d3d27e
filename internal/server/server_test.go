package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifydocs/internal/builder"
)

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":           "<html><body>home</body></html>",
		"guide/index.html":     "<html><body>guide</body></html>",
		"guide/decorator.html": "<html><body>decorator</body></html>",
		"css/style.css":        "body{}",
	}
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return dir
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandlerInjectsLiveReload(t *testing.T) {
	srv := httptest.NewServer(newHandler(newHub(zerolog.Nop()), writeSite(t)))
	defer srv.Close()

	resp, body := get(t, srv, "/guide/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "guide")
	assert.Contains(t, body, `new WebSocket("ws://"`)
	assert.True(t, strings.Index(body, "<script>") < strings.Index(body, "</body>"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))
}

func TestHandlerServesCleanURLs(t *testing.T) {
	srv := httptest.NewServer(newHandler(newHub(zerolog.Nop()), writeSite(t)))
	defer srv.Close()

	resp, body := get(t, srv, "/guide/decorator")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "decorator")
	assert.Contains(t, body, "/ws")
}

func TestHandlerLeavesAssetsAlone(t *testing.T) {
	srv := httptest.NewServer(newHandler(newHub(zerolog.Nop()), writeSite(t)))
	defer srv.Close()

	resp, body := get(t, srv, "/css/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)
}

func TestHandlerPassesThroughNotFound(t *testing.T) {
	srv := httptest.NewServer(newHandler(newHub(zerolog.Nop()), writeSite(t)))
	defer srv.Close()

	resp, body := get(t, srv, "/api/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, body, "WebSocket")
}

func TestHubBroadcastsReload(t *testing.T) {
	hub := newHub(zerolog.Nop())
	srv := httptest.NewServer(newHandler(hub, writeSite(t)))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 10*time.Millisecond)

	hub.broadcastMessage([]byte("reload"))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))

	conn.Close()
	require.Eventually(t, func() bool { return hub.count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestWatchPaths(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "content", "guide")
	require.NoError(t, os.MkdirAll(nested, 0755))
	cfgFile := filepath.Join(root, "site.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("title: x\n"), 0644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	err = watchPaths(watcher, []string{filepath.Join(root, "content"), cfgFile, filepath.Join(root, "missing")}, zerolog.Nop())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(root, "content"), nested, root}, watcher.WatchList())
}

// recorder is a BuildFunc that remembers what each build saw.
type recorder struct {
	mu     sync.Mutex
	source string
	seen   []string
	clean  []bool
}

func (r *recorder) build(opts builder.BuildOptions) error {
	data, err := os.ReadFile(r.source)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, string(data))
	r.clean = append(r.clean, opts.CleanDestination)
	return nil
}

func (r *recorder) builds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func TestWatchForChangesBuildsAfterLastSave(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.md")
	require.NoError(t, os.WriteFile(page, []byte("v1"), 0644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{source: page}
	go watchForChanges(ctx, watcher, newHub(zerolog.Nop()), rec.build, builder.BuildOptions{Logger: zerolog.Nop()})

	require.NoError(t, os.WriteFile(page, []byte("v2"), 0644))
	time.Sleep(300 * time.Millisecond)
	require.NoError(t, os.WriteFile(page, []byte("v3"), 0644))

	require.Eventually(t, func() bool { return len(rec.builds()) > 0 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(debounceDuration + 200*time.Millisecond)

	builds := rec.builds()
	assert.Equal(t, []string{"v3"}, builds)
}

func TestWatchForChangesRebuildsLaterSaves(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.md")
	require.NoError(t, os.WriteFile(page, []byte("v1"), 0644))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{source: page}
	go watchForChanges(ctx, watcher, newHub(zerolog.Nop()), rec.build, builder.BuildOptions{Logger: zerolog.Nop()})

	require.NoError(t, os.WriteFile(page, []byte("v2"), 0644))
	require.Eventually(t, func() bool { return len(rec.builds()) == 1 }, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(page, []byte("v3"), 0644))
	require.Eventually(t, func() bool {
		builds := rec.builds()
		return len(builds) > 0 && builds[len(builds)-1] == "v3"
	}, 3*time.Second, 20*time.Millisecond)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestRunServesRebuildsAndStops(t *testing.T) {
	out := writeSite(t)
	content := t.TempDir()
	page := filepath.Join(content, "index.md")
	require.NoError(t, os.WriteFile(page, []byte("v1"), 0644))

	port := freePort(t)
	rec := &recorder{source: page}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{Port: port, OutputDir: out, WatchPaths: []string{content}}, rec.build,
			builder.BuildOptions{Logger: zerolog.Nop()})
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/guide/decorator")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://127.0.0.1:%d/ws", port), nil)
	require.NoError(t, err)
	defer conn.Close()
	// Give the hub time to register the client before the change lands.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(page, []byte("v2"), 0644))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "reload", string(msg))

	rec.mu.Lock()
	assert.Equal(t, []bool{true, false}, rec.clean)
	assert.Equal(t, []string{"v1", "v2"}, rec.seen)
	rec.mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReportsInitialBuildFailure(t *testing.T) {
	failing := func(builder.BuildOptions) error { return fmt.Errorf("broken template") }
	err := Run(context.Background(), Config{Port: freePort(t), OutputDir: t.TempDir()}, failing,
		builder.BuildOptions{Logger: zerolog.Nop()})
	assert.ErrorContains(t, err, "initial build failed")
}
