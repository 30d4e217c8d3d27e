// internal/server/server.go
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"notifydocs/internal/builder"
)

// Config describes what the preview server serves and watches.
type Config struct {
	Port       int
	OutputDir  string
	WatchPaths []string // directories are watched recursively, files via their parent
}

// BuildFunc rebuilds the site into the output directory.
type BuildFunc func(builder.BuildOptions) error

const debounceDuration = 500 * time.Millisecond

// Run builds the site, serves it with live reload and rebuilds on change
// until ctx is cancelled.
func Run(ctx context.Context, cfg Config, buildFunc BuildFunc, opts builder.BuildOptions) error {
	log := opts.Logger
	opts.CleanDestination = true
	if err := buildFunc(opts); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	hub := newHub(log)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchPaths(watcher, cfg.WatchPaths, log); err != nil {
		return err
	}

	opts.CleanDestination = false
	go watchForChanges(ctx, watcher, hub, buildFunc, opts)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: newHandler(hub, cfg.OutputDir),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("url", fmt.Sprintf("http://localhost:%d", cfg.Port)).Msg("serving site, press Ctrl+C to stop")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func newHandler(hub *Hub, outputDir string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r)
	})
	fileServer := http.FileServer(http.Dir(outputDir))
	mux.Handle("/", liveReloadWrapper(cleanURLs(outputDir, fileServer)))
	return mux
}

// watchPaths registers every directory under the given paths. Files are
// watched through their parent directory, which survives editors that save
// by rename.
func watchPaths(watcher *fsnotify.Watcher, paths []string, log zerolog.Logger) error {
	watched := make(map[string]bool)
	addWatch := func(dir string) {
		dir = filepath.Clean(dir)
		if watched[dir] {
			return
		}
		if err := watcher.Add(dir); err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("could not watch directory")
			return
		}
		log.Debug().Str("dir", dir).Msg("watching")
		watched[dir] = true
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("could not stat path %s: %w", p, err)
		}
		if !info.IsDir() {
			addWatch(filepath.Dir(p))
			continue
		}
		if err := filepath.Walk(p, func(walkPath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				addWatch(walkPath)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", p, err)
		}
	}
	return nil
}

// watchForChanges rebuilds once the watched tree has been quiet for
// debounceDuration. Every event restarts the wait, so a burst of saves
// produces a single build that sees the last of them.
func watchForChanges(ctx context.Context, watcher *fsnotify.Watcher, hub *Hub, buildFunc BuildFunc, opts builder.BuildOptions) {
	log := opts.Logger
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			changed = event.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounceDuration)
			fire = timer.C
		case <-fire:
			fire = nil
			log.Info().Str("path", changed).Msg("change detected, rebuilding")
			if err := buildFunc(opts); err != nil {
				log.Error().Err(err).Msg("rebuild failed")
				continue
			}
			hub.broadcastMessage([]byte("reload"))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

// cleanURLs serves /guide/decorator from guide/decorator.html, matching the
// extension-less links declared in the site config.
func cleanURLs(outputDir string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p != "/" && !strings.HasSuffix(p, "/") && path.Ext(p) == "" {
			candidate := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(p, "/"))+".html")
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				r2 := r.Clone(r.Context())
				r2.URL.Path = p + ".html"
				next.ServeHTTP(w, r2)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isHTMLPath(p string) bool {
	return strings.HasSuffix(p, ".html") || strings.HasSuffix(p, "/") || path.Ext(p) == ""
}

func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if !isHTMLPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter(w)
		next.ServeHTTP(iw, r)

		for key, values := range iw.Header() {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		bodyBytes := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(bodyBytes)
			return
		}

		injectedBody := bytes.Replace(bodyBytes, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", fmt.Sprint(len(injectedBody)))
		w.WriteHeader(iw.statusCode)
		w.Write(injectedBody)
	})
}

type interceptingWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter(w http.ResponseWriter) *interceptingWriter {
	return &interceptingWriter{
		ResponseWriter: w,
		body:           new(bytes.Buffer),
		header:         make(http.Header),
		statusCode:     http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header {
	return iw.header
}

func (iw *interceptingWriter) Write(b []byte) (int, error) {
	return iw.body.Write(b)
}

func (iw *interceptingWriter) WriteHeader(statusCode int) {
	iw.statusCode = statusCode
}

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection lost. Restart 'notifydocs serve'.");
    };
  })();
</script>
`
