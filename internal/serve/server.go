package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"gallery/internal/build"
	"gallery/internal/domain/config"
	"gallery/internal/logger"
)

const debounceDelay = 200 * time.Millisecond

// Server rebuilds the site into the public dir whenever a source changes,
// serves the result and tells open pages to reload over SSE.
type Server struct {
	cfg     config.Config
	log     logger.Logger
	builder *build.Builder

	mu       sync.Mutex
	lastHash string

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Build.PublicDir == "" {
		return nil, fmt.Errorf("serve: public dir is empty")
	}
	return &Server{
		cfg:      cfg,
		log:      log.With(logger.String("component", "serve")),
		builder:  &build.Builder{Cfg: cfg, Logger: log, LiveReload: true},
		sseConns: make(map[chan string]struct{}),
	}, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/dev/events", s.handleSSE)
	mux.Handle("/", noCache(http.FileServer(http.Dir(s.cfg.Build.PublicDir))))
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if _, err := s.rebuild(ctx); err != nil {
		return err
	}
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info("listening", logger.String("addr", "http://"+addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// rebuild runs a build and broadcasts a reload when the output changed.
func (s *Server) rebuild(ctx context.Context) (bool, error) {
	res, err := s.builder.Run(ctx)
	if err != nil {
		return false, fmt.Errorf("build: %w", err)
	}

	s.mu.Lock()
	changed := res.Fingerprint.RenderHash != s.lastHash
	s.lastHash = res.Fingerprint.RenderHash
	s.mu.Unlock()

	if !changed {
		s.log.Debug("rebuild produced no changes")
		return false, nil
	}
	s.log.Info("rebuild complete",
		logger.Int("pages", res.Pages),
		logger.Int("written", res.Written),
		logger.Int("warnings", len(res.Warnings)),
	)
	s.broadcastSSE("reload")
	return true, nil
}

func (s *Server) watchRoots() []string {
	roots := []string{s.cfg.Build.DocsDir}
	if s.cfg.Build.ThemeDir != "" {
		roots = append(roots, s.cfg.Build.ThemeDir)
	}
	return roots
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		for _, root := range s.watchRoots() {
			if e := s.addTree(root); e != nil {
				err = e
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) addTree(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return s.watcher.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for file changes", logger.Strings("roots", s.watchRoots()))
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := s.addTree(ev.Name); err != nil {
						s.log.Warn("watch new dir", logger.String("dir", ev.Name), logger.Error(err))
					}
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(debounceDelay)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", logger.Error(err))
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 10*time.Second)
			if _, err := s.rebuild(ctx2); err != nil {
				s.log.Error("rebuild failed", logger.Error(err))
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func noCache(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		h.ServeHTTP(w, r)
	})
}
