package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/gzhttp"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/letterpress/internal/assetcache"
)

var (
	servePort    int
	serveCacheMB int

	serveCmd = &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve a letterform tree for local development",
		Long:  paragraph(fmt.Sprintf("\nServe a directory of letterform assets over HTTP with an in-memory cache and %s, so probing and rendering can run against it.", keyword("gzip compression"))),
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
)

func runServe(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return fmt.Errorf("unable to expand path: %w", err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("unable to resolve path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	if !cmd.Flags().Changed("port") {
		servePort = viper.GetInt("serve.port")
	}
	if !cmd.Flags().Changed("cache") {
		serveCacheMB = viper.GetInt("serve.cache_mb")
	}

	cache := assetcache.New(int64(serveCacheMB) << 20)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to start watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck
	if err := watchTree(watcher, root); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go invalidateOnChange(ctx, watcher, cache, root)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", servePort),
		Handler:           gzhttp.GzipHandler(assetHandler(cache, root)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Serving %s on %s\n", keyword(root), keyword(fmt.Sprintf("http://localhost:%d/", servePort)))
	fmt.Println(subtle(fmt.Sprintf("cache %d MB, gzip on, watching for changes", serveCacheMB)))

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// watchTree registers the root directory and all its subdirectories.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

// invalidateOnChange drops cache entries for files the watcher sees
// change, and starts watching directories as they appear.
func invalidateOnChange(ctx context.Context, watcher *fsnotify.Watcher, cache *assetcache.Cache, root string) {
	logger := log.Default().With("component", "serve")
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			rel, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			key := filepath.ToSlash(rel)
			cache.Invalidate(key)
			logger.Debug("asset changed", "op", event.Op.String(), "path", key)
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// assetHandler serves files under root through the cache.
func assetHandler(cache *assetcache.Cache, root string) http.Handler {
	logger := log.Default().With("component", "serve")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		key := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if key == "" || key == "." {
			http.NotFound(w, r)
			return
		}

		data, hit := cache.Get(key)
		if !hit {
			var err error
			data, err = os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
			if err != nil {
				http.NotFound(w, r)
				return
			}
			if err := cache.Put(key, data); err != nil {
				logger.Debug("not caching", "path", key, "error", err)
			}
		}

		if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		if hit {
			w.Header().Set("X-Cache", "HIT")
		}
		_, _ = w.Write(data)
	})
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8070, "listen port")
	serveCmd.Flags().IntVar(&serveCacheMB, "cache", 16, "in-memory cache budget in MB")
}
