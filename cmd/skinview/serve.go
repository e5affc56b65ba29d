package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/recera/skinview/cmd/skinview/internal/config"
	"github.com/recera/skinview/cmd/skinview/internal/page"
	"github.com/recera/skinview/pkg/live"
	"github.com/recera/skinview/pkg/reactive"
	"github.com/recera/skinview/pkg/scheduler"
	"github.com/recera/skinview/pkg/skinview"
	"github.com/spf13/cobra"
)

// playground serves the WASM client and pushes the props file to it
type playground struct {
	cfg       *config.Config
	propsPath string

	sched  *scheduler.Scheduler
	props  *reactive.State[skinview.Props]
	live   *live.Server
	bridge *live.Bridge

	watcher *fsnotify.Watcher

	wasmExecOnce sync.Once
	wasmExec     []byte
	wasmExecErr  error
}

func newServeCommand() *cobra.Command {
	var port int
	var host string
	var cwd string
	var propsPath string
	var noWatch bool
	var build bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the playground server",
		Long: `Serves the WASM client and pushes the props file to every connected
browser. Edits to the props file are pushed live unless --no-watch is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cwd)
			if err != nil {
				return err
			}

			// CLI takes precedence over skinview.yaml
			if port != 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if propsPath != "" {
				cfg.Props.Path = propsPath
			}
			if noWatch {
				off := false
				cfg.Props.Watch = &off
			}

			if build {
				if err := buildClient(cfg.Build, true); err != nil {
					return fmt.Errorf("initial build failed: %w", err)
				}
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the playground on")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind the playground to")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Project directory (defaults to current)")
	cmd.Flags().StringVar(&propsPath, "props", "", "Props file to serve")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch the props file")
	cmd.Flags().BoolVar(&build, "build", false, "Build the WASM client before serving")

	return cmd
}

func runServe(cfg *config.Config) error {
	log.Println("🔌 Initializing live protocol server...")
	pg, err := newPlayground(cfg)
	if err != nil {
		return err
	}
	defer pg.Close()
	pg.sched.Start()
	log.Println("✅ Live protocol server initialized")

	if cfg.Props.Watching() {
		if err := pg.watch(); err != nil {
			log.Printf("⚠️  Failed to watch %s: %v\n", pg.propsPath, err)
		}
	}

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: pg.routes(),
	}
	log.Printf("✨ Playground running at http://%s\n", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Shutting down playground...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newPlayground loads the props file and wires the live server to it.
// A missing props file starts from the defaults; an invalid one is an error.
func newPlayground(cfg *config.Config) (*playground, error) {
	pg := &playground{
		cfg:       cfg,
		propsPath: config.Resolve(".", cfg.Props.Path),
		sched:     scheduler.NewScheduler(),
		live:      live.NewServer(),
	}

	initial, err := skinview.LoadProps(pg.propsPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("⚠️  %s not found, serving default props\n", pg.propsPath)
		initial = skinview.DefaultProps()
	case err != nil:
		return nil, err
	}

	pg.props = reactive.NewStateWithEqual(initial, pg.sched, skinview.Props.Equal)
	pg.bridge = live.NewBridge(pg.live, pg.sched, pg.props)
	pg.live.OnEvent(pg.handleEvent)
	return pg, nil
}

func (pg *playground) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(live.DefaultPath, pg.live.HandleWebSocket)
	mux.HandleFunc("/"+strings.TrimPrefix(pg.cfg.Server.WasmPath, "/"), pg.serveWASM)
	mux.HandleFunc("/wasm_exec.js", pg.serveWasmExec)
	mux.HandleFunc("/favicon.ico", pg.serveFavicon)
	mux.HandleFunc("/", pg.serveStatic)

	return mux
}

func (pg *playground) handleEvent(sessionID string, evt live.Event) {
	switch evt.Type {
	case live.EventLoadError:
		log.Printf("⚠️  [%s] %s\n", sessionID, evt.Message)
	default:
		log.Printf("🎨 [%s] viewer %s\n", sessionID, evt.Type)
	}
}

// reload re-reads the props file. Invalid files are reported and the
// previous props stay live.
func (pg *playground) reload() {
	p, err := skinview.LoadProps(pg.propsPath)
	if err != nil {
		log.Printf("⚠️  Keeping previous props: %v\n", err)
		return
	}
	pg.props.Set(p)
	log.Printf("🔄 Props reloaded from %s\n", filepath.Base(pg.propsPath))
}

// watch watches the props file's directory; editors often replace files
// rather than write them in place
func (pg *playground) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(pg.propsPath)); err != nil {
		watcher.Close()
		return err
	}
	pg.watcher = watcher
	go pg.watchFiles()
	return nil
}

func (pg *playground) watchFiles() {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	target := filepath.Clean(pg.propsPath)
	for {
		select {
		case event, ok := <-pg.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-pg.watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			pg.reload()
		}
	}
}

// Close stops watching and broadcasting and disconnects every browser
func (pg *playground) Close() {
	if pg.watcher != nil {
		pg.watcher.Close()
	}
	pg.bridge.Close()
	pg.sched.Stop()
	pg.live.Close()
}

func (pg *playground) wasmFile() string {
	return filepath.Join(pg.cfg.Server.PublicDir, filepath.FromSlash(pg.cfg.Server.WasmPath))
}

func (pg *playground) serveWASM(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(pg.wasmFile()); err != nil {
		http.Error(w, "WASM client not built; run skinview build", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/wasm")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, pg.wasmFile())
}

func (pg *playground) serveWasmExec(w http.ResponseWriter, r *http.Request) {
	pg.wasmExecOnce.Do(func() {
		pg.wasmExec, pg.wasmExecErr = readWasmExec(pg.cfg.Build.TinyGo)
	})
	if pg.wasmExecErr != nil {
		http.Error(w, "Failed to load wasm_exec.js", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(pg.wasmExec)
}

func (pg *playground) serveIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := page.Render(&buf, page.Options{
		ViewerScript: pg.cfg.Server.ViewerScript,
		WasmPath:     pg.cfg.Server.WasmPath,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

func (pg *playground) serveStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" || path == "/index.html" {
		pg.serveIndex(w, r)
		return
	}

	// Security: prevent directory traversal
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	filePath := filepath.Join(pg.cfg.Server.PublicDir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	content, err := os.ReadFile(filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	switch filepath.Ext(filePath) {
	case ".html":
		w.Header().Set("Content-Type", "text/html")
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	case ".wasm":
		w.Header().Set("Content-Type", "application/wasm")
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Write(content)
}

// serveFavicon serves a project favicon if present, otherwise returns 204
func (pg *playground) serveFavicon(w http.ResponseWriter, r *http.Request) {
	favicon := filepath.Join(pg.cfg.Server.PublicDir, "favicon.ico")
	if _, err := os.Stat(favicon); err == nil {
		http.ServeFile(w, r, favicon)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
