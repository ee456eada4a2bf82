package main

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"codegraph/internal/server"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Rebuild the graph whenever watched source files change",
	Long: `Analyze a local directory, then keep watching it. Changes are
debounced and trigger a full rebuild; files whose content is unchanged
are answered from the analysis cache without an LLM call.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before a rebuild")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	root := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	rebuild := func() {
		s, err := eng.Analyze(ctx, server.ScanTarget{Path: root}, logEvent)
		if err != nil {
			log.Printf("rebuild failed: %v", err)
			return
		}
		if err := writeOutputs(ctx, eng, cfg.OutDir, s); err != nil {
			log.Printf("write outputs: %v", err)
		}
	}
	rebuild()

	w, err := newSourceWatcher(root, cfg.Extensions, cfg.SkipDirs, watchDebounce, rebuild)
	if err != nil {
		return err
	}
	defer w.Close()

	log.Printf("watching %s", root)
	<-ctx.Done()
	return nil
}

// sourceWatcher watches a directory tree recursively and invokes
// onChange after a debounce window with no further events.
type sourceWatcher struct {
	fsw        *fsnotify.Watcher
	extensions []string
	skipDirs   map[string]bool
	debounce   time.Duration
	onChange   func()

	mu    sync.Mutex
	timer *time.Timer
}

func newSourceWatcher(root string, extensions, skipDirs []string, debounce time.Duration, onChange func()) (*sourceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &sourceWatcher{
		fsw:        fsw,
		extensions: extensions,
		skipDirs:   make(map[string]bool, len(skipDirs)),
		debounce:   debounce,
		onChange:   onChange,
	}
	for _, d := range skipDirs {
		w.skipDirs[d] = true
	}
	if err := w.addRecursive(root); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

func (w *sourceWatcher) Close() error { return w.fsw.Close() }

func (w *sourceWatcher) addRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if w.skipDirs[filepath.Base(path)] && path != root {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		}
		return nil
	})
}

func (w *sourceWatcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skipDirs[filepath.Base(event.Name)] {
						if err := w.addRecursive(event.Name); err != nil {
							log.Printf("watch new directory %s: %v", event.Name, err)
						}
						w.schedule()
					}
					continue
				}
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (w *sourceWatcher) relevant(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *sourceWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

