// Package watch processes form images dropped into a folder, writing <name>.json and
// <name>.js next to them or into a separate output folder.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gardar/formscribe/pkg/pipeline"
	"github.com/gardar/formscribe/pkg/vision"
)

// DefaultSettle is how long a file must stay unchanged before it is processed.
const DefaultSettle = 500 * time.Millisecond

// Runner processes one image.
type Runner interface {
	Run(ctx context.Context, img vision.Image) (*pipeline.Result, error)
}

// Watcher monitors a folder for new images.
type Watcher struct {
	dir    string
	outDir string
	runner Runner
	logger *zap.Logger

	// Settle delays processing until writes to a file have stopped for this long.
	Settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New returns a Watcher for dir. An empty outDir writes results into dir.
func New(dir, outDir string, runner Runner, logger *zap.Logger) *Watcher {
	if outDir == "" {
		outDir = dir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:     dir,
		outDir:  outDir,
		runner:  runner,
		logger:  logger,
		Settle:  DefaultSettle,
		pending: make(map[string]*time.Timer),
	}
}

// IsImage reports whether path has an image extension the watcher picks up.
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".heic", ".heif", ".gif":
		return true
	default:
		return false
	}
}

// Start begins watching in the background until ctx is done. Call Wait after ctx is done to
// let images already being processed finish.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	w.logger.Info("watching for form images", zap.String("dir", w.dir), zap.String("out_dir", w.outDir))
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx, watcher)
	}()
	return nil
}

// Wait blocks until the watch loop has stopped and every started image has been processed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write) != 0 && IsImage(evt.Name) {
				w.schedule(ctx, evt.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// schedule (re)starts the settle timer for path. Only the latest timer for a path processes
// it; a callback that fired just before being replaced finds another timer pending and exits.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		w.stopTimer(t)
	}

	var t *time.Timer
	w.wg.Add(1)
	t = time.AfterFunc(w.Settle, func() {
		defer w.wg.Done()

		w.mu.Lock()
		current := w.pending[path] == t
		if current {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		if !current {
			return
		}

		if err := w.Process(ctx, path); err != nil {
			w.logger.Error("failed to process form image", zap.String("path", path), zap.Error(err))
		}
	})
	w.pending[path] = t
}

// stopTimer releases the wait count of a timer whose callback will now never run.
// w.mu must be held.
func (w *Watcher) stopTimer(t *time.Timer) {
	if t.Stop() {
		w.wg.Done()
	}
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		w.stopTimer(t)
		delete(w.pending, path)
	}
}

// Backfill processes the images already in the folder. Failures are logged and skipped.
func (w *Watcher) Backfill(ctx context.Context) error {
	entries, err := filepath.Glob(filepath.Join(w.dir, "*"))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", w.dir, err)
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, e := range entries {
		if !IsImage(e) {
			continue
		}
		if err := w.Process(ctx, e); err != nil {
			w.logger.Error("failed to process form image", zap.String("path", e), zap.Error(err))
		}
	}
	return nil
}

// Process runs the image at path through the pipeline and writes the record JSON and the
// fill script.
func (w *Watcher) Process(ctx context.Context, path string) error {
	img, err := vision.ReadImage(path)
	if err != nil {
		return err
	}
	res, err := w.runner.Run(ctx, img)
	if err != nil {
		return err
	}

	recordJSON, err := res.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	base := filepath.Join(w.outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := os.WriteFile(base+".json", []byte(recordJSON+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.WriteFile(base+".js", []byte(res.Script), 0o644); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}

	fields := []zap.Field{zap.String("path", path), zap.String("output", base+".json")}
	if res.Warning != "" {
		w.logger.Warn(res.Warning, fields...)
	} else {
		w.logger.Info("form written", fields...)
	}
	return nil
}
