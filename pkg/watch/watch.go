// Package watch re-extracts statute files under a directory as they change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/fsnotify.v1"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/source"
)

// DefaultDebounce is the quiet period after the last event before changed
// files are processed.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher. Zero values select defaults.
type Options struct {
	Matcher   *source.Matcher
	Extractor *abbrev.Extractor
	Encoding  string
	Debounce  time.Duration
	Logger    *slog.Logger

	// OnChange receives a document whenever a selected file is created or
	// its decoded content changes.
	OnChange func(document.Document)

	// OnRemove receives the path of a previously reported file that no
	// longer exists.
	OnRemove func(path string)
}

// Watcher monitors a directory tree. Callbacks are invoked from a single
// goroutine, never concurrently.
type Watcher struct {
	root      string
	matcher   *source.Matcher
	extractor *abbrev.Extractor
	encoding  string
	debounce  time.Duration
	logger    *slog.Logger
	onChange  func(document.Document)
	onRemove  func(string)

	watcher  *fsnotify.Watcher
	hashes   map[string]string
	pending  map[string]struct{}
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Watcher for root. Nothing is watched until Start.
func New(root string, opts Options) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	w := &Watcher{
		root:      root,
		matcher:   opts.Matcher,
		extractor: opts.Extractor,
		encoding:  opts.Encoding,
		debounce:  opts.Debounce,
		logger:    opts.Logger,
		onChange:  opts.OnChange,
		onRemove:  opts.OnRemove,
		hashes:    make(map[string]string),
		pending:   make(map[string]struct{}),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
	if w.matcher == nil {
		if w.matcher, err = source.NewMatcher(nil, nil); err != nil {
			return nil, err
		}
	}
	if w.extractor == nil {
		w.extractor = abbrev.NewExtractor()
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Start watches every directory under the root, reports the files that
// already exist through OnChange and then processes events in the
// background until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	w.watcher = watcher

	if err := w.addWatches(w.root); err != nil {
		w.abort()
		return err
	}

	files, err := w.matcher.Discover(w.root)
	if err != nil {
		w.abort()
		return err
	}
	for _, path := range files {
		w.process(path)
	}
	w.logger.Info("watching", "root", w.root, "files", len(files))

	go w.watchLoop(ctx)
	return nil
}

// Stop ends watching and waits for the event loop to exit. It is safe to
// call more than once, and before Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	if w.watcher != nil {
		<-w.done
	}
}

func (w *Watcher) abort() {
	w.watcher.Close()
	w.watcher = nil
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) addWatches(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	defer w.watcher.Close()

	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				flush = time.After(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)

		case <-flush:
			flush = nil
			w.flush()
		}
	}
}

// handleEvent records the paths touched by event and reports whether any
// were queued.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	path := event.Name
	w.logger.Debug("event", "path", path, "op", event.Op.String())

	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addWatches(path); err != nil {
				w.logger.Warn("adding watch", "path", path, "error", err)
			}
			files, err := w.matcher.Discover(w.root)
			if err != nil {
				w.logger.Warn("scanning new directory", "path", path, "error", err)
				return false
			}
			queued := false
			for _, file := range files {
				if _, known := w.hashes[file]; !known {
					w.pending[file] = struct{}{}
					queued = true
				}
			}
			return queued
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if !w.selected(path) {
		return false
	}
	w.pending[path] = struct{}{}
	return true
}

func (w *Watcher) selected(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.matcher.Match(rel)
}

func (w *Watcher) flush() {
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	clear(w.pending)

	for _, path := range paths {
		w.process(path)
	}
}

// process re-extracts path, or reports its removal. Content identical to
// the last reported version is skipped.
func (w *Watcher) process(path string) {
	text, err := source.ReadFile(path, w.encoding)
	if errors.Is(err, fs.ErrNotExist) {
		if _, known := w.hashes[path]; known {
			delete(w.hashes, path)
			w.logger.Info("removed", "path", path)
			if w.onRemove != nil {
				w.onRemove(path)
			}
		}
		return
	}
	if err != nil {
		w.logger.Warn("skipping file", "path", path, "error", err)
		return
	}

	hash := document.Hash(text)
	if w.hashes[path] == hash {
		w.logger.Debug("unchanged", "path", path)
		return
	}
	w.hashes[path] = hash

	doc := document.Process(path, text, w.extractor)
	w.logger.Info("extracted", "path", path, "pairs", len(doc.Pairs))
	if w.onChange != nil {
		w.onChange(doc)
	}
}
