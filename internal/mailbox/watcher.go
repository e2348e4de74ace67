package mailbox

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/giantswarm/contacts/pkg/logging"
)

// Watcher reports the new address list whenever the list file changes.
//
// The parent directory is watched rather than the file itself, because
// editors commonly save by writing a temporary file and renaming it over the
// original, which drops a watch placed on the file.
type Watcher struct {
	mu sync.Mutex

	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	timer    *time.Timer
	stopCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for path. A zero debounce uses 300ms.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
	}
}

// Start begins watching. Each settled change is read and sent on lists; a
// change that cannot be read is logged and skipped.
func (w *Watcher) Start(ctx context.Context, lists chan<- []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	go w.processEvents(ctx, watcher, w.stopCh, lists)

	logging.Info("Mailbox", "Watching %s for changes", w.path)
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context, watcher *fsnotify.Watcher, stopCh <-chan struct{}, lists chan<- []string) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return

		case <-stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule(ctx, stopCh, lists)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Mailbox", err, "File watcher error")
		}
	}
}

// schedule restarts the debounce timer; the list is read once the file has
// been quiet for the debounce interval.
func (w *Watcher) schedule(ctx context.Context, stopCh <-chan struct{}, lists chan<- []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-stopCh:
			return
		default:
		}
		emails, err := Load(w.path)
		if err != nil {
			logging.Warn("Mailbox", "Ignoring change to %s: %v", w.path, err)
			return
		}
		select {
		case lists <- emails:
		case <-stopCh:
		case <-ctx.Done():
		}
	})
}
