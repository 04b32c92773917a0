package discovery

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/monkeython/multipla/internal/log"
)

// Rescanner re-enumerates a backing store, announcing anything new to
// subscribers. ManifestDir implements it.
type Rescanner interface {
	Rescan(ctx context.Context) error
}

// Watcher triggers a rescan of a source when files change in a directory.
// Bursts of file system events are debounced into a single rescan.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	target    Rescanner
	done      chan struct{}
}

// DefaultDebounce is the debounce window applied when none is configured.
const DefaultDebounce = 500 * time.Millisecond

// NewWatcher creates a watcher over dir that rescans target after changes.
// A non-positive debounce falls back to DefaultDebounce.
func NewWatcher(dir string, target Rescanner, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       dir,
		debounce:  debounce,
		target:    target,
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}
	log.SafeGo(log.CatWatch, "discovery.watch["+w.dir+"]", w.loop)
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}
			log.Debug(log.CatWatch, "manifest change", "op", event.Op.String(), "name", event.Name)

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = true
			} else {
				if !timer.Stop() {
					// Drain the timer channel if it already fired
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
				pending = true
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				if err := w.target.Rescan(context.Background()); err != nil {
					log.ErrorErr(log.CatWatch, "rescan failed", err, "dir", w.dir)
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatch, "watch error", err, "dir", w.dir)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether the event should trigger a rescan.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return isManifestName(event.Name)
}
