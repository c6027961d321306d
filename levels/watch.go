package levels

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors often write a file in several bursts; changes to the same path
// closer together than this are reported once.
const debounce = 100 * time.Millisecond

// Watcher reports changed level and script files on Events. Each value is
// the path of a file whose new contents are ready to load.
type Watcher struct {
	fs      *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewWatcher watches every directory in dirs. Directories are not watched
// recursively, so scripts/ must be passed on its own.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fs.Add(dir); err != nil {
			_ = fs.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.quit)
		err = w.fs.Close()
		<-w.stopped
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// reloadable reports whether ev leaves a loadable level or script behind.
// Remove and Chmod are dropped: a deleted level falls back to its embedded
// copy only on the next explicit load, and the running level stays as is.
func reloadable(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return isLevelFile(ev.Name) || isScriptFile(ev.Name)
}

type debouncer map[string]time.Time

func (d debouncer) settle(path string, now time.Time) bool {
	if last, ok := d[path]; ok && now.Sub(last) < debounce {
		return false
	}
	d[path] = now
	return true
}

func (w *Watcher) loop() {
	defer close(w.stopped)
	seen := debouncer{}
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !reloadable(ev) || !seen.settle(ev.Name, time.Now()) {
				continue
			}
			select {
			case w.Events <- ev.Name:
			case <-w.quit:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// keep the first unread error, drop the rest
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.quit:
			return
		}
	}
}

func isLevelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
