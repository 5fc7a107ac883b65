package copybook

import (
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by operations on a closed Watcher.
var ErrWatcherClosed = errors.New("copybook watcher closed")

// Watcher keeps a FolderProvider in sync with its folders. Every create,
// write, remove or rename of a copybook file invalidates the provider and
// publishes the qualified name on Changes.
type Watcher struct {
	provider *FolderProvider
	fsw      *fsnotify.Watcher

	changes chan string
	errs    chan error

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher starts watching every folder of p. Folders that do not exist
// are skipped.
func NewWatcher(p *FolderProvider) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, folder := range p.Folders() {
		// папки может не быть, провайдер её тоже пропускает
		_ = fsw.Add(folder) //nolint:errcheck
	}
	w := &Watcher{
		provider: p,
		fsw:      fsw,
		changes:  make(chan string, 64),
		errs:     make(chan error, 8),
		closeCh:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes delivers qualified names of copybooks whose files changed.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Errors delivers watcher failures.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and closes both channels.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.changes)
	close(w.errs)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return
	}
	name, ok := w.provider.NameOf(ev.Name)
	if !ok {
		return
	}
	w.provider.Invalidate(name)
	select {
	case w.changes <- name:
	case <-w.closeCh:
	}
}
