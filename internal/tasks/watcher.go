package tasks

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce gates consecutive watcher events: an event arriving
	// before this interval has elapsed since the last emission is ignored.
	DefaultDebounce = 10 * time.Second
	// DefaultSettle is how long the watcher waits after a gated event
	// before attempting to parse the file, letting a hand-edit finish.
	DefaultSettle = 5 * time.Second
)

// Watcher watches a task file for changes and emits a nudge signal on
// NudgeAll whenever an edit settles into a file that parses cleanly. A
// failed parse is reported on ParseError and otherwise ignored: it does not
// reset the debounce clock, so a burst of mid-edit saves followed by one
// good save still yields at most one nudge.
type Watcher struct {
	NudgeAll   chan struct{}
	ParseError chan error

	path     string
	debounce time.Duration
	settle   time.Duration
	watcher  *fsnotify.Watcher
	stop     chan struct{}
}

// New starts watching path. The caller must call Stop when done.
func New(path string, debounce, settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		NudgeAll:   make(chan struct{}, 1),
		ParseError: make(chan error, 1),
		path:       path,
		debounce:   debounce,
		settle:     settle,
		watcher:    fw,
		stop:       make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Stop closes the underlying fsnotify watcher and exits the event loop.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) run() {
	lastNudge := time.Now().Add(-2 * w.debounce)

	for {
		select {
		case <-w.stop:
			return

		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if time.Since(lastNudge) < w.debounce {
				continue
			}
			time.Sleep(w.settle)

			if _, err := Load(w.path); err != nil {
				w.emitParseError(err)
				continue
			}
			lastNudge = time.Now()
			w.emitNudge()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.emitParseError(err)
		}
	}
}

func (w *Watcher) emitNudge() {
	select {
	case w.NudgeAll <- struct{}{}:
	default:
	}
}

func (w *Watcher) emitParseError(err error) {
	select {
	case w.ParseError <- err:
	default:
	}
}
