package stress

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a ScenarioConfig file on every write, letting a long
// running yamal-stress session pick up a new allocation/size/round mix
// without restarting. Its event loop is grounded on the teacher's
// FSNotifyWatcher (internal/runtime/vfs/watch_fsnotify.go), narrowed to
// the single path it cares about and to write and create events — a stress
// scenario is replaced wholesale, never renamed or removed mid-run.
type Watcher struct {
	w       *fsnotify.Watcher
	path    string
	changes chan ScenarioConfig
	errs    chan error
}

// WatchScenario starts watching path's parent directory and pushes a
// freshly decoded ScenarioConfig onto Changes() every time path is
// written. Watching the directory rather than the file itself survives
// editors that replace the file via rename-into-place.
func WatchScenario(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	sw := &Watcher{
		w:       w,
		path:    filepath.Clean(path),
		changes: make(chan ScenarioConfig, 1),
		errs:    make(chan error, 1),
	}
	go sw.loop()

	return sw, nil
}

func (sw *Watcher) loop() {
	for {
		select {
		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != sw.path {
				continue
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cfg, err := LoadScenario(sw.path)
			if err != nil {
				sw.pushErr(err)
				continue
			}

			select {
			case sw.changes <- cfg:
			default:
				// drop the stale pending reload, the newest one wins
				select {
				case <-sw.changes:
				default:
				}
				sw.changes <- cfg
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			sw.pushErr(err)
		}
	}
}

func (sw *Watcher) pushErr(err error) {
	select {
	case sw.errs <- err:
	default:
	}
}

// Changes delivers the most recently reloaded ScenarioConfig. The channel
// is buffered to depth 1 and always holds the latest version, never a
// backlog.
func (sw *Watcher) Changes() <-chan ScenarioConfig { return sw.changes }

// Errors delivers reload failures (unreadable or malformed scenario
// files).
func (sw *Watcher) Errors() <-chan error { return sw.errs }

// Close stops the underlying fsnotify watcher.
func (sw *Watcher) Close() error { return sw.w.Close() }
