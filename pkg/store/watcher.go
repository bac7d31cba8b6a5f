package store

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// FileWatcher reports changes to a file-backed store made by other processes
// or by hand edits. The parent directory is watched because atomic writes
// replace the file rather than modifying it in place.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	path      string
	onChange  func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewFileWatcher starts watching path and calls onChange after each
// debounced burst of writes
func NewFileWatcher(path string, onChange func()) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher:  watcher,
		path:     absPath,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go fw.watch()
	return fw, nil
}

func (fw *FileWatcher) watch() {
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce rapid events
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case <-fw.done:
					return
				default:
				}
				if fw.onChange != nil {
					fw.onChange()
				}
			})

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue watching
			log.Printf("[STORE] File watcher error: %v", err)

		case <-fw.done:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

// Close stops watching
func (fw *FileWatcher) Close() error {
	var err error
	fw.closeOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
