// Package settings loads the merchant's Automatic Advanced Matching
// configuration from a YAML file and keeps it fresh across admin edits.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/storelink/metabridge/internal/aam"
)

// Loader reads the settings file and watches it for changes. It implements
// aam.SettingsProvider: every AAMSettings call sees the latest state.
//
// A missing file is not an error. It means matching was never configured,
// which the pipeline models as nil settings.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *aam.Settings
	onChange []func(*aam.Settings)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	s, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = s
	return l, nil
}

// AAMSettings returns the current settings snapshot, nil when the merchant
// never configured matching.
func (l *Loader) AAMSettings() *aam.Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the settings reload.
func (l *Loader) OnChange(fn func(*aam.Settings)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the settings on
// file changes. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("settings watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("settings watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					s, err := l.load()
					if err != nil {
						// Keep serving the old settings.
						continue
					}
					l.swap(s)
				}
			case <-w.Errors:
				// Ignore watcher errors.
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}

// Reload forces an immediate re-read of the settings file.
func (l *Loader) Reload() (*aam.Settings, error) {
	s, err := l.load()
	if err != nil {
		return nil, err
	}
	l.swap(s)
	return s, nil
}

func (l *Loader) swap(s *aam.Settings) {
	l.mu.Lock()
	l.current = s
	callbacks := make([]func(*aam.Settings), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(s)
	}
}

func (l *Loader) load() (*aam.Settings, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil // not configured
	}
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", l.path, err)
	}
	var s aam.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", l.path, err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
