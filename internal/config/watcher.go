package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// SettingsSource serves the current settings document.
type SettingsSource interface {
	Settings(ctx context.Context) (*SettingsDocument, error)
}

// StaticSettings serves a fixed document.
type StaticSettings struct {
	Doc *SettingsDocument
}

// Settings implements SettingsSource.
func (s StaticSettings) Settings(context.Context) (*SettingsDocument, error) {
	if s.Doc == nil {
		return &SettingsDocument{}, nil
	}
	return s.Doc, nil
}

var (
	watchDebounce = 100 * time.Millisecond
	pollInterval  = 5 * time.Second
)

// SettingsWatcher caches the settings document and reloads it when the file
// changes. It is read-only: nothing here writes the document.
type SettingsWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu          sync.RWMutex
	doc         *SettingsDocument
	loadErr     error
	lastModTime time.Time
	onReload    func(*SettingsDocument)
}

// NewSettingsWatcher loads the document at path once. A missing file is an
// empty document.
func NewSettingsWatcher(path string) (*SettingsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	sw := &SettingsWatcher{
		path:     path,
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}
	sw.reload()
	return sw, nil
}

// SetReloadCallback registers fn to run after each successful reload.
func (sw *SettingsWatcher) SetReloadCallback(fn func(*SettingsDocument)) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.onReload = fn
}

// Settings implements SettingsSource.
func (sw *SettingsWatcher) Settings(ctx context.Context) (*SettingsDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sw.mu.RLock()
	defer sw.mu.RUnlock()
	if sw.loadErr != nil {
		return nil, sw.loadErr
	}
	return sw.doc, nil
}

// Start begins watching the settings file's directory, falling back to
// polling when the directory cannot be watched.
func (sw *SettingsWatcher) Start() error {
	dir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(dir); err != nil {
		log.Warn().Err(err).Str("path", dir).Msg("Falling back to polling for settings changes")
		sw.wg.Add(1)
		go sw.pollForChanges()
		return nil
	}

	sw.wg.Add(1)
	go sw.watchForChanges()
	log.Info().Str("path", sw.path).Msg("Started watching settings file")
	return nil
}

// Stop ends watching. It is safe to call twice.
func (sw *SettingsWatcher) Stop() {
	select {
	case <-sw.stopChan:
		return
	default:
		close(sw.stopChan)
	}
	sw.watcher.Close()
	sw.wg.Wait()
}

// Reload re-reads the file immediately.
func (sw *SettingsWatcher) Reload() {
	sw.reload()
}

func (sw *SettingsWatcher) watchForChanges() {
	defer sw.wg.Done()
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(sw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Let the writer finish.
			select {
			case <-time.After(watchDebounce):
			case <-sw.stopChan:
				return
			}
			log.Info().Str("event", event.Op.String()).Msg("Detected settings file change")
			sw.reload()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Settings watcher error")

		case <-sw.stopChan:
			return
		}
	}
}

func (sw *SettingsWatcher) pollForChanges() {
	defer sw.wg.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stat, err := os.Stat(sw.path)
			if err != nil {
				continue
			}
			sw.mu.RLock()
			changed := stat.ModTime().After(sw.lastModTime)
			sw.mu.RUnlock()
			if changed {
				log.Info().Msg("Detected settings file change via polling")
				sw.reload()
			}
		case <-sw.stopChan:
			return
		}
	}
}

func (sw *SettingsWatcher) reload() {
	doc, modTime, err := readSettings(sw.path)

	sw.mu.Lock()
	if err != nil {
		// Keep serving the last good document if there is one.
		if sw.doc == nil {
			sw.loadErr = err
		}
		sw.mu.Unlock()
		log.Error().Err(err).Str("path", sw.path).Msg("Failed to load settings")
		return
	}
	sw.doc = doc
	sw.loadErr = nil
	sw.lastModTime = modTime
	callback := sw.onReload
	sw.mu.Unlock()

	log.Debug().Str("path", sw.path).Bool("has_ai", doc.AI != nil).Msg("Settings loaded")
	if callback != nil {
		callback(doc)
	}
}

func readSettings(path string) (*SettingsDocument, time.Time, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &SettingsDocument{}, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read settings: %w", err)
	}
	doc, err := ParseSettings(data)
	if err != nil {
		return nil, time.Time{}, err
	}
	var modTime time.Time
	if stat, err := os.Stat(path); err == nil {
		modTime = stat.ModTime()
	}
	return doc, modTime, nil
}
