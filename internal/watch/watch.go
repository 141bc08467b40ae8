// Package watch triggers a callback when catalog files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDelay is the quiet period before a burst of events fires once.
const DefaultDelay = 200 * time.Millisecond

// Watcher watches one catalog directory for *.json changes.
type Watcher struct {
	dir      string
	delay    time.Duration
	onChange func()
}

// New creates a Watcher calling onChange after json files in dir change.
func New(dir string, delay time.Duration, onChange func()) *Watcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Watcher{dir: dir, delay: delay, onChange: onChange}
}

// Run blocks until ctx is done. Events are debounced: onChange fires once,
// delay after the last relevant event of a burst.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	log.Info().Str("dir", w.dir).Msg("Watching catalog directory")

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("dir", w.dir).Msg("Stopping catalog watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Debug().Str("file", filepath.Base(event.Name)).Str("op", event.Op.String()).Msg("Catalog changed")
			timer.Reset(w.delay)

		case <-timer.C:
			w.onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Str("dir", w.dir).Msg("Watcher error")
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".json") {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
