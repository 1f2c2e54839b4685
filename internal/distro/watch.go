package distro

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsingmao/stackdist/internal/logger"
)

// debounce collapses the burst of events editors emit on save.
const debounce = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files.
//
// Directories are watched rather than the files themselves so that
// rename-on-save editors keep triggering events.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
}

// NewWatcher starts watching the directories containing files.
func NewWatcher(files []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{watcher: fw, files: make(map[string]struct{}, len(files))}
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run calls onChange after each burst of changes to a watched file. It
// blocks until ctx is done or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer w.watcher.Close()
	log := logger.With("watch")

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if _, tracked := w.files[abs]; !tracked {
				continue
			}
			log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("input changed")
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			onChange(pending)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
		}
	}
}

// Watch regenerates the README whenever one of its inputs changes.
// Generation errors are logged and watching continues.
func (g *Generator) Watch(ctx context.Context) error {
	w, err := NewWatcher(g.Layout.Inputs())
	if err != nil {
		return err
	}
	logger.Info("Watching %s for changes", filepath.Dir(g.Layout.RunYAML()))
	return w.Run(ctx, func(path string) {
		logger.Info("%s changed, regenerating README", filepath.Base(path))
		if err := g.Write(ctx); err != nil {
			logger.Error("README generation failed: %v", err)
		}
	})
}
