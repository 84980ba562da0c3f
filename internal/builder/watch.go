package builder

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for before rebuilding.
const DefaultDebounce = 200 * time.Millisecond

// BuildCallback receives the outcome of every watcher-driven build.
type BuildCallback func(report *Report, err error)

// Watch watches the posts directory and the template file and calls build
// after a burst of relevant changes has been quiet for debounce. Markdown
// create/write/remove/rename events and any change to the template count as
// relevant; the index file and generated pages do not. Watch blocks until
// ctx is cancelled.
func Watch(ctx context.Context, site Site, debounce time.Duration, logger *slog.Logger, build func(context.Context) (*Report, error), cb BuildCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	postsDir, err := filepath.Abs(site.PostsDir)
	if err != nil {
		return err
	}
	tplFile, err := filepath.Abs(site.TemplateFile)
	if err != nil {
		return err
	}

	if err := w.Add(postsDir); err != nil {
		return err
	}
	// Editors replace files by rename, so watch the template's directory
	// rather than the file itself.
	if tplDir := filepath.Dir(tplFile); tplDir != postsDir {
		if err := w.Add(tplDir); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.String("posts_dir", postsDir), slog.String("template", tplFile))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			report, err := build(ctx)
			if err != nil {
				logger.Warn("watcher: rebuild failed", slog.String("error", err.Error()))
			}
			if cb != nil {
				cb(report, err)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, postsDir, tplFile) {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func relevant(ev fsnotify.Event, postsDir, tplFile string) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == tplFile {
		return true
	}
	return filepath.Dir(name) == postsDir && strings.HasSuffix(name, ".md")
}
