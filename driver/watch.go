package driver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch parses paths once, then again each time one of them is written,
// passing every Result to onResult. Directories are watched rather than
// the files so that editors which save by renaming are still seen. Watch
// returns nil when ctx is done.
func Watch(ctx context.Context, paths []string, o Options, onResult func(Result)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	tracked := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		tracked[p] = true
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	// Per file errors travel in the results.
	results, _ := ParseFiles(ctx, paths, o)
	if ctx.Err() != nil {
		return nil
	}
	for _, r := range results {
		onResult(r)
	}

	log := o.logger()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !tracked[name] || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("source changed", "path", name, "op", ev.Op.String())
			stmts, err := ParseFile(name, o)
			onResult(Result{Path: name, Stmts: stmts, Err: err})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching sources: %w", err)
		}
	}
}
