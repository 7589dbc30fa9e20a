package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

type watcher struct {
	inputs []string
	policy string
	clean  *atomic.Pointer[cleaner]
	w      io.Writer

	files map[string]struct{}
}

func newWatcher(inputs []string, policy string, clean *atomic.Pointer[cleaner],
	w io.Writer,
) *watcher {
	return &watcher{inputs: inputs, policy: policy, clean: clean, w: w}
}

// Run sanitizes all inputs, then again every time one of them or the policy
// file changes, until interrupted.
func (self *watcher) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if slices.Contains(self.inputs, "-") {
		return errors.New("--watch can't read from stdin")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := self.watch(fsw); err != nil {
		return err
	}

	self.runAll()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			self.handle(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher failed", "err", err)
		}
	}
}

// watch adds parent directories of all watched files, because editors often
// replace files instead of writing into them.
func (self *watcher) watch(fsw *fsnotify.Watcher) error {
	names := slices.Clone(self.inputs)
	if self.policy != "" {
		names = append(names, self.policy)
	}

	self.files = make(map[string]struct{}, len(names))
	dirs := make(map[string]struct{}, len(names))
	for _, name := range names {
		path, err := filepath.Abs(expandPath(name))
		if err != nil {
			return fmt.Errorf("watch %s: %w", name, err)
		}
		self.files[path] = struct{}{}

		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = struct{}{}
		log.Debug("Watching", "dir", dir)
	}
	return nil
}

func (self *watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	} else if _, ok := self.files[path]; !ok {
		return
	}

	log.Debug("Changed", "path", path)
	if self.isPolicy(path) {
		if err := self.reloadPolicy(); err != nil {
			log.Error("Could not reload policy, keep the old one", "err", err)
			return
		}
	}
	self.runAll()
}

func (self *watcher) isPolicy(path string) bool {
	if self.policy == "" {
		return false
	}
	policy, err := filepath.Abs(expandPath(self.policy))
	return err == nil && policy == path
}

func (self *watcher) reloadPolicy() error {
	clean, err := newCleaner(self.policy)
	if err != nil {
		return err
	}
	self.clean.Store(&clean)
	log.Info("Reloaded policy", "path", self.policy)
	return nil
}

func (self *watcher) runAll() {
	if err := rewind(self.w); err != nil {
		log.Error("Could not truncate output", "err", err)
		return
	}

	clean := *self.clean.Load()
	for _, arg := range self.inputs {
		if err := executeArg(clean, arg, self.w); err != nil {
			log.Error("Could not sanitize", "source", arg, "err", err)
		}
	}
}

// rewind truncates output file, so it has the last result only.
func rewind(w io.Writer) error {
	f, ok := w.(*os.File)
	if !ok || f == os.Stdout {
		return nil
	}

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate %s: %w", f.Name(), err)
	} else if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek %s: %w", f.Name(), err)
	}
	return nil
}
