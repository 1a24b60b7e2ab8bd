package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/coursebuilder/internal/assign"
	"git.home.luguber.info/inful/coursebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/coursebuilder/internal/notebook"
)

func runStudent() error {
	master := CLI.Student.Master
	output := CLI.Student.Output
	if output == "" {
		output = studentOutputPath(master)
	}

	if err := generateStudent(master, output, CLI.Student.EmbedTests); err != nil {
		return err
	}
	slog.Info("student notebook written", "master", master, "output", output)

	if CLI.Student.Watch {
		return watchMaster(master, output, CLI.Student.EmbedTests)
	}
	return nil
}

func studentOutputPath(master string) string {
	base := strings.TrimSuffix(master, ".ipynb")
	return base + "-student.ipynb"
}

func generateStudent(master, output string, embedTests bool) error {
	nb, err := notebook.ParseFile(master)
	if err != nil {
		return err
	}
	student, _, err := assign.Transform(nb, assign.Options{EmbedInlineTests: embedTests})
	if err != nil {
		return err
	}
	return student.WriteFile(output)
}

// watchMaster regenerates the student notebook whenever the master file
// changes, until interrupted. Editors often replace files via rename, so the
// whole directory is watched and events are filtered by name.
func watchMaster(master, output string, embedTests bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "creating file watcher").Build()
	}
	defer watcher.Close()

	dir := filepath.Dir(master)
	if err := watcher.Add(dir); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "watching directory").
			WithContext("dir", dir).Build()
	}
	slog.Info("watching for changes", "master", master)

	absMaster, err := filepath.Abs(master)
	if err != nil {
		absMaster = master
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping watch")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != absMaster {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce editor save bursts.
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-pending:
			pending = nil
			if err := generateStudent(master, output, embedTests); err != nil {
				slog.Error("regeneration failed", "error", err)
				continue
			}
			slog.Info("student notebook regenerated", "output", output)
		}
	}
}
