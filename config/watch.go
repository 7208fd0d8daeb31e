// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a settings file and sends the new settings
// each time the file is written.
type Watcher struct {

	// Filename is the settings file being watched.
	Filename string

	// C receives the settings read after each change of the file.
	// Only the latest settings are kept when they are not received
	// in time.
	C <-chan *Settings

	ch      chan *Settings
	watcher *fsnotify.Watcher
}

// NewWatcher returns a new watcher for the given settings file.
// The directory of the file is watched, so that the file can be
// replaced by an editor. [Watcher.Run] must be called to start.
func NewWatcher(filename string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	filename = filepath.Clean(filename)
	if err := fw.Add(filepath.Dir(filename)); err != nil {
		fw.Close()
		return nil, err
	}
	ch := make(chan *Settings, 1)
	return &Watcher{Filename: filename, C: ch, ch: ch, watcher: fw}, nil
}

// Run monitors the file until the context is done or the watcher
// is closed. Settings that fail to load are logged and not sent.
// It does not return until then, so it should typically be called
// in a separate goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.Filename {
				continue
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "file", w.Filename, "err", err)
		}
	}
}

func (w *Watcher) reload() {
	s, err := Open(w.Filename)
	if err != nil {
		slog.Error("config: reloading settings", "err", err)
		return
	}
	slog.Info("config: settings reloaded", "file", w.Filename)
	select {
	case <-w.ch:
	default:
	}
	w.ch <- s
}

// Close stops watching the file.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
