/*
Copyright (C) 2023  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rpal-machine/rpal/cse"
)

// Watch re-runs path every time it's written, debounced so a single save
// (which can emit several Write events in a row from some editors) only
// triggers one run.
func Watch(path string, trace *cse.Tracefile) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	runOnce := func() {
		fmt.Println("---", path, "---")
		if err := Run(path, RunOptions{Trace: trace}); err != nil {
			fmt.Println("error:", err)
		}
	}
	runOnce()

	const debounce = 100 * time.Millisecond
	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, runOnce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Println("watch error:", werr)
		}
	}
}
