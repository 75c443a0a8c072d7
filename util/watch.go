// =================================================================================
//
//			fox-spl - https://www.foxhollow.cc/projects/fox-spl/
//
//		 Fox SPL is a touchscreen sound level meter that watches one or two
//	  audio inputs and flags material that is too quiet or too loud
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package util

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reload once the editor has finished writing
const watchSettleDelay = 250 * time.Millisecond

// WatchFile calls onChange after filePath is written, created or replaced.
// The parent directory is watched so editors that swap the file in with a
// rename are still noticed. The returned func stops the watcher.
func WatchFile(filePath string, onChange func()) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, WrapError("create file watcher", err)
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		watcher.Close()
		return nil, WrapError("resolve "+filePath, err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, WrapError("watch "+filepath.Dir(absPath), err)
	}

	done := make(chan bool)

	go func() {
		var settle <-chan time.Time

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != absPath {
					continue
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					settle = time.After(watchSettleDelay)
				}

			case <-settle:
				settle = nil
				slog.Info("Detected change to " + absPath)
				onChange()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("file watcher error: " + err.Error())

			case <-done:
				return
			}
		}
	}()

	stop := func() {
		close(done)
		watcher.Close()
	}

	return stop, nil
}
