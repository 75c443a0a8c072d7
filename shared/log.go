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
package shared

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogHandler receives every line written to the hijacked stdout or stderr
type LogHandler func(slog.Level, string)

var (
	stockStderr *os.File
	stockStdout *os.File

	sinkLock sync.RWMutex
	logSinks = make([]LogHandler, 0)
)

//------------------------------------------------------------------
// public functions
//------------------------------------------------------------------

// HijackLogging swaps stdout and stderr for pipes. libjack and the capture
// tools print straight to the terminal, which would scribble over the
// meter, so their output is fed to the log sinks instead.
func HijackLogging() {
	stockStdout = os.Stdout
	stockStderr = os.Stderr

	stdout_r, stdout_w, err := os.Pipe()
	if err != nil {
		fmt.Fprintln(stockStderr, err)
		return
	}
	go logProcessor(stdout_r, slog.LevelInfo)

	stderr_r, stderr_w, err := os.Pipe()
	if err != nil {
		fmt.Fprintln(stockStderr, err)
		return
	}
	go logProcessor(stderr_r, slog.LevelWarn)

	os.Stdout = stdout_w
	os.Stderr = stderr_w
}

// StockStdout is the real stdout, even after HijackLogging
func StockStdout() *os.File {
	if stockStdout != nil {
		return stockStdout
	}
	return os.Stdout
}

// StockStderr is the real stderr, even after HijackLogging
func StockStderr() *os.File {
	if stockStderr != nil {
		return stockStderr
	}
	return os.Stderr
}

func EnableSlogLogging() {
	AddLogSink(slogLogger)
}

func AddLogSink(fn LogHandler) {
	sinkLock.Lock()
	defer sinkLock.Unlock()

	logSinks = append(logSinks, fn)
}

//------------------------------------------------------------------
// private functions
//------------------------------------------------------------------

func slogLogger(level slog.Level, message string) {
	slog.Log(context.Background(), level, message)
}

// lineLevel raises the level of lines that say they are errors
func lineLevel(line string, fallback slog.Level) slog.Level {
	lower := strings.ToLower(line)

	if strings.Contains(lower, "error") || strings.Contains(lower, "failed") {
		return slog.LevelError
	}

	return fallback
}

func logProcessor(pipe io.Reader, level slog.Level) {
	scanner := bufio.NewScanner(pipe)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		at := lineLevel(line, level)

		sinkLock.RLock()
		sinks := logSinks
		sinkLock.RUnlock()

		for _, logger := range sinks {
			logger(at, line)
		}
	}
}
