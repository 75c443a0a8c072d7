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
	"context"
	"log/slog"

	"fox-spl/display"
)

// UiLogHandler passes records on to next and lets the UI know about the
// ones that matter: errors bump the error counter and warnings or worse are
// offered to the UI's own log output.
type UiLogHandler struct {
	next          slog.Handler
	ui            display.UI
	errorCallback func(string)
}

func NewUiLogHandler(next slog.Handler, ui display.UI, errorCallback func(string)) *UiLogHandler {
	h := &UiLogHandler{
		next:          next,
		ui:            ui,
		errorCallback: errorCallback,
	}

	return h
}

func (h *UiLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn && h.ui != nil {
		h.ui.WriteLevelLog(r.Level, r.Message)
	}

	if r.Level >= slog.LevelError && h.errorCallback != nil {
		h.errorCallback(r.Message)
	}

	return h.next.Handle(ctx, r)
}

func (h *UiLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelError || h.next.Enabled(ctx, level)
}

func (h *UiLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &UiLogHandler{
		next:          h.next.WithAttrs(attrs),
		ui:            h.ui,
		errorCallback: h.errorCallback,
	}
}

func (h *UiLogHandler) WithGroup(name string) slog.Handler {
	return &UiLogHandler{
		next:          h.next.WithGroup(name),
		ui:            h.ui,
		errorCallback: h.errorCallback,
	}
}
