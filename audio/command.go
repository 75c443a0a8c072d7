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
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"fox-spl/util"
)

type CaptureTool string

const (
	ToolArecord CaptureTool = "arecord"
	ToolFfmpeg  CaptureTool = "ffmpeg"
)

type CommandOptions struct {
	Tool        CaptureTool
	Binary      string
	Device      string
	InputFormat string
	SampleRate  int
	Channels    int
}

// CommandSource captures raw S16LE PCM from arecord or ffmpeg. The process
// is started lazily by Read and restarted by the next Read after it exits.
type CommandSource struct {
	options CommandOptions

	lock   sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
	raw    []byte
}

func NewCommandSource(options CommandOptions) *CommandSource {
	if options.Binary == "" {
		options.Binary = string(options.Tool)
	}
	if options.Channels <= 0 {
		options.Channels = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &CommandSource{
		options: options,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// BuildArgs returns the command line that writes raw 16-bit little endian
// PCM to stdout
func (source *CommandSource) BuildArgs() []string {
	options := source.options
	rate := strconv.Itoa(options.SampleRate)
	channels := strconv.Itoa(options.Channels)

	if options.Tool == ToolFfmpeg {
		inputFormat := options.InputFormat
		if inputFormat == "" {
			inputFormat = "alsa"
		}

		return []string{
			"-hide_banner", "-loglevel", "error", "-nostdin",
			"-f", inputFormat,
			"-i", options.Device,
			"-ac", channels,
			"-ar", rate,
			"-f", "s16le",
			"-acodec", "pcm_s16le",
			"-",
		}
	}

	return []string{
		"-D", options.Device,
		"-f", "S16_LE",
		"-r", rate,
		"-c", channels,
		"-t", "raw",
		"-q",
		"-",
	}
}

func (source *CommandSource) Name() string {
	return fmt.Sprintf("%s %s", source.options.Tool, source.options.Device)
}

func (source *CommandSource) SampleRate() int {
	return source.options.SampleRate
}

func (source *CommandSource) Channels() int {
	return source.options.Channels
}

func (source *CommandSource) start() error {
	if source.ctx.Err() != nil {
		return ErrClosed
	}

	args := source.BuildArgs()
	slog.Info("Starting capture: " + source.options.Binary + " " + strings.Join(args, " "))

	cmd := exec.CommandContext(source.ctx, source.options.Binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return util.WrapError("attach to capture output", err)
	}

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return util.WrapError("start "+source.options.Binary, err)
	}

	source.cmd = cmd
	source.stdout = stdout
	source.stderr = stderr

	return nil
}

func (source *CommandSource) Read(block []int16) error {
	source.lock.Lock()
	defer source.lock.Unlock()

	if source.cmd == nil {
		if err := source.start(); err != nil {
			return err
		}
	}

	size := len(block) * 2
	if cap(source.raw) < size {
		source.raw = make([]byte, size)
	}
	raw := source.raw[:size]

	if _, err := io.ReadFull(source.stdout, raw); err != nil {
		return source.reap(err)
	}

	for i := range block {
		block[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}

	return nil
}

// reap collects an exited capture process so the next Read starts afresh
func (source *CommandSource) reap(readErr error) error {
	waitErr := source.cmd.Wait()
	stderr := util.ExtractLastError(source.stderr.String())
	source.cmd = nil
	source.stdout = nil

	if source.ctx.Err() != nil {
		return ErrClosed
	}

	if stderr != "" {
		return fmt.Errorf("%s exited: %s", source.options.Tool, stderr)
	}

	if waitErr != nil {
		return util.WrapError("run "+string(source.options.Tool), waitErr)
	}

	if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s closed its output", source.options.Tool)
	}

	return util.WrapError("read capture output", readErr)
}

// Close kills a running capture process, which unblocks a pending Read
func (source *CommandSource) Close() error {
	source.cancel()
	return nil
}
