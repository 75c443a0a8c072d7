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
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"fox-spl/audio"
	"fox-spl/display"
	"fox-spl/display/theme"
	"fox-spl/dsp"
	"fox-spl/meter"
	"fox-spl/model"
	"fox-spl/reaper"
	"fox-spl/shared"
	"fox-spl/util"
)

const headlessInterval = time.Second

// ConfigureFileLogger sends the log to config.LogFile, or nowhere when no
// file is set and the screen owns the terminal. Errors are also counted on
// the UI.
func ConfigureFileLogger(config *model.Config, ui display.UI, headless bool) (io.Closer, error) {
	var (
		output io.Writer = io.Discard
		closer io.Closer
	)

	switch {
	case config.LogFile != "":
		path, err := util.ResolveHomeDirPath(config.LogFile)
		if err != nil {
			return nil, err
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, util.WrapError("open log file", err)
		}

		output, closer = f, f

	case headless:
		output = shared.StockStderr()
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: util.ParseLogLevel(config.LogLevel),
	})

	slog.SetDefault(slog.New(shared.NewUiLogHandler(handler, ui, func(message string) {
		ui.IncrementErrorCount()
	})))

	return closer, nil
}

func runEngine(args *model.CommandLineArgs) error {
	r := reaper.Default()
	started := time.Now()

	config, configPath, isNewConfig, err := util.ReadConfig(args)
	if err != nil {
		return err
	}

	if config.LineIn && config.Source == model.SourceWav {
		slog.Warn("line_in is ignored when reading from a wav file")
		config.LineIn = false
	}

	statistic, err := meter.ParseStatistic(config.AverageStatistic)
	if err != nil {
		return err
	}

	t := theme.FromPalette(config.Palette)
	t.Apply()

	aggregator := meter.NewAggregator(config.GraphSamples, config.AverageSamples, statistic, thresholdsFor(config, false))
	controller := NewMeterController(config, aggregator, t)

	ui, err := newUI(args, config, controller, t, isNewConfig)
	if err != nil {
		return err
	}
	r.Callback("ui", ui.Shutdown)

	logFile, err := ConfigureFileLogger(config, ui, args.Headless)
	if err != nil {
		r.Reap()
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// libjack and the capture tools print whenever they like
	shared.HijackLogging()
	shared.EnableSlogLogging()

	stopSignals := shared.CatchSigint(func() {
		slog.Info("Caught signal, calling reaper")
		r.Reap()
	})
	defer stopSignals()

	slog.Info("Using config " + configPath)

	captures, err := startCaptures(config, aggregator, controller, r)
	if err != nil {
		r.Reap()
		return err
	}

	initStatistics(r, captures, time.Duration(config.StatsInterval)*time.Millisecond)

	if config.WatchConfig {
		stopWatch, err := util.WatchFile(configPath, func() {
			reloaded, err := util.ReloadConfig(configPath, args)
			if err != nil {
				slog.Error("Not reloading config: " + err.Error())
				return
			}

			controller.ApplyConfig(reloaded)
			slog.Info("Reloaded thresholds and labels from " + configPath)
		})

		if err != nil {
			slog.Warn("Config changes will not be picked up: " + err.Error())
		} else {
			r.Callback("config watcher", stopWatch)
		}
	}

	// blocks until quit, a signal or the reaper
	ui.Run()

	r.Reap()
	r.Wait()

	slog.Info("Shutdown complete after " + util.FormatDuration(time.Since(started).Seconds()))

	return nil
}

func newUI(args *model.CommandLineArgs, config *model.Config, controller *MeterController, t theme.Theme, isNewConfig bool) (display.UI, error) {
	if args.Headless {
		return display.NewJsonUI(shared.StockStdout(), controller.aggregator, controller, headlessInterval), nil
	}

	background := t.Style(t.Foreground, t.Border)

	screen, err := display.NewTerminalScreen(config.Rpi, background)
	if err != nil {
		return nil, err
	}

	root := display.NewRootWindow(screen, config.FPS, 0, background)
	root.OnQuit(reaper.Reap)

	controller.Mount(root, t, isNewConfig)

	return display.NewTui(screen, root, controller.VUMeter()), nil
}

// startCaptures opens the configured inputs and starts one capture loop for
// each of them
func startCaptures(config *model.Config, aggregator *meter.Aggregator, modes meter.Modes, r *reaper.Reaper) ([]*meter.Capture, error) {
	sources, err := openSources(config, r)
	if err != nil {
		return nil, err
	}

	for _, source := range sources {
		r.Callback("close "+source.Name(), func() {
			if err := source.Close(); err != nil {
				slog.Warn(fmt.Sprintf("closing %s: %s", source.Name(), err.Error()))
			}
		})
	}

	// the coefficients have to match the rate the source really delivers
	sampleRate := sources[0].SampleRate()
	filters, err := dsp.NewFilterBank(float64(sampleRate), config.SplitFrequency, config.FilterOrder)
	if err != nil {
		return nil, util.WrapError("derive filters", err)
	}

	slog.Info(fmt.Sprintf("Metering %d stream(s) at %d Hz, %d frames per block", len(sources), sampleRate, config.Chunk))

	captures := make([]*meter.Capture, 0, len(sources))

	for i, source := range sources {
		stream := meter.PrimaryStream
		if i > 0 {
			stream = meter.SecondaryStream
		}

		capture := meter.NewCapture(source, aggregator, modes, r, meter.CaptureOptions{
			Stream:           stream,
			HasSecondary:     len(sources) > 1,
			FramesPerBlock:   config.Chunk,
			Filters:          filters,
			CarryFilterState: config.CarryFilterState,
		})

		capture.Start()
		captures = append(captures, capture)
	}

	return captures, nil
}

func openSources(config *model.Config, r *reaper.Reaper) ([]audio.Source, error) {
	switch config.Source {
	case model.SourceJack:
		return openJackSources(config, r)

	case model.SourceArecord, model.SourceFfmpeg:
		devices := []string{config.Device1}
		if config.LineIn {
			devices = append(devices, config.Device2)
		}

		sources := make([]audio.Source, 0, len(devices))
		for _, device := range devices {
			sources = append(sources, audio.NewCommandSource(audio.CommandOptions{
				Tool:        audio.CaptureTool(config.Source),
				Binary:      config.Command.Binary,
				Device:      device,
				InputFormat: config.Command.InputFormat,
				SampleRate:  config.Rate,
				Channels:    config.Channels,
			}))
		}

		return sources, nil

	case model.SourceWav:
		source, err := audio.NewWavSource(config.WavFile)
		if err != nil {
			return nil, util.WrapError("open "+config.WavFile, err)
		}

		return []audio.Source{source}, nil

	case model.SourceSimulate:
		return simulatedSources(config), nil
	}

	return nil, fmt.Errorf("unknown source '%s'", config.Source)
}
