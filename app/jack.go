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
	"log/slog"

	"fox-spl/audio"
	"fox-spl/model"
	"fox-spl/reaper"
	"fox-spl/util"
)

// openJackSources connects to JACK, starting jackd first when configured to,
// and returns one source per capture port the meter listens to
func openJackSources(config *model.Config, r *reaper.Reaper) ([]audio.Source, error) {
	server := audio.NewServer(audio.JackServerOptions{
		ClientName:     config.Jack.ClientName,
		AudioInterface: jackInterface(config),
		JackdBinary:    config.Jack.JackdBinary,
		PortPrefix:     config.Jack.PortPrefix,
		SampleRate:     config.Rate,
		Period:         config.Chunk,
		Verbose:        config.Jack.Verbose,
	})

	if config.Jack.AutoStart {
		if err := server.StartServer(); err != nil {
			return nil, util.WrapError("start jackd", err)
		}
		r.Callback("stop jack server", server.StopServer)
	}

	if err := server.Connect(); err != nil {
		return nil, util.WrapError("connect to jack", err)
	}
	r.Callback("disconnect jack server", server.Disconnect)

	ports := []*audio.Port{server.AddCapturePort(1)}
	if config.LineIn {
		ports = append(ports, server.AddCapturePort(2))
	}

	if err := server.Start(); err != nil {
		return nil, util.WrapError("start jack client", err)
	}

	if period := server.GetFramesPerPeriod(); period != config.Chunk {
		slog.Info(fmt.Sprintf("JACK period is %d frames, metering blocks of %d", period, config.Chunk))
	}

	if server.GetSampleRate() != config.Rate {
		slog.Warn(fmt.Sprintf("JACK runs at %d Hz, not the configured %d Hz", server.GetSampleRate(), config.Rate))
	}

	sources := make([]audio.Source, 0, len(ports))
	for _, port := range ports {
		if !port.Connected() {
			slog.Warn("JACK port " + port.JackName() + " is not connected, its meter will stay silent")
		}
		sources = append(sources, audio.NewJackSource(server, port))
	}

	return sources, nil
}

func jackInterface(config *model.Config) string {
	if config.Jack.Driver == "" {
		return "alsa/" + config.Device1
	}

	return config.Jack.Driver + "/" + config.Device1
}
