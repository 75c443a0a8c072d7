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
package model

const DefaultConfigFile = "fox-spl.yml"

type SourceType string

const (
	SourceJack     SourceType = "jack"
	SourceArecord  SourceType = "arecord"
	SourceFfmpeg   SourceType = "ffmpeg"
	SourceWav      SourceType = "wav"
	SourceSimulate SourceType = "simulate"
)

type CommandLineArgs struct {
	ConfigFile string
	Simulate   bool
	Headless   bool
	LogFile    string
	LogLevel   string
	Source     string
	WavFile    string
}

type Config struct {
	Rpi    bool       `yaml:"rpi"`
	LineIn bool       `yaml:"line_in"`
	Source SourceType `yaml:"source" validate:"oneof=jack arecord ffmpeg wav simulate"`

	Device1  string `yaml:"device_1"`
	Device2  string `yaml:"device_2" validate:"required_if=LineIn true"`
	Channels int    `yaml:"channels" validate:"min=1,max=2"`
	Rate     int    `yaml:"rate" validate:"min=8000,max=192000"`
	Chunk    int    `yaml:"chunk" validate:"min=64,max=65536"`

	QuietMusic  float64 `yaml:"quiet_music" validate:"gte=0,lte=48"`
	LoudMusic   float64 `yaml:"loud_music" validate:"gte=0,lte=48,ltfield=QuietMusic"`
	QuietSpeech float64 `yaml:"quiet_speech" validate:"gte=0,lte=48"`
	LoudSpeech  float64 `yaml:"loud_speech" validate:"gte=0,lte=48,ltfield=QuietSpeech"`

	AverageSamples   int     `yaml:"average_samples" validate:"min=1,max=10000"`
	GraphSamples     int     `yaml:"graph_samples" validate:"min=1,max=10000"`
	AverageStatistic string  `yaml:"average_statistic" validate:"oneof=mean min"`
	SplitFrequency   float64 `yaml:"split_frequency" validate:"gt=0"`
	FilterOrder      int     `yaml:"filter_order" validate:"min=1,max=10"`
	CarryFilterState bool    `yaml:"carry_filter_state"`

	FPS           int `yaml:"fps" validate:"min=1,max=240"`
	Padding       int `yaml:"padding" validate:"gte=0,lte=4"`
	ColourPadding int `yaml:"colour_padding" validate:"gte=0,lte=4"`

	Source1Label   string `yaml:"source_1_label"`
	Source2Label   string `yaml:"source_2_label"`
	Split1Label    string `yaml:"split_1_label"`
	Split2Label    string `yaml:"split_2_label"`
	Watermark      string `yaml:"watermark"`
	WelcomeMessage string `yaml:"welcome_message"`

	Palette *Palette `yaml:"palette" validate:"required"`

	Jack       *JackOptions       `yaml:"jack" validate:"required"`
	Command    *CommandOptions    `yaml:"command" validate:"required"`
	WavFile    string             `yaml:"wav_file" validate:"required_if=Source wav"`
	Simulation *SimulationOptions `yaml:"simulation" validate:"required"`

	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	StatsInterval int    `yaml:"stats_interval_ms" validate:"min=100"`
	WatchConfig   bool   `yaml:"watch_config"`
}

// Palette colours are #RRGGBB strings
type Palette struct {
	Background     string `yaml:"background" validate:"hexcolor"`
	BackgroundDark string `yaml:"background_dark" validate:"hexcolor"`
	Border         string `yaml:"border" validate:"hexcolor"`
	BorderLight    string `yaml:"border_light" validate:"hexcolor"`
	Text           string `yaml:"text" validate:"hexcolor"`
	Foreground     string `yaml:"foreground" validate:"hexcolor"`
	Graph1         string `yaml:"graph_1" validate:"hexcolor"`
	Graph2         string `yaml:"graph_2" validate:"hexcolor"`
	LightBlue      string `yaml:"light_blue" validate:"hexcolor"`
	DarkBlue       string `yaml:"dark_blue" validate:"hexcolor"`
	Orange         string `yaml:"orange" validate:"hexcolor"`
	Green          string `yaml:"green" validate:"hexcolor"`
	Red            string `yaml:"red" validate:"hexcolor"`
	ButtonActive   string `yaml:"button_active" validate:"hexcolor"`
	ButtonInactive string `yaml:"button_inactive" validate:"hexcolor"`
	ButtonDisabled string `yaml:"button_disabled" validate:"hexcolor"`
}

type JackOptions struct {
	ClientName  string `yaml:"client_name" validate:"required"`
	AutoStart   bool   `yaml:"auto_start"`
	JackdBinary string `yaml:"jackd_binary"`
	Driver      string `yaml:"driver"`
	PortPrefix  string `yaml:"port_prefix" validate:"required"`
	Verbose     bool   `yaml:"verbose"`
}

type CommandOptions struct {
	Binary      string `yaml:"binary"`
	InputFormat string `yaml:"input_format"`
}

type SimulationOptions struct {
	Frequency float64 `yaml:"frequency" validate:"gt=0"`
	MinLevel  float64 `yaml:"min_level" validate:"gte=0,lte=48"`
	MaxLevel  float64 `yaml:"max_level" validate:"gte=0,lte=48,gtefield=MinLevel"`
}
