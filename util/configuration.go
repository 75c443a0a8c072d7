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
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"fox-spl/model"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// report yaml key names rather than struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

func DefaultConfig() *model.Config {
	return &model.Config{
		Rpi:    false,
		LineIn: false,
		Source: model.SourceArecord,

		Device1:  "default",
		Device2:  "",
		Channels: 1,
		Rate:     44100,
		Chunk:    1024,

		QuietMusic:  15,
		LoudMusic:   3,
		QuietSpeech: 30,
		LoudSpeech:  12,

		AverageSamples:   20,
		GraphSamples:     200,
		AverageStatistic: "mean",
		SplitFrequency:   125,
		FilterOrder:      5,
		CarryFilterState: false,

		FPS:           30,
		Padding:       0,
		ColourPadding: 1,

		Source1Label:   "MIC",
		Source2Label:   "OUT",
		Split1Label:    "HIGH",
		Split2Label:    "LOW",
		Watermark:      "fox-spl",
		WelcomeMessage: "",

		Palette: &model.Palette{
			Background:     "#3C506E",
			BackgroundDark: "#323C5A",
			Border:         "#0F0F0F",
			BorderLight:    "#5A5F64",
			Text:           "#506478",
			Foreground:     "#000000",
			Graph1:         "#3C8246",
			Graph2:         "#823C46",
			LightBlue:      "#50B4DC",
			DarkBlue:       "#0A233C",
			Orange:         "#E6BE2D",
			Green:          "#329650",
			Red:            "#D72D32",
			ButtonActive:   "#75CEF0",
			ButtonInactive: "#848683",
			ButtonDisabled: "#424341",
		},

		Jack: &model.JackOptions{
			ClientName: "fox-spl",
			AutoStart:  false,
			PortPrefix: "system:capture_",
		},
		Command:    &model.CommandOptions{},
		Simulation: &model.SimulationOptions{Frequency: 440, MinLevel: 2, MaxLevel: 36},

		LogFile:       "",
		LogLevel:      "info",
		StatsInterval: 5000,
		WatchConfig:   false,
	}
}

// ReadConfig layers the config file and then the command line over the
// defaults. When no config file exists the defaults are written out and
// isNew is true.
func ReadConfig(args *model.CommandLineArgs) (config *model.Config, configPath string, isNew bool, err error) {
	config = DefaultConfig()

	fileName := args.ConfigFile
	if fileName == "" {
		fileName = model.DefaultConfigFile
	}

	configPath, err = ReadYamlFile(config, fileName)

	if errors.Is(err, ErrYamlNotFound) {
		configPath, err = newConfigPath(fileName)
		if err != nil {
			return nil, "", false, err
		}

		slog.Info("No config file found, writing defaults to " + configPath)

		if err = WriteYamlFile(config, configPath); err != nil {
			return nil, "", false, err
		}

		isNew = true
	} else if err != nil {
		return nil, "", false, err
	}

	ApplyArgs(config, args)

	if err = ValidateConfig(config); err != nil {
		return nil, configPath, isNew, err
	}

	return config, configPath, isNew, nil
}

// ReloadConfig re-reads a known config file for hot reload
func ReloadConfig(configPath string, args *model.CommandLineArgs) (*model.Config, error) {
	config := DefaultConfig()

	if _, err := ReadYamlFile(config, configPath); err != nil {
		return nil, err
	}

	ApplyArgs(config, args)

	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func ApplyArgs(config *model.Config, args *model.CommandLineArgs) {
	if args.Simulate {
		config.Source = model.SourceSimulate
	} else if args.Source != "" {
		config.Source = model.SourceType(strings.ToLower(args.Source))
	}

	if args.WavFile != "" {
		config.WavFile = args.WavFile
	}

	if args.LogFile != "" {
		config.LogFile = args.LogFile
	}

	if args.LogLevel != "" {
		config.LogLevel = strings.ToLower(args.LogLevel)
	}

	if config.Source == model.SourceJack && config.Jack.AutoStart && config.Jack.JackdBinary == "" {
		config.Jack.JackdBinary = FindJackdBinary()
	}
}

func ValidateConfig(config *model.Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return WrapError("validate config", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s %s", e.Namespace(), formatValidationMessage(e)))
	}

	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func newConfigPath(fileName string) (string, error) {
	if strings.HasPrefix(fileName, "/") || strings.HasPrefix(fileName, "~/") {
		return ResolveHomeDirPath(fileName)
	}

	return UserConfigPath(fileName)
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "ltfield":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "hexcolor":
		return "must be a hex colour like #RRGGBB"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
