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
	"os"
	"path"
	"testing"
	"time"

	"fox-spl/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfigThresholdOrder(t *testing.T) {
	config := DefaultConfig()
	config.LoudMusic = 20
	config.QuietMusic = 15

	err := ValidateConfig(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud_music")
}

func TestValidateConfigRanges(t *testing.T) {
	config := DefaultConfig()
	config.QuietSpeech = 60
	config.AverageStatistic = "median"
	config.Palette.Red = "red"

	err := ValidateConfig(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiet_speech")
	assert.Contains(t, err.Error(), "average_statistic")
	assert.Contains(t, err.Error(), "red")
}

func TestValidateConfigSecondDevice(t *testing.T) {
	config := DefaultConfig()
	config.LineIn = true
	config.Device2 = ""

	err := ValidateConfig(config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device_2")

	config.Device2 = "hw:1,0"
	assert.NoError(t, ValidateConfig(config))
}

func TestReadConfigWritesDefaultsWhenMissing(t *testing.T) {
	configPath := path.Join(t.TempDir(), "nested", "fox-spl.yml")

	config, foundPath, isNew, err := ReadConfig(&model.CommandLineArgs{ConfigFile: configPath})
	require.NoError(t, err)

	assert.True(t, isNew)
	assert.Equal(t, configPath, foundPath)
	assert.True(t, FileExists(configPath))
	assert.Equal(t, 200, config.GraphSamples)

	// second read finds the file we just wrote
	_, _, isNew, err = ReadConfig(&model.CommandLineArgs{ConfigFile: configPath})
	require.NoError(t, err)
	assert.False(t, isNew)
}

func TestReadConfigOverlaysFileAndArgs(t *testing.T) {
	configPath := path.Join(t.TempDir(), "fox-spl.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("line_in: true\ndevice_2: hw:2,0\nquiet_music: 20\naverage_statistic: min\n"), 0644))

	config, _, isNew, err := ReadConfig(&model.CommandLineArgs{
		ConfigFile: configPath,
		Simulate:   true,
		LogLevel:   "DEBUG",
	})
	require.NoError(t, err)

	assert.False(t, isNew)
	assert.True(t, config.LineIn)
	assert.Equal(t, 20.0, config.QuietMusic)
	assert.Equal(t, 3.0, config.LoudMusic)
	assert.Equal(t, "min", config.AverageStatistic)
	assert.Equal(t, model.SourceSimulate, config.Source)
	assert.Equal(t, "debug", config.LogLevel)
	assert.NotNil(t, config.Palette)
}

func TestReadConfigRejectsInvalidFile(t *testing.T) {
	configPath := path.Join(t.TempDir(), "fox-spl.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("fps: 0\n"), 0644))

	_, _, _, err := ReadConfig(&model.CommandLineArgs{ConfigFile: configPath})
	assert.ErrorContains(t, err, "fps")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLogLevel("trace"))
	assert.Equal(t, "WARN", ParseLogLevel("Warn").String())
	assert.Equal(t, "INFO", ParseLogLevel("bogus").String())
}

func TestWatchFile(t *testing.T) {
	configPath := path.Join(t.TempDir(), "fox-spl.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("fps: 30\n"), 0644))

	changed := make(chan bool, 4)
	stop, err := WatchFile(configPath, func() { changed <- true })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(configPath, []byte("fps: 20\n"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
