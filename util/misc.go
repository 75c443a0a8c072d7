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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

const LevelTrace = slog.Level(-10)

var ErrYamlNotFound = errors.New("no yaml file found")

func FileExists(path string) bool {
	// if an error occurred or its a directory, we throw up
	if stat, err := os.Stat(path); err != nil || stat.IsDir() {
		return false
	}

	return true
}

func DirectoryExists(testDir string) bool {
	if stat, err := os.Stat(testDir); err != nil || !stat.IsDir() {
		return false
	}

	return true
}

func ResolveHomeDirPath(testPath string) (string, error) {
	if strings.HasPrefix(testPath, "~/") {
		homeDir, err := os.UserHomeDir()

		if err != nil {
			return "", errors.New("could not find user home dir: " + err.Error())
		}

		return path.Join(homeDir, testPath[2:]), nil
	}

	return testPath, nil
}

// UserConfigPath is where a config file lands when none could be found
func UserConfigPath(fileName string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("could not find user home dir: " + err.Error())
	}

	return path.Join(homeDir, ".config", "fox", fileName), nil
}

// FindYamlFile resolves fileName against, in order: an absolute or ~/ path,
// the directory holding the executable, the working directory and finally
// ~/.config/fox/.
func FindYamlFile(fileName string) (string, error) {
	if path.IsAbs(fileName) {
		if FileExists(fileName) {
			return fileName, nil
		}
		return "", fmt.Errorf("%w: %s", ErrYamlNotFound, fileName)
	}

	if strings.HasPrefix(fileName, "~/") {
		testFilePath, err := ResolveHomeDirPath(fileName)
		if err != nil {
			return "", err
		}

		if FileExists(testFilePath) {
			return testFilePath, nil
		}
		return "", fmt.Errorf("%w: %s", ErrYamlNotFound, testFilePath)
	}

	// check path where executable lives
	binPath, _ := os.Executable()
	sidecarPath := path.Join(filepath.Dir(binPath), fileName)
	if FileExists(sidecarPath) {
		return sidecarPath, nil
	}

	// check working directory
	cwd, _ := os.Getwd()
	cwdSidecarPath := path.Join(cwd, fileName)
	if FileExists(cwdSidecarPath) {
		return cwdSidecarPath, nil
	}

	// check user config directory
	homeDotConfigPath, err := UserConfigPath(fileName)
	if err != nil {
		return "", err
	}

	if FileExists(homeDotConfigPath) {
		return homeDotConfigPath, nil
	}

	return "", fmt.Errorf("%w: %s", ErrYamlNotFound, fileName)
}

// ReadYamlFile decodes the first match for fileName into cfg and reports
// the path that was read.
func ReadYamlFile(cfg interface{}, fileName string) (string, error) {
	filePath, err := FindYamlFile(fileName)
	if err != nil {
		return "", err
	}

	slog.Info("Reading yaml from " + filePath)

	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err = decoder.Decode(cfg); err != nil {
		return "", WrapError("decode "+filePath, err)
	}

	return filePath, nil
}

func WriteYamlFile(cfg interface{}, filePath string) error {
	if dir := filepath.Dir(filePath); !DirectoryExists(dir) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return WrapError("create config directory", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return WrapError("encode yaml", err)
	}

	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return WrapError("write "+tmpPath, err)
	}

	return WrapError("replace "+filePath, os.Rename(tmpPath, filePath))
}

func TraceLog(message string, args ...any) {
	slog.Log(context.Background(), LevelTrace, message, args...)
}

func FormatDuration(duration float64) string {
	hours := 0
	minutes := 0
	seconds := 0

	if duration > 3600 {
		hours = int(duration) / 3600
		duration -= float64(hours) * 3600.0
	}

	if duration > 60 {
		minutes = int(duration) / 60
		duration -= float64(minutes) * 60
	}

	seconds = int(duration)
	duration -= float64(seconds)

	mseconds := int(duration * 1000)

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, mseconds)
}

func FindJackdBinary() string {
	possiblePaths := []string{
		"/usr/bin/jackd",
		"/usr/local/bin/jackd",
	}

	for _, path := range possiblePaths {
		if FileExists(path) {
			return path
		}
	}

	return ""
}
