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
	"os"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoff(t *testing.T) {
	backoff := NewBackoff(100*time.Millisecond, 350*time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, backoff.Next())
	assert.Equal(t, 200*time.Millisecond, backoff.Next())
	assert.Equal(t, 350*time.Millisecond, backoff.Next())
	assert.Equal(t, 350*time.Millisecond, backoff.Next())

	backoff.Reset()
	assert.Equal(t, 100*time.Millisecond, backoff.Next())
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError("open device", nil))

	sentinel := errors.New("boom")
	err := WrapError("open device", sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "failed to open device: boom", err.Error())
}

func TestExtractLastError(t *testing.T) {
	assert.Equal(t, "", ExtractLastError("  \n "))
	assert.Equal(t, "arecord: main:831: audio open error: No such file or directory",
		ExtractLastError("Recording WAVE 'stdin'\narecord: main:831: audio open error: No such file or directory\n\n"))
	assert.True(t, strings.HasSuffix(ExtractLastError(strings.Repeat("x", 300)), "..."))
}

func TestReadYamlFileAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	filePath := path.Join(dir, "test.yml")
	require.NoError(t, os.WriteFile(filePath, []byte("name: meter\ncount: 3\n"), 0644))

	target := struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}{}

	found, err := ReadYamlFile(&target, filePath)
	require.NoError(t, err)

	assert.Equal(t, filePath, found)
	assert.Equal(t, "meter", target.Name)
	assert.Equal(t, 3, target.Count)
}

func TestReadYamlFileMissing(t *testing.T) {
	target := struct{}{}

	_, err := ReadYamlFile(&target, path.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, ErrYamlNotFound)
}

func TestResolveHomeDirPath(t *testing.T) {
	resolved, err := ResolveHomeDirPath("/etc/fox.yml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/fox.yml", resolved)

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	resolved, err = ResolveHomeDirPath("~/fox.yml")
	require.NoError(t, err)
	assert.Equal(t, path.Join(home, "fox.yml"), resolved)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "01:01:01.500", FormatDuration(3661.5))
	assert.Equal(t, "00:00:05.000", FormatDuration(5))
}
