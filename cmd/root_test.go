// Copyright 2024 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phish3y/objectfs/cfg"
)

func TestCobraArgsNumInRange(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectError bool
	}{
		{name: "too few args", args: []string{"s3://bucket"}, expectError: true},
		{name: "too many args", args: []string{"s3://bucket", "/mnt", "extra"}, expectError: true},
		{name: "exactly two args is okay", args: []string{"s3://bucket", "/mnt"}, expectError: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := NewRootCmd(func(context.Context, *cfg.Config) error { return nil })
			require.NoError(t, err)
			cmd.SetArgs(tc.args)

			err = cmd.Execute()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArgsParsing_PopulatesBucketURIAndMountPoint(t *testing.T) {
	var got cfg.Config
	cmd, err := NewRootCmd(func(_ context.Context, c *cfg.Config) error {
		got = *c
		return nil
	})
	require.NoError(t, err)
	cmd.SetArgs([]string{"gs://mybucket", "relative/mnt"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "gs://mybucket", got.BucketURI)
	want, err := filepath.Abs("relative/mnt")
	require.NoError(t, err)
	assert.Equal(t, want, string(got.MountPoint))
}

func TestArgsParsing_RejectsInvalidLogFormat(t *testing.T) {
	cmd, err := NewRootCmd(func(context.Context, *cfg.Config) error { return nil })
	require.NoError(t, err)
	cmd.SetArgs([]string{"--log-format=yaml", "s3://bucket", "/mnt"})

	assert.Error(t, cmd.Execute())
}
