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
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phish3y/objectfs/cfg"
)

// RunFunc mounts and blocks. NewRootCmd takes one as a parameter so
// tests can inject a fake in place of an actual FUSE mount.
type RunFunc func(ctx context.Context, c *cfg.Config) error

// NewRootCmd builds the `objectfs BUCKET_URI MOUNT_POINT` command. run
// is invoked once flags and positional args are parsed, rationalized,
// and validated.
func NewRootCmd(run RunFunc) (*cobra.Command, error) {
	var mountConfig cfg.Config

	cmd := &cobra.Command{
		Use:   "objectfs BUCKET_URI MOUNT_POINT",
		Short: "Mount an S3 or GCS bucket as a local directory tree",
		Long: `objectfs is a FUSE adapter that projects a flat object-store bucket
as a POSIX-like mounted directory tree, synthesizing directories from
object key prefixes.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.Unmarshal(&mountConfig, viper.DecodeHook(cfg.DecodeHook())); err != nil {
				return fmt.Errorf("unmarshalling config: %w", err)
			}

			mountConfig.BucketURI = args[0]
			mountConfig.MountPoint = cfg.ResolvedPath(args[1])

			if err := cfg.Rationalize(&mountConfig); err != nil {
				return err
			}
			if err := cfg.ValidateConfig(&mountConfig); err != nil {
				return err
			}

			return run(cmd.Context(), &mountConfig)
		},
	}

	defaults := cfg.GetDefaultLoggingConfig()
	viper.SetDefault("logging.log-rotate.max-file-size-mb", defaults.LogRotate.MaxFileSizeMb)
	viper.SetDefault("logging.log-rotate.backup-file-count", defaults.LogRotate.BackupFileCount)
	viper.SetDefault("logging.log-rotate.compress", defaults.LogRotate.Compress)

	if err := cfg.BindFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	return cmd, nil
}

// Execute runs the real objectfs command, mounting and blocking until
// unmounted, and exits the process on error. A panic during the mount
// is recorded to a crash file in the system temp directory before the
// process dies, so a background mount's stack trace isn't lost along
// with its launching terminal.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			cw := &CrashWriter{fileName: filepath.Join(os.TempDir(), "objectfs-crash.log")}
			cw.Write([]byte(fmt.Sprintf("panic: %v\n%s", r, debug.Stack())))
			panic(r)
		}
	}()

	cmd, err := NewRootCmd(mountAndJoin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
