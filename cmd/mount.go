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

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/timeutil"

	"github.com/phish3y/objectfs/cfg"
	"github.com/phish3y/objectfs/internal/logger"
	"github.com/phish3y/objectfs/internal/objectfs"
	"github.com/phish3y/objectfs/internal/objectstore"
)

const fsName = "objectfs"

// defaultGoogleCredentialsPath mirrors gcloud's own default ADC location.
func defaultGoogleCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gcloud", "application_default_credentials.json"), nil
}

// buildStore dispatches on the bucket URI's scheme (C2) and constructs
// the matching backend (C1/C2 adapters).
func buildStore(ctx context.Context, bucketURI string) (objectstore.Store, string, error) {
	provider, bucket, err := objectstore.ParseURI(bucketURI)
	if err != nil {
		return nil, "", err
	}

	switch provider {
	case objectstore.ProviderGCS:
		if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			path, err := defaultGoogleCredentialsPath()
			if err != nil {
				return nil, "", err
			}
			if err := os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path); err != nil {
				return nil, "", fmt.Errorf("setting GOOGLE_APPLICATION_CREDENTIALS: %w", err)
			}
		}
		store, err := objectstore.NewGCSStore(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("constructing GCS client: %w", err)
		}
		return store, bucket, nil

	case objectstore.ProviderAWS:
		store, err := objectstore.NewS3Store()
		if err != nil {
			return nil, "", fmt.Errorf("constructing S3 client: %w", err)
		}
		return store, bucket, nil

	default:
		return nil, "", fmt.Errorf("unsupported bucket URI: %s", bucketURI)
	}
}

// mountAndJoin implements spec §4.7's bootstrap: parse the URI, build
// the backend, verify the bucket exists, mount, and block until
// unmounted.
func mountAndJoin(ctx context.Context, c *cfg.Config) error {
	if err := logger.InitLogFile(logger.LoggingConfig{
		FilePath: string(c.Logging.FilePath),
		Format:   c.Logging.Format,
		Severity: string(c.Logging.Severity),
		LogRotateConfig: logger.LogRotateConfig{
			MaxFileSizeMB:   c.Logging.LogRotate.MaxFileSizeMb,
			BackupFileCount: c.Logging.LogRotate.BackupFileCount,
			Compress:        c.Logging.LogRotate.Compress,
		},
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	store, bucket, err := buildStore(ctx, c.BucketURI)
	if err != nil {
		return fmt.Errorf("resolving bucket URI %q: %w", c.BucketURI, err)
	}

	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}

	logger.Infof("Mounting %s at %s...", c.BucketURI, c.MountPoint)

	fs := objectfs.NewFS(store, bucket, timeutil.RealClock())
	server := fuseutil.NewFileSystemServer(fs)

	mfs, err := fuse.Mount(string(c.MountPoint), server, &fuse.MountConfig{
		FSName:  fsName,
		Subtype: fsName,
		Options: map[string]string{
			"auto_unmount": "",
			"allow_root":   "",
		},
	})
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}

	logger.Infof("Mounted. Waiting for unmount...")
	if err := mfs.Join(ctx); err != nil {
		return fmt.Errorf("waiting for unmount: %w", err)
	}

	return nil
}
