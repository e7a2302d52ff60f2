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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phish3y/objectfs/internal/objectstore"
)

func TestBuildStore_S3Scheme(t *testing.T) {
	store, bucket, err := buildStore(context.Background(), "s3://my-bucket")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.IsType(t, &objectstore.S3Store{}, store)
}

func TestBuildStore_UnsupportedScheme(t *testing.T) {
	_, _, err := buildStore(context.Background(), "ftp://my-bucket")
	assert.Error(t, err)
}

func TestDefaultGoogleCredentialsPath_UnderHomeConfigGcloud(t *testing.T) {
	path, err := defaultGoogleCredentialsPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join(".config", "gcloud", "application_default_credentials.json")))
}
