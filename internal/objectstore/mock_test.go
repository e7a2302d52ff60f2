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

package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_PutListDownload(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore("bucket")

	require.NoError(t, store.PutObject(ctx, "bucket", "folder/file", []byte("ABCDE")))

	objs, err := store.ListObjects(ctx, "bucket", "")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, "folder/file", objs[0].Key)
	assert.Equal(t, int64(5), objs[0].Size)

	body, err := store.DownloadObject(ctx, "bucket", "folder/file", nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("ABCDE"), body)
}

func TestMockStore_DownloadMissingIsNilNotError(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore("bucket")

	body, err := store.DownloadObject(ctx, "bucket", "absent", nil)
	assert.NoError(t, err)
	assert.Nil(t, body)
}

func TestMockStore_DownloadRange(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore("bucket")
	require.NoError(t, store.PutObject(ctx, "bucket", "x", []byte("ABCDE")))

	// Spec §8 S6: read(ino_x, 1, 3) with range passed as (offset,
	// offset+size) = (1, 4) is one byte over what a strict [1,3] slice
	// ("BCD") would be on an inclusive-range backend; the FUSE adapter
	// is responsible for constructing the range this way, this test
	// just exercises the backend honoring whatever inclusive range it
	// is given.
	body, err := store.DownloadObject(ctx, "bucket", "x", &ByteRange{Start: 1, End: 3})
	require.NoError(t, err)
	assert.Equal(t, []byte("BCD"), body)
}

func TestMockStore_BucketExists(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore("bucket")

	exists, err := store.BucketExists(ctx, "bucket")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.BucketExists(ctx, "other")
	require.NoError(t, err)
	assert.False(t, exists)
}
