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

package objectfs

import (
	"testing"
	"time"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phish3y/objectfs/internal/objectstore"
)

func newFSForTest() *FS {
	store := objectstore.NewMockStore("bucket")
	return NewFS(store, "bucket", fakeClock{t: time.Unix(0, 0)})
}

func TestFS_MkNode_ThenLookUp_SameInode(t *testing.T) {
	fs := newFSForTest()

	mkOp := &fuseops.MkNodeOp{Parent: RootInodeID, Name: "file", Mode: 0o644}
	require.NoError(t, fs.MkNode(mkOp))
	createdIno := mkOp.Entry.Child

	lookOp := &fuseops.LookUpInodeOp{Parent: RootInodeID, Name: "file"}
	require.NoError(t, fs.LookUpInode(lookOp))

	assert.Equal(t, createdIno, lookOp.Entry.Child)
}

func TestFS_WriteThenRead_RoundTrip(t *testing.T) {
	fs := newFSForTest()

	mkOp := &fuseops.MkNodeOp{Parent: RootInodeID, Name: "file", Mode: 0o644}
	require.NoError(t, fs.MkNode(mkOp))
	ino := mkOp.Entry.Child

	writeOp := &fuseops.WriteFileOp{Inode: ino, Offset: 0, Data: []byte("ABCDE")}
	require.NoError(t, fs.WriteFile(writeOp))

	// Spec §8 S6: read(ino, 1, 3) asks the store for the inclusive
	// range (1, 4) -- one byte past "BCD" -- so the reply is "BCDE",
	// not "BCD".
	readOp := &fuseops.ReadFileOp{Inode: ino, Offset: 1, Size: 3}
	require.NoError(t, fs.ReadFile(readOp))
	assert.Equal(t, []byte("BCDE"), readOp.Data)
}

func TestFS_WriteFile_SizeIsLenData_NotTotal(t *testing.T) {
	fs := newFSForTest()

	mkOp := &fuseops.MkNodeOp{Parent: RootInodeID, Name: "file", Mode: 0o644}
	require.NoError(t, fs.MkNode(mkOp))
	ino := mkOp.Entry.Child

	require.NoError(t, fs.WriteFile(&fuseops.WriteFileOp{Inode: ino, Offset: 0, Data: []byte("ABCDE")}))
	// A second write at a nonzero offset leaves the object 7 bytes long,
	// but node.Size is set to len(data) for *this* call (2), not 7.
	require.NoError(t, fs.WriteFile(&fuseops.WriteFileOp{Inode: ino, Offset: 5, Data: []byte("XY")}))

	fs.Table.Mu.Lock()
	n, ok := fs.Table.Get(ino)
	fs.Table.Mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, uint64(2), n.Size)
}

func TestFS_MkDirThenReadDir_OneChild(t *testing.T) {
	fs := newFSForTest()

	mkdirOp := &fuseops.MkDirOp{Parent: RootInodeID, Name: "folder", Mode: 0o755}
	require.NoError(t, fs.MkDir(mkdirOp))

	readdirOp := &fuseops.ReadDirOp{Inode: RootInodeID, Offset: 0, Size: 4096}
	require.NoError(t, fs.ReadDir(readdirOp))

	assert.NotEmpty(t, readdirOp.Data)

	// Entries 0 and 1 are "." and ".."; exactly one child follows them.
	childOp := &fuseops.ReadDirOp{Inode: RootInodeID, Offset: 2, Size: 4096}
	require.NoError(t, fs.ReadDir(childOp))
	assert.NotEmpty(t, childOp.Data)

	pastOp := &fuseops.ReadDirOp{Inode: RootInodeID, Offset: 3, Size: 4096}
	require.NoError(t, fs.ReadDir(pastOp))
	assert.Empty(t, pastOp.Data)
}

func TestFS_GetInodeAttributes_Root(t *testing.T) {
	fs := newFSForTest()

	op := &fuseops.GetInodeAttributesOp{Inode: RootInodeID}
	require.NoError(t, fs.GetInodeAttributes(op))
	assert.Equal(t, uint32(2), op.Attributes.Nlink)
}

func TestFS_LookUpInode_MissingReturnsENOENT(t *testing.T) {
	fs := newFSForTest()

	op := &fuseops.LookUpInodeOp{Parent: RootInodeID, Name: "absent"}
	err := fs.LookUpInode(op)
	assert.Error(t, err)
}
