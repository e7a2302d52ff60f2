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
	"os"
	"strings"
	"syscall"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/timeutil"

	"github.com/phish3y/objectfs/internal/logger"
	"github.com/phish3y/objectfs/internal/objectstore"
)

// keepFile is the sentinel object name that marks a pseudo-directory
// in the backing bucket.
const keepFile = ".keep"

// FS wires the inode table (C3), the indexer (C4) and an object store
// (C1/C2) into the jacobsa/fuse callback surface (C5). Grounded on the
// teacher's fs/fs.go for the method-per-op shape and its
// LOCKS_EXCLUDED/LOCKS_REQUIRED locking discipline, and on
// original_source/src/fuse.rs for the operation semantics themselves.
type FS struct {
	fuseutil.NotImplementedFileSystem

	Table   *Table
	Indexer *Indexer
	Store   objectstore.Store
	Bucket  string
	Clock   timeutil.Clock
}

// NewFS constructs an FS with a fresh, root-seeded table.
func NewFS(store objectstore.Store, bucket string, clock timeutil.Clock) *FS {
	return &FS{
		Table:   NewTable(clock.Now()),
		Indexer: NewIndexer(clock),
		Store:   store,
		Bucket:  bucket,
		Clock:   clock,
	}
}

// Init implements spec §4.5's `init`: plant the root sentinel, list the
// whole bucket, and normalize pseudo-directory markers (keys ending in
// '/') into concrete `.keep` files before indexing everything.
func (fs *FS) Init(op *fuseops.InitOp) error {
	logger.Tracef("%s", opInit)
	ctx := op.Context()

	if err := fs.Store.PutObject(ctx, fs.Bucket, keepFile, nil); err != nil {
		return storeErr("init", err)
	}

	objects, err := fs.Store.ListObjects(ctx, fs.Bucket, "")
	if err != nil {
		return storeErr("init", err)
	}

	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	for _, obj := range objects {
		key := obj.Key
		size := obj.Size
		if strings.HasSuffix(key, "/") {
			key = key + keepFile
			if err := fs.Store.PutObject(ctx, fs.Bucket, key, nil); err != nil {
				return storeErr("init", err)
			}
			size = 0
		}

		fs.Indexer.IndexObject(fs.Table, objectstore.Object{
			Key:          key,
			Size:         size,
			ModifiedTime: obj.ModifiedTime,
		})
	}

	return nil
}

// Destroy implements spec §4.5's `destroy`.
func (fs *FS) Destroy() {
	logger.Tracef("%s", opDestroy)
	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()
	fs.Table.Clear()
}

// storeErr logs a backend failure at Error with an error_group tag
// (spec §6/§7's propagation policy) and maps it to EIO, the single
// point where a Go error becomes the errno the kernel sees.
func storeErr(group string, err error) error {
	logger.Errorf("error_group=%s: %v", group, err)
	return fuse.EIO
}

// childKey computes the key a child named `name` of `parent` would
// have: parent.Key + "/" + name, or just name under the root (whose
// key is "").
func childKey(parent *Node, name string) string {
	if parent.Ino == RootInodeID {
		return name
	}
	return parent.Key + "/" + name
}

// LookUpInode implements spec §4.5's `lookup`.
func (fs *FS) LookUpInode(op *fuseops.LookUpInodeOp) error {
	logger.Tracef("%s: parent=%v name=%s", opLookUpInode, op.Parent, op.Name)
	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	// Preserves the source's fast path verbatim, even though the kernel
	// never actually sends a lookup with name "/".
	if op.Parent == RootInodeID && op.Name == "/" {
		op.Entry.Child = RootInodeID
		op.Entry.Attributes = fs.Table.RootAttr()
		return nil
	}

	parent, ok := fs.Table.Get(op.Parent)
	if !ok {
		return fuse.ENOENT
	}

	key := childKey(parent, op.Name)
	for _, child := range fs.Table.Children(op.Parent) {
		if child.Key == key {
			op.Entry.Child = child.Ino
			op.Entry.Attributes = child.Attributes()
			return nil
		}
	}

	return fuse.ENOENT
}

// GetInodeAttributes implements spec §4.5's `getattr`.
func (fs *FS) GetInodeAttributes(op *fuseops.GetInodeAttributesOp) error {
	logger.Tracef("%s: inode=%v", opGetInodeAttributes, op.Inode)
	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	if op.Inode == RootInodeID {
		op.Attributes = fs.Table.RootAttr()
		return nil
	}

	n, ok := fs.Table.Get(op.Inode)
	if !ok {
		return fuse.ENOENT
	}
	op.Attributes = n.Attributes()
	return nil
}

// MkNode implements spec §4.5's `mknod`: only plain regular files are
// supported.
func (fs *FS) MkNode(op *fuseops.MkNodeOp) error {
	logger.Tracef("%s: parent=%v name=%s", opMkNode, op.Parent, op.Name)
	if op.Mode&os.ModeType != 0 {
		return syscall.EOPNOTSUPP
	}

	ctx := op.Context()

	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	parent, ok := fs.Table.Get(op.Parent)
	if !ok {
		return fuse.ENOENT
	}
	key := childKey(parent, op.Name)

	if err := fs.Store.PutObject(ctx, fs.Bucket, key, nil); err != nil {
		return storeErr("mknod", err)
	}

	now := fs.Clock.Now()
	n := fs.Indexer.indexFile(fs.Table, objectstore.Object{Key: key, Size: 0, ModifiedTime: now}, op.Parent)

	op.Entry.Child = n.Ino
	op.Entry.Attributes = n.Attributes()
	return nil
}

// MkDir implements spec §4.5's `mkdir`. As in the source, the
// directory's key is the `.keep` sentinel's full path, not the
// directory path itself -- see DESIGN.md.
func (fs *FS) MkDir(op *fuseops.MkDirOp) error {
	logger.Tracef("%s: parent=%v name=%s", opMkDir, op.Parent, op.Name)
	ctx := op.Context()

	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	parent, ok := fs.Table.Get(op.Parent)
	if !ok {
		return fuse.ENOENT
	}
	dirKey := childKey(parent, op.Name)
	keepKey := dirKey + "/" + keepFile

	if err := fs.Store.PutObject(ctx, fs.Bucket, keepKey, nil); err != nil {
		return storeErr("mkdir", err)
	}

	now := fs.Clock.Now()
	n := fs.Indexer.indexDirectory(fs.Table, objectstore.Object{Key: keepKey, Size: 0, ModifiedTime: now}, op.Parent)

	op.Entry.Child = n.Ino
	op.Entry.Attributes = n.Attributes()
	return nil
}

// ReadFile implements spec §4.5's `read`. The range handed to the
// store is (offset, offset+size) verbatim, not (offset, offset+size-1)
// -- see DESIGN.md for why this over-reads by one byte on an inclusive
// range backend, and why that is preserved rather than fixed.
func (fs *FS) ReadFile(op *fuseops.ReadFileOp) error {
	logger.Tracef("%s: inode=%v offset=%d size=%d", opReadFile, op.Inode, op.Offset, op.Size)
	ctx := op.Context()

	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	n, ok := fs.Table.Get(op.Inode)
	if !ok {
		return fuse.ENOENT
	}

	rng := &objectstore.ByteRange{Start: op.Offset, End: op.Offset + int64(op.Size)}
	body, err := fs.Store.DownloadObject(ctx, fs.Bucket, n.Key, rng)
	if err != nil {
		return storeErr("read", err)
	}
	if body == nil {
		return fuse.ENOENT
	}

	op.Data = body
	return nil
}

// WriteFile implements spec §4.5's `write`: whole-object
// read-modify-write. node.attr.size is set to len(data), not the new
// total object size -- see DESIGN.md.
func (fs *FS) WriteFile(op *fuseops.WriteFileOp) error {
	logger.Tracef("%s: inode=%v offset=%d len=%d", opWriteFile, op.Inode, op.Offset, len(op.Data))
	ctx := op.Context()

	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	n, ok := fs.Table.Remove(op.Inode)
	if !ok {
		return fuse.ENOENT
	}

	body, err := fs.Store.DownloadObject(ctx, fs.Bucket, n.Key, nil)
	if err != nil {
		fs.Table.Insert(n)
		return storeErr("write", err)
	}
	if body == nil {
		fs.Table.Insert(n)
		return fuse.ENOENT
	}

	end := int(op.Offset) + len(op.Data)
	if end > len(body) {
		padded := make([]byte, end)
		copy(padded, body)
		body = padded
	}
	copy(body[op.Offset:end], op.Data)

	if err := fs.Store.PutObject(ctx, fs.Bucket, n.Key, body); err != nil {
		fs.Table.Insert(n)
		return storeErr("write", err)
	}

	n.Size = uint64(len(op.Data))
	n.Mtime = fs.Clock.Now()
	fs.Table.Insert(n)

	return nil
}

// OpenDir and OpenFile only check that the inode exists (ENOENT
// otherwise): this filesystem has no per-handle state beyond the inode
// table.
func (fs *FS) OpenDir(op *fuseops.OpenDirOp) error {
	logger.Tracef("%s: inode=%v", opOpenDir, op.Inode)
	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()
	if _, ok := fs.Table.Get(op.Inode); !ok {
		return fuse.ENOENT
	}
	return nil
}

func (fs *FS) OpenFile(op *fuseops.OpenFileOp) error {
	logger.Tracef("%s: inode=%v", opOpenFile, op.Inode)
	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()
	if _, ok := fs.Table.Get(op.Inode); !ok {
		return fuse.ENOENT
	}
	return nil
}

// ReadDir implements spec §4.5's `readdir`: "." and ".." first, then
// one entry per child of ino.
func (fs *FS) ReadDir(op *fuseops.ReadDirOp) error {
	logger.Tracef("%s: inode=%v offset=%d", opReadDir, op.Inode, op.Offset)
	fs.Table.Mu.Lock()
	defer fs.Table.Mu.Unlock()

	type namedEntry struct {
		ino  fuseops.InodeID
		typ  fuseutil.DirentType
		name string
	}

	entries := []namedEntry{
		{RootInodeID, fuseutil.DT_Directory, "."},
		{RootInodeID, fuseutil.DT_Directory, ".."},
	}
	for _, child := range fs.Table.Children(op.Inode) {
		typ := fuseutil.DT_File
		if child.Kind == KindDirectory {
			typ = fuseutil.DT_Directory
		}
		entries = append(entries, namedEntry{child.Ino, typ, child.Name})
	}

	buf := make([]byte, op.Size)
	written := 0
	for i := int(op.Offset); i < len(entries); i++ {
		e := entries[i]
		n := fuseutil.WriteDirent(buf[written:], fuseutil.Dirent{
			Offset: fuseops.DirOffset(i + 1),
			Inode:  e.ino,
			Name:   e.name,
			Type:   e.typ,
		})
		if n == 0 {
			break
		}
		written += n
	}

	op.Data = buf[:written]
	return nil
}
