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

// Package objectfs holds the namespace-object reconciliation core: the
// inode table and its invariants (C3), the indexer that synthesizes
// directories from key prefixes (C4), and the FUSE callback handlers
// that drive both (C5). Grounded on the teacher's fs/fs.go and
// fs/inode/inode.go, generalized from GCS objects to the {key, size,
// modified_time} tuple the original (model/fs.rs FSNode) uses.
package objectfs

import (
	"os"
	"time"

	"github.com/jacobsa/fuse/fuseops"
)

// RootInodeID is the fixed inode number of the bucket root.
const RootInodeID = fuseops.RootInodeID

// Kind distinguishes the two node types objectfs materializes.
// Symlinks, hard links and other VFS object kinds are out of scope
// per spec.md's Non-goals.
type Kind int

const (
	KindDirectory Kind = iota
	KindRegularFile
)

// dirMode and fileMode are fixed per spec §3; objectfs has no chmod.
const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o755
)

// Node is the unit of the namespace (spec §3's "Node record").
//
// Nlink is carried explicitly rather than derived from Kind: per spec
// §4.4, index_directory sets link count 1, not the 2 that §3's general
// data-model description gives directories. Only the root (seeded by
// NewTable, never by the indexer) gets nlink=2. This is preserved as
// the source's behavior rather than silently normalized; see
// DESIGN.md.
type Node struct {
	Ino    fuseops.InodeID
	Parent fuseops.InodeID
	Key    string
	Name   string

	Size   uint64
	Kind   Kind
	Nlink  uint32
	Atime  time.Time
	Mtime  time.Time
	Ctime  time.Time
	Crtime time.Time
}

// Attributes renders the node as fuseops.InodeAttributes for a
// GetInodeAttributesOp / ChildInodeEntry reply.
func (n *Node) Attributes() fuseops.InodeAttributes {
	attr := fuseops.InodeAttributes{
		Size:   n.Size,
		Nlink:  n.Nlink,
		Atime:  n.Atime,
		Mtime:  n.Mtime,
		Ctime:  n.Ctime,
		Crtime: n.Crtime,
		Uid:    0,
		Gid:    0,
	}
	if n.Kind == KindDirectory {
		attr.Mode = dirMode | os.ModeDir
	} else {
		attr.Mode = fileMode
	}
	return attr
}
