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
	"strings"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/timeutil"

	"github.com/phish3y/objectfs/internal/objectstore"
)

// splitParent strips a trailing '/' if present, then returns the
// substring before the last '/'. No '/', or a last '/' at position 0,
// yields ("", false). Grounded on the original's fs.rs get_parent.
func splitParent(path string) (string, bool) {
	path = strings.TrimSuffix(path, "/")

	pos := strings.LastIndex(path, "/")
	if pos <= 0 {
		return "", false
	}
	return path[:pos], true
}

// basename returns the substring after the last '/' (the whole string
// if there is none).
func basename(path string) string {
	pos := strings.LastIndex(path, "/")
	if pos < 0 {
		return path
	}
	return path[pos+1:]
}

// Indexer drives the inode table through the spec §4.4 algorithm. It
// holds a clock so node timestamps are fakeable in tests, grounded on
// the teacher's clock/timeutil pairing.
type Indexer struct {
	Clock timeutil.Clock
}

func NewIndexer(clock timeutil.Clock) *Indexer {
	return &Indexer{Clock: clock}
}

// indexFile implements spec §4.4's index_file. LOCKS_REQUIRED(table.Mu).
func (idx *Indexer) indexFile(table *Table, object objectstore.Object, parent fuseops.InodeID) *Node {
	if n, ok := table.GetByKey(object.Key); ok {
		return n
	}

	now := idx.Clock.Now()
	n := &Node{
		Ino:    table.NextIno(),
		Parent: parent,
		Key:    object.Key,
		Name:   basename(object.Key),
		Kind:   KindRegularFile,
		Nlink:  1,
		Size:   uint64(object.Size),
		Atime:  object.ModifiedTime,
		Mtime:  now,
		Ctime:  now,
		Crtime: now,
	}
	table.Insert(n)
	return n
}

// indexDirectory implements spec §4.4's index_directory: identical to
// indexFile except the key is normalized (one trailing '/' stripped),
// the kind is Directory, and link count is 1 (not 2 -- matching the
// original's index_directory, which does not bump nlink the way a
// freshly-seeded root does; see DESIGN.md). LOCKS_REQUIRED(table.Mu).
func (idx *Indexer) indexDirectory(table *Table, object objectstore.Object, parent fuseops.InodeID) *Node {
	key := strings.TrimSuffix(object.Key, "/")

	if n, ok := table.GetByKey(key); ok {
		return n
	}

	now := idx.Clock.Now()
	n := &Node{
		Ino:    table.NextIno(),
		Parent: parent,
		Key:    key,
		Name:   basename(key),
		Kind:   KindDirectory,
		Nlink:  1,
		Size:   uint64(object.Size),
		Atime:  object.ModifiedTime,
		Mtime:  now,
		Ctime:  now,
		Crtime: now,
	}
	table.Insert(n)
	return n
}

// IndexObject implements spec §4.4's index_object, the top-level entry
// point invoked once per listed key. LOCKS_REQUIRED(table.Mu).
func (idx *Indexer) IndexObject(table *Table, object objectstore.Object) {
	var components []string
	component := object.Key
	for {
		components = append(components, component)
		parent, ok := splitParent(component)
		if !ok {
			break
		}
		component = parent
	}

	// Reverse so the outermost ancestor comes first.
	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}

	parentIno := fuseops.InodeID(RootInodeID)
	for _, p := range components {
		o := objectstore.Object{Key: p, Size: object.Size, ModifiedTime: object.ModifiedTime}
		var n *Node
		if p == object.Key {
			n = idx.indexFile(table, o, parentIno)
		} else {
			n = idx.indexDirectory(table, o, parentIno)
		}
		parentIno = n.Ino
	}
}
