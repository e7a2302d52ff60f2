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

import "context"

// runBlocking is the C6 seam between a FUSE handler and an
// objectstore.Store call. The original bridges its synchronous
// Filesystem trait methods to its async adapter calls with
// tokio::runtime::Handle::current().block_on(async { ... .await }); a
// jacobsa/fuse handler is already a plain blocking function and every
// objectstore.Store method already blocks the calling goroutine, so
// there is no executor to hand off to. runBlocking keeps the component
// boundary named, but the handlers in fs.go call the Store methods
// directly and do not go through it.
func runBlocking[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	return fn(ctx)
}
