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
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store, grounded on the original's
// adapters/mock.rs MockS3Client. Unlike that stub (which always
// returned empty listings and zero-byte bodies), this one actually
// tracks object contents so it can drive the round-trip property tests
// in spec §8 without a real backend.
type MockStore struct {
	mu      sync.Mutex
	bodies  map[string][]byte
	buckets map[string]bool
}

func NewMockStore(buckets ...string) *MockStore {
	m := &MockStore{
		bodies:  make(map[string][]byte),
		buckets: make(map[string]bool),
	}
	for _, b := range buckets {
		m.buckets[b] = true
	}
	return m
}

func (m *MockStore) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = true
	stored := make([]byte, len(body))
	copy(stored, body)
	m.bodies[bucket+"/"+key] = stored
	return nil
}

func (m *MockStore) ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Object
	pre := bucket + "/" + prefix
	for k, body := range m.bodies {
		if len(k) < len(bucket)+1 || k[:len(bucket)+1] != bucket+"/" {
			continue
		}
		key := k[len(bucket)+1:]
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		_ = pre
		out = append(out, Object{Key: key, Size: int64(len(body)), ModifiedTime: time.Now()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MockStore) DownloadObject(ctx context.Context, bucket, key string, rng *ByteRange) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	body, ok := m.bodies[bucket+"/"+key]
	if !ok {
		return nil, nil
	}
	if rng == nil {
		out := make([]byte, len(body))
		copy(out, body)
		return out, nil
	}

	start := rng.Start
	end := rng.End
	if start < 0 {
		start = 0
	}
	if end >= int64(len(body)) {
		end = int64(len(body)) - 1
	}
	if start > end || start >= int64(len(body)) {
		return []byte{}, nil
	}
	out := make([]byte, end-start+1)
	copy(out, body[start:end+1])
	return out, nil
}

func (m *MockStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buckets[bucket], nil
}
