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
	"fmt"
	"strings"
)

// Provider identifies which backend a bucket URI scheme selects.
type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderAWS
	ProviderGCS
)

func (p Provider) String() string {
	switch p {
	case ProviderAWS:
		return "aws"
	case ProviderGCS:
		return "gcs"
	default:
		return "unknown"
	}
}

const (
	s3Scheme = "s3://"
	gsScheme = "gs://"
)

// ParseURI parses "<scheme>://<bucket>" where scheme is "s3" or "gs".
// Grounded on the original's util/object.rs parse_provider_from_uri /
// parse_bucket_from_uri.
func ParseURI(bucketURI string) (Provider, string, error) {
	switch {
	case strings.HasPrefix(bucketURI, s3Scheme):
		return ProviderAWS, strings.TrimPrefix(bucketURI, s3Scheme), nil
	case strings.HasPrefix(bucketURI, gsScheme):
		return ProviderGCS, strings.TrimPrefix(bucketURI, gsScheme), nil
	default:
		return ProviderUnknown, "", fmt.Errorf("failed to parse provider of: %s", bucketURI)
	}
}
