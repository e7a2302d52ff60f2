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

package cfg

// Rationalize updates config fields derived from other fields, after
// flag parsing and before validation.
func Rationalize(c *Config) error {
	mountPoint, err := ResolvePath(string(c.MountPoint))
	if err != nil {
		return err
	}
	c.MountPoint = ResolvedPath(mountPoint)

	logFile, err := ResolvePath(string(c.Logging.FilePath))
	if err != nil {
		return err
	}
	c.Logging.FilePath = ResolvedPath(logFile)

	return nil
}
