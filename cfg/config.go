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

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully parsed, rationalized configuration for one mount.
// Positional CLI arguments (bucket URI, mount point) are not flags and
// are populated separately by the root command's RunE in cmd/root.go.
type Config struct {
	BucketURI  string       `yaml:"bucket-uri"`
	MountPoint ResolvedPath `yaml:"mount-point"`

	Foreground bool `yaml:"foreground"`

	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Severity  LogSeverity            `yaml:"severity"`
	Format    string                 `yaml:"format"`
	FilePath  ResolvedPath           `yaml:"file-path"`
	LogRotate LogRotateLoggingConfig `yaml:"log-rotate"`
}

type LogRotateLoggingConfig struct {
	MaxFileSizeMb   int  `yaml:"max-file-size-mb"`
	BackupFileCount int  `yaml:"backup-file-count"`
	Compress        bool `yaml:"compress"`
}

// BindFlags registers objectfs's flags on flagSet and binds each to its
// Config field's viper key, mirroring the teacher's generated
// cfg.BindFlags for the much larger gcsfuse surface.
func BindFlags(flagSet *pflag.FlagSet) error {
	var err error

	flagSet.BoolP("foreground", "", false, "Has no effect: objectfs always stays in the foreground after mount and never daemonizes.")
	if err = viper.BindPFlag("foreground", flagSet.Lookup("foreground")); err != nil {
		return err
	}

	flagSet.StringP("log-severity", "", string(InfoLogSeverity), "Log severity: TRACE, DEBUG, INFO, WARNING, ERROR, or OFF.")
	if err = viper.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "json", "Log line format: text or json.")
	if err = viper.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.StringP("log-file", "", "", "Path to a log file. Empty logs to stderr.")
	if err = viper.BindPFlag("logging.file-path", flagSet.Lookup("log-file")); err != nil {
		return err
	}

	return nil
}
