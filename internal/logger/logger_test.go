// Copyright 2023 Google Inc. All Rights Reserved.
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

package logger

import (
	"bytes"
	"log/slog"
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const (
	traceString   = "TRACE.*www.traceExample.com"
	debugString   = "DEBUG.*www.debugExample.com"
	infoString    = "INFO.*www.infoExample.com"
	warningString = "WARNING.*www.warningExample.com"
	errorString   = "ERROR.*www.errorExample.com"
)

type LoggerTest struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTest))
}

func redirectLogsToGivenBuffer(buf *bytes.Buffer, level string) {
	var programLevel = new(slog.LevelVar)
	defaultLogger = slog.New(
		defaultLoggerFactory.createJsonOrTextHandler(buf, programLevel, ""),
	)
	setLoggingLevel(level, programLevel)
}

func fetchLogOutputForSpecifiedSeverityLevel(level string, functions []func()) []string {
	var buf bytes.Buffer
	redirectLogsToGivenBuffer(&buf, level)

	var output []string
	for _, f := range functions {
		f()
		output = append(output, buf.String())
		buf.Reset()
	}
	return output
}

func getTestLoggingFunctions() []func() {
	return []func(){
		func() { Tracef("www.traceExample.com") },
		func() { Debugf("www.debugExample.com") },
		func() { Infof("www.infoExample.com") },
		func() { Warnf("www.warningExample.com") },
		func() { Errorf("www.errorExample.com") },
	}
}

func validateOutput(t *testing.T, expected []string, output []string) {
	for i := range output {
		if expected[i] == "" {
			assert.Equal(t, expected[i], output[i])
			continue
		}
		expectedRegexp := regexp.MustCompile(expected[i])
		assert.True(t, expectedRegexp.MatchString(output[i]))
	}
}

func validateLogOutputAtSpecifiedFormatAndSeverity(t *testing.T, format string, level string, expectedOutput []string) {
	defaultLoggerFactory.format = format
	output := fetchLogOutputForSpecifiedSeverityLevel(level, getTestLoggingFunctions())
	validateOutput(t, expectedOutput, output)
}

func (t *LoggerTest) TestLogLevelOFF() {
	expected := []string{"", "", "", "", ""}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "json", OFF, expected)
}

func (t *LoggerTest) TestLogLevelERROR() {
	expected := []string{"", "", "", "", errorString}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "text", ERROR, expected)
}

func (t *LoggerTest) TestLogLevelWARNING() {
	expected := []string{"", "", "", warningString, errorString}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "text", WARNING, expected)
}

func (t *LoggerTest) TestLogLevelINFO() {
	expected := []string{"", "", infoString, warningString, errorString}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "text", INFO, expected)
}

func (t *LoggerTest) TestLogLevelDEBUG() {
	expected := []string{"", debugString, infoString, warningString, errorString}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "text", DEBUG, expected)
}

func (t *LoggerTest) TestLogLevelTRACE() {
	expected := []string{traceString, debugString, infoString, warningString, errorString}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "text", TRACE, expected)
}

func (t *LoggerTest) TestJSONFormatLogs_LogLevelINFO() {
	expected := []string{"", "", infoString, warningString, errorString}
	validateLogOutputAtSpecifiedFormatAndSeverity(t.T(), "json", INFO, expected)
}

func (t *LoggerTest) TestSetLoggingLevel() {
	testData := []struct {
		inputLevel           string
		expectedProgramLevel slog.Level
	}{
		{TRACE, LevelTrace},
		{DEBUG, LevelDebug},
		{INFO, LevelInfo},
		{WARNING, LevelWarn},
		{ERROR, LevelError},
		{OFF, LevelOff},
	}

	for _, test := range testData {
		pl := new(slog.LevelVar)
		setLoggingLevel(test.inputLevel, pl)
		assert.Equal(t.T(), test.expectedProgramLevel, pl.Level())
	}
}

func (t *LoggerTest) TestInitLogFile() {
	dir := t.T().TempDir()
	filePath := dir + "/log.txt"
	cfg := LoggingConfig{
		FilePath: filePath,
		Severity: DEBUG,
		Format:   "text",
		LogRotateConfig: LogRotateConfig{
			MaxFileSizeMB:   100,
			BackupFileCount: 2,
			Compress:        true,
		},
	}

	err := InitLogFile(cfg)

	assert.NoError(t.T(), err)
	assert.Equal(t.T(), filePath, defaultLoggerFactory.file.Name())
	assert.Equal(t.T(), "text", defaultLoggerFactory.format)
	assert.Equal(t.T(), DEBUG, defaultLoggerFactory.level)
	assert.Equal(t.T(), 100, defaultLoggerFactory.logRotateConfig.MaxFileSizeMB)
	assert.Equal(t.T(), 2, defaultLoggerFactory.logRotateConfig.BackupFileCount)
	assert.True(t.T(), defaultLoggerFactory.logRotateConfig.Compress)

	defaultLoggerFactory.file.Close()
	os.Remove(filePath)
}

func (t *LoggerTest) TestSetLogFormat() {
	defaultLoggerFactory = &loggerFactory{
		level:           INFO,
		logRotateConfig: DefaultLogRotateConfig(),
	}

	testData := []struct {
		format         string
		expectedOutput string
	}{
		{"text", infoString},
		{"json", infoString},
		{"", infoString},
	}

	for _, test := range testData {
		SetLogFormat(test.format)

		assert.NotNil(t.T(), defaultLoggerFactory)
		assert.NotNil(t.T(), defaultLogger)
		assert.Equal(t.T(), test.format, defaultLoggerFactory.format)

		var buf bytes.Buffer
		redirectLogsToGivenBuffer(&buf, defaultLoggerFactory.level)
		Infof("www.infoExample.com")
		output := buf.String()
		expectedRegexp := regexp.MustCompile(test.expectedOutput)
		assert.True(t.T(), expectedRegexp.MatchString(output))
	}
}
