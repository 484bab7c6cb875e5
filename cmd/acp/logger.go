// Copyright 2025 Kadir Pekel
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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kadirpekel/acpclient/pkg/config"
	"github.com/kadirpekel/acpclient/pkg/logger"
)

const (
	// LogLevelEnvVar is the environment variable name for log level
	LogLevelEnvVar = "ACP_LOG_LEVEL"
	// LogFileEnvVar is the environment variable name for log file path
	LogFileEnvVar = "ACP_LOG_FILE"
	// LogFormatEnvVar is the environment variable name for log format
	LogFormatEnvVar = "ACP_LOG_FORMAT"

	// DefaultLogLevel keeps the run output free of informational noise.
	DefaultLogLevel = "warn"
	// DefaultLogFormat is the default log format
	DefaultLogFormat = logger.FormatSimple
)

// initLogger initializes the logger.
// Priority: CLI flags > env vars > config file > defaults
func initLogger(cliLevel, cliFile, cliFormat string, fileCfg *config.LoggerConfig) (func(), error) {
	level := firstNonEmpty(cliLevel, os.Getenv(LogLevelEnvVar), fileCfg.Level, DefaultLogLevel)
	file := firstNonEmpty(cliFile, os.Getenv(LogFileEnvVar), fileCfg.File)
	format := firstNonEmpty(cliFormat, os.Getenv(LogFormatEnvVar), fileCfg.Format, DefaultLogFormat)

	slogLevel, err := logger.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if !logger.ValidFormat(format) {
		return nil, fmt.Errorf("invalid log format %q (valid: simple, verbose, json)", format)
	}

	var output io.Writer = os.Stderr
	var cleanup func()
	if file != "" {
		f, closeFn, err := logger.OpenLogFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = f
		cleanup = closeFn
	}

	logger.Init(slogLevel, output, format)
	return cleanup, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
