// SPDX-License-Identifier: EPL-2.0

// Package logging builds the logrus loggers used across voxmix.
package logging

import (
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv turns on debug logging when it parses as true.
const DebugEnv = "VOXMIX_DEBUG"

// New returns a logger writing to stderr, at debug level when DebugEnv is set.
func New() *logrus.Logger {
	debug, err := strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}

	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
