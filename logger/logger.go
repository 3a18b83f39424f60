// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigureLogger sets the global log level and routes log output to
// every writer. Terminal writers get human readable console output.
func ConfigureLogger(lvl zerolog.Level, out io.Writer, fileOut ...io.Writer) {
	outWriter := out
	if out == os.Stdout || out == os.Stderr {
		outWriter = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	writers := append([]io.Writer{outWriter}, fileOut...)
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	zerolog.SetGlobalLevel(lvl)
}

// NewRotatingFile returns a writer to path that is rotated once it grows
// past maxSizeMB.
func NewRotatingFile(path string, maxSizeMB int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
}
