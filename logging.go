package main

import (
	"io"
	"log"
	"os"
	"sync/atomic"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

var debugEnabled atomic.Bool

// debugLog logs only when debug output was enabled with -debug.
func debugLog(format string, args ...any) {
	if !debugEnabled.Load() {
		return
	}
	log.Printf("Debug: "+format, args...)
}

// setupLogging configures the standard logger. With a logFile, output is
// also written to a size-rotated file. The returned closer flushes that file.
func setupLogging(logFile string, debug bool) io.Closer {
	debugEnabled.Store(debug)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if logFile == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}

	w := &lj.Logger{Filename: logFile, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
	log.SetOutput(io.MultiWriter(os.Stderr, w))
	return w
}
