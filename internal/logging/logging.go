package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup routes the standard logger to stdout and, when path is set, to a rotated file.
// The returned closer must be closed on shutdown.
func Setup(path string) io.Closer {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	if path == "" {
		log.SetOutput(os.Stdout)
		return io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return rotator
}
