// Package logutil provides the named loggers used by other packages. All
// loggers discard their output until SetOutput directs them to a writer.
package logutil

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	out     io.Writer = io.Discard
	loggers []*log.Logger
)

// GetLogger returns a logger with the given prefix. The logger writes to the
// output set by SetOutput, which defaults to discarding everything.
func GetLogger(prefix string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	logger := log.New(out, prefix, log.LstdFlags)
	loggers = append(loggers, logger)
	return logger
}

// SetOutput redirects the output of all loggers, current and future, to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	for _, logger := range loggers {
		logger.SetOutput(w)
	}
}

// SetOutputFile redirects the output of all loggers to the named file,
// returning a function that stops logging and closes the file. An empty name
// discards all output.
func SetOutputFile(path string) (func(), error) {
	if path == "" {
		SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	SetOutput(f)
	return func() {
		SetOutput(io.Discard)
		f.Close()
	}, nil
}
