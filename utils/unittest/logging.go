package unittest

import (
	"bytes"
	"flag"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var verbose = flag.Bool("vv", false, "print debugging logs")

func LogVerbose() {
	*verbose = true
}

// Logger returns a zerolog
// use -vv flag to print debugging logs for tests
func Logger() zerolog.Logger {
	writer := io.Discard
	if *verbose {
		writer = os.Stderr
	}

	return LoggerWithWriter(writer)
}

func LoggerWithWriter(writer io.Writer) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(writer).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return log
}

// LogRecorder is a concurrency-safe writer collecting the lines logged by a test logger.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Lines returns all log lines containing every one of the given substrings.
func (r *LogRecorder) Lines(substrings ...string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lines []string
	for _, line := range strings.Split(r.buf.String(), "\n") {
		if line == "" {
			continue
		}
		match := true
		for _, s := range substrings {
			if !strings.Contains(line, s) {
				match = false
				break
			}
		}
		if match {
			lines = append(lines, line)
		}
	}
	return lines
}

// LoggerWithRecorder returns a debug-level logger whose output is captured by the returned recorder.
func LoggerWithRecorder() (zerolog.Logger, *LogRecorder) {
	recorder := &LogRecorder{}
	return LoggerWithWriter(recorder), recorder
}
