package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	root    = zerolog.Nop()
	logFile *os.File
	once    sync.Once
)

// Init configures the process-wide logger. In dev mode human-readable output
// goes to console (stderr for one-shot runs, the debug console view when
// interactive). A non-empty logPath additionally writes to a timestamped log
// file in that directory. Without either, logging is a no-op so nothing
// interleaves with rendered responses.
func Init(dev bool, logPath string, console io.Writer) error {
	var initErr error
	once.Do(func() {
		var writers []io.Writer
		if dev && console != nil {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:        console,
				TimeFormat: "15:04:05",
			})
		}
		if logPath != "" {
			fileName := fmt.Sprintf("deepcli_%s.log", time.Now().Format("20060102_150405"))
			file, err := os.OpenFile(filepath.Join(logPath, fileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				initErr = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			logFile = file
			writers = append(writers, file)
		}
		if len(writers) == 0 {
			return
		}

		zerolog.TimeFieldFormat = time.RFC3339
		root = zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(levelFromEnv()).
			With().
			Timestamp().
			Logger()
	})
	return initErr
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger tagged with a component name.
func New(tag string) zerolog.Logger {
	return root.With().Str("component", tag).Logger()
}

// Close flushes the log file, if any.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}
