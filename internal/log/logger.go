package log

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var current Level = Info

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "err", "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

func SetLevel(l Level) { current = l }

func CurrentLevel() Level { return current }

func logf(l Level, format string, v ...any) {
	if current <= l {
		stdlog.Printf("["+l.String()+"] "+format, v...)
	}
}

func Debugf(format string, v ...any) { logf(Debug, format, v...) }
func Infof(format string, v ...any)  { logf(Info, format, v...) }
func Warnf(format string, v ...any)  { logf(Warn, format, v...) }
func Errorf(format string, v ...any) { logf(Error, format, v...) }

// FileOptions describes the optional rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init sets the level (STATUSBOARD_LOG_LEVEL wins over the given one) and,
// when a file path is set, tees output to stderr and a rotated file.
// The returned closer must be closed on shutdown.
func Init(level string, file FileOptions) io.Closer {
	if env := os.Getenv("STATUSBOARD_LOG_LEVEL"); env != "" {
		level = env
	}
	SetLevel(ParseLevel(level))
	if strings.TrimSpace(file.Path) == "" {
		stdlog.SetOutput(os.Stderr)
		return nopCloser{}
	}
	lj := &lumberjack.Logger{
		Filename:   file.Path,
		MaxSize:    file.MaxSizeMB,
		MaxBackups: file.MaxBackups,
		MaxAge:     file.MaxAgeDays,
		Compress:   true,
	}
	stdlog.SetOutput(io.MultiWriter(os.Stderr, lj))
	return lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
