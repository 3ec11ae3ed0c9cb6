package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level is a logging verbosity threshold
type Level int

// The levels that can be passed to SetLevel, most verbose first
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is the leveled logger injected into renderer components
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns a logger tagged with the given module name
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all log output, keeping the current level
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))
	logging.SetBackend(leveledBackend)
	SetLevel(currentLevel)
}

// SetLevel sets the verbosity for every module
func SetLevel(level Level) {
	currentLevel = level
	leveledBackend.SetLevel(level.backendLevel(), "")
}

// GetLevel returns the verbosity set by SetLevel
func GetLevel() Level {
	return currentLevel
}

// LevelFromVerbosity maps a count of -v flags to a level: none keeps Notice,
// one enables Info and two or more enable Debug
func LevelFromVerbosity(count int) Level {
	switch {
	case count >= 2:
		return Debug
	case count == 1:
		return Info
	default:
		return Notice
	}
}

func (l Level) backendLevel() logging.Level {
	switch l {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func (l Level) String() string {
	return l.backendLevel().String()
}

func init() {
	SetSink(os.Stdout)
}
