package logs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level string

const (
	INFO  Level = "INFO"
	WARN  Level = "WARN"
	ERROR Level = "ERROR"
	DEBUG Level = "DEBUG"
)

// levelPriority defines the priority of each log level
// higher value= more severe
var levelPriority = map[Level]int{
	DEBUG: 1,
	INFO:  2,
	WARN:  3,
	ERROR: 4,
}

var zerologLevels = map[Level]zerolog.Level{
	DEBUG: zerolog.DebugLevel,
	INFO:  zerolog.InfoLevel,
	WARN:  zerolog.WarnLevel,
	ERROR: zerolog.ErrorLevel,
}

// ParseLevel converts a case-insensitive level name into a Level.
func ParseLevel(s string) (Level, error) {
	lvl := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := levelPriority[lvl]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

type Entry struct {
	TimeStamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// Logger writes structured output through zerolog and keeps the most
// recent entries in memory so the health analyzer can inspect them.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	maxSize int
	level   Level
	out     zerolog.Logger
}

type Option func(*Logger)

// WithZerolog sets the sink every recorded entry is written to.
func WithZerolog(zl zerolog.Logger) Option {
	return func(l *Logger) {
		l.out = zl
	}
}

// level: minimum log level to record(e.g., INFO, WARN, ERROR,DEBUG)
//
// maxSize: maximum number of log entries kept in memory
func NewLogger(maxSize int, level Level, opts ...Option) *Logger {
	l := &Logger{
		entries: make([]Entry, 0, maxSize),
		maxSize: maxSize,
		level:   level,
		out:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.out = l.out.Level(zerologLevels[level])
	return l
}

// NewZerolog builds the process-wide zerolog sink. format "json" emits
// one JSON object per line; anything else uses the console writer.
func NewZerolog(w io.Writer, format string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(format, "json") {
		return zerolog.New(w).With().Timestamp().Logger()
	}

	cw := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.RFC3339
	})
	return zerolog.New(cw).With().Timestamp().Logger()
}

// Zerolog exposes the underlying sink for request-scoped loggers.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.out
}

// log is the internal logging function
// it applies level filtering and ring buffer behavior
func (l *Logger) log(level Level, msg string) {
	//filter logs below the current level
	if levelPriority[level] < levelPriority[l.level] {
		return
	}

	l.mu.Lock()
	if l.maxSize > 0 {
		if len(l.entries) >= l.maxSize {
			//remove oldest entry (ring behavior)
			l.entries = l.entries[1:]
		}
		l.entries = append(l.entries, Entry{
			TimeStamp: time.Now(),
			Level:     level,
			Message:   msg,
		})
	}
	l.mu.Unlock()

	l.out.WithLevel(zerologLevels[level]).Msg(msg)
}

func (l *Logger) Debug(msg string) {
	l.log(DEBUG, msg)
}

func (l *Logger) Info(msg string) {
	l.log(INFO, msg)
}

func (l *Logger) Warn(msg string) {
	l.log(WARN, msg)
}

func (l *Logger) Error(msg string) {
	l.log(ERROR, msg)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.log(DEBUG, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any) {
	l.log(INFO, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log(WARN, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log(ERROR, fmt.Sprintf(format, args...))
}

func (l *Logger) GetLast(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		out := make([]Entry, len(l.entries))
		copy(out, l.entries)
		return out
	}

	start := len(l.entries) - n
	out := make([]Entry, n)
	copy(out, l.entries[start:])
	return out
}
