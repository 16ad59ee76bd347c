package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
)

// Logger is a component logger. Every entry it emits carries the component tag.
type Logger struct {
	entry *log.Entry
}

var (
	mu      sync.RWMutex
	base    = &log.Logger{Handler: text.New(os.Stderr), Level: log.InfoLevel}
	logFile *os.File
	once    sync.Once
)

// InitLogger configures the process-wide sinks. Console output goes to view when
// it is set (the terminal console's debug pane) and to stdout otherwise. When
// logPath is set a JSON log file is written there as well.
func InitLogger(dev bool, logPath string, view io.Writer) error {
	var initErr error
	once.Do(func() {
		var console io.Writer = os.Stdout
		if view != nil {
			console = view
		}
		handlers := []log.Handler{text.New(console)}

		if logPath != "" {
			timestamp := time.Now().Format("20060102_150405")
			fileName := fmt.Sprintf("gunther_log_%s.log", timestamp)
			filePath := filepath.Join(logPath, fileName)

			file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				initErr = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			logFile = file
			handlers = append(handlers, json.New(file))
		}

		level := log.InfoLevel
		if dev {
			level = log.DebugLevel
		}
		SetHandler(multi.New(handlers...), level)
	})
	return initErr
}

// SetHandler replaces the sink shared by all loggers, including ones created earlier.
func SetHandler(h log.Handler, level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	base.Handler = h
	base.Level = level
}

// sink forwards to the current base logger so loggers created before
// InitLogger pick up the configured handlers.
type sink struct{}

func (sink) HandleLog(e *log.Entry) error {
	mu.RLock()
	h, level := base.Handler, base.Level
	mu.RUnlock()
	if e.Level < level {
		return nil
	}
	return h.HandleLog(e)
}

var root = &log.Logger{Handler: sink{}, Level: log.DebugLevel}

func NewLogger(tag string) *Logger {
	return &Logger{entry: root.WithField("tag", tag)}
}

// WithField returns a logger that adds key=value to every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) WithFields(fields log.Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) WithError(err error) *Logger {
	return &Logger{entry: l.entry.WithError(err)}
}

func (l *Logger) Debug(v ...interface{}) {
	l.entry.Debug(fmt.Sprint(v...))
}

func (l *Logger) Info(v ...interface{}) {
	l.entry.Info(fmt.Sprint(v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *Logger) Warn(v ...interface{}) {
	l.entry.Warn(fmt.Sprint(v...))
}

func (l *Logger) Error(v ...interface{}) {
	l.entry.Error(fmt.Sprint(v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *Logger) Fatal(v ...interface{}) {
	l.entry.Error(fmt.Sprint(v...))
	Close()
	os.Exit(1)
}

// Close flushes and closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
