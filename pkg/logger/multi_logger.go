package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCategory names one categorized log file
type LogCategory string

const (
	CategoryBatch LogCategory = "batch" // batch lifecycle events
	CategoryError LogCategory = "error" // failed applications and aborted batches
)

// MultiLogger writes batch events and application errors as JSON lines to
// <LogsDir>/<category>-YYYYMMDD.log. Each category rolls over to a new file
// when the day changes, so LogReader finds entries under the day they were
// written even in a long-running server.
type MultiLogger struct {
	batch    *zap.Logger
	failures *zap.Logger
	files    []*dailyFile
}

// MultiLoggerConfig contains configuration for categorized logging
type MultiLoggerConfig struct {
	Level   string // minimum level of the batch file; the error file only takes errors
	LogsDir string
}

// NewMultiLogger opens today's file for every category
func NewMultiLogger(config MultiLoggerConfig) (*MultiLogger, error) {
	if config.LogsDir == "" {
		return nil, errors.New("logs_dir must be specified")
	}
	if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	ml := &MultiLogger{}
	if ml.batch, err = ml.open(config.LogsDir, CategoryBatch, level); err != nil {
		return nil, err
	}
	if ml.failures, err = ml.open(config.LogsDir, CategoryError, zapcore.ErrorLevel); err != nil {
		ml.Close()
		return nil, err
	}
	return ml, nil
}

func (ml *MultiLogger) open(dir string, category LogCategory, level zapcore.Level) (*zap.Logger, error) {
	file, err := newDailyFile(dir, category, time.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s log: %w", category, err)
	}
	ml.files = append(ml.files, file)

	core := zapcore.NewCore(zapcore.NewJSONEncoder(categoryEncoderConfig()), file, level)
	return zap.New(core), nil
}

// categoryEncoderConfig produces the ts/level/msg keys LogReader parses
func categoryEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.TimeKey = "ts"
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.CallerKey = ""
	return config
}

// LogBatchEvent records a batch lifecycle event
func (ml *MultiLogger) LogBatchEvent(event string, fields ...zap.Field) {
	ml.batch.Info(event, fields...)
}

// LogAppError records an application failure
func (ml *MultiLogger) LogAppError(msg string, fields ...zap.Field) {
	ml.failures.Error(msg, fields...)
}

// Sync flushes every category file
func (ml *MultiLogger) Sync() error {
	var errs []error
	for _, f := range ml.files {
		errs = append(errs, f.Sync())
	}
	return errors.Join(errs...)
}

// Close flushes and closes every category file. Later entries are dropped.
func (ml *MultiLogger) Close() error {
	var errs []error
	for _, f := range ml.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

// dailyFile is a zapcore.WriteSyncer appending to the category file of the
// current day
type dailyFile struct {
	mu       sync.Mutex
	dir      string
	category LogCategory
	now      func() time.Time

	current string // file name of the open day
	file    *os.File
}

func newDailyFile(dir string, category LogCategory, now func() time.Time) (*dailyFile, error) {
	f := &dailyFile{dir: dir, category: category, now: now}
	if err := f.rotate(now()); err != nil {
		return nil, err
	}
	return f, nil
}

// rotate switches to the file of t's day. Callers hold mu.
func (f *dailyFile) rotate(t time.Time) error {
	name := categoryFileName(f.category, t)
	file, err := os.OpenFile(filepath.Join(f.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if f.file != nil {
		f.file.Close()
	}
	f.file = file
	f.current = name
	return nil
}

func (f *dailyFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return 0, os.ErrClosed
	}
	if t := f.now(); categoryFileName(f.category, t) != f.current {
		if err := f.rotate(t); err != nil {
			return 0, err
		}
	}
	return f.file.Write(p)
}

func (f *dailyFile) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	return f.file.Sync()
}

func (f *dailyFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
