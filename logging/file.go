package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppender writes console-formatted lines to a size-rotated log file.
type FileAppender struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewFileAppender returns an appender writing to path. The file rotates at 100MB keeping three
// compressed backups.
func NewFileAppender(path string) *FileAppender {
	return &FileAppender{out: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 3,
		Compress:   true,
	}}
}

// Write outputs the log entry to the file.
func (fa *FileAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	line, err := formatLine(entry, fields)
	if err != nil {
		return err
	}
	fa.mu.Lock()
	defer fa.mu.Unlock()
	_, err = fmt.Fprintln(fa.out, line)
	return err
}

// Sync is a no-op; lumberjack does not buffer.
func (fa *FileAppender) Sync() error {
	return nil
}

// Close closes the current log file.
func (fa *FileAppender) Close() error {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	return fa.out.Close()
}
