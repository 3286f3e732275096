// Package audit writes the per-entity, append-only operator trail: one
// "[<timestamp>] <message>" line per record outcome.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

type Log struct {
	path string
	file *os.File
	z    *zap.Logger
}

// Path returns the trail location for entity under dir.
func Path(dir, entity string) string {
	return filepath.Join(dir, entity+"_log.txt")
}

// Open appends to <dir>/<entity>_log.txt, creating dir and the file as
// needed. Existing lines are never rewritten.
func Open(dir, entity string, opts ...zap.Option) (*Log, error) {
	if entity == "" {
		return nil, fmt.Errorf("audit: entity required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audit: create dir: %w", err)
	}
	path := Path(dir, entity)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(f), zapcore.DebugLevel)
	return &Log{path: path, file: f, z: zap.New(core, opts...)}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.UTC().Format(timeLayout) + "]")
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func (l *Log) Path() string { return l.path }

// Record appends one line. A nil Log discards.
func (l *Log) Record(msg string) {
	if l == nil {
		return
	}
	l.z.Info(msg)
}

func (l *Log) Recordf(format string, args ...any) {
	if l == nil {
		return
	}
	l.z.Info(fmt.Sprintf(format, args...))
}

func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	_ = l.z.Sync()
	return l.file.Close()
}
