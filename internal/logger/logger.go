// Package logger writes key/value log lines to stderr. Debug lines, one per
// skipped row and parsed file, only appear in verbose mode.
package logger

import (
	"io"
	"os"

	"github.com/baditaflorin/l"
)

type Logger struct {
	base    l.Logger
	verbose bool
}

type Options struct {
	Output  io.Writer
	JSON    bool
	Verbose bool
}

func New(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	base, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      out,
		JsonFormat:  opts.JSON,
		AsyncWrite:  false,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  1,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, err
	}
	return &Logger{base: base, verbose: opts.Verbose}, nil
}

func (g *Logger) Debug(msg string, keysAndValues ...any) {
	if !g.verbose {
		return
	}
	g.base.Debug(msg, keysAndValues...)
}

func (g *Logger) Info(msg string, keysAndValues ...any) {
	g.base.Info(msg, keysAndValues...)
}

func (g *Logger) Warn(msg string, keysAndValues ...any) {
	g.base.Warn(msg, keysAndValues...)
}

func (g *Logger) Error(msg string, keysAndValues ...any) {
	g.base.Error(msg, keysAndValues...)
}

func (g *Logger) Close() error {
	return g.base.Close()
}
