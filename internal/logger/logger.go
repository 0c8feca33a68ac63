package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the shared logrus setup.
type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string // rotated through lumberjack when set
}

var (
	root   = logrus.New()
	rootMu sync.Mutex
	closer io.Closer
)

// Init configures the root logger. Component loggers obtained with Get share it.
func Init(opts Options) {
	rootMu.Lock()
	defer rootMu.Unlock()

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	root.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		root.SetFormatter(&logrus.JSONFormatter{})
	} else {
		root.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var out io.Writer = os.Stdout
	if file := strings.TrimSpace(opts.File); file != "" {
		rotating := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     14,
			Compress:   true,
		}
		closer = rotating
		out = io.MultiWriter(os.Stdout, rotating)
	}
	root.SetOutput(out)
}

// Get returns a logger tagged with the component name.
func Get(component string) *logrus.Entry {
	return root.WithField("component", component)
}

// Root exposes the underlying logger, e.g. for gin's writer.
func Root() *logrus.Logger {
	return root
}

// Discard returns an entry that drops everything. Used by tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Close flushes the rotating file, if any.
func Close() error {
	rootMu.Lock()
	defer rootMu.Unlock()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}
