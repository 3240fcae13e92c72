package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/pollwatch/config"
	"github.com/grovetools/pollwatch/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// Options adjust a logger beyond what the configuration file says.
type Options struct {
	// Verbose forces the debug level.
	Verbose bool
	// Stderr replaces os.Stderr as the stderr sink.
	Stderr io.Writer
}

// NewLogger returns a logger for a component configured from the layered
// configuration of the current directory. Loggers are cached per component.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := DecodeConfig(cfg, &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := New(component, logCfg, Options{})
	loggers[component] = entry
	return entry
}

// DecodeConfig extracts the logging section of cfg into target.
func DecodeConfig(cfg *config.Config, target *Config) error {
	if cfg == nil {
		return nil
	}
	return cfg.UnmarshalExtension("logging", target)
}

// New builds an uncached logger for a component from an explicit logging
// configuration. Logs never go to stdout, which carries event output.
func New(component string, logCfg Config, opts Options) *logrus.Entry {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("POLLWATCH_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if os.Getenv("POLLWATCH_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	if logCfg.File.Enabled && logCfg.File.Path != "" {
		logFilePath, err := pathutil.Expand(logCfg.File.Path)
		if err != nil {
			logger.Warnf("Failed to resolve log file path %s: %v", logCfg.File.Path, err)
		} else if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(logFilePath), err)
		} else if file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
		} else {
			writers = append(writers, file)
		}
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if shouldLogToStderr(logCfg.Format.StructuredToStderr, level, stderr) {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger.WithField("component", component)
}

// shouldLogToStderr applies the structured_to_stderr mode. In "auto" mode
// logs reach stderr when debugging or when stderr is not an interactive
// terminal, which keeps interactive sessions limited to event output.
func shouldLogToStderr(mode string, level logrus.Level, stderr io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if os.Getenv("POLLWATCH_DEBUG") == "1" || level >= logrus.DebugLevel {
		return true
	}
	f, ok := stderr.(*os.File)
	if !ok {
		return true
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
