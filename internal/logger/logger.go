package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tg-autodelete/internal/config"
)

// log levels, ordered
const (
	levelDebug = iota
	levelInfo
	levelWarning
	levelError
	levelFatal
)

var (
	std      = log.New(os.Stdout, "", log.Ldate|log.Ltime|log.Lshortfile)
	minLevel = levelInfo
)

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

func parseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return levelDebug
	case "INFO":
		return levelInfo
	case "WARNING", "WARN":
		return levelWarning
	case "ERROR":
		return levelError
	case "FATAL":
		return levelFatal
	default:
		return levelInfo
	}
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logFilePath := cfg.Logger.File
	if logFilePath == "" {
		logDir := cfg.Logger.Directory
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		logFilePath = createLogFilePath(logDir, "tg-autodelete")
	} else if dir := filepath.Dir(logFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	multiWriter := io.MultiWriter(os.Stdout, rotatingLogger)

	std = log.New(multiWriter, "", log.Ldate|log.Ltime|log.Lshortfile)
	minLevel = parseLevel(cfg.Logger.Level)

	// The standard logger follows ours so third-party code lands in the
	// same file.
	log.SetOutput(multiWriter)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	Infof("Logging initialized: writing to %s", logFilePath)
	return nil
}

func output(level int, tag, format string, args ...interface{}) {
	if level < minLevel {
		return
	}
	std.Output(3, fmt.Sprintf("[%s] %s", tag, fmt.Sprintf(format, args...)))
}

func Debugf(format string, args ...interface{}) {
	output(levelDebug, "DEBUG", format, args...)
}

func Infof(format string, args ...interface{}) {
	output(levelInfo, "INFO", format, args...)
}

func Info(args ...interface{}) {
	output(levelInfo, "INFO", "%s", fmt.Sprint(args...))
}

func Warningf(format string, args ...interface{}) {
	output(levelWarning, "WARNING", format, args...)
}

func Warning(args ...interface{}) {
	output(levelWarning, "WARNING", "%s", fmt.Sprint(args...))
}

func Errorf(format string, args ...interface{}) {
	output(levelError, "ERROR", format, args...)
}

func Error(args ...interface{}) {
	output(levelError, "ERROR", "%s", fmt.Sprint(args...))
}

func Fatalf(format string, args ...interface{}) {
	output(levelFatal, "FATAL", format, args...)
	os.Exit(1)
}
