package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"stock-stats-api/internal/config"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// New builds a logger from the logging configuration
func New(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	default:
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	}

	log.SetOutput(writerFor(cfg))
	return log
}

func writerFor(cfg config.LoggingConfig) io.Writer {
	if cfg.Filename == "" {
		return os.Stdout
	}
	switch cfg.Output {
	case "file":
		return fileWriter(cfg)
	case "both":
		return io.MultiWriter(os.Stdout, fileWriter(cfg))
	default:
		return os.Stdout
	}
}

// fileWriter returns a file writer with rotation
func fileWriter(cfg config.LoggingConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
}
