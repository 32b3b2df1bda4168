package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func InitLogger(logLevel *string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	switch *logLevel {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	Info("Application started")
	Debug("This is a debug message")
}

// Debug logs debug-level messages
func Debug(v ...interface{}) {
	log.Debugln(v...)
}

// Debugf logs debug-level formatted messages
func Debugf(format string, v ...interface{}) {
	log.Debugf(format, v...)
}

// Info logs info-level messages
func Info(v ...interface{}) {
	log.Infoln(v...)
}

// Infof logs info-level formatted messages
func Infof(format string, v ...interface{}) {
	log.Infof(format, v...)
}

// Warn logs warning-level messages
func Warn(v ...interface{}) {
	log.Warnln(v...)
}

// Warnf logs warning-level formatted messages
func Warnf(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

// Error logs error-level messages
func Error(v ...interface{}) {
	log.Errorln(v...)
}

// Errorf logs error-level formatted messages
func Errorf(format string, v ...interface{}) {
	log.Errorf(format, v...)
}
