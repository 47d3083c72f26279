package logger

import "github.com/pion/logging"

// PionLoggerFactory adapts a LoggerFactory to pion/logging.LoggerFactory so
// the same component-keyed sink can be handed to webrtc.SettingEngine.
type PionLoggerFactory struct {
	factory LoggerFactory
}

// NewPionLoggerFactory wraps f for use as a pion/webrtc SettingEngine
// LoggerFactory.
func NewPionLoggerFactory(f LoggerFactory) *PionLoggerFactory {
	return &PionLoggerFactory{factory: f}
}

func (f *PionLoggerFactory) NewLogger(scope string) logging.LeveledLogger {
	return &pionLevelLogger{log: f.factory.GetLogger(scope)}
}

// pionLevelLogger widens a printf-style Logger into pion's leveled logger
// interface. Level is folded into the message rather than filtered, since
// Logger has no notion of a minimum level.
type pionLevelLogger struct {
	log Logger
}

func (l *pionLevelLogger) Trace(msg string)                         { l.log.Printf("TRACE: %s", msg) }
func (l *pionLevelLogger) Tracef(format string, args ...interface{}) {
	l.log.Printf("TRACE: "+format, args...)
}
func (l *pionLevelLogger) Debug(msg string) { l.log.Printf("DEBUG: %s", msg) }
func (l *pionLevelLogger) Debugf(format string, args ...interface{}) {
	l.log.Printf("DEBUG: "+format, args...)
}
func (l *pionLevelLogger) Info(msg string) { l.log.Printf("INFO: %s", msg) }
func (l *pionLevelLogger) Infof(format string, args ...interface{}) {
	l.log.Printf("INFO: "+format, args...)
}
func (l *pionLevelLogger) Warn(msg string) { l.log.Printf("WARN: %s", msg) }
func (l *pionLevelLogger) Warnf(format string, args ...interface{}) {
	l.log.Printf("WARN: "+format, args...)
}
func (l *pionLevelLogger) Error(msg string) { l.log.Printf("ERROR: %s", msg) }
func (l *pionLevelLogger) Errorf(format string, args ...interface{}) {
	l.log.Printf("ERROR: "+format, args...)
}
