package logging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used by the planners. `f` variants format with `fmt.Sprintf`
// and `w` variants take alternating keys and values. The `C` variants additionally log when the
// context was passed through EnableDebugMode, whatever the logger's level.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	CDebugf(ctx context.Context, template string, args ...interface{})
	CDebugw(ctx context.Context, msg string, keysAndValues ...interface{})

	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})

	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})

	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger named "<name>.<subname>" writing to the same appenders.
	Sublogger(subname string) Logger
	// With returns a logger that attaches the given key/value pairs to every entry.
	With(keysAndValues ...interface{}) Logger
	AddAppender(appender Appender)
	SetLevel(level Level)
	GetLevel() Level
	Sync() error
}

type logger struct {
	name      string
	level     AtomicLevel
	utc       bool
	fields    []zapcore.Field
	appenders []Appender
}

func newLogger(name string, level Level, utc bool, appenders ...Appender) *logger {
	return &logger{name: name, level: NewAtomicLevelAt(level), utc: utc, appenders: appenders}
}

func (l *logger) AddAppender(appender Appender) {
	l.appenders = append(l.appenders, appender)
}

func (l *logger) SetLevel(level Level) {
	l.level.Set(level)
}

func (l *logger) GetLevel() Level {
	return l.level.Get()
}

func (l *logger) Sublogger(subname string) Logger {
	name := subname
	if l.name != "" {
		name = l.name + "." + subname
	}
	return &logger{
		name:      name,
		level:     NewAtomicLevelAt(l.level.Get()),
		utc:       l.utc,
		fields:    l.fields,
		appenders: l.appenders,
	}
}

func (l *logger) With(keysAndValues ...interface{}) Logger {
	fields := make([]zapcore.Field, 0, len(l.fields)+len(keysAndValues)/2)
	fields = append(fields, l.fields...)
	return &logger{
		name:      l.name,
		level:     l.level,
		utc:       l.utc,
		fields:    append(fields, pairsToFields(keysAndValues)...),
		appenders: l.appenders,
	}
}

func (l *logger) Sync() error {
	var err error
	for _, appender := range l.appenders {
		err = multierr.Append(err, appender.Sync())
	}
	return err
}

func (l *logger) enabled(level Level) bool {
	return level >= l.level.Get()
}

// callerSkip steps over entryCaller, newEntry, and the exported logging method.
const callerSkip = 3

func (l *logger) newEntry(level Level, msg string, fields []zapcore.Field) (zapcore.Entry, []zapcore.Field) {
	entry := zapcore.Entry{
		Level:      level.AsZap(),
		Time:       time.Now(),
		LoggerName: l.name,
		Message:    msg,
		Caller:     entryCaller(callerSkip),
	}
	if l.utc {
		entry.Time = entry.Time.UTC()
	}
	if len(l.fields) == 0 {
		return entry, fields
	}
	all := make([]zapcore.Field, 0, len(l.fields)+len(fields))
	return entry, append(append(all, l.fields...), fields...)
}

func (l *logger) write(entry zapcore.Entry, fields []zapcore.Field) {
	for _, appender := range l.appenders {
		if err := appender.Write(entry, fields); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// pairsToFields turns alternating keys and values into fields. Keys are expected to be strings;
// anything else is rendered with its Stringer or `%v`.
func pairsToFields(keysAndValues []interface{}) []zapcore.Field {
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		var key string
		switch k := keysAndValues[i].(type) {
		case string:
			key = k
		case fmt.Stringer:
			key = k.String()
		default:
			key = fmt.Sprintf("%v", k)
		}
		if i+1 == len(keysAndValues) {
			// Surface the mistake in the output instead of dropping the key.
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
			break
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func debugFields(ctx context.Context, keysAndValues []interface{}) []zapcore.Field {
	fields := pairsToFields(keysAndValues)
	if tag, ok := DebugTag(ctx); ok {
		fields = append(fields, zap.String(debugTagField, tag))
	}
	return fields
}

func (l *logger) Debug(args ...interface{}) {
	if l.enabled(DEBUG) {
		l.write(l.newEntry(DEBUG, fmt.Sprint(args...), nil))
	}
}

func (l *logger) Debugf(template string, args ...interface{}) {
	if l.enabled(DEBUG) {
		l.write(l.newEntry(DEBUG, fmt.Sprintf(template, args...), nil))
	}
}

func (l *logger) Debugw(msg string, keysAndValues ...interface{}) {
	if l.enabled(DEBUG) {
		l.write(l.newEntry(DEBUG, msg, pairsToFields(keysAndValues)))
	}
}

func (l *logger) CDebugf(ctx context.Context, template string, args ...interface{}) {
	if l.enabled(DEBUG) || IsDebugMode(ctx) {
		l.write(l.newEntry(DEBUG, fmt.Sprintf(template, args...), debugFields(ctx, nil)))
	}
}

func (l *logger) CDebugw(ctx context.Context, msg string, keysAndValues ...interface{}) {
	if l.enabled(DEBUG) || IsDebugMode(ctx) {
		l.write(l.newEntry(DEBUG, msg, debugFields(ctx, keysAndValues)))
	}
}

func (l *logger) Info(args ...interface{}) {
	if l.enabled(INFO) {
		l.write(l.newEntry(INFO, fmt.Sprint(args...), nil))
	}
}

func (l *logger) Infof(template string, args ...interface{}) {
	if l.enabled(INFO) {
		l.write(l.newEntry(INFO, fmt.Sprintf(template, args...), nil))
	}
}

func (l *logger) Infow(msg string, keysAndValues ...interface{}) {
	if l.enabled(INFO) {
		l.write(l.newEntry(INFO, msg, pairsToFields(keysAndValues)))
	}
}

func (l *logger) Warn(args ...interface{}) {
	if l.enabled(WARN) {
		l.write(l.newEntry(WARN, fmt.Sprint(args...), nil))
	}
}

func (l *logger) Warnf(template string, args ...interface{}) {
	if l.enabled(WARN) {
		l.write(l.newEntry(WARN, fmt.Sprintf(template, args...), nil))
	}
}

func (l *logger) Warnw(msg string, keysAndValues ...interface{}) {
	if l.enabled(WARN) {
		l.write(l.newEntry(WARN, msg, pairsToFields(keysAndValues)))
	}
}

func (l *logger) Error(args ...interface{}) {
	if l.enabled(ERROR) {
		l.write(l.newEntry(ERROR, fmt.Sprint(args...), nil))
	}
}

func (l *logger) Errorf(template string, args ...interface{}) {
	if l.enabled(ERROR) {
		l.write(l.newEntry(ERROR, fmt.Sprintf(template, args...), nil))
	}
}

func (l *logger) Errorw(msg string, keysAndValues ...interface{}) {
	if l.enabled(ERROR) {
		l.write(l.newEntry(ERROR, msg, pairsToFields(keysAndValues)))
	}
}

func entryCaller(skip int) zapcore.EntryCaller {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return zapcore.EntryCaller{}
	}
	caller := zapcore.EntryCaller{Defined: true, PC: pc, File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
