// Package logsvc implements core.Logger.
package logsvc

import (
	"fmt"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/shule/core"
)

// RollbarLogger reports to Rollbar and writes structured lines through zap.
type RollbarLogger struct {
	zap *zap.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(name string, conf *core.Config) (*RollbarLogger, error) {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)

	zconf := zap.NewProductionConfig()
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	}
	if conf.TestMode {
		zconf.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zl, err := zconf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return NewRollbarLoggerWithZap(zl.Named(name)), nil
}

// NewRollbarLoggerWithZap wraps an existing zap logger.
func NewRollbarLoggerWithZap(zl *zap.Logger) *RollbarLogger {
	return &RollbarLogger{zap: zl}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Sync flushes the buffered logs and waits for the pending Rollbar reports.
func (l RollbarLogger) Sync() {
	rollbar.Wait()
	_ = l.zap.Sync()
}

// expected fmt: msg | error, map[string]interface{}, core.Identity
func (l RollbarLogger) prepare(msg string, args []interface{}) ([]interface{}, []zap.Field) {
	var idSet bool
	rbArgs := make([]interface{}, 0, len(args)+1)
	rbArgs = append(rbArgs, msg)
	fields := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case core.Identity:
			// set the caller; only the first one counts
			if !idSet && !a.IsZero() {
				rollbar.SetPerson(strconv.Itoa(a.UserID), a.Username, a.Email)
				fields = append(fields, zap.Int("user_id", a.UserID))
				idSet = true
			}
			continue
		case error:
			fields = append(fields, zap.Error(a))
		case map[string]interface{}:
			for k, v := range a {
				fields = append(fields, zap.Any(k, v))
			}
		default:
			fields = append(fields, zap.Any(fmt.Sprintf("arg%d", i), a))
		}
		rbArgs = append(rbArgs, arg)
	}
	if !idSet {
		rollbar.ClearPerson()
	}
	return rbArgs, fields
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.zap.Debug(msg, fields...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.zap.Info(msg, fields...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.zap.Warn(msg, fields...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.zap.Error(msg, fields...)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, fields := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	rollbar.Wait()
	l.zap.Fatal(msg, fields...)
}
