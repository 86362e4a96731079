package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const consoleEncodingName = "console"

// NewApplicationLogger builds the zap logger the CLI reports fatal errors
// through. The production preset is stripped down to bare console messages:
// no timestamps, levels, callers, or stack traces, since the tool's console
// output sits next to the tree view and the token banner.
func NewApplicationLogger() (*zap.Logger, error) {
	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Encoding = consoleEncodingName
	loggerConfiguration.DisableCaller = true
	loggerConfiguration.DisableStacktrace = true

	encoderConfiguration := &loggerConfiguration.EncoderConfig
	encoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfiguration.TimeKey = ""
	encoderConfiguration.LevelKey = ""
	encoderConfiguration.NameKey = ""
	encoderConfiguration.CallerKey = ""
	encoderConfiguration.MessageKey = "message"
	encoderConfiguration.StacktraceKey = ""
	return loggerConfiguration.Build()
}
