package logger

import "go.uber.org/zap"

// Option zap 日志选项
type Option = zap.Option

// AddCaller 记录调用位置
func AddCaller() Option {
	return zap.AddCaller()
}

// AddCallerSkip 调整调用栈跳过层数
func AddCallerSkip(skip int) Option {
	return zap.AddCallerSkip(skip)
}

// WithStacktrace 指定级别及以上记录调用栈
func WithStacktrace(level Level) Option {
	return zap.AddStacktrace(toZapLevel(level))
}
