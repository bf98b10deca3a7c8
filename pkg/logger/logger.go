package logger

import (
	"os"

	"go.uber.org/zap"
)

// Level 日志级别
type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
	PanicLevel
	FatalLevel
)

// Field 结构化日志字段
type Field = zap.Field

// Logger 日志接口，默认实现基于 zap，可替换为自定义实现
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Panic(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Panicf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
	SetLevel(level Level)
	Sync() error
}

// 常用字段构造
var (
	Int      = zap.Int
	Uint     = zap.Uint
	String   = zap.String
	Bool     = zap.Bool
	Duration = zap.Duration
	Any      = zap.Any
)

// GetError 构造错误字段
func GetError(e error) Field {
	return zap.Error(e)
}

var std Logger = New(os.Stderr, InfoLevel, AddCaller(), AddCallerSkip(2))

// Default 返回默认日志实例
func Default() Logger { return std }

// ReplaceDefault 替换默认日志实例
func ReplaceDefault(l Logger) { std = l }

// SetLevel 设置默认日志实例的级别
func SetLevel(level Level) { std.SetLevel(level) }

func Debug(msg string, fields ...Field) { std.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { std.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { std.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { std.Error(msg, fields...) }
func Panic(msg string, fields ...Field) { std.Panic(msg, fields...) }
func Fatal(msg string, fields ...Field) { std.Fatal(msg, fields...) }

func Debugf(format string, v ...interface{}) { std.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { std.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { std.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { std.Errorf(format, v...) }
func Panicf(format string, v ...interface{}) { std.Panicf(format, v...) }
func Fatalf(format string, v ...interface{}) { std.Fatalf(format, v...) }

func Sync() error { return std.Sync() }
