package logger

import (
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateConfig 日志切割配置
type RotateConfig struct {
	Filename  string // 日志文件名
	LocalTime bool   // 切割文件名使用本地时间

	// 按大小切割（lumberjack）
	MaxSize    int  // 单个文件最大体积，单位 MB
	MaxBackups int  // 保留的旧文件数
	Compress   bool // 是否压缩旧文件

	// 按时间切割（file-rotatelogs）
	MaxAge       int           // 保留天数
	RotationTime time.Duration // 切割间隔
}

// NewRotateBySize 创建按大小切割的日志输出
func NewRotateBySize(cfg *RotateConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  cfg.LocalTime,
	}
}

// NewProductionRotateBySize 使用生产环境默认值创建按大小切割的日志输出
// 单文件 100MB，保留 10 个旧文件 30 天并压缩
func NewProductionRotateBySize(filename string) io.Writer {
	return NewRotateBySize(&RotateConfig{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
		LocalTime:  true,
	})
}

// NewRotateByTime 创建按时间切割的日志输出
func NewRotateByTime(cfg *RotateConfig) io.Writer {
	opts := []rotatelogs.Option{
		rotatelogs.WithMaxAge(time.Duration(cfg.MaxAge) * 24 * time.Hour),
		rotatelogs.WithRotationTime(cfg.RotationTime),
	}
	if cfg.LocalTime {
		opts = append(opts, rotatelogs.WithClock(rotatelogs.Local))
	}
	w, err := rotatelogs.New(cfg.Filename+".%Y%m%d%H%M", opts...)
	if err != nil {
		panic(err)
	}
	return w
}
