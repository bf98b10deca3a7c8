package specfile

import "time"

// Option 加载器选项
type Option func(*Loader)

// WithForceFormat 强制指定文档格式（无视文件后缀）
func WithForceFormat(s Serializer) Option {
	return func(l *Loader) {
		l.forceFormat = s
	}
}

// WithFormats 设置支持的文档格式列表
func WithFormats(formats ...Serializer) Option {
	return func(l *Loader) {
		l.supportedFormats = formats
	}
}

// WithWatch 启用文件监听（文件变化自动重新编译语法）
func WithWatch(enable bool, interval time.Duration) Option {
	return func(l *Loader) {
		l.enableWatch = enable
		l.watchDebounceInterval = interval
		if interval == 0 {
			l.watchDebounceInterval = 500 * time.Millisecond
		}
	}
}
