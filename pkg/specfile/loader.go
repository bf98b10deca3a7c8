package specfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/junbin-yang/go-parselab/pkg/grammar"
	"github.com/junbin-yang/go-parselab/pkg/logger"
)

// Loader 协议描述文件加载器
// 负责读取协议描述文件并编译为语法，可选监听文件变化自动重新编译
type Loader struct {
	specPath         string       // 协议描述文件路径
	serializer       Serializer   // 当前使用的序列化器
	forceFormat      Serializer   // 强制指定的格式（优先级最高）
	supportedFormats []Serializer // 支持的文档格式列表
	mu               sync.RWMutex // 读写锁

	doc     *Document        // 最近一次加载的文档
	grammar *grammar.Grammar // 最近一次编译的语法

	// 文件监听相关
	enableWatch           bool              // 是否启用监听
	watchDebounceInterval time.Duration     // 防抖间隔
	watcher               *fsnotify.Watcher // 文件监听器
	watchQuit             chan struct{}     // 监听退出信号
	watchOnce             sync.Once         // 确保监听只启动一次

	// 语法变更回调
	callbacks []func(old, new *grammar.Grammar)
}

// NewLoader 创建加载器实例
func NewLoader(options ...Option) *Loader {
	l := &Loader{
		serializer:       &YAMLSerializer{},
		supportedFormats: []Serializer{&YAMLSerializer{}, &JSONSerializer{}, &TOMLSerializer{}},
		watchQuit:        make(chan struct{}),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Load 加载并编译协议描述文件
func (l *Loader) Load(path string) (*grammar.Grammar, error) {
	if err := validateSpecPath(path); err != nil {
		return nil, fmt.Errorf("invalid spec path: %w", err)
	}

	l.mu.Lock()
	l.specPath = path
	l.chooseSerializer(path)
	l.mu.Unlock()

	if err := l.reload(); err != nil {
		return nil, err
	}

	if l.enableWatch {
		if err := l.startWatch(); err != nil {
			return nil, err
		}
	}

	return l.Grammar(), nil
}

// Grammar 返回最近一次成功编译的语法
func (l *Loader) Grammar() *grammar.Grammar {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.grammar
}

// Document 返回最近一次成功加载的文档
func (l *Loader) Document() *Document {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.doc
}

// Reload 手动重新加载协议描述文件
func (l *Loader) Reload() error {
	l.mu.RLock()
	path := l.specPath
	l.mu.RUnlock()
	if path == "" {
		return errors.New("spec path not initialized, call Load first")
	}
	return l.reload()
}

// OnChange 注册语法变更回调
func (l *Loader) OnChange(callback func(old, new *grammar.Grammar)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callbacks = append(l.callbacks, callback)
}

// Close 关闭加载器（停止监听）
func (l *Loader) Close() {
	l.stopWatch()
	close(l.watchQuit)
}

/* ------------------------------ 内部方法 ------------------------------ */

// reload 读取、解析并编译协议描述文件
func (l *Loader) reload() error {
	l.mu.RLock()
	path := l.specPath
	ser := l.serializer
	l.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read spec file failed: %w", err)
	}

	doc := &Document{}
	if err := ser.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("unmarshal spec failed (%s): %w", ser.GetName(), err)
	}

	g, err := doc.Compile()
	if err != nil {
		return fmt.Errorf("compile spec failed: %w", err)
	}

	l.mu.Lock()
	old := l.grammar
	l.doc = doc
	l.grammar = g
	// 复制回调列表（避免死锁）
	callbacks := make([]func(old, new *grammar.Grammar), len(l.callbacks))
	copy(callbacks, l.callbacks)
	l.mu.Unlock()

	// 在锁外触发变更回调
	for _, callback := range callbacks {
		callback(old, g)
	}

	return nil
}

// chooseSerializer 根据文件后缀选择序列化器
func (l *Loader) chooseSerializer(path string) {
	if l.forceFormat != nil {
		l.serializer = l.forceFormat
		return
	}
	ext := filepath.Ext(path)
	if ext == ".yaml" {
		ext = ".yml"
	}
	for _, format := range l.supportedFormats {
		if format.GetFileExt() == ext {
			l.serializer = format
			return
		}
	}
	// 无法识别的后缀使用默认序列化器
}

// validateSpecPath 校验文件路径
func validateSpecPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

// startWatch 启动协议描述文件监听
func (l *Loader) startWatch() error {
	var err error
	l.watchOnce.Do(func() {
		if l.watcher, err = fsnotify.NewWatcher(); err != nil {
			err = fmt.Errorf("create watcher failed: %w", err)
			return
		}
		if err = l.watcher.Add(l.specPath); err != nil {
			err = fmt.Errorf("add watch path failed: %w", err)
			return
		}
		go l.watchLoop()
	})
	return err
}

// stopWatch 停止监听
func (l *Loader) stopWatch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.watchOnce = sync.Once{}
	if l.watcher != nil {
		l.watcher.Close()
		l.watcher = nil
	}
}

// watchLoop 监听文件变化循环
func (l *Loader) watchLoop() {
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}

	l.mu.RLock()
	watcher := l.watcher
	l.mu.RUnlock()
	if watcher == nil {
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			// 处理文件修改/创建/重命名事件
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounceTimer.Reset(l.watchDebounceInterval)
			}

		case <-debounceTimer.C:
			if err := l.reload(); err != nil {
				logger.Warnf("spec auto reload failed: %v", err)
			} else {
				logger.Infof("spec auto reloaded from: %s", l.specPath)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("spec watch error: %v", err)

		case <-l.watchQuit:
			return
		}
	}
}
