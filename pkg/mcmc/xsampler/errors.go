package xsampler

import "errors"

var (
	// ErrInvalidChains 表示链数小于 1
	ErrInvalidChains = errors.New("xsampler: chains must be >= 1")

	// ErrInvalidDraws 表示 tune 或 draws 为负数
	ErrInvalidDraws = errors.New("xsampler: tune and draws must be >= 0")

	// ErrInvalidMode 表示调度模式不是 sequential 或 parallel
	ErrInvalidMode = errors.New("xsampler: invalid mode, must be sequential or parallel")

	// ErrNilFactory 表示缺少 kernel 工厂
	ErrNilFactory = errors.New("xsampler: kernel factory must not be nil")

	// ErrKernelInit 表示 kernel 工厂初始化某条链失败
	ErrKernelInit = errors.New("xsampler: kernel init failed")

	// ErrUnsupportedFormat 表示配置文件格式不受支持
	ErrUnsupportedFormat = errors.New("xsampler: unsupported config format")

	// ErrLoadFailed 表示配置文件读取失败
	ErrLoadFailed = errors.New("xsampler: config load failed")

	// ErrParseFailed 表示配置数据解析失败
	ErrParseFailed = errors.New("xsampler: config parse failed")

	// ErrChainsFailed 表示至少一条链以失败终止。
	// 具体的 *xchain.KernelError / *xchain.CallbackError 经 errors.Join
	// 聚合后可通过 errors.As 取出。
	ErrChainsFailed = errors.New("xsampler: one or more chains failed")
)
