package xcallback

import "errors"

var (
	// ErrNilCallback 表示注册了 nil 回调
	ErrNilCallback = errors.New("xcallback: callback must not be nil")

	// ErrNilContext 表示 Notify 收到 nil context
	ErrNilContext = errors.New("xcallback: nil context")

	// ErrNilView 表示 Notify 收到 nil trace 视图
	ErrNilView = errors.New("xcallback: nil trace view")

	// ErrInvalidThreshold 表示 StopAfter 的阈值小于 1
	ErrInvalidThreshold = errors.New("xcallback: threshold must be >= 1")

	// ErrInvalidInterval 表示 Every/Monitor 的周期小于 1
	ErrInvalidInterval = errors.New("xcallback: interval must be >= 1")

	// ErrInvalidDeadline 表示 Deadline 的时限不为正
	ErrInvalidDeadline = errors.New("xcallback: deadline must be positive")

	// ErrNilDiagnostic 表示 Monitor 缺少 Diagnostic 实现
	ErrNilDiagnostic = errors.New("xcallback: diagnostic must not be nil")

	// ErrNilStopWhen 表示 Monitor 缺少停止判定函数
	ErrNilStopWhen = errors.New("xcallback: stopWhen must not be nil")
)
