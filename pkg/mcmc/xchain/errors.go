package xchain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidChainID 表示链 ID 为负数
	ErrInvalidChainID = errors.New("xchain: chain id must be >= 0")

	// ErrNegativeDraws 表示 tune 或 draws 为负数
	ErrNegativeDraws = errors.New("xchain: tune and draws must be >= 0")

	// ErrNilKernel 表示缺少转移核
	ErrNilKernel = errors.New("xchain: kernel must not be nil")

	// ErrWorkerReused 表示同一个 Worker 被第二次 Run。
	// Worker 与它的 trace 一一对应，重跑会破坏 trace 的追加不变式，
	// 每条链每次采样应使用新的 Worker。
	ErrWorkerReused = errors.New("xchain: worker already run")
)

// KernelError 表示转移核产出 draw 时发生不可恢复错误。
// 对所属链是致命的：链以 ReasonFailed 终止，错误上浮到编排器。
type KernelError struct {
	// ChainID 出错的链
	ChainID int
	// Err 转移核返回的原始错误
	Err error
}

// Error 实现 error 接口。
func (e *KernelError) Error() string {
	return fmt.Sprintf("xchain: kernel failed on chain %d: %v", e.ChainID, e.Err)
}

// Unwrap 返回原始错误，支持 errors.Is/As。
func (e *KernelError) Unwrap() error {
	return e.Err
}

// CallbackError 表示回调返回了停止信号之外的错误。
// 默认对所属链是致命的：静默吞掉回调错误会丢失用户的诊断意图。
type CallbackError struct {
	// ChainID 出错的链
	ChainID int
	// DrawIndex 出错时刚追加的 draw 在所属阶段内的序号
	DrawIndex int
	// Err 回调返回的原始错误
	Err error
}

// Error 实现 error 接口。
func (e *CallbackError) Error() string {
	return fmt.Sprintf("xchain: callback failed on chain %d at draw %d: %v", e.ChainID, e.DrawIndex, e.Err)
}

// Unwrap 返回原始错误，支持 errors.Is/As。
func (e *CallbackError) Unwrap() error {
	return e.Err
}
