package xcallback

import (
	"context"

	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// Action 是回调对采样循环的显式控制指令。
type Action int

const (
	// ActionContinue 继续采样
	ActionContinue Action = iota

	// ActionStop 请求在下一个 draw 边界早停本链。
	// 这是请求而非抢占：进行中的 kernel 步骤不会被打断，
	// 已追加的 draw 全部保留。
	ActionStop
)

// String 返回指令的字符串表示。
func (a Action) String() string {
	switch a {
	case ActionContinue:
		return "continue"
	case ActionStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Callback 是逐 draw 回调接口。
//
// view 是本链截至当前 draw 的只读快照，rec 是刚追加的记录。
// 有状态回调可留存 view 本身：快照自持定容数据，与活动 trace 无共享的
// 可变状态，按 Go 的常规发布规则（如互斥锁）交接后即可从其他
// goroutine 安全读取，见 xdraw 包文档。
//
// 返回 (ActionStop, nil) 请求早停；返回非 nil error 使本链以失败终止。
// error 与 Action 同时非零时以 error 为准。
type Callback interface {
	OnDraw(ctx context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error)
}

// Func 将函数适配为 Callback 接口。
type Func func(ctx context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error)

// OnDraw 实现 Callback 接口。
func (f Func) OnDraw(ctx context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error) {
	return f(ctx, view, rec)
}

// Diagnostic 是跨链收敛诊断能力（外部协作方，如 R-hat 计算）。
//
// 本包不实现任何诊断公式，只约定接口：Compute 接收部分链的合并视图，
// 返回数值摘要。链长参差等形状问题应返回错误（通常包裹
// xdraw.ErrRaggedChains），调用链会将其如实上浮，不做静默兜底。
type Diagnostic interface {
	Compute(merged *xdraw.MergedTrace) (float64, error)
}

// DiagnosticFunc 将函数适配为 Diagnostic 接口。
type DiagnosticFunc func(merged *xdraw.MergedTrace) (float64, error)

// Compute 实现 Diagnostic 接口。
func (f DiagnosticFunc) Compute(merged *xdraw.MergedTrace) (float64, error) {
	return f(merged)
}
