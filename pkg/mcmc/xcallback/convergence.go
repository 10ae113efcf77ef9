package xcallback

import (
	"context"
	"sync"

	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// Monitor 是跨链收敛监视回调。
//
// 每条链每逢 every 条正式采样记录，Monitor 把各链最近一次观察到的快照
// 合并成部分 MergedTrace，交给注入的 Diagnostic 计算数值摘要；
// stopWhen(summary) 为 true 时请求早停。
//
// Monitor 维护链 ID → 最近快照的私有映射，由互斥锁保护——并行模式下
// 多条链并发调用 OnDraw，锁保证映射读写安全，同时建立快照跨 goroutine
// 交接所需的 happens-before（见 xdraw 包文档）。
//
// 传播滞后是协议属性而非缺陷：某条链触发诊断时，映射里其他链的快照是
// 它们各自最近一次回调时的状态，可能落后若干 draw。诊断因此天然运行在
// 参差长度的部分视图上，Diagnostic 如何对齐由其自行决定；无法对齐时
// 返回的错误（如包裹 xdraw.ErrRaggedChains）会原样上浮，使链以失败终止。
//
// Monitor 的状态限定在单次采样调用内：每次 Sample 应构造新实例。
type Monitor struct {
	every    int
	diag     Diagnostic
	stopWhen func(summary float64) bool

	mu        sync.Mutex
	latest    map[int]xdraw.TraceView
	minChains int
	converged bool
}

// MonitorOption 配置 Monitor 的可选参数。
type MonitorOption func(*Monitor)

// WithMinChains 设置触发诊断所需的最少链数。
//
// 在映射里的链数达到 n 之前，周期命中也不调用 Diagnostic。
// 默认为 1（有多少链算多少链）。n < 1 时忽略。
func WithMinChains(n int) MonitorOption {
	return func(m *Monitor) {
		if n >= 1 {
			m.minChains = n
		}
	}
}

// NewMonitor 创建收敛监视器。
//
// every 为诊断周期（每条链每 every 条正式记录触发一次），diag 为诊断
// 能力，stopWhen 依据诊断摘要判定是否早停（如 func(r) bool { return
// math.Abs(r-1) < 0.01 } 之于 R-hat）。
func NewMonitor(every int, diag Diagnostic, stopWhen func(summary float64) bool, opts ...MonitorOption) (*Monitor, error) {
	if every < 1 {
		return nil, ErrInvalidInterval
	}
	if diag == nil {
		return nil, ErrNilDiagnostic
	}
	if stopWhen == nil {
		return nil, ErrNilStopWhen
	}

	m := &Monitor{
		every:     every,
		diag:      diag,
		stopWhen:  stopWhen,
		latest:    make(map[int]xdraw.TraceView),
		minChains: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// OnDraw 实现 Callback 接口。
//
// 每次调用都会更新本链的最近快照；调优 draw 只更新快照，不触发诊断。
// 一旦 stopWhen 判定收敛，后续所有链的调用都直接返回 ActionStop，
// 使早停请求尽快传播到每条经过回调的链。
func (m *Monitor) OnDraw(_ context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latest[rec.ChainID()] = view

	if m.converged {
		return ActionStop, nil
	}
	if rec.IsTuning() {
		return ActionContinue, nil
	}
	if view.NonTuningLen()%m.every != 0 {
		return ActionContinue, nil
	}
	if len(m.latest) < m.minChains {
		return ActionContinue, nil
	}

	entries := make([]xdraw.ChainEntry, 0, len(m.latest))
	for chainID, v := range m.latest {
		entries = append(entries, xdraw.ChainEntry{ChainID: chainID, Trace: v})
	}
	merged, err := xdraw.NewMergedTrace(entries)
	if err != nil {
		return ActionContinue, err
	}

	summary, err := m.diag.Compute(merged)
	if err != nil {
		// 诊断失败原样上浮（如链长参差），绝不降级为"继续采样"
		return ActionContinue, err
	}

	if m.stopWhen(summary) {
		m.converged = true
		return ActionStop, nil
	}
	return ActionContinue, nil
}

// Chains 返回已观察到的链数，用于测试与调试。
func (m *Monitor) Chains() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.latest)
}

// 编译时接口检查
var _ Callback = (*Monitor)(nil)
