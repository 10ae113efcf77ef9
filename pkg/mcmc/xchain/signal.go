package xchain

import "sync/atomic"

// State 是停止信号状态机的状态。
type State int32

const (
	// StateRunning 链正在产出 draw
	StateRunning State = iota

	// StateStopRequested 回调已请求早停，等待 Worker 在下一个边界观察
	StateStopRequested

	// StateStopped 终态：Worker 已观察停止请求并退出循环
	StateStopped

	// StateCompleted 终态：全部请求的 draw 产出完毕
	StateCompleted

	// StateFailed 终态：kernel 或回调出错
	StateFailed
)

// String 返回状态的字符串表示。
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopRequested:
		return "stop_requested"
	case StateStopped:
		return "stopped"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal 报告状态是否为终态。
func (s State) Terminal() bool {
	return s == StateStopped || s == StateCompleted || s == StateFailed
}

// Signal 是单链的协作式停止信号。
//
// 全部方法并发安全。状态转移只前进不回退：
// RequestStop 由回调路径或编排器调用，终态转移只由拥有该链的 Worker 执行。
type Signal struct {
	state atomic.Int32
}

// NewSignal 创建处于 Running 状态的信号。
func NewSignal() *Signal {
	return &Signal{}
}

// State 返回当前状态（瞬时快照）。
func (s *Signal) State() State {
	return State(s.state.Load())
}

// RequestStop 请求早停：Running → StopRequested。
// 返回是否发生了状态转移；已请求或已终止时返回 false（幂等）。
func (s *Signal) RequestStop() bool {
	return s.state.CompareAndSwap(int32(StateRunning), int32(StateStopRequested))
}

// markStopped 终态转移：StopRequested → Stopped。由 Worker 在观察到
// 停止请求并退出循环时调用。
func (s *Signal) markStopped() {
	s.state.CompareAndSwap(int32(StateStopRequested), int32(StateStopped))
	// 经 context 取消触发的早停没有走 RequestStop，补齐终态
	s.state.CompareAndSwap(int32(StateRunning), int32(StateStopped))
}

// markCompleted 终态转移：Running → Completed。
// 最后一个 draw 上的停止请求不再有 draw 可省，同样按完成处理。
func (s *Signal) markCompleted() {
	s.state.CompareAndSwap(int32(StateRunning), int32(StateCompleted))
	s.state.CompareAndSwap(int32(StateStopRequested), int32(StateCompleted))
}

// markFailed 终态转移：Running/StopRequested → Failed。
func (s *Signal) markFailed() {
	s.state.CompareAndSwap(int32(StateRunning), int32(StateFailed))
	s.state.CompareAndSwap(int32(StateStopRequested), int32(StateFailed))
}
