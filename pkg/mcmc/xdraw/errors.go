package xdraw

import "errors"

var (
	// ErrChainMismatch 表示记录的链 ID 与目标 trace 的链 ID 不一致
	ErrChainMismatch = errors.New("xdraw: record chain id does not match trace chain id")

	// ErrIndexGap 表示 draw 序号不连续（同一阶段内必须逐 1 递增）
	ErrIndexGap = errors.New("xdraw: draw index must increase by exactly 1 within a phase")

	// ErrTuningAfterSampling 表示在正式采样记录之后追加了调优记录
	ErrTuningAfterSampling = errors.New("xdraw: tuning record after sampling records")

	// ErrTraceFinalized 表示向已封存的 trace 追加记录
	ErrTraceFinalized = errors.New("xdraw: trace is finalized")

	// ErrDuplicateChain 表示合并时出现重复的链 ID
	ErrDuplicateChain = errors.New("xdraw: duplicate chain id in merge")

	// ErrNilTrace 表示合并条目缺少 trace 视图
	ErrNilTrace = errors.New("xdraw: nil trace view in merge entry")

	// ErrRaggedChains 表示各链长度不一致，无法做等长对齐
	ErrRaggedChains = errors.New("xdraw: chains have unequal lengths")

	// ErrUnknownParam 表示请求的参数名在 trace 中不存在
	ErrUnknownParam = errors.New("xdraw: unknown parameter name")

	// ErrEmptyMerge 表示合并条目列表为空
	ErrEmptyMerge = errors.New("xdraw: no chains to merge")
)
