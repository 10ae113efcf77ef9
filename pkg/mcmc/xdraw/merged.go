package xdraw

import (
	"fmt"
	"sort"
	"strings"
)

// ChainEntry 是 MergedTrace 中一条链的条目。
type ChainEntry struct {
	// ChainID 链 ID。
	ChainID int

	// Trace 该链的 trace 视图。终态结果中为封存后的完整 trace；
	// 收敛监视等中途合并场景中为部分快照。
	Trace TraceView

	// Reason 终止原因。中途合并时为 ReasonUnknown。
	Reason TerminationReason

	// Err 终止原因为 ReasonFailed 时的具体错误，否则为 nil。
	Err error
}

// MergedTrace 是跨链合并视图。
//
// 合并不假设各链等长：每条链记录自己的实际长度，不截断也不填充。
// 条目按链 ID 升序排列，保证遍历顺序确定。
type MergedTrace struct {
	entries []ChainEntry
}

// NewMergedTrace 从条目列表构建合并视图。
//
// 条目列表不得为空（ErrEmptyMerge），链 ID 不得重复（ErrDuplicateChain），
// 每个条目必须携带 trace 视图（ErrNilTrace）。条目按链 ID 排序后存储。
func NewMergedTrace(entries []ChainEntry) (*MergedTrace, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyMerge
	}

	sorted := append([]ChainEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ChainID < sorted[j].ChainID })

	seen := make(map[int]struct{}, len(sorted))
	for _, e := range sorted {
		if e.Trace == nil {
			return nil, fmt.Errorf("%w: chain %d", ErrNilTrace, e.ChainID)
		}
		if _, dup := seen[e.ChainID]; dup {
			return nil, fmt.Errorf("%w: chain %d", ErrDuplicateChain, e.ChainID)
		}
		seen[e.ChainID] = struct{}{}
	}

	return &MergedTrace{entries: sorted}, nil
}

// NumChains 返回链数。
func (m *MergedTrace) NumChains() int {
	return len(m.entries)
}

// Chains 返回按链 ID 升序的条目列表。返回的切片不得被修改。
func (m *MergedTrace) Chains() []ChainEntry {
	return m.entries
}

// Chain 返回指定链的条目。链不存在时返回 (零值, false)。
func (m *MergedTrace) Chain(chainID int) (ChainEntry, bool) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].ChainID >= chainID })
	if i < len(m.entries) && m.entries[i].ChainID == chainID {
		return m.entries[i], true
	}
	return ChainEntry{}, false
}

// Lengths 返回各链的正式采样长度，顺序与 Chains 一致。
func (m *MergedTrace) Lengths() []int {
	lens := make([]int, len(m.entries))
	for i, e := range m.entries {
		lens[i] = e.Trace.NonTuningLen()
	}
	return lens
}

// AllCompleted 报告是否所有链都以 ReasonCompleted 终止。
func (m *MergedTrace) AllCompleted() bool {
	for _, e := range m.entries {
		if e.Reason != ReasonCompleted {
			return false
		}
	}
	return true
}

// AlignedValues 按链对齐提取指定参数的标量序列（仅正式采样记录），
// 返回 chains × draws 的矩阵，行序与 Chains 一致。
//
// 各链长度不一致时返回 ErrRaggedChains；参数在任一记录中缺失时返回
// ErrUnknownParam。这是跨链诊断（如 R-hat）的取数入口：参差长度下的
// 对齐策略有歧义，必须由调用方显式决定，这里只如实上报。
func (m *MergedTrace) AlignedValues(param string) ([][]float64, error) {
	lens := m.Lengths()
	for _, n := range lens[1:] {
		if n != lens[0] {
			return nil, fmt.Errorf("%w: lengths %v", ErrRaggedChains, lens)
		}
	}

	out := make([][]float64, len(m.entries))
	for i, e := range m.entries {
		row := make([]float64, 0, lens[0])
		for j := 0; j < e.Trace.Len(); j++ {
			rec := e.Trace.At(j)
			if rec.IsTuning() {
				continue
			}
			v, ok := rec.Scalar(param)
			if !ok {
				return nil, fmt.Errorf("%w: %q (chain %d, draw %d)", ErrUnknownParam, param, e.ChainID, rec.DrawIndex())
			}
			row = append(row, v)
		}
		out[i] = row
	}
	return out, nil
}

// Summary 返回人类可读的单行摘要，用于日志输出。
func (m *MergedTrace) Summary() string {
	var b strings.Builder
	for i, e := range m.entries {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "chain %d: %d draws (%s)", e.ChainID, e.Trace.NonTuningLen(), e.Reason)
	}
	return b.String()
}
