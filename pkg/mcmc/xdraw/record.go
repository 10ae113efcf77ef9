package xdraw

import "encoding/json"

// TerminationReason 表示一条链退出采样循环的原因。
//
// 三种原因互斥，链退出时恰有一种成立。
type TerminationReason int

const (
	// ReasonUnknown 零值占位，链尚未终止
	ReasonUnknown TerminationReason = iota

	// ReasonCompleted 所有请求的 draw 均已产出
	ReasonCompleted

	// ReasonStoppedEarly 回调请求早停，已产出的 draw 全部保留
	ReasonStoppedEarly

	// ReasonFailed kernel 或回调发生不可恢复错误
	ReasonFailed
)

// String 返回终止原因的字符串表示。
func (r TerminationReason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonStoppedEarly:
		return "stopped_early"
	case ReasonFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal 报告原因是否为终态（非零值）。
func (r TerminationReason) Terminal() bool {
	return r == ReasonCompleted || r == ReasonStoppedEarly || r == ReasonFailed
}

// DrawRecord 描述一次 kernel 转移产出的单个采样点。
//
// 记录一经 NewDrawRecord 创建即不可变。Values/Stats 在构造时做防御性拷贝，
// 之后调用方对原始 map 的修改不会影响记录。
//
// DrawIndex 在同一阶段（调优 / 正式采样）内从 0 开始逐 1 递增；
// 调优阶段与正式采样阶段各自独立计数，正式采样的序号不受调优长度影响。
type DrawRecord struct {
	chainID   int
	drawIndex int
	isTuning  bool
	values    map[string][]float64
	stats     map[string]float64
}

// NewDrawRecord 创建一个不可变的采样记录。
//
// values 的每个参数取值既可以是标量（长度 1 的切片）也可以是向量。
// values/stats 均允许为 nil，表示该记录不携带对应数据。
func NewDrawRecord(chainID, drawIndex int, isTuning bool, values map[string][]float64, stats map[string]float64) DrawRecord {
	return DrawRecord{
		chainID:   chainID,
		drawIndex: drawIndex,
		isTuning:  isTuning,
		values:    copyValues(values),
		stats:     copyStats(stats),
	}
}

// ChainID 返回产出该记录的链 ID。
func (d DrawRecord) ChainID() int { return d.chainID }

// DrawIndex 返回该记录在所属阶段内的序号（从 0 开始）。
func (d DrawRecord) DrawIndex() int { return d.drawIndex }

// IsTuning 报告该记录是否产自调优（warm-up）阶段。
func (d DrawRecord) IsTuning() bool { return d.isTuning }

// Value 返回指定参数的取值。
// 参数不存在时返回 (nil, false)。返回的切片不得被调用方修改。
//
// 设计决策: 热路径不拷贝返回值。每 draw 每回调都会读取参数值，
// 逐次拷贝的分配开销不可接受；不可变性由构造时拷贝加文档约定保证。
func (d DrawRecord) Value(name string) ([]float64, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Scalar 返回指定参数的标量取值（取向量首元素）。
// 参数不存在或为空向量时返回 (0, false)。
func (d DrawRecord) Scalar(name string) (float64, bool) {
	v, ok := d.values[name]
	if !ok || len(v) == 0 {
		return 0, false
	}
	return v[0], true
}

// Params 返回记录携带的参数名列表（无序）。
func (d DrawRecord) Params() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	return names
}

// Stat 返回指定诊断统计量（如散度标记、接受概率）。
// 统计量不存在时返回 (0, false)。
func (d DrawRecord) Stat(name string) (float64, bool) {
	v, ok := d.stats[name]
	return v, ok
}

// MarshalJSON 实现 json.Marshaler，供下游存储协作方序列化记录。
func (d DrawRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ChainID   int                  `json:"chain_id"`
		DrawIndex int                  `json:"draw_index"`
		IsTuning  bool                 `json:"is_tuning"`
		Values    map[string][]float64 `json:"values,omitempty"`
		Stats     map[string]float64   `json:"stats,omitempty"`
	}{
		ChainID:   d.chainID,
		DrawIndex: d.drawIndex,
		IsTuning:  d.isTuning,
		Values:    d.values,
		Stats:     d.stats,
	})
}

// copyValues 深拷贝参数值 map。nil 输入返回 nil。
func copyValues(src map[string][]float64) map[string][]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[string][]float64, len(src))
	for name, v := range src {
		dst[name] = append([]float64(nil), v...)
	}
	return dst
}

// copyStats 拷贝统计量 map。nil 输入返回 nil。
func copyStats(src map[string]float64) map[string]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[string]float64, len(src))
	for name, v := range src {
		dst[name] = v
	}
	return dst
}
