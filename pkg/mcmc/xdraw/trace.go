package xdraw

// TraceView 是单链 trace 的只读快照视图。
//
// 视图在创建时固定可见长度：之后链继续追加的 draw 对该视图不可见。
// 所有实现都不得提供修改底层 trace 的途径。
type TraceView interface {
	// ChainID 返回所属链 ID。
	ChainID() int

	// Len 返回视图可见的记录总数（含调优记录）。
	Len() int

	// NonTuningLen 返回视图可见的正式采样记录数。
	NonTuningLen() int

	// At 返回第 i 条可见记录。i 超出 [0, Len()) 时 panic，
	// 与切片下标越界语义一致。
	At(i int) DrawRecord

	// Last 返回最后一条可见记录。视图为空时返回 (零值, false)。
	Last() (DrawRecord, bool)
}

// ChainTrace 是单链的追加式 draw 序列。
//
// 写入方唯一：只有所属 ChainWorker 调用 Append，因此写入不加锁。
// 已追加的记录永不被修改或丢弃；Finalize 之后 trace 封存为只读。
//
// View() 快照持有定容的切片头，不引用活动 trace 的任何可变字段，
// 经同步原语交接后可安全地跨 goroutine 读取（见包文档）。
type ChainTrace struct {
	chainID   int
	records   []DrawRecord
	nonTuning int
	finalized bool
}

// NewChainTrace 创建指定链的空 trace。
func NewChainTrace(chainID int) *ChainTrace {
	return &ChainTrace{chainID: chainID}
}

// Append 追加一条记录并校验不变式：
//   - 记录链 ID 必须等于 trace 链 ID（ErrChainMismatch）
//   - 序号在所属阶段内必须逐 1 递增（ErrIndexGap）
//   - 调优记录不得出现在正式采样记录之后（ErrTuningAfterSampling）
//   - 封存后的 trace 拒绝追加（ErrTraceFinalized）
func (t *ChainTrace) Append(rec DrawRecord) error {
	if t.finalized {
		return ErrTraceFinalized
	}
	if rec.ChainID() != t.chainID {
		return ErrChainMismatch
	}
	if rec.IsTuning() {
		if t.nonTuning > 0 {
			return ErrTuningAfterSampling
		}
		if rec.DrawIndex() != len(t.records) {
			return ErrIndexGap
		}
	} else {
		if rec.DrawIndex() != t.nonTuning {
			return ErrIndexGap
		}
	}

	t.records = append(t.records, rec)
	if !rec.IsTuning() {
		t.nonTuning++
	}
	return nil
}

// Finalize 封存 trace：之后任何 Append 返回 ErrTraceFinalized。
// 幂等，可重复调用。链终止（正常、早停或出错）时由 ChainWorker 调用。
func (t *ChainTrace) Finalize() {
	t.finalized = true
}

// Finalized 报告 trace 是否已封存。
func (t *ChainTrace) Finalized() bool {
	return t.finalized
}

// ChainID 返回所属链 ID。
func (t *ChainTrace) ChainID() int { return t.chainID }

// Len 返回当前记录总数（含调优记录）。
func (t *ChainTrace) Len() int { return len(t.records) }

// NonTuningLen 返回当前正式采样记录数。
func (t *ChainTrace) NonTuningLen() int { return t.nonTuning }

// At 返回第 i 条记录。越界时 panic。
func (t *ChainTrace) At(i int) DrawRecord { return t.records[i] }

// Last 返回最后一条记录。trace 为空时返回 (零值, false)。
func (t *ChainTrace) Last() (DrawRecord, bool) {
	if len(t.records) == 0 {
		return DrawRecord{}, false
	}
	return t.records[len(t.records)-1], true
}

// View 返回定格在当前长度的只读快照视图。
//
// 设计决策: 快照持有定容切片头 records[:n:n] 而非逐条拷贝记录。
// 回调每 draw 都会收到新快照，逐次拷贝是 O(n²) 的；已有下标的元素
// 永不被改写，链后续的追加只写快照容量之外的槽位（或换到新数组），
// 快照因此与活动 trace 不共享任何可变状态，拷贝一个切片头即可。
func (t *ChainTrace) View() TraceView {
	return snapshot{
		chainID:   t.chainID,
		records:   t.records[:len(t.records):len(t.records)],
		nonTuning: t.nonTuning,
	}
}

// 编译时接口检查
var (
	_ TraceView = (*ChainTrace)(nil)
	_ TraceView = snapshot{}
)

// snapshot 定长只读视图实现。只持有自己的定容切片头，
// 读取时不触碰所属 ChainTrace 的可变字段。
type snapshot struct {
	chainID   int
	records   []DrawRecord
	nonTuning int
}

func (s snapshot) ChainID() int      { return s.chainID }
func (s snapshot) Len() int          { return len(s.records) }
func (s snapshot) NonTuningLen() int { return s.nonTuning }

func (s snapshot) At(i int) DrawRecord {
	if i < 0 || i >= len(s.records) {
		panic("xdraw: snapshot index out of range")
	}
	return s.records[i]
}

func (s snapshot) Last() (DrawRecord, bool) {
	if len(s.records) == 0 {
		return DrawRecord{}, false
	}
	return s.records[len(s.records)-1], true
}
