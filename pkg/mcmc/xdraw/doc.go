// Package xdraw 提供 MCMC 采样的核心数据模型。
//
// xdraw 定义三个层次的数据实体：
//
//   - DrawRecord: 单个采样点，含链 ID、draw 序号、调优标记、参数值和诊断统计
//   - ChainTrace: 单链的追加式 draw 序列，由且仅由其 ChainWorker 写入
//   - MergedTrace: 跨链合并视图，记录每条链的实际长度与终止原因
//
// # 核心接口
//
// TraceView 是 ChainTrace 的只读快照视图，回调通过它观察链的累计状态，
// 无法通过视图修改底层 trace。视图在创建时固定长度上界，
// 之后链继续追加的 draw 对该视图不可见。
//
// # 不可变性
//
// DrawRecord 一经创建即不可变：NewDrawRecord 对 Values/Stats 做防御性拷贝，
// 访问器返回内部数据的只读语义引用。ChainTrace 只支持追加，
// 已追加的记录永不被修改或丢弃。
//
// # 并发安全
//
// ChainTrace 的写入方唯一（所属 ChainWorker），Append 不加锁。
// View 快照持有定容的切片头，与活动 trace 不共享任何可变状态：
// 已有下标的元素永不被改写，所属链继续追加的 draw 不触及快照可见的
// 槽位。快照值本身按 Go 的常规发布规则跨 goroutine 交接（如经互斥锁，
// 参考 xcallback.Monitor），之后的读取是安全的。
//
// # 合并语义
//
// MergedTrace 不假设各链等长：早停可能导致链长参差。AlignedValues
// 在链长不一致时返回 ErrRaggedChains，而不是静默截断或填充——
// 参差长度下的对齐策略由调用方显式决定。
package xdraw
