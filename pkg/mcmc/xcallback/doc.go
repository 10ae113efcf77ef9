// Package xcallback 定义逐 draw 回调协议与内置停止条件。
//
// 每条链在每次 draw 追加到 trace 之后，按注册顺序同步调用注册的回调，
// 入参为 (当前链的只读快照视图, 本次 draw 记录)。回调通过显式的返回值
// 表达控制意图：
//
//   - ActionContinue: 继续采样
//   - ActionStop: 请求在下一个 draw 边界早停本链
//   - 非 nil error: 不可恢复错误，本链以失败终止
//
// # 停止信号不是异常
//
// 早停是刻意的、用户触发的控制信号，与错误传播分离。回调绝不通过
// panic 或哨兵错误表达"停止"——混用外部中断与主动早停会让两者无法区分。
// 错误保留给真正的失败（诊断计算无法进行、用户断言不成立等）。
//
// # 调用顺序与确定性
//
// Registry 内回调按注册顺序调用。对固定的注册表和固定的 draw 序列，
// 重复运行产生相同的调用顺序与相同的入参。某个回调返回 Stop 不会
// 跳过同一 draw 上的后续回调（全部回调看到全部 draw），错误则立即短路。
//
// # 状态与并发
//
// 回调实例的内部状态归实例私有。一个 Registry 会被多条链共享：
// 顺序模式下任意时刻只有一条链活跃，无状态竞争；并行模式下回调可能
// 被多条链并发调用，有状态回调必须自行同步（参考 Monitor 的实现）。
// 每次采样调用应构造新的回调与 Registry，不要使用进程级单例。
//
// # 内置回调
//
//   - StopAfter(k): 正式采样长度达到 k 时请求停止
//   - Every(n, cb): 每 n 条记录转发一次给 cb
//   - SkipTuning(cb): 调优阶段的 draw 不转发给 cb
//   - Deadline(d): 超过墙钟时限后请求停止
//   - Monitor: 跨链收敛监视器，周期性调用注入的 Diagnostic
package xcallback
