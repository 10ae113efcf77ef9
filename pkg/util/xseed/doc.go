// Package xseed 提供确定性的随机种子派生。
//
// 多链采样要求各链的随机源相互独立且可复现：同一基础种子在任何
// 调度顺序、任何并发度下都必须为同一条链派生出同一个子种子。
// xseed 用 xxHash 从 (基础种子, 流编号) 派生子种子，满足这一要求。
//
// # 使用示例
//
//	for i := 0; i < chains; i++ {
//		rng := rand.New(rand.NewPCG(xseed.Derive(base, i), 0))
//	}
//
// # 设计决策
//
//  1. 派生只依赖输入值，不依赖调用顺序或全局状态
//  2. 用 xxHash 而非简单偏移（base+i）：相邻种子的低位模式可能
//     与弱随机源的内部状态产生关联，哈希打散后无此问题
//  3. 基础种子为 0 时同样有效，0 不是哨兵值
package xseed
