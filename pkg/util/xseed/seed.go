package xseed

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Derive 从基础种子与流编号派生一个确定性的子种子。
//
// 同一 (base, stream) 组合总是返回同一个值；不同的 stream
// 返回的值在统计意义上互不相关。stream 可为任意整数。
func Derive(base uint64, stream int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], base)
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(stream)))
	return xxhash.Sum64(buf[:])
}

// DeriveN 一次派生 n 个子种子，流编号依次为 0..n-1。
// n <= 0 时返回 nil。
func DeriveN(base uint64, n int) []uint64 {
	if n <= 0 {
		return nil
	}
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = Derive(base, i)
	}
	return seeds
}
