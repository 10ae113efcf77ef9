package main

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/omeyang/mckit/pkg/mcmc/xchain"
)

// normalWalkKernel 是标准正态目标上的随机游走 Metropolis 转移核。
//
// 调优阶段按接受/拒绝微调步长，使接受率收敛到合理区间；
// 正式采样阶段步长冻结，保证链的平稳分布不变。
type normalWalkKernel struct {
	rng  *rand.Rand
	x    float64
	step float64
}

func newNormalWalkKernel(seed uint64) *normalWalkKernel {
	return &normalWalkKernel{
		rng:  rand.New(rand.NewPCG(seed, 0)),
		step: 1.0,
	}
}

// Step 实现 xchain.Kernel。
func (k *normalWalkKernel) Step(_ context.Context, tuning bool) (map[string][]float64, map[string]float64, error) {
	proposal := k.x + k.step*k.rng.NormFloat64()

	// log 接受率 = logp(x') - logp(x)，标准正态下即 (x² - x'²)/2
	logAccept := (k.x*k.x - proposal*proposal) / 2
	accepted := 0.0
	if logAccept >= 0 || k.rng.Float64() < math.Exp(logAccept) {
		k.x = proposal
		accepted = 1.0
	}

	if tuning {
		// 乘性步长调整，接受时放大、拒绝时缩小。
		// 系数比约 1.1/1.04^2.6 ≈ 1，均衡点在接受率 ~0.7 附近，
		// 对一维随机游走足够
		if accepted == 1 {
			k.step *= 1.1
		} else {
			k.step /= 1.04
		}
	}

	return map[string][]float64{"x": {k.x}},
		map[string]float64{"accept": accepted, "step_size": k.step},
		nil
}

var _ xchain.Kernel = (*normalWalkKernel)(nil)
