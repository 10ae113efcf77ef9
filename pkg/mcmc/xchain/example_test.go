package xchain_test

import (
	"context"
	"fmt"

	"github.com/omeyang/mckit/pkg/mcmc/xcallback"
	"github.com/omeyang/mckit/pkg/mcmc/xchain"
)

func Example() {
	// 确定性 kernel：mu 取产出序数
	step := 0
	kernel := xchain.KernelFunc(func(_ context.Context, _ bool) (map[string][]float64, map[string]float64, error) {
		v := float64(step)
		step++
		return map[string][]float64{"mu": {v}}, nil, nil
	})

	// 正式采样长度达到 3 时早停
	stop, err := xcallback.StopAfter(3)
	if err != nil {
		panic(err)
	}
	reg, err := xcallback.NewRegistry(stop)
	if err != nil {
		panic(err)
	}

	worker, err := xchain.NewWorker(0)
	if err != nil {
		panic(err)
	}

	res := worker.Run(context.Background(), 0, 100, kernel, reg)
	fmt.Println("reason:", res.Reason)
	fmt.Println("draws:", res.Trace.NonTuningLen())

	// Output:
	// reason: stopped_early
	// draws: 3
}
