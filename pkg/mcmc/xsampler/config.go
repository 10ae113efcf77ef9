package xsampler

// Mode 是链的调度模式。
type Mode string

const (
	// ModeSequential 单控制流，链逐条跑完
	ModeSequential Mode = "sequential"

	// ModeParallel 链作为独立 goroutine 并发运行，受 MaxParallel 约束
	ModeParallel Mode = "parallel"
)

// Config 是一次采样调用的配置。
//
// 字段带 koanf 标签，可经 LoadConfig / LoadConfigBytes 从 YAML/JSON 加载。
type Config struct {
	// Chains 链数，必须 >= 1。
	Chains int `koanf:"chains"`

	// Tune 每条链的调优（warm-up）draw 数，必须 >= 0。
	Tune int `koanf:"tune"`

	// Draws 每条链的正式采样 draw 数，必须 >= 0。
	Draws int `koanf:"draws"`

	// Mode 调度模式，默认 sequential。
	Mode Mode `koanf:"mode"`

	// MaxParallel 并行模式下同时运行的链数上限。
	// <= 0 时取 Chains（全部并发）。顺序模式下忽略。
	MaxParallel int `koanf:"max_parallel"`

	// Seed 基础随机种子。各链种子经 xseed.Derive(Seed, chainID) 派生，
	// 与调度顺序无关，保证可复现。
	Seed uint64 `koanf:"seed"`

	// DiscardTuning 为 true 时调优记录不保留在 trace 中。
	DiscardTuning bool `koanf:"discard_tuning"`
}

// DefaultConfig 返回默认配置：4 条链、1000 调优 + 1000 正式 draw、顺序模式。
func DefaultConfig() Config {
	return Config{
		Chains: 4,
		Tune:   1000,
		Draws:  1000,
		Mode:   ModeSequential,
	}
}

// Validate 校验配置。Mode 为空时归一化为 sequential。
func (c *Config) Validate() error {
	if c.Chains < 1 {
		return ErrInvalidChains
	}
	if c.Tune < 0 || c.Draws < 0 {
		return ErrInvalidDraws
	}
	if c.Mode == "" {
		c.Mode = ModeSequential
	}
	if c.Mode != ModeSequential && c.Mode != ModeParallel {
		return ErrInvalidMode
	}
	if c.MaxParallel <= 0 || c.MaxParallel > c.Chains {
		c.MaxParallel = c.Chains
	}
	return nil
}
