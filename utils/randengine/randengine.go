// 随机数引擎，包装了golang.org/x/exp/rand，提供仿真中常用的随机数生成方法
package randengine

import (
	"flag"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// 派生子引擎时用于打散种子的乘数（splitmix64常数）
const deriveMultiplier = 0x9e3779b97f4a7c15

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能
// 说明：非线程安全。每辆车持有独立的引擎，因此并行更新时不需要加锁，
// 且抽样序列与车辆更新顺序无关
type Engine struct {
	*rand.Rand        // 底层随机数生成器
	seed       uint64 // 创建时的种子（已包含偏移量）
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改配置的情况下调整随机数序列
func New(seed uint64) *Engine {
	s := seed + *seedOffset
	return &Engine{Rand: rand.New(rand.NewSource(s)), seed: s}
}

// Derive 派生子引擎
// 功能：根据本引擎的种子与给定编号生成互相独立的子引擎
// 参数：id-子引擎编号（如车辆ID）
// 返回：子引擎
// 说明：子引擎的序列只取决于根种子与编号，不消耗本引擎的随机数
func (e *Engine) Derive(id uint64) *Engine {
	s := e.seed*deriveMultiplier + id
	return &Engine{Rand: rand.New(rand.NewSource(s)), seed: s}
}

// PTrue 以指定概率返回true（非线程安全）
// 功能：根据给定概率返回布尔值，消耗一次随机抽样
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
