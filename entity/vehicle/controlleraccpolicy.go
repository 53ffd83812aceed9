package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/randengine"
)

// AccSignal 加减速信号
type AccSignal int

const (
	Decelerate AccSignal = -1 // 减速一档
	Hold       AccSignal = 0  // 保持
	Accelerate AccSignal = 1  // 加速一档
)

// AccelerationSignal 随机加减速决策
// 功能：根据与前车的距离和驾驶风格给出加减速信号
// 参数：d-驾驶员参数，v-当前速度，gap-与前车的距离，aggressive-是否激进，e-随机数引擎
// 返回：加减速信号
// 算法说明：
// 1. 距离小于所需车距：减速
// 2. 加速一档后仍不超过最大速度，且加速后的安全距离不超过gap：
// 以激进/非激进对应的概率加速，否则保持（仅在此分支抽样一次）
// 3. 其他情况保持
func AccelerationSignal(d config.Driver, v, gap float64, aggressive bool, e *randengine.Engine) AccSignal {
	if gap < RequiredGap(d, v) {
		return Decelerate
	}
	faster := v + d.SpeedStep
	if faster <= d.MaxSpeed && SafeDistance(faster, d.ReactionTime, d.FrictionCoefficient, d.Gravity) <= gap {
		p := d.CautiousAccelProbability
		if aggressive {
			p = d.AggressiveAccelProbability
		}
		if e.PTrue(p) {
			return Accelerate
		}
	}
	return Hold
}

// applySignal 按信号调整速度，结果限制在[0, maxSpeed]
func applySignal(d config.Driver, v float64, signal AccSignal) float64 {
	return lo.Clamp(v+float64(signal)*d.SpeedStep, 0, d.MaxSpeed)
}

// nextSpeed 速度更新
// 功能：按优先级决定本步速度
// 参数：rt-本步运行时数据，gap-与前车（或路段终点）的距离
// 返回：新速度
// 算法说明：
// 1. 距离足够：加速一档，不超过最大速度
// 2. 合流前减速：减速，不低于减速下限
// 3. 内侧车道：加速一档
// 4. 其他：随机加减速决策
func (c *controller) nextSpeed(rt *runtime, gap float64) float64 {
	switch {
	case gap >= c.requiredGap(rt.V):
		return math.Min(rt.V+c.driver.SpeedStep, c.driver.MaxSpeed)
	case rt.SlowDown:
		return math.Max(rt.V-c.driver.SlowDownStep, c.driver.SlowDownFloor)
	case c.road.Role(rt.Lane) == entity.RoleInterior:
		return math.Min(rt.V+c.driver.SpeedStep, c.driver.MaxSpeed)
	default:
		signal := AccelerationSignal(c.driver, rt.V, gap, c.self.aggressive, c.generator)
		return applySignal(c.driver, rt.V, signal)
	}
}
