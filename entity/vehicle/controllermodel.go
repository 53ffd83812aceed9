package vehicle

import (
	"math"

	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

// SafeDistance 安全跟车距离模型
// 功能：计算给定速度下的安全跟车距离
// 参数：v-速度（千米/小时），reactionTime-反应时间（秒），friction-路面摩擦系数，gravity-重力加速度（米/秒²）
// 返回：安全跟车距离（米）
// 算法说明：
// 1. 反应距离 = v/3.6 * reactionTime
// 2. 制动距离 = (v/3.6)² / (2 * friction * gravity)
// 3. 返回两者之和，不做下限截断
func SafeDistance(v, reactionTime, friction, gravity float64) float64 {
	ms := v / 3.6
	return ms*reactionTime + ms*ms/(2*friction*gravity)
}

// RequiredGap 所需车距，即安全跟车距离与最小车距的较大值
func RequiredGap(d config.Driver, v float64) float64 {
	return math.Max(SafeDistance(v, d.ReactionTime, d.FrictionCoefficient, d.Gravity), d.MinGap)
}

func (c *controller) safeDistance(v float64) float64 {
	return SafeDistance(v, c.driver.ReactionTime, c.driver.FrictionCoefficient, c.driver.Gravity)
}

func (c *controller) requiredGap(v float64) float64 {
	return RequiredGap(c.driver, v)
}
