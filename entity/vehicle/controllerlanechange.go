package vehicle

import (
	"math"

	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

// AcceptGap 间隙接受模型
// 功能：检查目标车道在给定安全裕度下是否允许变入
// 参数：d-驾驶员参数，target-目标车道快照，s-本车位置，v-本车速度，relaxation-安全距离放宽系数（1为不放宽）
// 返回：目标车道上没有车辆与本车的距离小于max(安全距离*relaxation, 最小车距)时返回true
func AcceptGap(d config.Driver, target entity.ILane, s, v, relaxation float64) bool {
	safe := SafeDistance(v, d.ReactionTime, d.FrictionCoefficient, d.Gravity)
	required := math.Max(safe*relaxation, d.MinGap)
	return !target.AnyWithin(s, required)
}

func (c *controller) canChangeLane(rt *runtime, target int, relaxation float64) bool {
	return AcceptGap(c.driver, c.lanes.Get(target), rt.S, rt.V, relaxation)
}

// planLaneChange 变道决策
// 功能：冷却结束后按车道角色执行变道状态机，每步至多变道一次
// 参数：rt-本步运行时数据，dt-时间步长，t-当前时间
// 算法说明：
// 1. 外侧车道已到达合流点：停车等待，每步以一定概率尝试并入
// 2. 行驶距离达到决策间隔时（评估后清零）：
//   - 外侧车道未到合流点：尝试并入，临近合流点时放宽安全距离，仍失败则开始减速
//   - 内侧车道：取消减速，漂移车道以一定概率向中心漂移
//
// 3. 二次合流：刚从最外侧并入的车辆，等待片刻后再向内变道一次
func (c *controller) planLaneChange(rt *runtime, dt, t float64) {
	if c.road.Role(rt.Lane) != entity.RoleInterior {
		boundary := c.road.MergeBoundary(rt.Lane)
		if rt.S >= boundary {
			c.waitForMerge(rt, t)
		} else if rt.Accumulated >= c.lc.DecisionDistance {
			rt.Accumulated = 0
			c.mergeBeforeBoundary(rt, boundary, t)
		}
	} else if rt.Accumulated >= c.lc.DecisionDistance {
		rt.Accumulated = 0
		rt.SlowDown = false
		c.drift(rt, t)
	}
	if !rt.Changed {
		c.cascade(rt, dt, t)
	}
}

// mergeBeforeBoundary 合流点前主动并入
func (c *controller) mergeBeforeBoundary(rt *runtime, boundary, t float64) {
	target, _ := c.road.MergeTarget(rt.Lane)
	if c.canChangeLane(rt, target, 1) {
		c.commit(rt, target, StateForcedMerge, t)
		return
	}
	remaining := boundary - rt.S
	if remaining < c.lc.EmergencyDistance && c.canChangeLane(rt, target, c.lc.EmergencyRelaxation) {
		log.Debugf("vehicle %d: emergency merge %d->%d at %.1f (%.1fm to boundary)",
			c.self.id, rt.Lane, target, rt.S, remaining)
		c.commit(rt, target, StateForcedMerge, t)
		return
	}
	if remaining < c.lc.SlowDownDistance {
		rt.SlowDown = true
	}
}

// waitForMerge 在合流点停车等待并入
// 说明：停车后每步重试，间隙满足时以ForcedMergeProbability的概率成功
func (c *controller) waitForMerge(rt *runtime, t float64) {
	if !rt.Stopped {
		log.Debugf("vehicle %d: stop at %.1f in lane %d", c.self.id, rt.S, rt.Lane)
		rt.Stopped = true
	}
	rt.V = 0
	target, _ := c.road.MergeTarget(rt.Lane)
	if c.canChangeLane(rt, target, 1) && c.generator.PTrue(c.lc.ForcedMergeProbability) {
		rt.Stopped = false
		c.commit(rt, target, StateForcedMerge, t)
	}
}

// drift 内侧车道向中心漂移
func (c *controller) drift(rt *runtime, t float64) {
	target, ok := c.road.DriftTarget(rt.Lane)
	if !ok {
		return
	}
	if c.canChangeLane(rt, target, 1) && c.generator.PTrue(c.lc.DriftProbability) {
		c.commit(rt, target, StateDrift, t)
	}
}

// cascade 二次合流
// 功能：从最外侧并入次外侧车道的车辆，等待SettleDelay后每步尝试再向内变道一次，
// 直到成功或越过次外侧车道的合流点
func (c *controller) cascade(rt *runtime, dt, t float64) {
	for _, side := range []entity.Side{entity.LowSide, entity.HighSide} {
		if !rt.Cascade[side] {
			continue
		}
		lane := c.road.IntermediateLane(side)
		if rt.Lane != lane || rt.S >= c.road.MergeBoundary(lane) {
			// 已离开次外侧车道或已到合流点，由其他分支处理
			rt.Cascade[side] = false
			rt.Settle = settleTimer{}
			continue
		}
		if !rt.Settle.Active {
			rt.Settle = settleTimer{Active: true, Remaining: c.lc.SettleDelay}
		}
		if rt.Settle.Remaining > 0 {
			rt.Settle.Remaining -= dt
			continue
		}
		target, _ := c.road.MergeTarget(lane)
		if c.canChangeLane(rt, target, 1) {
			c.commit(rt, target, StateForcedMerge, t)
			return
		}
	}
}

// commit 执行变道
// 功能：记录变道起点，切换车道，进入冷却
// 参数：rt-本步运行时数据，target-目标车道，state-显示状态，t-当前时间
// 说明：上一次变道已结束（或从未变道）时开始新的变道过程；
// 从最外侧并入次外侧车道时标记二次合流，其他变道清除二次合流标记
func (c *controller) commit(rt *runtime, target int, state DisplayState, t float64) {
	from := rt.Lane
	if !rt.Start.Valid || rt.End.Valid {
		rt.Start = Mark{Valid: true, S: rt.S - rt.V/3.6*c.lc.SettleOffset, Lane: from, T: t}
		rt.End = Mark{}
	}
	rt.Lane = target
	rt.Cooldown = c.lc.CooldownTicks
	rt.SlowDown = false
	rt.Changed = true
	rt.State = state
	// 任何一次变道都结束之前等待的二次合流
	rt.Cascade = [2]bool{}
	rt.Settle = settleTimer{}
	if side, ok := c.road.CascadeSide(from, target); ok {
		rt.Cascade[side] = true
	}
	log.Debugf("vehicle %d: %v %d->%d at %.1f, t=%.1f", c.self.id, state, from, target, rt.S, t)
}

// tickCooldown 冷却计时
// 说明：变道当步不计时，因此变道结束标记恰好在CooldownTicks步之后出现
func (c *controller) tickCooldown(rt *runtime, t float64) {
	if rt.Cooldown <= 0 || rt.Changed {
		return
	}
	rt.Cooldown--
	if rt.Cooldown == 0 && rt.Start.Valid && !rt.End.Valid {
		rt.End = Mark{Valid: true, S: rt.S, Lane: rt.Lane, T: t}
		rt.State = StateDefault
		log.Debugf("vehicle %d: maneuver %d->%d done, start=(%.1f, %.1f) end=(%.1f, %.1f)",
			c.self.id, rt.Start.Lane, rt.End.Lane, rt.Start.S, rt.Start.T, rt.End.S, rt.End.T)
	}
}
