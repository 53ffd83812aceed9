package task

import (
	"flag"
	"sync"

	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出上一步的统计信息
// 3. 车辆管理器：生成新车、执行增删、更新车道链表节点
// 4. 并行准备：车辆快照与车道重排互不依赖，并发执行
//
// 说明：确保更新阶段开始前所有车辆读到的是同一份快照
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if interval := int32(*heartBeatInterval); interval > 0 && ctx.clock.InternalStep%interval == 0 {
		stats := ctx.vehicleManager.Stats()
		log.Infof(
			"STEP: %d(%v) vehicles=%d changed=%d passed=%d crashes=%d stopped=%d",
			ctx.clock.InternalStep, ctx.clock,
			stats.Active, stats.LaneChanges, stats.Passed, stats.CollisionPairs, stats.Stopped,
		)
	}

	ctx.vehicleManager.PrepareNode()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.vehicleManager.Prepare() // vehicle
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.laneManager.Prepare() // lane
	}()
	wg.Wait()
}

// update 更新阶段，每步执行一次
// 功能：更新所有车辆并输出本步的帧
// 说明：输出失败只记录错误，不中断仿真
func (ctx *Context) update() {
	ctx.vehicleManager.Update(ctx.clock.DT)

	if len(ctx.recorders) == 0 {
		return
	}
	if err := ctx.recorders.Record(ctx.Frame()); err != nil {
		log.Errorf("step %d: record frame: %v", ctx.clock.InternalStep, err)
	}
}

// Frame 最近一步结束后的输出帧
func (ctx *Context) Frame() *output.Frame {
	stats := ctx.vehicleManager.Stats()
	return &output.Frame{
		Job:            ctx.job,
		Step:           stats.Step,
		T:              stats.T,
		Active:         stats.Active,
		Spawned:        stats.Spawned,
		LaneChanges:    stats.LaneChanges,
		Passed:         stats.Passed,
		CollisionPairs: stats.CollisionPairs,
		Stopped:        stats.Stopped,
		Vehicles:       ctx.vehicleManager.Motions(),
	}
}

// RunSteps 推进n步，n<=0时不做任何事
// 返回：实际推进的步数
func (ctx *Context) RunSteps(n int32) int32 {
	var i int32
	for ; i < n && !ctx.closed.Load(); i++ {
		ctx.prepare()
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
	}
	return i
}

// Run 运行
// 功能：从起始步运行到结束步，然后关闭输出
func (ctx *Context) Run() {
	ctx.Init()
	n := ctx.RunSteps(ctx.clock.Remaining())
	log.Infof("engine complete after %d steps", n)
	if err := ctx.Close(); err != nil {
		log.Errorf("close recorders: %v", err)
	}
}
