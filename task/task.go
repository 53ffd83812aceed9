package task

import (
	"fmt"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/highway-merge-sim/clock"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity/lane"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity/road"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态
// 说明：管理走廊、车道、车辆、时钟、配置与输出
type Context struct {

	// 任务名，写入每一帧输出
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 走廊
	road *road.Road
	// Lane管理器
	laneManager *lane.LaneManager
	// Vehicle管理器
	vehicleManager *vehicle.VehicleManager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 每步输出
	recorders output.Recorders
}

// NewContext 创建新的仿真任务上下文
// 功能：校验配置并创建所有管理器
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - recorders: 每步输出的接收者，可以为空
//
// 返回：初始化完成的Context实例；配置不一致时返回错误
func NewContext(job string, c config.Config, recorders output.Recorders) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	r, err := road.New(c.Road)
	if err != nil {
		return nil, fmt.Errorf("invalid road: %w", err)
	}
	ctx := &Context{
		job:           job,
		clock:         clock.New(c.Control.Step),
		road:          r,
		runtimeConfig: rc,
		recorders:     recorders,
	}
	ctx.laneManager = lane.NewManager(ctx.road)
	ctx.vehicleManager = vehicle.NewManager(ctx)
	return ctx, nil
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Road() entity.IRoad {
	return ctx.road
}

func (ctx *Context) LaneManager() entity.ILaneManager {
	return ctx.laneManager
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Job() string {
	return ctx.job
}

// Meta 走廊描述，供输出端在第一帧之前使用
func (ctx *Context) Meta() output.Meta {
	return Meta(ctx.job, ctx.runtimeConfig.All)
}

// Meta 根据配置生成走廊描述
func Meta(job string, c config.Config) output.Meta {
	return output.Meta{
		Job:                job,
		LaneCount:          c.Road.LaneCount,
		SegmentLengths:     c.Road.SegmentLengths,
		TotalLength:        c.Road.TotalLength(),
		MergeBoundaryOuter: c.Road.MergeBoundaryOuter,
		MergeBoundaryInner: c.Road.MergeBoundaryInner,
		DT:                 c.Control.Step.Interval,
	}
}

// Init 重置时钟与车辆
func (ctx *Context) Init() {
	ctx.clock.Init()
	ctx.vehicleManager.Init()
	ctx.laneManager.Prepare()

	log.Infof("Job: %v", ctx.job)
	log.Infof("Road: %v", ctx.road)
	log.Infof("Step: [%d, %d) x %vs", ctx.clock.START_STEP, ctx.clock.END_STEP, ctx.clock.DT)
}

// Close 关闭所有输出，重复调用无效
func (ctx *Context) Close() error {
	if ctx.closed.Swap(true) {
		return nil
	}
	return ctx.recorders.Close()
}
