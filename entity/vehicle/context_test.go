package vehicle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/highway-merge-sim/clock"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity/lane"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity/road"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

// testContext 测试用任务上下文，默认关闭随机生成新车
type testContext struct {
	clock    *clock.Clock
	road     *road.Road
	lanes    *lane.LaneManager
	vehicles *VehicleManager
	rc       *config.RuntimeConfig
}

func newTestContext(t *testing.T, mutate func(c *config.Config)) *testContext {
	c := config.Default()
	c.Control.Seed = 1
	c.Spawn.Probability = 0
	if mutate != nil {
		mutate(&c)
	}
	rc, err := config.NewRuntimeConfig(c)
	require.NoError(t, err)
	r, err := road.New(c.Road)
	require.NoError(t, err)
	ctx := &testContext{
		clock: clock.New(c.Control.Step),
		road:  r,
		lanes: lane.NewManager(r),
		rc:    rc,
	}
	ctx.vehicles = NewManager(ctx)
	return ctx
}

func (ctx *testContext) Clock() *clock.Clock                    { return ctx.clock }
func (ctx *testContext) Road() entity.IRoad                     { return ctx.road }
func (ctx *testContext) LaneManager() entity.ILaneManager       { return ctx.lanes }
func (ctx *testContext) VehicleManager() entity.IVehicleManager { return ctx.vehicles }
func (ctx *testContext) RuntimeConfig() *config.RuntimeConfig   { return ctx.rc }

func (ctx *testContext) prepare() {
	ctx.clock.Tick()
	ctx.vehicles.PrepareNode()
	ctx.vehicles.Prepare()
	ctx.lanes.Prepare()
}

func (ctx *testContext) update() {
	ctx.vehicles.Update(ctx.clock.DT)
}

func (ctx *testContext) step() {
	ctx.prepare()
	ctx.update()
}

// park 让车辆停在原地，不再做任何决策（停车的车辆不累计行驶距离）
func park(v *Vehicle) {
	v.runtime.Stopped = true
	v.runtime.V = 0
}
