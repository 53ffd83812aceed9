package vehicle

import (
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/randengine"
)

// controller 车辆控制器
// 功能：跟车速度控制与变道决策，只读取上一步结束时的快照
type controller struct {
	self      *Vehicle            // 模块所在车辆
	driver    config.Driver       // 驾驶员参数
	lc        config.LaneChange   // 变道参数
	road      entity.IRoad        // 走廊几何
	lanes     entity.ILaneManager // 车道快照
	generator *randengine.Engine  // 随机数生成器
}

// newController 创建车辆控制器
// 参数：self-车辆实体
func newController(self *Vehicle) *controller {
	cfg := self.ctx.RuntimeConfig().All
	return &controller{
		self:      self,
		driver:    cfg.Driver,
		lc:        cfg.LaneChange,
		road:      self.ctx.Road(),
		lanes:     self.ctx.LaneManager(),
		generator: self.generator,
	}
}

// leaderGap 前车查找
// 功能：在快照中查找同车道位置严格大于本车的最近车辆
// 返回：前车（不存在则为nil）与距离；没有前车时距离为到路段终点的距离
func (c *controller) leaderGap(rt *runtime) (entity.IVehicle, float64) {
	if leader := c.lanes.Ahead(rt.Lane, rt.S); leader != nil {
		return leader, leader.S() - rt.S
	}
	return nil, c.road.FreeDistance(rt.S)
}
