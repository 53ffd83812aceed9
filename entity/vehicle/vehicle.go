package vehicle

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/container"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/randengine"
)

// Vehicle 车辆实体
// 功能：走廊上的一辆车，维护速度、位置、变道状态机与轨迹
// 说明：其他车辆只通过entity.IVehicle读取本车的快照（上一步结束时的状态），
// 本车在更新阶段只修改自己的runtime
type Vehicle struct {
	container.IncrementalItemBase
	ctx entity.ITaskContext

	// 静态属性
	id         int32
	aggressive bool
	length     float64

	generator  *randengine.Engine // 随机数生成器，由根种子与ID派生
	controller *controller

	runtime  runtime // 运行时数据
	snapshot runtime // 快照

	node     *entity.VehicleNode // 车道链表节点
	nodeLane int                 // 节点所在车道，-1表示不在任何车道中
}

// newVehicle 创建车辆
// 参数：ctx-任务上下文，id-车辆ID，lane-车道，s-位置，v-速度，aggressive-是否激进，generator-随机数生成器
// 返回：车辆实例，节点在下一次准备阶段加入车道
func newVehicle(
	ctx entity.ITaskContext,
	id int32, lane int, s, v float64, aggressive bool,
	generator *randengine.Engine,
) *Vehicle {
	veh := &Vehicle{
		ctx:        ctx,
		id:         id,
		aggressive: aggressive,
		length:     ctx.RuntimeConfig().All.Driver.Length,
		generator:  generator,
		runtime: runtime{
			Lane: lane,
			S:    s,
			V:    v,
		},
		nodeLane: -1,
	}
	veh.snapshot = veh.runtime
	veh.node = &entity.VehicleNode{S: s, Value: veh}
	veh.controller = newController(veh)
	return veh
}

// prepareNode 准备阶段：按runtime更新链表节点
// 说明：换道时从原车道移除并加入新车道，均在车道Prepare时生效
func (v *Vehicle) prepareNode() {
	lanes := v.ctx.LaneManager()
	v.node.S = v.runtime.S
	if v.nodeLane != v.runtime.Lane {
		if v.nodeLane >= 0 {
			lanes.Get(v.nodeLane).RemoveVehicle(v.node)
		}
		lanes.Get(v.runtime.Lane).AddVehicle(v.node)
		v.nodeLane = v.runtime.Lane
	}
}

// prepare 准备阶段：更新快照
func (v *Vehicle) prepare() {
	v.snapshot = v.runtime
}

// detach 将节点移出所在车道（Prepare后生效）
func (v *Vehicle) detach() {
	if v.nodeLane >= 0 {
		v.ctx.LaneManager().Get(v.nodeLane).RemoveVehicle(v.node)
		v.nodeLane = -1
	}
}

// update 更新阶段
// 功能：基于快照执行一步车辆更新
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 前车查找（原车道快照）
// 2. 速度更新（停车时跳过）
// 3. 累计行驶距离
// 4. 冷却结束时进行变道决策
// 5. 冷却计时，结束时记录变道终点
// 6. 位置更新（停车时跳过）：不超过前车位置减所需车距，且不后退
// 7. 记录轨迹
func (v *Vehicle) update(dt float64) {
	c := v.controller
	t := v.ctx.Clock().T
	rt := v.runtime
	rt.Changed = false
	rt.Collided = false

	leader, gap := c.leaderGap(&rt)
	if !rt.Stopped {
		rt.V = c.nextSpeed(&rt, gap)
		rt.Accumulated += rt.V / 3.6 * dt
	}
	if rt.Cooldown == 0 {
		c.planLaneChange(&rt, dt, t)
	}
	c.tickCooldown(&rt, t)
	if !rt.Stopped {
		s := rt.S + rt.V/3.6*dt
		if leader != nil {
			s = math.Min(s, leader.S()-c.requiredGap(rt.V))
		}
		rt.S = math.Max(rt.S, s)
	}
	rt.Trace.push(TracePoint{S: rt.S, Lane: rt.Lane})

	v.runtime = rt
}

// passed 本步结束时是否已驶出走廊
func (v *Vehicle) passed() bool {
	return v.runtime.S > v.ctx.Road().TotalLength()
}

// ToMotion 转换为输出格式（本步更新后的状态）
func (v *Vehicle) ToMotion() output.VehicleMotion {
	rt := &v.runtime
	return output.VehicleMotion{
		ID:         v.id,
		Lane:       rt.Lane,
		S:          rt.S,
		V:          rt.V,
		L:          v.length,
		Aggressive: v.aggressive,
		Stopped:    rt.Stopped,
		SlowDown:   rt.SlowDown,
		Collided:   rt.Collided,
		State:      rt.State.String(),
		Color:      rt.State.Color(v.aggressive, rt.Collided),
		Start:      rt.Start.toOutput(),
		End:        rt.End.toOutput(),
		Trace: lo.Map(rt.Trace.Points(), func(p TracePoint, _ int) output.TracePoint {
			return output.TracePoint{S: p.S, Lane: p.Lane}
		}),
	}
}

// getter（读取快照）

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) Lane() int {
	return v.snapshot.Lane
}

func (v *Vehicle) S() float64 {
	return v.snapshot.S
}

func (v *Vehicle) V() float64 {
	return v.snapshot.V
}

func (v *Vehicle) Length() float64 {
	return v.length
}

func (v *Vehicle) Stopped() bool {
	return v.snapshot.Stopped
}

func (v *Vehicle) Aggressive() bool {
	return v.aggressive
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{id:%d, lane:%d, s:%.2f, v:%.1f}", v.id, v.snapshot.Lane, v.snapshot.S, v.snapshot.V)
}
