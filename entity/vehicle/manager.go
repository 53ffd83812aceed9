package vehicle

import (
	"cmp"
	"slices"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/container"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/randengine"
)

// VehicleManager Vehicle管理器
// 功能：管理走廊上的全部车辆，负责车辆生成、驶出移除、碰撞检测与统计
// 说明：更新阶段所有车辆基于同一快照更新，车辆增删只在准备阶段串行执行
type VehicleManager struct {
	ctx entity.ITaskContext

	generator *randengine.Engine // 生成新车用的随机数生成器，也是车辆随机数生成器的根

	vehicles *container.IncrementalArray[*Vehicle]
	inserted []*Vehicle // 新加入的车辆
	nextID   int32

	spawned int // 本步生成的车辆数
	passed  int // 累计驶出的车辆数
	stats   entity.StepStats
}

// NewManager 创建Vehicle管理器
// 参数：ctx-任务上下文
func NewManager(ctx entity.ITaskContext) *VehicleManager {
	m := &VehicleManager{ctx: ctx}
	m.Init()
	return m
}

// Init 初始化
// 功能：清空所有车辆并按配置的种子重置随机数生成器
// 说明：已有车辆的链表节点在下一次车道Prepare时移除
func (m *VehicleManager) Init() {
	if m.vehicles != nil {
		for _, v := range m.vehicles.Data() {
			v.detach()
		}
	}
	m.generator = randengine.New(m.ctx.RuntimeConfig().C.Seed)
	m.vehicles = container.NewIncrementalArray[*Vehicle]()
	m.inserted = make([]*Vehicle, 0)
	m.nextID = 0
	m.spawned = 0
	m.passed = 0
	m.stats = entity.StepStats{}
}

// Spawn 在指定位置加入一辆车（下一次准备阶段生效）
// 参数：lane-车道，s-位置，v-速度，aggressive-是否激进
// 返回：新车辆
func (m *VehicleManager) Spawn(lane int, s, v float64, aggressive bool) *Vehicle {
	if _, err := m.ctx.LaneManager().GetOrError(lane); err != nil {
		log.Panicf("spawn vehicle: %v", err)
	}
	id := m.nextID
	m.nextID++
	veh := newVehicle(m.ctx, id, lane, s, v, aggressive, m.generator.Derive(uint64(id)))
	m.inserted = append(m.inserted, veh)
	return veh
}

// spawn 生成策略：以一定概率在入口随机车道生成一辆车
func (m *VehicleManager) spawn() {
	cfg := m.ctx.RuntimeConfig().All.Spawn
	if !m.generator.PTrue(cfg.Probability) {
		return
	}
	lane := m.generator.Intn(m.ctx.Road().LaneCount())
	aggressive := m.generator.PTrue(cfg.AggressiveProbability)
	veh := m.Spawn(lane, 0, cfg.Speed, aggressive)
	log.Debugf("spawn %v (aggressive=%v)", veh, aggressive)
}

// PrepareNode 准备阶段：车辆增删与链表节点更新
func (m *VehicleManager) PrepareNode() {
	m.spawn()
	m.spawned = len(m.inserted)
	for _, veh := range m.inserted {
		m.vehicles.Add(veh)
	}
	m.inserted = m.inserted[:0]
	m.vehicles.Prepare()

	parallel.GoFor(m.vehicles.Data(), func(v *Vehicle) { v.prepareNode() })
}

// Prepare 准备阶段：快照更新
func (m *VehicleManager) Prepare() {
	parallel.GoFor(m.vehicles.Data(), func(v *Vehicle) { v.prepare() })
}

// Update 更新阶段
// 功能：所有车辆基于快照更新，之后移除驶出走廊的车辆、检测碰撞并统计
// 参数：dt-时间步长（秒）
func (m *VehicleManager) Update(dt float64) {
	vehicles := m.vehicles.Data()
	if m.ctx.RuntimeConfig().C.Parallel {
		parallel.GoFor(vehicles, func(v *Vehicle) { v.update(dt) })
	} else {
		for _, v := range vehicles {
			v.update(dt)
		}
	}

	active, passed := lo.FilterReject(vehicles, func(v *Vehicle, _ int) bool { return !v.passed() })
	for _, v := range passed {
		v.detach()
		m.vehicles.Remove(v)
		log.Debugf("vehicle %d passed at t=%.1f", v.id, m.ctx.Clock().T)
	}
	m.passed += len(passed)

	pairs := DetectCollisions(active, m.ctx.RuntimeConfig().All.Collision.Distance)

	m.stats = entity.StepStats{
		Step:           m.ctx.Clock().InternalStep,
		T:              m.ctx.Clock().T,
		Active:         len(active),
		Spawned:        m.spawned,
		LaneChanges:    lo.CountBy(vehicles, func(v *Vehicle) bool { return v.runtime.Changed }),
		Passed:         m.passed,
		CollisionPairs: pairs,
		Stopped:        lo.CountBy(active, func(v *Vehicle) bool { return v.runtime.Stopped }),
	}
}

// Stats 最近一步的统计数据
func (m *VehicleManager) Stats() entity.StepStats {
	return m.stats
}

// Vehicles 在路车辆（不含本步已驶出的车辆），按ID排序
func (m *VehicleManager) Vehicles() []*Vehicle {
	res := lo.Filter(m.vehicles.Data(), func(v *Vehicle, _ int) bool { return !v.passed() })
	slices.SortFunc(res, func(a, b *Vehicle) int { return cmp.Compare(a.id, b.id) })
	return res
}

// Motions 在路车辆的输出数据，按ID排序
func (m *VehicleManager) Motions() []output.VehicleMotion {
	return lo.Map(m.Vehicles(), func(v *Vehicle, _ int) output.VehicleMotion { return v.ToMotion() })
}
