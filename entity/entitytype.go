package entity

import (
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/container"
)

// 合流侧：以车道0所在一侧为Low，以车道n-1所在一侧为High
type Side int

const (
	LowSide  Side = 0
	HighSide Side = 1
)

func (s Side) String() string {
	if s == LowSide {
		return "low"
	}
	return "high"
}

// 车道角色
type LaneRole int

const (
	RoleInterior     LaneRole = iota // 内侧车道，不会消失
	RoleOuter                        // 最外侧车道，在外侧合流点消失
	RoleIntermediate                 // 次外侧车道，在内侧合流点消失
)

func (r LaneRole) String() string {
	switch r {
	case RoleOuter:
		return "outer"
	case RoleIntermediate:
		return "intermediate"
	default:
		return "interior"
	}
}

// entity/vehicle/vehicle.go的依赖倒置
// 其他车辆只能通过该接口读取本车上一步结束时的快照
type IVehicle interface {
	ID() int32       // 车辆ID
	Lane() int       // 所在车道编号
	S() float64      // 在走廊上的位置（米）
	V() float64      // 速度（千米/小时）
	Length() float64 // 车长（米）
	Stopped() bool   // 是否停车等待并入
	String() string
}

// 车辆在车道链表中的节点
type VehicleNode = container.ListNode[IVehicle]

// 车道的车辆链表
type VehicleList = container.List[IVehicle]

// entity/lane/lane.go的依赖倒置
type ILane interface {
	ID() int              // 车道编号
	Role() LaneRole       // 车道角色
	Vehicles() []IVehicle // 车道上的车辆（按位置升序）

	// 位置严格大于s的最近车辆，不存在则返回nil
	Ahead(s float64) IVehicle
	// 是否存在与s距离小于gap的车辆
	AnyWithin(s, gap float64) bool

	AddVehicle(node *VehicleNode)    // 下一次Prepare时加入
	RemoveVehicle(node *VehicleNode) // 下一次Prepare时移除
}

// entity/road/road.go的依赖倒置
// 走廊几何：车道角色、合流点与目标车道
type IRoad interface {
	LaneCount() int
	TotalLength() float64
	FirstSegmentLength() float64

	Role(lane int) LaneRole
	// 本车道消失的位置；内侧车道返回无穷远
	MergeBoundary(lane int) float64
	// 本车道消失前必须并入的车道；内侧车道返回false
	MergeTarget(lane int) (target int, ok bool)
	// 内侧车道向中心漂移的目标车道
	DriftTarget(lane int) (target int, ok bool)
	// from->to是否为最外侧到次外侧的强制合流，是则返回所在侧
	CascadeSide(from, to int) (side Side, ok bool)
	// side侧二次合流时车辆所在的次外侧车道
	IntermediateLane(side Side) int
	// 没有前车时到前方路段终点的距离
	FreeDistance(s float64) float64
}

// 每一步的统计数据
type StepStats struct {
	Step           int32   // 步数
	T              float64 // 仿真时间（秒）
	Active         int     // 在路车辆数
	Spawned        int     // 本步新生成车辆数
	LaneChanges    int     // 本步变道车辆数
	Passed         int     // 累计通过车辆数
	CollisionPairs int     // 本步碰撞车辆对数
	Stopped        int     // 本步停车等待并入的车辆数
}
