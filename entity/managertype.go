package entity

import "github.com/tsinghua-fib-lab/highway-merge-sim/output"

// Manager依赖倒置

// entity/lane/manager.go的依赖倒置
type ILaneManager interface {
	// 输入车道编号，查找Lane，如果不存在则panic
	Get(id int) ILane
	// 输入车道编号，查找Lane，如果不存在则返回error
	GetOrError(id int) (ILane, error)
	// 所有车道，按编号排序
	Lanes() []ILane

	// 快照查询：lane车道上位置严格大于s的最近车辆，不存在则返回nil
	Ahead(lane int, s float64) IVehicle

	Prepare() // 准备阶段：按快照位置重排各车道车辆
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Init()             // 初始化
	PrepareNode()      // 准备阶段：生成新车、执行增删、更新车道链表节点
	Prepare()          // 准备阶段：更新快照
	Update(dt float64) // 更新阶段：所有车辆基于同一快照更新
	Stats() StepStats  // 最近一步的统计数据

	Motions() []output.VehicleMotion // 在路车辆本步更新后的状态，按ID排序
}
