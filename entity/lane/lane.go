package lane

import (
	"fmt"
	"math"

	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
)

// Lane 车道实体
// 功能：保存一条车道上一步结束时的车辆快照，提供前车查找与邻车扫描
type Lane struct {
	id   int
	role entity.LaneRole

	vehicles *vehicleList
}

// newLane 创建车道
// 参数：id-车道编号，role-车道角色
func newLane(id int, role entity.LaneRole) *Lane {
	return &Lane{
		id:       id,
		role:     role,
		vehicles: newVehicleList(fmt.Sprintf("lane %d", id)),
	}
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane{id:%d, role:%v, vehicles:%d}", l.id, l.role, l.vehicles.list.Len())
}

func (l *Lane) ID() int {
	return l.id
}

func (l *Lane) Role() entity.LaneRole {
	return l.role
}

// Vehicles 车道上的车辆，按位置升序
func (l *Lane) Vehicles() []entity.IVehicle {
	return l.vehicles.list.Values()
}

// Ahead 查找前车
// 功能：返回位置严格大于s的最近车辆
// 参数：s-查询位置
// 返回：前车，不存在则返回nil
func (l *Lane) Ahead(s float64) entity.IVehicle {
	for node := l.vehicles.list.First(); node != nil; node = node.Next() {
		if node.S > s {
			return node.Value
		}
	}
	return nil
}

// AnyWithin 检查车道上是否有车辆与位置s的距离小于gap
// 算法说明：链表按位置升序，一旦节点位置达到s+gap即可停止扫描
func (l *Lane) AnyWithin(s, gap float64) bool {
	for node := l.vehicles.list.First(); node != nil; node = node.Next() {
		if node.S >= s+gap {
			break
		}
		if math.Abs(node.S-s) < gap {
			return true
		}
	}
	return false
}

// AddVehicle 将车辆加入车道（Prepare后生效）
func (l *Lane) AddVehicle(node *entity.VehicleNode) {
	l.vehicles.add(node)
}

// RemoveVehicle 将车辆移出车道（Prepare后生效）
func (l *Lane) RemoveVehicle(node *entity.VehicleNode) {
	l.vehicles.remove(node)
}
