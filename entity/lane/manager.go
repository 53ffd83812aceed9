package lane

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
)

// LaneManager Lane管理器
// 功能：按编号管理走廊上的所有车道，统一执行车道车辆链表的准备阶段
type LaneManager struct {
	lanes []*Lane
}

// NewManager 创建Lane管理器
// 功能：根据走廊几何为每个车道编号创建车道
// 参数：road-走廊几何
// 返回：Lane管理器
func NewManager(road entity.IRoad) *LaneManager {
	m := &LaneManager{
		lanes: lo.Map(lo.Range(road.LaneCount()), func(id int, _ int) *Lane {
			return newLane(id, road.Role(id))
		}),
	}
	log.Infof("create %d lanes", len(m.lanes))
	return m
}

// Get 根据编号获取Lane，不存在则panic
func (m *LaneManager) Get(id int) entity.ILane {
	if id < 0 || id >= len(m.lanes) {
		log.Panicf("no id %d in lane data", id)
	}
	return m.lanes[id]
}

// GetOrError 根据编号获取Lane，不存在则返回错误
func (m *LaneManager) GetOrError(id int) (entity.ILane, error) {
	if id < 0 || id >= len(m.lanes) {
		return nil, fmt.Errorf("no id %d in lane data", id)
	}
	return m.lanes[id], nil
}

// Lanes 所有车道，按编号排序
func (m *LaneManager) Lanes() []entity.ILane {
	return lo.Map(m.lanes, func(l *Lane, _ int) entity.ILane { return l })
}

// Ahead 快照查询：lane车道上位置严格大于s的最近车辆
func (m *LaneManager) Ahead(lane int, s float64) entity.IVehicle {
	return m.Get(lane).Ahead(s)
}

// Prepare 准备阶段
// 功能：执行所有车道缓冲的增删，并按新位置重排
// 说明：分两个阶段，先全部移除再全部插入，保证换道车辆的节点
// 在加入新车道时已经离开原车道
func (m *LaneManager) Prepare() {
	parallel.GoFor(m.lanes, func(l *Lane) { l.vehicles.applyRemove() })
	parallel.GoFor(m.lanes, func(l *Lane) { l.vehicles.applyAdd() })
}
