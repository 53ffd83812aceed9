package lane

import (
	"sync"

	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
)

// vehicleList 车道车辆链表
// 功能：维护车道上按位置排序的车辆快照，增删操作先写入缓冲区，
// 等到准备阶段统一执行，使更新阶段读取到的链表保持不变
type vehicleList struct {
	list              *entity.VehicleList
	addBuffer         []*entity.VehicleNode
	addBufferMutex    sync.Mutex
	removeBuffer      []*entity.VehicleNode
	removeBufferMutex sync.Mutex
}

func newVehicleList(id string) *vehicleList {
	return &vehicleList{
		list:         &entity.VehicleList{ID: id},
		addBuffer:    make([]*entity.VehicleNode, 0),
		removeBuffer: make([]*entity.VehicleNode, 0),
	}
}

// add 登记待加入的节点
// 说明：换道时节点在原车道的移除同样处于缓冲区中，此时节点仍有parent；
// 由于所有车道的applyRemove先于applyAdd执行，合并时节点已经脱离原车道
func (l *vehicleList) add(node *entity.VehicleNode) {
	l.addBufferMutex.Lock()
	l.addBuffer = append(l.addBuffer, node)
	l.addBufferMutex.Unlock()
}

// remove 登记待移除的节点
// 说明：节点必须属于本链表
func (l *vehicleList) remove(node *entity.VehicleNode) {
	if node.Parent() != l.list {
		log.Panicf("remove node %v (parent=%v) from wrong parent %v", node, node.Parent(), l.list)
	}
	l.removeBufferMutex.Lock()
	l.removeBuffer = append(l.removeBuffer, node)
	l.removeBufferMutex.Unlock()
}

// applyRemove 执行缓冲区中的移除操作
func (l *vehicleList) applyRemove() {
	for _, node := range l.removeBuffer {
		l.list.Remove(node)
	}
	l.removeBuffer = l.removeBuffer[:0]
}

// applyAdd 重排位置变化后乱序的节点，并插入缓冲区中的新节点
// 说明：必须在所有车道的applyRemove之后执行，因为换道车辆的节点
// 需要先从原车道移除才能加入新车道
func (l *vehicleList) applyAdd() {
	unsorted := l.list.PopUnsorted()
	l.list.Merge(append(l.addBuffer, unsorted...))
	l.addBuffer = l.addBuffer[:0]
}
