package container

import (
	"cmp"
	"fmt"
	"log"
	"slices"
)

// ListNode 有序双向链表中的节点
// 功能：以位置S为键保存一个元素，链表按S升序排列
type ListNode[T any] struct {
	parent     *List[T]     // 所属链表
	prev, next *ListNode[T] // 前驱和后继节点
	S          float64      // 键值（车道上的位置）
	Value      T            // 元素
}

func (n *ListNode[T]) String() string {
	return fmt.Sprintf("Node{S:%v, Value:%+v}", n.S, n.Value)
}

// Prev 前一个节点（S更小），第一个节点返回nil
func (n *ListNode[T]) Prev() *ListNode[T] {
	return n.prev
}

// Next 后一个节点（S更大），最后一个节点返回nil
func (n *ListNode[T]) Next() *ListNode[T] {
	return n.next
}

// Parent 节点所在的链表，不在任何链表中时返回nil
func (n *ListNode[T]) Parent() *List[T] {
	return n.parent
}

// insertBefore 在节点前插入新节点
func (n *ListNode[T]) insertBefore(add *ListNode[T]) {
	add.parent = n.parent
	add.next = n
	add.prev = n.prev
	n.prev = add
	if add.prev != nil {
		add.prev.next = add
	} else {
		n.parent.head = add
	}
	n.parent.length++
}

// List 按S排序的双向链表
// 功能：维护一条车道上的车辆顺序，支持前车查找与邻车扫描
// 说明：S在链表外被修改后，需要调用PopUnsorted+Merge恢复有序
type List[T any] struct {
	ID         string       // 链表标识符
	head, tail *ListNode[T] // 头尾节点指针
	length     int          // 链表长度
}

func (l *List[T]) String() string {
	return fmt.Sprintf("List{ID:%v}", l.ID)
}

// Keys 按顺序返回所有节点的S
func (l *List[T]) Keys() []float64 {
	keys := make([]float64, 0, l.length)
	for node := l.head; node != nil; node = node.next {
		keys = append(keys, node.S)
	}
	return keys
}

// Values 按顺序返回所有节点的元素
func (l *List[T]) Values() []T {
	values := make([]T, 0, l.length)
	for node := l.head; node != nil; node = node.next {
		values = append(values, node.Value)
	}
	return values
}

// Len 链表长度
func (l *List[T]) Len() int {
	return l.length
}

// First 链表头部节点（S最小）
func (l *List[T]) First() *ListNode[T] {
	return l.head
}

// Last 链表尾部节点（S最大）
func (l *List[T]) Last() *ListNode[T] {
	return l.tail
}

// PushBack 向链表尾部插入节点（不检查顺序）
func (l *List[T]) PushBack(add *ListNode[T]) {
	if add.parent != nil {
		log.Panic("push back node who already in list")
	}
	add.parent = l
	add.next = nil
	add.prev = l.tail
	if l.tail != nil {
		l.tail.next = add
	} else {
		l.head = add
	}
	l.tail = add
	l.length++
}

// Remove 从链表中移除节点
func (l *List[T]) Remove(node *ListNode[T]) {
	if node.parent != l {
		log.Panic("remove node from wrong list")
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	node.parent = nil
	l.length--
}

// PopUnsorted 移除逆序节点
// 功能：移除所有比前驱节点S更小的节点，剩余链表保持有序
// 返回：被移除的节点
func (l *List[T]) PopUnsorted() (unsorted []*ListNode[T]) {
	for node := l.head; node != nil; {
		next := node.next
		if node.prev != nil && node.prev.S > node.S {
			l.Remove(node)
			unsorted = append(unsorted, node)
		}
		node = next
	}
	return unsorted
}

// Merge 批量有序插入节点
// 算法说明：
// 1. 将待插入节点按S排序（稳定排序，S相同时保持输入顺序）
// 2. 与链表做一次归并，S相同时新节点插在已有节点之后
func (l *List[T]) Merge(adds []*ListNode[T]) {
	slices.SortStableFunc(adds, func(a, b *ListNode[T]) int {
		return cmp.Compare(a.S, b.S)
	})
	node := l.head
	for _, add := range adds {
		if add.parent != nil {
			log.Panic("merge node who already in list")
		}
		for node != nil && node.S <= add.S {
			node = node.next
		}
		if node != nil {
			node.insertBefore(add)
		} else {
			l.PushBack(add)
		}
	}
}
