package container

import "slices"

// IIncrementalItem 支持增量更新的元素接口
// 功能：元素记录自己在数组中的位置，使删除为O(1)
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 说明：可以作为其他结构体的嵌入字段，快速实现IIncrementalItem接口
type IncrementalItemBase struct {
	index int // 元素在数组中的索引
}

func (b *IncrementalItemBase) Index() int {
	return b.index
}

func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：仿真的更新阶段只登记增删，等到Prepare时统一执行，
// 保证同一步内所有元素看到的是同一份数据
// 说明：非线程安全，Add/Remove应在更新阶段结束后串行调用
type IncrementalArray[T IIncrementalItem] struct {
	data    []T          // 主数据数组
	add     []T          // 待添加的元素列表
	remove  []T          // 待删除的元素列表
	removed map[int]bool // 待删除元素的索引，用于去重
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:    make([]T, 0),
		add:     make([]T, 0),
		remove:  make([]T, 0),
		removed: make(map[int]bool),
	}
}

// Len 获取当前数组长度（不含未执行的增删）
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取当前数据
// 说明：返回内部切片，调用方不得修改；下一次Prepare之前保持不变
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Pending 返回待添加与待删除的元素数量
func (a *IncrementalArray[T]) Pending() (adds, removes int) {
	return len(a.add), len(a.remove)
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
// 说明：同一元素重复登记只删除一次
func (a *IncrementalArray[T]) Remove(value T) {
	if a.removed[value.Index()] {
		return
	}
	a.removed[value.Index()] = true
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 功能：统一执行所有待处理的删除和添加操作
// 算法说明：
// 1. 删除：按索引从大到小，用数组末尾的元素填补被删除的位置
// 2. 添加：追加到数组末尾并设置索引
// 3. 清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	// 从大到小删除，保证末尾元素不会是另一个待删除元素
	indices := make([]int, 0, len(a.remove))
	for i := range a.removed {
		indices = append(indices, i)
	}
	slices.SortFunc(indices, func(x, y int) int { return y - x })
	for _, ind := range indices {
		last := len(a.data) - 1
		if ind != last {
			a.data[ind] = a.data[last]
			a.data[ind].SetIndex(ind)
		}
		var zero T
		a.data[last] = zero
		a.data = a.data[:last]
	}
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}

	a.add = a.add[:0]
	a.remove = a.remove[:0]
	a.removed = make(map[int]bool)
}
