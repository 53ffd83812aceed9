package vehicle

import "github.com/tsinghua-fib-lab/highway-merge-sim/output"

const traceCapacity = 20 // 轨迹保留的最近采样数

// DisplayState 车辆显示状态
type DisplayState int

const (
	StateDefault     DisplayState = iota // 默认，按驾驶风格着色
	StateForcedMerge                     // 刚完成合流变道
	StateDrift                           // 刚完成向中心漂移
)

func (s DisplayState) String() string {
	switch s {
	case StateForcedMerge:
		return "merge"
	case StateDrift:
		return "drift"
	default:
		return "default"
	}
}

// Color 显示颜色，碰撞优先
func (s DisplayState) Color(aggressive, collided bool) string {
	switch {
	case collided:
		return "red"
	case s == StateForcedMerge:
		return "purple"
	case s == StateDrift:
		return "pink"
	case aggressive:
		return "blue"
	default:
		return "green"
	}
}

// Mark 变道起止标记，Valid为false表示未记录
type Mark struct {
	Valid bool
	S     float64 // 位置（米）
	Lane  int     // 车道
	T     float64 // 时间（秒）
}

func (m Mark) toOutput() *output.Mark {
	if !m.Valid {
		return nil
	}
	return &output.Mark{S: m.S, Lane: m.Lane, T: m.T}
}

// TracePoint 轨迹点
type TracePoint struct {
	S    float64
	Lane int
}

// trace 定长环形轨迹缓冲，写满后丢弃最旧的点
// 说明：使用数组而非切片，runtime整体复制时不共享底层数据
type trace struct {
	points [traceCapacity]TracePoint
	head   int // 最旧点的下标
	n      int // 点数
}

func (t *trace) push(p TracePoint) {
	if t.n < traceCapacity {
		t.points[(t.head+t.n)%traceCapacity] = p
		t.n++
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % traceCapacity
}

// Points 从旧到新的轨迹点
func (t *trace) Points() []TracePoint {
	res := make([]TracePoint, t.n)
	for i := range res {
		res[i] = t.points[(t.head+i)%traceCapacity]
	}
	return res
}

func (t *trace) Len() int {
	return t.n
}

// settleTimer 二次合流前的等待计时，Active为false表示未开始计时
type settleTimer struct {
	Active    bool
	Remaining float64 // 剩余等待时间（秒）
}

// runtime 车辆运行时数据结构
// 功能：记录车辆在模拟过程中的所有运行时状态
// 说明：该数据结构需要可以被直接复制，不应产生浅拷贝带来的副作用
type runtime struct {
	Lane int     // 所在车道
	S    float64 // 在走廊上的位置（米）
	V    float64 // 速度（千米/小时）

	Stopped  bool // 在合流点停车等待
	SlowDown bool // 合流前减速
	Changed  bool // 本步是否变道

	Cooldown    int32   // 变道冷却剩余步数，大于0时不做变道决策
	Accumulated float64 // 上次变道决策后行驶的距离（米）

	Start Mark // 最近一次变道过程的起点
	End   Mark // 最近一次变道过程的终点，冷却结束时记录

	Cascade [2]bool     // 按合流侧索引，是否等待二次合流
	Settle  settleTimer // 二次合流等待计时

	Trace trace // 最近的轨迹

	State    DisplayState // 显示状态
	Collided bool         // 本步是否与同车道车辆距离过近
}
