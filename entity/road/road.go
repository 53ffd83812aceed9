package road

import (
	"fmt"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

var log = logrus.WithField("module", "road")

// Road 走廊实体
// 功能：描述多车道走廊的几何与车道拓扑
// 说明：车道编号0..n-1，两侧对称：
//
//	车道0、n-1为最外侧车道，在MergeBoundaryOuter处消失，并入1、n-2
//	车道1、n-2为次外侧车道，在MergeBoundaryInner处消失，并入2、n-3
//	其余为内侧车道；2、n-3若不是中心车道，会向中心漂移
type Road struct {
	laneCount          int
	segmentLengths     []float64
	totalLength        float64
	mergeBoundaryOuter float64
	mergeBoundaryInner float64
	centerLow          int // 中心车道（较小编号）
	centerHigh         int // 中心车道（较大编号），车道数为奇数时与centerLow相同
}

// New 根据道路配置创建走廊
// 功能：检查车道数与合流点，计算总长度与中心车道
// 参数：c-道路配置
// 返回：走廊实例；配置不一致时返回错误
func New(c config.Road) (*Road, error) {
	if c.LaneCount < 6 {
		return nil, fmt.Errorf("road: lane count %d cannot hold two merge stages per side", c.LaneCount)
	}
	if len(c.SegmentLengths) == 0 {
		return nil, fmt.Errorf("road: no segments")
	}
	total := c.TotalLength()
	if c.MergeBoundaryOuter > total || c.MergeBoundaryInner > total {
		return nil, fmt.Errorf("road: merge boundaries (%v, %v) beyond corridor length %v",
			c.MergeBoundaryOuter, c.MergeBoundaryInner, total)
	}
	r := &Road{
		laneCount:          c.LaneCount,
		segmentLengths:     append([]float64(nil), c.SegmentLengths...),
		totalLength:        total,
		mergeBoundaryOuter: c.MergeBoundaryOuter,
		mergeBoundaryInner: c.MergeBoundaryInner,
		centerLow:          (c.LaneCount - 1) / 2,
		centerHigh:         c.LaneCount / 2,
	}
	log.Debugf("road: %d lanes, length %v, merges at %v/%v",
		r.laneCount, r.totalLength, r.mergeBoundaryOuter, r.mergeBoundaryInner)
	return r, nil
}

func (r *Road) String() string {
	return fmt.Sprintf("Road{lanes=%d, length=%v, outer=%v, inner=%v}",
		r.laneCount, r.totalLength, r.mergeBoundaryOuter, r.mergeBoundaryInner)
}

func (r *Road) LaneCount() int {
	return r.laneCount
}

func (r *Road) TotalLength() float64 {
	return r.totalLength
}

func (r *Road) FirstSegmentLength() float64 {
	return r.segmentLengths[0]
}

func (r *Road) checkLane(lane int) {
	if lane < 0 || lane >= r.laneCount {
		log.Panicf("road: lane %d out of [0, %d)", lane, r.laneCount)
	}
}

// Role 车道角色
func (r *Road) Role(lane int) entity.LaneRole {
	r.checkLane(lane)
	switch lane {
	case 0, r.laneCount - 1:
		return entity.RoleOuter
	case 1, r.laneCount - 2:
		return entity.RoleIntermediate
	default:
		return entity.RoleInterior
	}
}

// MergeBoundary 本车道消失的位置
func (r *Road) MergeBoundary(lane int) float64 {
	switch r.Role(lane) {
	case entity.RoleOuter:
		return r.mergeBoundaryOuter
	case entity.RoleIntermediate:
		return r.mergeBoundaryInner
	default:
		return mathutil.INF
	}
}

// inward 向中心方向移动一条车道
func (r *Road) inward(lane int) int {
	if lane <= r.centerLow {
		return lane + 1
	}
	return lane - 1
}

// MergeTarget 强制合流的目标车道（唯一）
func (r *Road) MergeTarget(lane int) (int, bool) {
	if r.Role(lane) == entity.RoleInterior {
		return -1, false
	}
	return r.inward(lane), true
}

// DriftTarget 内侧车道向中心漂移的目标车道
// 说明：只有紧邻次外侧车道的2、n-3号车道会漂移，且它们本身不能是中心车道
func (r *Road) DriftTarget(lane int) (int, bool) {
	r.checkLane(lane)
	if lane == 2 && lane < r.centerLow {
		return lane + 1, true
	}
	if lane == r.laneCount-3 && lane > r.centerHigh {
		return lane - 1, true
	}
	return -1, false
}

// CascadeSide 判断from->to是否为最外侧到次外侧的强制合流
func (r *Road) CascadeSide(from, to int) (entity.Side, bool) {
	switch {
	case from == 0 && to == 1:
		return entity.LowSide, true
	case from == r.laneCount-1 && to == r.laneCount-2:
		return entity.HighSide, true
	default:
		return entity.LowSide, false
	}
}

// IntermediateLane side侧的次外侧车道
func (r *Road) IntermediateLane(side entity.Side) int {
	if side == entity.LowSide {
		return 1
	}
	return r.laneCount - 2
}

// FreeDistance 没有前车时的前方可行驶距离
// 说明：在第一段内时看到第一段终点，否则看到走廊终点
func (r *Road) FreeDistance(s float64) float64 {
	if s < r.segmentLengths[0] {
		return r.segmentLengths[0] - s
	}
	return r.totalLength - s
}
