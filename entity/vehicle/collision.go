package vehicle

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// DetectCollisions 碰撞检测
// 功能：同车道两车距离小于distance视为碰撞，标记双方并统计车辆对数
// 参数：vehicles-本步更新后的车辆，distance-碰撞距离（米）
// 返回：碰撞车辆对数
// 算法说明：按车道分组并按位置排序，每辆车只需向前扫描到距离不小于distance为止
// 说明：仅作标记，不影响车辆运动
func DetectCollisions(vehicles []*Vehicle, distance float64) int {
	pairs := 0
	byLane := lo.GroupBy(vehicles, func(v *Vehicle) int { return v.runtime.Lane })
	lanes := lo.Keys(byLane)
	slices.Sort(lanes)
	for _, lane := range lanes {
		vs := byLane[lane]
		slices.SortFunc(vs, func(a, b *Vehicle) int {
			return cmp.Compare(a.runtime.S, b.runtime.S)
		})
		for i, a := range vs {
			for _, b := range vs[i+1:] {
				if b.runtime.S-a.runtime.S >= distance {
					break
				}
				a.runtime.Collided = true
				b.runtime.Collided = true
				pairs++
				log.Debugf("collision in lane %d: vehicle %d (%.1f) and %d (%.1f)",
					lane, a.id, a.runtime.S, b.id, b.runtime.S)
			}
		}
	}
	return pairs
}
