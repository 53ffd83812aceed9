package road_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity"
	"github.com/tsinghua-fib-lab/highway-merge-sim/entity/road"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

func newRoad(t *testing.T, laneCount int) *road.Road {
	c := config.Default().Road
	c.LaneCount = laneCount
	r, err := road.New(c)
	require.NoError(t, err)
	return r
}

func TestEightLaneLayout(t *testing.T) {
	r := newRoad(t, 8)
	assert.Equal(t, 8, r.LaneCount())
	assert.Equal(t, 400.0, r.TotalLength())
	assert.Equal(t, 150.0, r.FirstSegmentLength())

	roles := []entity.LaneRole{
		entity.RoleOuter, entity.RoleIntermediate,
		entity.RoleInterior, entity.RoleInterior, entity.RoleInterior, entity.RoleInterior,
		entity.RoleIntermediate, entity.RoleOuter,
	}
	for lane, role := range roles {
		assert.Equal(t, role, r.Role(lane), "lane %d", lane)
	}

	targets := map[int]int{0: 1, 1: 2, 6: 5, 7: 6}
	for lane := 0; lane < 8; lane++ {
		target, ok := r.MergeTarget(lane)
		if want, has := targets[lane]; has {
			assert.True(t, ok)
			assert.Equal(t, want, target, "lane %d", lane)
		} else {
			assert.False(t, ok, "lane %d", lane)
		}
	}

	assert.Equal(t, 150.0, r.MergeBoundary(0))
	assert.Equal(t, 150.0, r.MergeBoundary(7))
	assert.Equal(t, 200.0, r.MergeBoundary(1))
	assert.Equal(t, 200.0, r.MergeBoundary(6))
	assert.Greater(t, r.MergeBoundary(3), r.TotalLength())
}

func TestDriftTargets(t *testing.T) {
	r := newRoad(t, 8)
	target, ok := r.DriftTarget(2)
	assert.True(t, ok)
	assert.Equal(t, 3, target)
	target, ok = r.DriftTarget(5)
	assert.True(t, ok)
	assert.Equal(t, 4, target)
	for _, lane := range []int{0, 1, 3, 4, 6, 7} {
		_, ok := r.DriftTarget(lane)
		assert.False(t, ok, "lane %d", lane)
	}

	// 6车道时2、3号车道本身就是中心车道
	r6 := newRoad(t, 6)
	_, ok = r6.DriftTarget(2)
	assert.False(t, ok)
	_, ok = r6.DriftTarget(3)
	assert.False(t, ok)
}

func TestCascadeSide(t *testing.T) {
	r := newRoad(t, 8)
	side, ok := r.CascadeSide(0, 1)
	assert.True(t, ok)
	assert.Equal(t, entity.LowSide, side)
	assert.Equal(t, 1, r.IntermediateLane(side))

	side, ok = r.CascadeSide(7, 6)
	assert.True(t, ok)
	assert.Equal(t, entity.HighSide, side)
	assert.Equal(t, 6, r.IntermediateLane(side))

	_, ok = r.CascadeSide(1, 2)
	assert.False(t, ok)
	_, ok = r.CascadeSide(2, 3)
	assert.False(t, ok)
}

func TestFreeDistance(t *testing.T) {
	r := newRoad(t, 8)
	assert.Equal(t, 150.0, r.FreeDistance(0))
	assert.Equal(t, 10.0, r.FreeDistance(140))
	assert.Equal(t, 250.0, r.FreeDistance(150))
	assert.Equal(t, 100.0, r.FreeDistance(300))
}

func TestNewRejectsBadLayout(t *testing.T) {
	c := config.Default().Road
	c.LaneCount = 5
	_, err := road.New(c)
	assert.Error(t, err)

	c = config.Default().Road
	c.MergeBoundaryInner = 1000
	_, err = road.New(c)
	assert.Error(t, err)
}

func TestRoleOutOfRangePanics(t *testing.T) {
	r := newRoad(t, 8)
	assert.Panics(t, func() { r.Role(8) })
	assert.Panics(t, func() { r.Role(-1) })
}
