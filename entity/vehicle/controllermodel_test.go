package vehicle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/randengine"
)

func TestSafeDistance(t *testing.T) {
	assert.Equal(t, 0.0, SafeDistance(0, 1.1, 0.8, 9.8))
	// 36km/h = 10m/s: 11 + 100/15.68
	assert.InDelta(t, 11+100/15.68, SafeDistance(36, 1.1, 0.8, 9.8), 1e-9)

	last := -1.0
	for v := 0.0; v <= 60; v += 0.5 {
		d := SafeDistance(v, 1.1, 0.8, 9.8)
		assert.GreaterOrEqual(t, d, last)
		last = d
	}
}

func TestRequiredGapFloor(t *testing.T) {
	d := config.Default().Driver
	assert.Equal(t, 5.0, RequiredGap(d, 0))
	assert.Equal(t, 5.0, RequiredGap(d, 10))
	assert.Greater(t, RequiredGap(d, 60), 30.0)
}

func TestAccelerationSignalBranches(t *testing.T) {
	d := config.Default().Driver
	e := randengine.New(3)
	// 距离不足
	assert.Equal(t, Decelerate, AccelerationSignal(d, 40, 10, true, e))
	// 已到最大速度
	assert.Equal(t, Hold, AccelerationSignal(d, 60, 1000, true, e))

	always := d
	always.AggressiveAccelProbability = 1
	always.CautiousAccelProbability = 0
	assert.Equal(t, Accelerate, AccelerationSignal(always, 20, 100, true, e))
	assert.Equal(t, Hold, AccelerationSignal(always, 20, 100, false, e))
	// 加速后的安全距离超过gap
	assert.Equal(t, Hold, AccelerationSignal(always, 20, RequiredGap(d, 20), true, e))
}

func TestAccelerationSignalDrawsOnlyOnAccelerationBranch(t *testing.T) {
	d := config.Default().Driver
	a := randengine.New(9)
	b := randengine.New(9)

	AccelerationSignal(d, 40, 10, true, a)   // 减速分支
	AccelerationSignal(d, 60, 1000, true, a) // 保持分支
	assert.Equal(t, b.Float64(), a.Float64())

	AccelerationSignal(d, 20, 100, true, a) // 加速分支
	b.Float64()
	assert.Equal(t, b.Float64(), a.Float64())
}

func TestAppliedSignalStaysInRange(t *testing.T) {
	d := config.Default().Driver
	e := randengine.New(5)
	for v := 0.0; v <= d.MaxSpeed; v += 1 {
		for _, gap := range []float64{0, 3, 10, 30, 100, 1000} {
			for _, aggressive := range []bool{true, false} {
				next := applySignal(d, v, AccelerationSignal(d, v, gap, aggressive, e))
				assert.GreaterOrEqual(t, next, 0.0)
				assert.LessOrEqual(t, next, d.MaxSpeed)
			}
		}
	}
}

func TestNextSpeedPriority(t *testing.T) {
	ctx := newTestContext(t, nil)
	outer := ctx.vehicles.Spawn(0, 0, 20, false)
	inner := ctx.vehicles.Spawn(3, 0, 20, false)
	c := outer.controller

	rt := runtime{Lane: 0, V: 20}
	assert.Equal(t, 25.0, c.nextSpeed(&rt, 100))
	rt.V = 58
	assert.Equal(t, 60.0, c.nextSpeed(&rt, 100))

	rt = runtime{Lane: 0, V: 6, SlowDown: true}
	assert.Equal(t, 5.0, c.nextSpeed(&rt, 1))
	rt.V = 30
	assert.Equal(t, 28.0, c.nextSpeed(&rt, 1))

	rt = runtime{Lane: 3, V: 30}
	assert.Equal(t, 35.0, inner.controller.nextSpeed(&rt, 1))

	rt = runtime{Lane: 0, V: 3}
	assert.Equal(t, 0.0, c.nextSpeed(&rt, 1))
}
