package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/highway-merge-sim/output"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

func newTestConfig(total int32, seed uint64) config.Config {
	c := config.Default()
	c.Control.Step.Total = total
	c.Control.Seed = seed
	return c
}

func newTestTask(t *testing.T, c config.Config) (*Context, *output.MemoryRecorder) {
	rec := output.NewMemoryRecorder()
	ctx, err := NewContext("test", c, output.Recorders{rec})
	require.NoError(t, err)
	ctx.Init()
	return ctx, rec
}

func TestNewContextRejectsInvalidConfig(t *testing.T) {
	c := config.Default()
	c.Road.LaneCount = 4
	_, err := NewContext("bad", c, nil)
	assert.Error(t, err)

	c = config.Default()
	c.Control.Step.Interval = 0
	_, err = NewContext("bad", c, nil)
	assert.Error(t, err)
}

func TestRunRecordsOneFramePerStep(t *testing.T) {
	ctx, rec := newTestTask(t, newTestConfig(150, 3))
	ctx.Run()

	frames := rec.Frames()
	require.Len(t, frames, 150)
	passed := 0
	for i, f := range frames {
		assert.Equal(t, "test", f.Job)
		assert.Equal(t, int32(i+1), f.Step)
		assert.InDelta(t, float64(i+1), f.T, 1e-9)
		assert.Equal(t, f.Active, len(f.Vehicles))
		assert.GreaterOrEqual(t, f.Passed, passed)
		passed = f.Passed
		for _, v := range f.Vehicles {
			assert.GreaterOrEqual(t, v.Lane, 0)
			assert.Less(t, v.Lane, 8)
			assert.GreaterOrEqual(t, v.V, 0.0)
			assert.LessOrEqual(t, v.V, 60.0)
			assert.LessOrEqual(t, v.S, 400.0)
			assert.LessOrEqual(t, len(v.Trace), 20)
		}
	}
	assert.Greater(t, passed, 0)
	assert.Equal(t, int32(0), ctx.Clock().Remaining())

	// 关闭后不再推进
	assert.NoError(t, ctx.Close())
	assert.Equal(t, int32(0), ctx.RunSteps(10))
	assert.Len(t, rec.Frames(), 150)
}

func TestZeroStepsLeaveStateUnchanged(t *testing.T) {
	ctx, rec := newTestTask(t, newTestConfig(100, 5))
	require.Equal(t, int32(20), ctx.RunSteps(20))
	before := ctx.Frame()
	step := ctx.Clock().InternalStep

	assert.Equal(t, int32(0), ctx.RunSteps(0))
	assert.Equal(t, int32(0), ctx.RunSteps(-3))
	assert.Equal(t, before, ctx.Frame())
	assert.Equal(t, step, ctx.Clock().InternalStep)
	assert.Len(t, rec.Frames(), 20)
}

func TestSameSeedSameFrames(t *testing.T) {
	run := func(seed uint64, parallel bool) []*output.Frame {
		c := newTestConfig(80, seed)
		c.Control.Parallel = parallel
		ctx, rec := newTestTask(t, c)
		ctx.Run()
		return rec.Frames()
	}
	a := run(9, false)
	assert.Equal(t, a, run(9, false))
	assert.Equal(t, a, run(9, true))
	assert.NotEqual(t, a, run(10, false))
}

func TestMetaFollowsConfig(t *testing.T) {
	c := newTestConfig(10, 1)
	c.Road.SegmentLengths = []float64{150, 100, 250}
	ctx, _ := newTestTask(t, c)
	meta := ctx.Meta()
	assert.Equal(t, "test", meta.Job)
	assert.Equal(t, 8, meta.LaneCount)
	assert.Equal(t, 500.0, meta.TotalLength)
	assert.Equal(t, 150.0, meta.MergeBoundaryOuter)
	assert.Equal(t, 200.0, meta.MergeBoundaryInner)
	assert.Equal(t, 1.0, meta.DT)
}

// lanesOf 车道索引中包含该车辆的所有车道
func lanesOf(ctx *Context, id int32) []int {
	res := []int{}
	for _, l := range ctx.LaneManager().Lanes() {
		for _, v := range l.Vehicles() {
			if v.ID() == id {
				res = append(res, l.ID())
			}
		}
	}
	return res
}

func TestForcedMergeThenCascadeKeepsLaneIndex(t *testing.T) {
	c := newTestConfig(50, 1)
	c.Spawn.Probability = 0
	c.LaneChange.ForcedMergeProbability = 1
	c.LaneChange.DriftProbability = 0
	ctx, rec := newTestTask(t, c)
	// 停在外侧合流点上的车辆，第1步并入车道1，第4步二次合流到车道2
	v := ctx.vehicleManager.Spawn(0, 150, 0, false)

	// 帧中为本步更新后的车道，车道索引为上一步结束时的车道
	wantFrame := []int{1, 1, 1, 2, 2, 2, 2, 2, 2, 2}
	wantIndex := []int{0, 1, 1, 1, 2, 2, 2, 2, 2, 2}
	for i := range wantFrame {
		require.NotPanics(t, func() { ctx.RunSteps(1) }, "step %d", i+1)
		frame := ctx.Frame()
		require.Len(t, frame.Vehicles, 1)
		assert.Equal(t, wantFrame[i], frame.Vehicles[0].Lane, "frame lane at step %d", i+1)
		assert.Equal(t, []int{wantIndex[i]}, lanesOf(ctx, v.ID()), "indexed lane at step %d", i+1)
		assert.Equal(t, wantIndex[i], v.Lane())
	}

	frames := rec.Frames()
	assert.Equal(t, 1, frames[0].LaneChanges)
	assert.Equal(t, 0, frames[1].LaneChanges)
	assert.Equal(t, 1, frames[3].LaneChanges)
	// 第一次变道在第2步结束，二次合流重新记录起点
	assert.Equal(t, 0, frames[1].Vehicles[0].Start.Lane)
	assert.Equal(t, 1, frames[1].Vehicles[0].End.Lane)
	assert.Nil(t, frames[3].Vehicles[0].End)
	last := frames[len(frames)-1].Vehicles[0]
	require.NotNil(t, last.Start)
	require.NotNil(t, last.End)
	assert.Equal(t, 1, last.Start.Lane)
	assert.Equal(t, 2, last.End.Lane)
	assert.Equal(t, 5.0, last.End.T)
}
