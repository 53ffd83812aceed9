package clock

import (
	"fmt"

	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

// Clock 仿真时钟
// 功能：管理离散时间步的推进，维护当前仿真时间与步数
// 说明：模拟区间为[START_STEP, END_STEP)，每步时长为DT
type Clock struct {
	DT         float64 // 每步时间间隔（秒）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)

	T            float64 // 当前时间（秒）
	InternalStep int32   // 当前步数
}

// New 根据配置创建新的时钟实例
// 参数：stepConfig-控制步配置
// 返回：初始化完成的时钟实例
func New(stepConfig config.ControlStep) *Clock {
	c := &Clock{
		DT:         stepConfig.Interval,
		START_STEP: stepConfig.Start,
		END_STEP:   stepConfig.Start + stepConfig.Total,
	}
	c.Init()
	return c
}

// Init 重置时钟到起始步
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Tick 推进一步
// 返回：推进后是否仍在模拟区间内
func (c *Clock) Tick() bool {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
	return c.InternalStep < c.END_STEP
}

// Remaining 剩余的步数
func (c *Clock) Remaining() int32 {
	return max(c.END_STEP-c.InternalStep, 0)
}

// String 获取时钟的字符串表示（HH:MM:SS.s）
func (c *Clock) String() string {
	hour, minute, second := c.GetHourMinuteSecond()
	return fmt.Sprintf("%02d:%02d:%04.1f", hour, minute, second)
}

// GetHourMinuteSecond 获取当前时间的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *Clock) GetHourMinuteSecond() (int, int, float64) {
	hour := int(c.T) / 3600
	minute := int(c.T) % 3600 / 60
	second := c.T - float64(hour*3600+minute*60)
	return hour, minute, second
}
