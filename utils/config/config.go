package config

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// 默认参数，与原始双合流场景一致
const (
	defaultLaneCount          = 8
	defaultMergeBoundaryOuter = 150
	defaultMergeBoundaryInner = 200

	// 本车道数下最小可表达的布局：两侧各一条最外侧车道、一条次外侧车道，中间至少两条车道
	minLaneCount = 6
)

// Default 返回填充默认值的配置
// 功能：生成一份可以直接运行的配置，YAML中未出现的字段保持该默认值
// 返回：默认配置
func Default() Config {
	return Config{
		Control: Control{
			Step: ControlStep{
				Start:    0,
				Total:    2000,
				Interval: 1,
			},
		},
		Road: Road{
			LaneCount:          defaultLaneCount,
			SegmentLengths:     []float64{150, 100, 150},
			MergeBoundaryOuter: defaultMergeBoundaryOuter,
			MergeBoundaryInner: defaultMergeBoundaryInner,
		},
		Driver: Driver{
			ReactionTime:               1.1,
			FrictionCoefficient:        0.8,
			Gravity:                    9.8,
			MinGap:                     5,
			MaxSpeed:                   60,
			SpeedStep:                  5,
			SlowDownStep:               2,
			SlowDownFloor:              5,
			AggressiveAccelProbability: 0.7,
			CautiousAccelProbability:   0.1,
			Length:                     5,
		},
		Spawn: Spawn{
			Probability:           0.5,
			Speed:                 20,
			AggressiveProbability: 0.5,
		},
		LaneChange: LaneChange{
			DecisionDistance:       25,
			EmergencyDistance:      20,
			SlowDownDistance:       30,
			EmergencyRelaxation:    0.9,
			ForcedMergeProbability: 0.3,
			DriftProbability:       0.5,
			CooldownTicks:          1,
			SettleDelay:            0.1,
			SettleOffset:           0.1,
		},
		Collision: Collision{
			Distance: 4,
		},
		Output: Output{
			Mongo: MongoOutput{
				Batch: 100,
			},
		},
	}
}

// TotalLength 走廊总长度（米）
func (r Road) TotalLength() float64 {
	return lo.Sum(r.SegmentLengths)
}

func checkProbability(name string, p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%s must be in [0, 1], got %v", name, p)
	}
	return nil
}

// Validate 检查配置一致性
// 功能：在仿真开始前发现所有无法在运行中恢复的配置错误
// 返回：合并后的错误，无错误时为nil
// 说明：车道数、分段长度、合流位置、时间步长、概率范围、物理参数均在此检查
func (c Config) Validate() error {
	var errs []error
	if c.Control.Step.Interval <= 0 {
		errs = append(errs, fmt.Errorf("control.step.interval must be positive, got %v", c.Control.Step.Interval))
	}
	if c.Control.Step.Total < 0 {
		errs = append(errs, fmt.Errorf("control.step.total must not be negative, got %v", c.Control.Step.Total))
	}

	r := c.Road
	if r.LaneCount < minLaneCount {
		errs = append(errs, fmt.Errorf("road.lane_count must be at least %d, got %d", minLaneCount, r.LaneCount))
	}
	if len(r.SegmentLengths) == 0 {
		errs = append(errs, errors.New("road.segment_lengths must not be empty"))
	}
	for i, l := range r.SegmentLengths {
		if l <= 0 {
			errs = append(errs, fmt.Errorf("road.segment_lengths[%d] must be positive, got %v", i, l))
		}
	}
	total := r.TotalLength()
	if r.MergeBoundaryOuter <= 0 || r.MergeBoundaryOuter > total {
		errs = append(errs, fmt.Errorf("road.merge_boundary_outer %v out of corridor (0, %v]", r.MergeBoundaryOuter, total))
	}
	if r.MergeBoundaryInner <= 0 || r.MergeBoundaryInner > total {
		errs = append(errs, fmt.Errorf("road.merge_boundary_inner %v out of corridor (0, %v]", r.MergeBoundaryInner, total))
	}
	if r.MergeBoundaryInner < r.MergeBoundaryOuter {
		errs = append(errs, fmt.Errorf("road.merge_boundary_inner %v before merge_boundary_outer %v", r.MergeBoundaryInner, r.MergeBoundaryOuter))
	}

	d := c.Driver
	for name, v := range map[string]float64{
		"driver.reaction_time":        d.ReactionTime,
		"driver.friction_coefficient": d.FrictionCoefficient,
		"driver.gravity":              d.Gravity,
		"driver.max_speed":            d.MaxSpeed,
		"driver.speed_step":           d.SpeedStep,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	if d.MinGap < 0 {
		errs = append(errs, fmt.Errorf("driver.min_gap must not be negative, got %v", d.MinGap))
	}
	if d.SlowDownFloor < 0 || d.SlowDownFloor > d.MaxSpeed {
		errs = append(errs, fmt.Errorf("driver.slow_down_floor %v out of [0, %v]", d.SlowDownFloor, d.MaxSpeed))
	}
	if c.Spawn.Speed < 0 || c.Spawn.Speed > d.MaxSpeed {
		errs = append(errs, fmt.Errorf("spawn.speed %v out of [0, %v]", c.Spawn.Speed, d.MaxSpeed))
	}

	lc := c.LaneChange
	errs = append(errs,
		checkProbability("driver.aggressive_accel_probability", d.AggressiveAccelProbability),
		checkProbability("driver.cautious_accel_probability", d.CautiousAccelProbability),
		checkProbability("spawn.probability", c.Spawn.Probability),
		checkProbability("spawn.aggressive_probability", c.Spawn.AggressiveProbability),
		checkProbability("lane_change.forced_merge_probability", lc.ForcedMergeProbability),
		checkProbability("lane_change.drift_probability", lc.DriftProbability),
	)
	if lc.EmergencyRelaxation <= 0 || lc.EmergencyRelaxation > 1 {
		errs = append(errs, fmt.Errorf("lane_change.emergency_relaxation must be in (0, 1], got %v", lc.EmergencyRelaxation))
	}
	if lc.DecisionDistance < 0 || lc.EmergencyDistance < 0 || lc.SlowDownDistance < 0 {
		errs = append(errs, errors.New("lane_change distances must not be negative"))
	}
	if lc.CooldownTicks < 1 {
		errs = append(errs, fmt.Errorf("lane_change.cooldown_ticks must be at least 1, got %d", lc.CooldownTicks))
	}
	if lc.SettleDelay < 0 || lc.SettleOffset < 0 {
		errs = append(errs, errors.New("lane_change settle times must not be negative"))
	}
	if c.Collision.Distance < 0 {
		errs = append(errs, fmt.Errorf("collision.distance must not be negative, got %v", c.Collision.Distance))
	}
	if c.Output.Mongo.URI != "" && (c.Output.Mongo.DB == "" || c.Output.Mongo.Col == "") {
		errs = append(errs, errors.New("output.mongo.db and output.mongo.col are required when output.mongo.uri is set"))
	}
	return errors.Join(errs...)
}

// RuntimeConfig 运行时配置
// 功能：存储校验通过的仿真配置，供各模块只读访问
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 校验配置并创建运行时配置
// 功能：创建运行时配置对象，进行配置验证
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针；配置不一致时返回错误
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control

	return rc, nil
}
