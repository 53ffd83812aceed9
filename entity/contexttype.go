package entity

import (
	"github.com/tsinghua-fib-lab/highway-merge-sim/clock"
	"github.com/tsinghua-fib-lab/highway-merge-sim/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	Road() IRoad
	LaneManager() ILaneManager
	VehicleManager() IVehicleManager
	RuntimeConfig() *config.RuntimeConfig
}
