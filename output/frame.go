package output

// Mark 变道起止标记
type Mark struct {
	S    float64 `bson:"s" json:"s"`       // 位置（米）
	Lane int     `bson:"lane" json:"lane"` // 车道
	T    float64 `bson:"t" json:"t"`       // 时间（秒）
}

// TracePoint 轨迹点
type TracePoint struct {
	S    float64 `bson:"s" json:"s"`
	Lane int     `bson:"lane" json:"lane"`
}

// VehicleMotion 单车每步输出
// 功能：外部渲染器绘制一辆车所需的全部数据
type VehicleMotion struct {
	ID         int32        `bson:"id" json:"id"`
	Lane       int          `bson:"lane" json:"lane"`
	S          float64      `bson:"s" json:"s"` // 位置（米）
	V          float64      `bson:"v" json:"v"` // 速度（千米/小时）
	L          float64      `bson:"l" json:"l"` // 车长（米）
	Aggressive bool         `bson:"aggressive" json:"aggressive"`
	Stopped    bool         `bson:"stopped" json:"stopped"`
	SlowDown   bool         `bson:"slow_down" json:"slow_down"`
	Collided   bool         `bson:"collided" json:"collided"`
	State      string       `bson:"state" json:"state"` // 显示状态：default/merge/drift
	Color      string       `bson:"color" json:"color"`
	Start      *Mark        `bson:"lc_start,omitempty" json:"lc_start,omitempty"`
	End        *Mark        `bson:"lc_end,omitempty" json:"lc_end,omitempty"`
	Trace      []TracePoint `bson:"trace" json:"trace"`
}

// Frame 每步输出
// 功能：一步结束后的全部车辆状态与统计量
type Frame struct {
	Job            string          `bson:"job" json:"job"`
	Step           int32           `bson:"step" json:"step"`
	T              float64         `bson:"t" json:"t"`
	Active         int             `bson:"active" json:"active"`
	Spawned        int             `bson:"spawned" json:"spawned"`
	LaneChanges    int             `bson:"lane_changes" json:"lane_changes"`
	Passed         int             `bson:"passed" json:"passed"`
	CollisionPairs int             `bson:"collision_pairs" json:"collision_pairs"`
	Stopped        int             `bson:"stopped" json:"stopped"`
	Vehicles       []VehicleMotion `bson:"vehicles" json:"vehicles"`
}

// Meta 走廊描述，渲染器据此绘制车道线
type Meta struct {
	Job                string    `bson:"job" json:"job"`
	LaneCount          int       `bson:"lane_count" json:"lane_count"`
	SegmentLengths     []float64 `bson:"segment_lengths" json:"segment_lengths"`
	TotalLength        float64   `bson:"total_length" json:"total_length"`
	MergeBoundaryOuter float64   `bson:"merge_boundary_outer" json:"merge_boundary_outer"`
	MergeBoundaryInner float64   `bson:"merge_boundary_inner" json:"merge_boundary_inner"`
	DT                 float64   `bson:"dt" json:"dt"`
}
