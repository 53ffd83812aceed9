package config

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：控制仿真的时间范围和步长，总步数=总时长/步长
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
// 说明：包含时间控制、随机数种子、并行开关
type Control struct {
	Step     ControlStep `yaml:"step"`
	Seed     uint64      `yaml:"seed"`               // 随机数种子
	Parallel bool        `yaml:"parallel,omitempty"` // 车辆更新是否并行执行
}

// Road 道路（走廊）几何配置
// 功能：描述多车道走廊的车道数、分段长度与两处合流位置
// 说明：最外侧车道在outer处消失，次外侧车道在inner处消失
type Road struct {
	LaneCount          int       `yaml:"lane_count"`           // 车道数
	SegmentLengths     []float64 `yaml:"segment_lengths"`      // 各段车道长度（米）
	MergeBoundaryOuter float64   `yaml:"merge_boundary_outer"` // 最外侧车道合流位置（米）
	MergeBoundaryInner float64   `yaml:"merge_boundary_inner"` // 次外侧车道合流位置（米）
}

// Driver 驾驶员与车辆参数
// 功能：跟车安全距离模型与加减速规则的参数
type Driver struct {
	ReactionTime               float64 `yaml:"reaction_time"`                // 反应时间（秒）
	FrictionCoefficient        float64 `yaml:"friction_coefficient"`         // 路面摩擦系数
	Gravity                    float64 `yaml:"gravity"`                      // 重力加速度（米/秒²）
	MinGap                     float64 `yaml:"min_gap"`                      // 最小安全车距（米）
	MaxSpeed                   float64 `yaml:"max_speed"`                    // 最大速度（千米/小时）
	SpeedStep                  float64 `yaml:"speed_step"`                   // 每步加减速幅度（千米/小时）
	SlowDownStep               float64 `yaml:"slow_down_step"`               // 合流前减速幅度（千米/小时）
	SlowDownFloor              float64 `yaml:"slow_down_floor"`              // 合流前减速的最低速度（千米/小时）
	AggressiveAccelProbability float64 `yaml:"aggressive_accel_probability"` // 激进型车辆加速概率
	CautiousAccelProbability   float64 `yaml:"cautious_accel_probability"`   // 非激进型车辆加速概率
	Length                     float64 `yaml:"length"`                       // 车长（米），仅用于输出
}

// Spawn 车辆生成配置
type Spawn struct {
	Probability           float64 `yaml:"probability"`            // 每步生成新车的概率
	Speed                 float64 `yaml:"speed"`                  // 新车初速度（千米/小时）
	AggressiveProbability float64 `yaml:"aggressive_probability"` // 新车为激进型的概率
}

// LaneChange 变道决策配置
type LaneChange struct {
	DecisionDistance       float64 `yaml:"decision_distance"`        // 两次变道决策之间至少行驶的距离（米）
	EmergencyDistance      float64 `yaml:"emergency_distance"`       // 距合流点小于该值时进行紧急变道（米）
	SlowDownDistance       float64 `yaml:"slow_down_distance"`       // 距合流点小于该值且未变道时开始减速（米）
	EmergencyRelaxation    float64 `yaml:"emergency_relaxation"`     // 紧急变道时安全车距的放宽系数
	ForcedMergeProbability float64 `yaml:"forced_merge_probability"` // 停车等待时每步成功并入的概率
	DriftProbability       float64 `yaml:"drift_probability"`        // 内侧车道向中心漂移的概率
	CooldownTicks          int32   `yaml:"cooldown_ticks"`           // 变道后的冷却步数
	SettleDelay            float64 `yaml:"settle_delay"`             // 二次合流前的等待时间（秒）
	SettleOffset           float64 `yaml:"settle_offset"`            // 变道起点回溯的时间（秒）
}

// Collision 碰撞检测配置
type Collision struct {
	Distance float64 `yaml:"distance"` // 同车道两车距离小于该值视为碰撞（米）
}

// MongoOutput MongoDB输出配置
type MongoOutput struct {
	URI   string `yaml:"uri"`             // MongoDB连接字符串，为空则不输出，支持${ENV}形式的环境变量
	DB    string `yaml:"db"`              // 数据库名
	Col   string `yaml:"col"`             // 集合名
	Batch int    `yaml:"batch,omitempty"` // 批量写入的帧数
}

// WebsocketOutput 实时推送配置
type WebsocketOutput struct {
	Listen string `yaml:"listen"` // 监听地址，为空则不推送
}

// Output 输出配置
type Output struct {
	Mongo     MongoOutput     `yaml:"mongo,omitempty"`
	Websocket WebsocketOutput `yaml:"websocket,omitempty"`
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含控制、道路、驾驶员、生成、变道、碰撞、输出等所有配置项
type Config struct {
	Control    Control    `yaml:"control"`          // 模拟过程控制
	Road       Road       `yaml:"road"`             // 道路几何
	Driver     Driver     `yaml:"driver"`           // 驾驶员模型
	Spawn      Spawn      `yaml:"spawn"`            // 车辆生成
	LaneChange LaneChange `yaml:"lane_change"`      // 变道
	Collision  Collision  `yaml:"collision"`        // 碰撞检测
	Output     Output     `yaml:"output,omitempty"` // 输出
}
