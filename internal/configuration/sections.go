package configuration

type TopicConfig struct {
	Subscribe string `json:"subscribe"`
	Publish   string `json:"publish"`
	QueueSize int    `json:"queueSize"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type PublisherType string

const (
	PublisherRedis PublisherType = "redis"
	PublisherCan   PublisherType = "can"
	// PublisherLog only prints the commands, no actuation
	PublisherLog PublisherType = "log"
)

type TransportConfig struct {
	Publisher PublisherType `json:"publisher"`
}

type CanConfig struct {
	Interface string `json:"interface"`
	CommandId uint32 `json:"commandId"`
}

type VehicleConfig struct {
	StartSpeed            float64 `json:"startSpeed"`
	MaxSpeed              float64 `json:"maxSpeed"`
	MinSpeed              float64 `json:"minSpeed"`
	SpeedControlThreshold float64 `json:"speedControlThreshold"`
	AccelerationStep      float64 `json:"accelerationStep"`
	DecelerationStep      float64 `json:"decelerationStep"`
	// SteeringAngleLimit is the hard limit of the steering actuator in degrees
	SteeringAngleLimit float64 `json:"steeringAngleLimit"`
}

type SteeringLawType string

const (
	SteeringLawStanley SteeringLawType = "stanley"
	SteeringLawPid     SteeringLawType = "pid"
)

type SteeringConfig struct {
	Type SteeringLawType `json:"type"`
	// CenterOffset compensates the lateral mounting offset of the camera, in pixels
	CenterOffset int `json:"centerOffset"`

	Stanley StanleyConfig `json:"stanley"`
	Pid     PidConfig     `json:"pid"`
}

type StanleyConfig struct {
	Gain              float64 `json:"gain"`
	LookAheadDistance float64 `json:"lookAheadDistance"`
}

type PidConfig struct {
	P float64 `json:"p"`
	I float64 `json:"i"`
	D float64 `json:"d"`
}

type MovingAverageFilterConfig struct {
	SampleSize int `json:"sampleSize"`
}

type DetectorConfig struct {
	// ScanRow is the image row (from the top) that is scanned for lane pixels
	ScanRow int `json:"scanRow"`
	// Threshold is the grayscale value separating lane from road pixels
	Threshold    int  `json:"threshold"`
	DarkLanes    bool `json:"darkLanes"`
	MinLaneWidth int  `json:"minLaneWidth"`
}

type RecorderConfig struct {
	Enabled bool `json:"enabled"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type ApiConfig struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}
