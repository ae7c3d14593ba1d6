package configuration

import (
	"errors"
	"github.com/lane2go/lane2go/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"time"
)

type Configuration struct {
	DbPath string `json:"dbPath"`

	// ControlRate is the period of a single control cycle
	ControlRate time.Duration `json:"controlRate"`

	Debug             bool          `json:"debug"`
	DebugFrameOut     string        `json:"debugFrameOut"`
	DebugPlotInterval time.Duration `json:"debugPlotInterval"`

	Topic     TopicConfig     `json:"topic"`
	Redis     RedisConfig     `json:"redis"`
	Transport TransportConfig `json:"transport"`
	Can       CanConfig       `json:"can"`

	Vehicle             VehicleConfig             `json:"vehicle"`
	Steering            SteeringConfig            `json:"steering"`
	MovingAverageFilter MovingAverageFilterConfig `json:"movingAverageFilter"`
	Detector            DetectorConfig            `json:"detector"`

	Recorder   RecorderConfig   `json:"recorder"`
	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("lane2go")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Fatal("Couldn't detect home directory: %v", err)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/lane2go/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("dbPath", "/etc/lane2go/lane2go.db")
	viper.SetDefault("controlRate", 33*time.Millisecond)

	viper.SetDefault("debug", false)
	viper.SetDefault("debugFrameOut", "/tmp/lane2go-debug.png")
	viper.SetDefault("debugPlotInterval", 5*time.Second)

	viper.SetDefault("topic.subscribe", "usb_cam/image_raw")
	viper.SetDefault("topic.publish", "xycar_motor")
	viper.SetDefault("topic.queueSize", 1)

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("transport.publisher", string(PublisherRedis))

	viper.SetDefault("can.interface", "can0")
	viper.SetDefault("can.commandId", 0x120)

	viper.SetDefault("vehicle.steeringAngleLimit", 50.0)

	viper.SetDefault("steering.type", string(SteeringLawStanley))
	viper.SetDefault("steering.centerOffset", 6)

	viper.SetDefault("movingAverageFilter.sampleSize", 20)

	viper.SetDefault("detector.scanRow", 400)
	viper.SetDefault("detector.threshold", 90)
	viper.SetDefault("detector.darkLanes", true)
	viper.SetDefault("detector.minLaneWidth", 2)

	viper.SetDefault("recorder.enabled", false)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.host", "localhost")
	viper.SetDefault("api.port", 9001)
}

// DetectAndReadConfigFile reads the config file, failing fatally if none can be found,
// and returns the path of the file that was used.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		// config file is required, so we fail here
		ui.Fatal("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

// ReadConfigFileIfPresent reads the config file if one can be found and returns its path,
// the defaults are used otherwise.
func ReadConfigFileIfPresent() (string, bool) {
	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", false
		}
		ui.Fatal("Error reading config file, %s", err)
	}
	return viper.ConfigFileUsed(), true
}

// LoadConfig decodes the current viper state into CurrentConfig.
func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(decodeHook()))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		enumHookFunc(),
	)
}
