package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

var (
	supportedSteeringLaws = []SteeringLawType{SteeringLawStanley, SteeringLawPid}
	supportedPublishers   = []PublisherType{PublisherRedis, PublisherCan, PublisherLog}

	// requiredKeys have no sensible default and must be present in the config file
	requiredKeys = []string{
		"vehicle.startSpeed",
		"vehicle.maxSpeed",
		"vehicle.minSpeed",
		"vehicle.speedControlThreshold",
		"vehicle.accelerationStep",
		"vehicle.decelerationStep",
	}
)

func Validate() error {
	if err := validateRequiredKeys(viper.IsSet); err != nil {
		return err
	}
	return validateConfig(&CurrentConfig)
}

func validateRequiredKeys(isSet func(key string) bool) error {
	var missing []string
	for _, key := range requiredKeys {
		if !isSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateConfig(config *Configuration) error {
	if config.ControlRate <= 0 {
		return errors.New("controlRate: must be > 0")
	}

	if err := validateTopics(config); err != nil {
		return err
	}
	if err := validateTransport(config); err != nil {
		return err
	}
	if err := validateVehicle(&config.Vehicle); err != nil {
		return err
	}
	if err := validateSteering(&config.Steering); err != nil {
		return err
	}
	if config.Debug && config.DebugPlotInterval <= 0 {
		return errors.New("debugPlotInterval: must be > 0 when debug is enabled")
	}
	if config.MovingAverageFilter.SampleSize <= 0 {
		return errors.New("movingAverageFilter: sampleSize must be >= 1")
	}
	return validateDetector(&config.Detector)
}

func validateTopics(config *Configuration) error {
	topic := config.Topic
	if len(strings.TrimSpace(topic.Subscribe)) <= 0 {
		return errors.New("topic: missing subscribe topic name")
	}
	if len(strings.TrimSpace(topic.Publish)) <= 0 {
		return errors.New("topic: missing publish topic name")
	}
	if topic.QueueSize < 1 {
		return errors.New("topic: queueSize must be >= 1")
	}
	return nil
}

func validateTransport(config *Configuration) error {
	publisher := config.Transport.Publisher
	if !slices.Contains(supportedPublishers, publisher) {
		return fmt.Errorf("transport: unsupported publisher '%s', use one of: %s", publisher, joinNames(supportedPublishers))
	}
	if publisher == PublisherCan && len(config.Can.Interface) <= 0 {
		return errors.New("can: missing interface name")
	}
	return nil
}

func validateVehicle(vehicle *VehicleConfig) error {
	if vehicle.MaxSpeed <= 0 {
		return errors.New("vehicle: maxSpeed must be > 0")
	}
	if vehicle.MinSpeed > vehicle.MaxSpeed {
		return fmt.Errorf("vehicle: minSpeed (%v) is greater than maxSpeed (%v)", vehicle.MinSpeed, vehicle.MaxSpeed)
	}
	if vehicle.StartSpeed < vehicle.MinSpeed || vehicle.StartSpeed > vehicle.MaxSpeed {
		return fmt.Errorf("vehicle: startSpeed (%v) must be within [%v, %v]", vehicle.StartSpeed, vehicle.MinSpeed, vehicle.MaxSpeed)
	}
	if vehicle.AccelerationStep < 0 {
		return errors.New("vehicle: accelerationStep must be >= 0")
	}
	if vehicle.DecelerationStep < 0 {
		return errors.New("vehicle: decelerationStep must be >= 0")
	}
	if vehicle.SpeedControlThreshold < 0 {
		return errors.New("vehicle: speedControlThreshold must be >= 0")
	}
	if vehicle.SteeringAngleLimit <= 0 {
		return errors.New("vehicle: steeringAngleLimit must be > 0")
	}
	return nil
}

func validateSteering(steering *SteeringConfig) error {
	if !slices.Contains(supportedSteeringLaws, steering.Type) {
		return fmt.Errorf("steering: unsupported type '%s', use one of: %s", steering.Type, joinNames(supportedSteeringLaws))
	}

	switch steering.Type {
	case SteeringLawStanley:
		if steering.Stanley.Gain <= 0 {
			return errors.New("steering: stanley gain must be > 0")
		}
		if steering.Stanley.LookAheadDistance <= 0 {
			return errors.New("steering: stanley lookAheadDistance must be > 0")
		}
	case SteeringLawPid:
		pid := steering.Pid
		if pid.P == 0 && pid.I == 0 && pid.D == 0 {
			return errors.New("steering: all PID constants are zero")
		}
	}
	return nil
}

func validateDetector(detector *DetectorConfig) error {
	if detector.ScanRow < 0 {
		return errors.New("detector: scanRow must be >= 0")
	}
	if detector.Threshold < 0 || detector.Threshold > 255 {
		return fmt.Errorf("detector: threshold %d is out of range [0, 255]", detector.Threshold)
	}
	if detector.MinLaneWidth < 1 {
		return errors.New("detector: minLaneWidth must be >= 1")
	}
	return nil
}

func joinNames[T ~string](values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return strings.Join(names, " | ")
}
