package configuration

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// enumHookFunc returns a mapstructure decode hook that normalizes the
// string based enum types, so "Stanley " and "stanley" decode to the same value.
func enumHookFunc() mapstructure.DecodeHookFuncType {
	steeringLawType := reflect.TypeOf(SteeringLawType(""))
	publisherType := reflect.TypeOf(PublisherType(""))

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != steeringLawType && t != publisherType {
			return data, nil
		}

		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		normalized := strings.ToLower(strings.TrimSpace(s))

		if t == steeringLawType {
			return SteeringLawType(normalized), nil
		}
		return PublisherType(normalized), nil
	}
}
