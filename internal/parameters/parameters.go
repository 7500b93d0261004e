// Package parameters handles generic configuration Params, a map[string]string that the
// user can set with a string like "num_ants=500,evaporation_rate=0.01,maze=generated".
package parameters

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Params represent generic configuration parameters.
type Params map[string]string

// Value is the set of types that can be parsed from Params.
type Value interface {
	bool | int | uint64 | float64 | string | time.Duration
}

// NewFromConfigString create params from user's configuration string.
// Empty entries (e.g. trailing commas) are ignored, and spaces around keys are trimmed.
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subParts := strings.SplitN(part, "=", 2) // Split into up to 2 parts to handle '=' in values
		key := strings.TrimSpace(subParts[0])
		if len(subParts) == 1 {
			params[key] = ""
		} else {
			params[key] = strings.TrimSpace(subParts[1])
		}
	}
	return params
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
// For time.Duration, values are parsed with time.ParseDuration ("100ms", "2s").
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	var err error
	switch any(defaultValue).(type) {
	case string:
		parsed = value
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1": // Empty value is considered "true"
			parsed = true
		case "false", "0":
			parsed = false
		default:
			err = errors.Errorf("invalid bool value %q", value)
		}
	case int:
		parsed, err = strconv.Atoi(value)
	case uint64:
		parsed, err = strconv.ParseUint(value, 10, 64)
	case float64:
		parsed, err = strconv.ParseFloat(value, 64)
	case time.Duration:
		parsed, err = time.ParseDuration(value)
	}
	if err != nil {
		return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q as %T", key, value, defaultValue)
	}
	return parsed.(T), nil
}

// CheckAllConsumed returns an error listing the keys still in params: to be used after all
// known parameters were popped with PopParamOr.
func CheckAllConsumed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(params))
	return errors.Errorf("unknown configuration parameters: %s", strings.Join(keys, ", "))
}
