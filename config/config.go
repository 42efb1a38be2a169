// Package config loads the INI-structured configuration store used by the
// pipeline: a mandatory [mqtt] section plus optional feature-gated
// sections, with generic typed accessors mirroring Configuration::get/
// set/get_list.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Configuration wraps a parsed INI file. It is immutable after
// construction except through Set, which the pipeline itself never
// calls.
type Configuration struct {
	file *ini.File
}

// Load reads and parses path, validating that the mandatory [mqtt]
// section and its required keys are present.
func Load(path string) (*Configuration, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, &ConfigurationError{Section: "mqtt", Reason: "cannot load configuration file", Cause: err}
	}
	cfg := &Configuration{file: file}
	if err := cfg.validateMandatory(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New wraps an already-loaded *ini.File, for callers assembling
// configuration from sources other than a file (e.g. bootstrap-merged
// settings in tests).
func New(file *ini.File) (*Configuration, error) {
	cfg := &Configuration{file: file}
	if err := cfg.validateMandatory(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) validateMandatory() error {
	section, err := c.file.GetSection("mqtt")
	if err != nil {
		return newMissingSectionError("mqtt")
	}
	for _, key := range []string{"host", "port", "client_id"} {
		if !section.HasKey(key) {
			return &ConfigurationError{Section: "mqtt", Key: key, Reason: "mandatory key is missing"}
		}
	}
	return nil
}

// HasSection reports whether an optional feature section is present,
// letting callers gate mobility/geo_routing/telemetry features.
func (c *Configuration) HasSection(section string) bool {
	return c.file.HasSection(section)
}

// Get reads a single typed value from section.key.
func Get[T any](c *Configuration, section, key string) (T, error) {
	var zero T
	sec, err := c.file.GetSection(section)
	if err != nil {
		return zero, newMissingSectionError(section)
	}
	if !sec.HasKey(key) {
		return zero, newMissingKeyError(section, key)
	}
	return convertValue[T](section, key, sec.Key(key).String())
}

// GetOr reads section.key, returning fallback when the key is absent.
// A present-but-unconvertible value is still reported as an error.
func GetOr[T any](c *Configuration, section, key string, fallback T) (T, error) {
	value, err := Get[T](c, section, key)
	if err != nil {
		if IsNotFound(err) || !c.HasSection(section) {
			return fallback, nil
		}
		return fallback, err
	}
	return value, nil
}

// GetList reads a comma-separated list of typed values from section.key.
func GetList[T any](c *Configuration, section, key string) ([]T, error) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		return nil, newMissingSectionError(section)
	}
	if !sec.HasKey(key) {
		return nil, newMissingKeyError(section, key)
	}
	raw := sec.Key(key).Strings(",")
	out := make([]T, 0, len(raw))
	for _, element := range raw {
		v, err := convertValue[T](section, key, strings.TrimSpace(element))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Set writes a typed value into section.key, creating the section if
// necessary. The pipeline itself never calls this; it exists for
// operator tooling and tests.
func Set[T any](c *Configuration, section, key string, value T) {
	sec, err := c.file.GetSection(section)
	if err != nil {
		sec, _ = c.file.NewSection(section)
	}
	sec.Key(key).SetValue(fmt.Sprint(value))
}

func convertValue[T any](section, key, raw string) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), nil
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, newConversionError(section, key, err)
		}
		return any(v).(T), nil
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, newConversionError(section, key, err)
		}
		return any(v).(T), nil
	case uint16:
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return zero, newConversionError(section, key, err)
		}
		return any(uint16(v)).(T), nil
	case uint32:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return zero, newConversionError(section, key, err)
		}
		return any(uint32(v)).(T), nil
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, newConversionError(section, key, err)
		}
		return any(v).(T), nil
	default:
		return zero, newConversionError(section, key, fmt.Errorf("unsupported target type %T", zero))
	}
}
