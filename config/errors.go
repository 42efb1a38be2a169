package config

import "fmt"

// ConfigurationError reports a fatal configuration problem: a missing
// mandatory section/field, a type mismatch on a field read, or an absent
// custom-settings section.
type ConfigurationError struct {
	Section string
	Key     string
	Reason  string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	loc := e.Section
	if e.Key != "" {
		loc = fmt.Sprintf("%s.%s", e.Section, e.Key)
	}
	if e.Cause != nil {
		return fmt.Sprintf("config: %s: %s: %v", loc, e.Reason, e.Cause)
	}
	return fmt.Sprintf("config: %s: %s", loc, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

func newMissingSectionError(section string) *ConfigurationError {
	return &ConfigurationError{Section: section, Reason: "mandatory section is missing"}
}

func newMissingKeyError(section, key string) *ConfigurationError {
	return &ConfigurationError{Section: section, Key: key, Reason: "not found"}
}

func newConversionError(section, key string, cause error) *ConfigurationError {
	return &ConfigurationError{Section: section, Key: key, Reason: "cannot convert value", Cause: cause}
}

// IsNotFound reports whether err is a ConfigurationError produced by a
// missing-but-optional key, distinguishable from a type-conversion
// failure on a present key.
func IsNotFound(err error) bool {
	cfgErr, ok := err.(*ConfigurationError)
	return ok && cfgErr.Reason == "not found"
}
