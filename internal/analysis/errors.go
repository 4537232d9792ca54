package analysis

import "fmt"

// ConfigurationError reports invalid sweep or sampling parameters. It is
// raised before any computation starts; the core never fails mid-sweep.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Param, e.Reason)
}
