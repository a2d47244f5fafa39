package engine

import "fmt"

// ConfigurationError reports invalid weights or thresholds. It is fatal at
// engine construction and never silently corrected.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("engine configuration: %s", e.Reason)
}

// InvalidInputError reports a malformed component set. It fails the single
// assessment that received the input; batch callers keep going.
type InvalidInputError struct {
	Factor Factor
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s component: %s", e.Factor, e.Reason)
}
