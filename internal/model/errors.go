package model

import (
	"fmt"
	"strings"
)

// ValidationError reports unusable input: missing required columns, an
// empty dataset, or unparseable dates/amounts. Computation halts before
// producing any partial output.
type ValidationError struct {
	Missing []string // required column names absent from the input
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("validation: missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return "validation: " + e.Reason
}

// ConfigurationError reports an invalid cluster count. It is raised before
// the clustering algorithm runs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}
