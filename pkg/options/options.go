// Package options defines the generic options interfaces shared by all
// configurable components, plus small helpers for pflag wiring.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Join concatenates prefixes with "." separator.
// If the result is non-empty, it appends a trailing ".".
// This is used to build flag names like "mongodb.host" or "prefix.mongodb.host".
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// IOptions defines methods to implement a generic component options struct.
type IOptions interface {
	// Validate validates all the required options.
	// It can also be used to complete options if needed.
	Validate() []error

	// AddFlags adds flags related to given flagset.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// CliOptions is implemented by the aggregated application options passed to
// the app bootstrap. Flags returns grouped flag sets so help output stays
// organized per component.
type CliOptions interface {
	Flags() NamedFlagSets
	Complete() error
	Validate() error
}
