package output

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Format selects how commands render their results.
// It implements pflag.Value so it can be bound with Flags().VarP.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var _ pflag.Value = (*Format)(nil)

// Formats lists every accepted Format in display order.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// String implements pflag.Value.
func (f *Format) String() string {
	if *f == "" {
		return string(FormatTable)
	}
	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if v == known {
			*f = v
			return nil
		}
	}
	return fmt.Errorf("must be one of %s", formatNames())
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "format"
}

// IsStructured reports whether f encodes data (JSON/YAML) rather than a table.
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}
