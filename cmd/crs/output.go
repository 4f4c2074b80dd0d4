package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var stdout io.Writer = os.Stdout

// emit prints v in the selected output format. The text format prints
// plain strings as is and anything else as YAML.
func emit(v any) error {
	switch opts.Format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(v)
	case "text":
		if s, ok := v.(string); ok {
			_, err := fmt.Fprintln(stdout, s)
			return err
		}
		if s, ok := v.(fmt.Stringer); ok {
			_, err := fmt.Fprintln(stdout, s.String())
			return err
		}
		return yaml.NewEncoder(stdout).Encode(v)
	default:
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
