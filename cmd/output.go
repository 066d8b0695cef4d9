package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leap-app/leap/internal/api"
)

// writeErr wraps a failed write so the server's own message leads.
func writeErr(op string, err error) error {
	if msg := api.Message(err); msg != err.Error() {
		return fmt.Errorf("%s: %s (%w)", op, msg, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rule is the separator printed under table headers.
func rule(n int) string {
	return strings.Repeat("─", n)
}

// emit writes v as JSON or YAML when requested, otherwise calls table.
func (o *rootOptions) emit(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case "yaml":
		// API types only carry json tags; going through JSON keeps the
		// same field names in both formats.
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		table(w)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
