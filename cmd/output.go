package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// render prints v in the format chosen by --output.
func render(w io.Writer, v any) error {
	switch flagOutput {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML, "":
		return writeYAML(w, v)
	default:
		return fmt.Errorf("unknown output format %q: must be %s or %s", flagOutput, formatYAML, formatJSON)
	}
}

// writeYAML prints v as block-style YAML. v goes through its JSON encoding
// first so field names and date formats match the JSON output.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("converting output: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return enc.Close()
}

// blockStyle drops the flow and quoting styles picked up from JSON. Strings
// that would read back as another type stay quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
