package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const outputYAML string = "yaml"
const outputJSON string = "json"

// printOutput writes the value as indented JSON or as YAML. The YAML keeps the JSON field names
// and their order since it is produced from the JSON encoding.
func printOutput(w io.Writer, format string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	if err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err = enc.Encode(&node)
	if err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow style that JSON input is parsed with.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}
