package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/varfmt/internal/binding"
)

// loadBindings builds the render context from data files and --set pairs.
// Later files override earlier ones and --set overrides every file. JSON is
// read through the YAML decoder, which accepts it unchanged.
func loadBindings(files, sets []string) (binding.Context, error) {
	layers := make([]binding.Context, 0, len(files)+1)

	setLayer := binding.Map{}
	for _, pair := range sets {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q (want key=value)", pair)
		}
		setLayer[key] = parseScalar(raw)
	}
	layers = append(layers, setLayer)

	for i := len(files) - 1; i >= 0; i-- {
		data, err := readDataFile(files[i])
		if err != nil {
			return nil, err
		}
		layers = append(layers, data)
	}

	return binding.Chain(layers...), nil
}

func readDataFile(path string) (binding.Map, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	data := binding.Map{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parsing data file %s: %w", path, err)
	}
	return data, nil
}

// parseScalar reads a command-line value as a YAML scalar, so 1234.5 is a
// number, true a boolean and ~ or null the absent value. Anything that is
// not a plain scalar stays a string.
func parseScalar(raw string) any {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil || len(node.Content) != 1 {
		return raw
	}
	scalar := node.Content[0]
	if scalar.Kind != yaml.ScalarNode {
		return raw
	}
	var v any
	if err := scalar.Decode(&v); err != nil {
		return raw
	}
	return v
}

// readSource reads a document from a path, or from in when path is "-".
func readSource(path string, in io.Reader) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(in)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(b), nil
}
