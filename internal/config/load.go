package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Load reads a YAML parameter file. Keys absent from the file keep their
// Default values. The file is checked against the embedded schema before it
// is decoded, and the result is validated.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML parameter text. See Load.
func Parse(raw []byte) (Config, error) {
	cfg := Default()

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return cfg, fmt.Errorf("config yaml: %w", err)
	}
	if doc == nil {
		// Empty file: defaults only.
		return cfg, cfg.Validate()
	}
	if err := checkSchema(doc); err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// checkSchema validates a decoded YAML document. The document is round-tripped
// through JSON so the validator sees JSON-native types.
func checkSchema(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config yaml: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("config yaml: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	return nil
}
