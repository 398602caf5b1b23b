package store

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const recordSchemaURL = "https://charsheet.local/schemas/record.schema.json"

//go:embed record.schema.json
var recordSchemaJSON string

// compileRecordSchema compiles the JSON Schema every POSTed record must satisfy.
func compileRecordSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(recordSchemaURL, strings.NewReader(recordSchemaJSON)); err != nil {
		return nil, fmt.Errorf("record schema load failed: %w", err)
	}
	schema, err := c.Compile(recordSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("record schema compile failed: %w", err)
	}
	return schema, nil
}
