package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for pollwatch.yml. Extension
// sections are allowed as additional properties.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "pollwatch configuration"
	schema.Description = "Schema for pollwatch.yml and pollwatch.toml."

	return json.MarshalIndent(schema, "", "  ")
}
