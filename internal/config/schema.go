package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the config file format, for editor
// integration and operator reference.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(&Config{})
	s.Title = "enginehost configuration"
	return json.MarshalIndent(s, "", "  ")
}
