package spell

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// IndexSchema returns a JSON Schema for collection index.json manifests,
// useful for editor validation of hand-written collections.
func IndexSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{ExpandedStruct: true}
	sch := r.Reflect(&Index{})
	sch.Title = "spellcast collection manifest"
	sch.Description = "Spells contributed by one collection directory."
	return sch
}

// MarshalSchema indents the schema to JSON bytes.
func MarshalSchema(sch *jsonschema.Schema) ([]byte, error) {
	return json.MarshalIndent(sch, "", "  ")
}
