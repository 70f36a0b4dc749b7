package network

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of Message, the envelope clients receive
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{}
	schema := reflector.Reflect(new(Message))
	schema.Title = "Holodisc Scene Stream"
	schema.Description = "Snapshot and patch batches streamed over /ws"
	return schema
}
