package schema

import _ "embed"

// Record is the JSON Schema every line of a snapshot file must satisfy.
//
//go:embed record.schema.json
var Record string

// RecordURL is the id under which Record is registered with a compiler.
const RecordURL = "https://taskdeck.local/schema/record.schema.json"
