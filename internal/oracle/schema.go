package oracle

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// predictionSchemaJSON is the response contract the prediction service must
// honor. Validating against it means a structurally bogus 200 response is
// surfaced as the same failure kind as a transport error.
const predictionSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["risk_score", "predicted_class", "confidence"],
  "properties": {
    "risk_score": {"type": "number", "minimum": 0, "maximum": 1},
    "predicted_class": {"type": "string", "minLength": 1},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`

// predictionSchema is compiled once at init; the schema is a package
// constant, so a compile failure is a programming error.
var predictionSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("prediction.schema.json", strings.NewReader(predictionSchemaJSON)); err != nil {
		panic("oracle: adding prediction schema resource: " + err.Error())
	}
	schema, err := c.Compile("prediction.schema.json")
	if err != nil {
		panic("oracle: compiling prediction schema: " + err.Error())
	}
	return schema
}
