package predict

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema pins the response contract. A missing or mistyped field is a
// malformed body, not a silently-zeroed struct field.
const resultSchema = `{
  "type": "object",
  "required": ["prediction", "grade", "riskLevel", "confidence", "overallScore", "scores", "recommendations"],
  "properties": {
    "prediction":   {"type": "string", "enum": ["Pass", "At Risk", "Fail"]},
    "grade":        {"type": "string", "enum": ["A", "B", "C", "D", "F"]},
    "riskLevel":    {"type": "string", "enum": ["Low", "Medium", "High"]},
    "confidence":   {"type": "integer"},
    "overallScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "scores": {
      "type": "object",
      "required": ["attendance", "testScore", "assignmentScore", "engagement"],
      "properties": {
        "attendance":      {"type": "integer"},
        "testScore":       {"type": "integer"},
        "assignmentScore": {"type": "integer"},
        "engagement":      {"type": "integer"}
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}, "minItems": 1},
    "modelVersion":    {"type": "string"},
    "timestamp":       {"type": "string"}
  }
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

func validateResult(body []byte) error {
	res, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("malformed prediction response: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, desc := range res.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("malformed prediction response: %s", strings.Join(msgs, "; "))
	}
	return nil
}
