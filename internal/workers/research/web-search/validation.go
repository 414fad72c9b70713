// internal/workers/research/web-search/validation.go
package websearch

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"research-workers/internal/common/errors"
)

var inputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"query": map[string]interface{}{
			"type": "string",
		},
		"max_results": map[string]interface{}{
			"type": "integer",
		},
		"location": map[string]interface{}{
			"type": "string",
		},
		"language": map[string]interface{}{
			"type": "string",
		},
		"country": map[string]interface{}{
			"type": "string",
		},
		"include_domains": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		},
		"with_snippets": map[string]interface{}{
			"type": "boolean",
		},
		"mission_id": map[string]interface{}{
			"type": "string",
		},
		"user_id": map[string]interface{}{
			"type": "string",
		},
	},
	"required": []string{"query"},
}

// ValidateInput checks the job variables against the input schema.
func ValidateInput(raw map[string]interface{}) *errors.StandardError {
	schemaLoader := gojsonschema.NewGoLoader(inputSchema)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("schema validation error: %v", err))
	}

	if !result.Valid() {
		var details []string
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return errors.NewInvalidInputError(strings.Join(details, "; "))
	}

	return nil
}
