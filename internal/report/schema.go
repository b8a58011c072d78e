package report

import "github.com/joseph-ayodele/dc-receiving/constants"

// BuildResultSchema returns the JSON-Schema (draft 2020-12 subset) of an
// encoded ExtractionResult as a generic map.
func BuildResultSchema() map[string]any {
	header := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"manifest_number": nonEmptyString(),
			"origin":          nonEmptyString(),
			"destination":     nonEmptyString(),
		},
	}

	pkg := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"sequence_number":   map[string]any{"type": "integer", "minimum": 1},
			"package_id":        map[string]any{"type": "string", "pattern": `^1A4[0-9A-Z]{21}$`},
			"item_name":         map[string]any{"type": "string"},
			"quantity_shipped":  map[string]any{"type": "number", "minimum": 0},
			"quantity_verified": map[string]any{"type": "boolean"},
			"unit_of_measure":   nonEmptyString(),
			"batch_number":      nonEmptyString(),
			"item_details":      nonEmptyString(),
		},
		"required": []string{"sequence_number", "package_id", "item_name", "quantity_shipped", "quantity_verified"},
	}

	diagnostic := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"severity": map[string]any{
				"type": "string",
				"enum": []string{string(constants.SeverityWarning), string(constants.SeverityError)},
			},
			"scope": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"kind": map[string]any{
						"type": "string",
						"enum": []string{string(constants.ScopeHeader), string(constants.ScopePackage), string(constants.ScopeDocument)},
					},
					"sequence_number": map[string]any{"type": "integer", "minimum": 1},
				},
				"required": []string{"kind"},
			},
			"message": nonEmptyString(),
		},
		"required": []string{"severity", "scope", "message"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"status": map[string]any{
				"type": "string",
				"enum": []string{string(constants.StatusSucceeded), string(constants.StatusFailed)},
			},
			"header":      header,
			"packages":    map[string]any{"type": "array", "items": pkg},
			"diagnostics": map[string]any{"type": "array", "items": diagnostic},
			"raw_text":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"status", "header", "packages", "diagnostics"},
	}
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}
