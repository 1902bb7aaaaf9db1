package buildmatchresponse

// responseSchema is the envelope contract every terminal payload must satisfy
// before the workflow instance completes. Template schemas gate the inbound
// substitution data; this gate covers what the caller finally receives.
var responseSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"requestId": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"status": map[string]interface{}{
			"type": "string",
			"enum": []string{"success", "error"},
		},
		"data": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"matches":  map[string]interface{}{"type": "array"},
				"stats":    map[string]interface{}{"type": "object"},
				"insights": map[string]interface{}{"type": "object"},
				"routing":  map[string]interface{}{"type": "object"},
			},
		},
		"metadata": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"timestamp": map[string]interface{}{"type": "string"},
				"version":   map[string]interface{}{"type": "string"},
			},
			"required": []string{"timestamp", "version"},
		},
	},
	"required": []string{"requestId", "status", "data", "metadata"},
}
