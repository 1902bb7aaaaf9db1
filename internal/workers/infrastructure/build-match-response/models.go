// internal/workers/infrastructure/build-match-response/models.go
package buildmatchresponse

// Input collects the variables the advocate-request workflow has accumulated
// by its final task. Values arrive wire-shaped: structured output from earlier
// workers comes back as generic maps after the Zeebe round trip.
type Input struct {
	ResponseTemplateId string                 `json:"responseTemplateId,omitempty"`
	RequestId          string                 `json:"requestId"`
	Matches            []interface{}          `json:"matches"`
	Stats              map[string]interface{} `json:"matchingStats,omitempty"`
	Insights           map[string]interface{} `json:"matchInsights,omitempty"`
	TopMatch           map[string]interface{} `json:"topMatch,omitempty"`
	HasMatches         bool                   `json:"hasMatches"`
	PoolQuality        string                 `json:"poolQuality,omitempty"`
	ReviewDecision     string                 `json:"reviewDecision,omitempty"`
	ReviewPriority     string                 `json:"reviewPriority,omitempty"`
	SelectedTemplateId string                 `json:"selectedTemplateId,omitempty"`
	OutreachId         string                 `json:"outreachId,omitempty"`
	MatchRunId         string                 `json:"matchRunId,omitempty"`
	Annotations        map[string]interface{} `json:"annotations,omitempty"`
}

type Output struct {
	Response ResponsePayload `json:"matchResponse"`
}

type ResponsePayload struct {
	RequestId string                 `json:"requestId"`
	Status    string                 `json:"status"` // "success" or "error"
	Data      map[string]interface{} `json:"data"`
	Metadata  ResponseMetadata       `json:"metadata"`
}

type ResponseMetadata struct {
	Timestamp string `json:"timestamp"` // ISO 8601
	Version   string `json:"version"`
}

// TemplateDefinition is one entry of the response template registry.
type TemplateDefinition struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`     // match-response, outreach-summary, etc.
	Schema   map[string]interface{} `json:"schema"`   // JSON Schema for the substitution data
	Template map[string]interface{} `json:"template"` // Base structure with placeholders
	Version  string                 `json:"version"`
}
