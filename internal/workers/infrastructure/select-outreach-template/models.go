// internal/workers/infrastructure/select-outreach-template/models.go
package selectoutreachtemplate

type Input struct {
	RequestID      string `json:"requestId,omitempty"`
	AccountTier    string `json:"accountTier"`
	ReviewDecision string `json:"reviewDecision,omitempty"`
	Channel        string `json:"channel,omitempty"`
	Confidence     string `json:"confidence,omitempty"`
}

type Output struct {
	SelectedTemplateId string `json:"selectedTemplateId"`
}
