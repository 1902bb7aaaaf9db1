// internal/workers/advocacy/validate-match-request/models.go
package validatematchrequest

type Input struct {
	MatchRequest map[string]interface{} `json:"matchRequest"`
}

type Output struct {
	IsValid          bool                   `json:"isValid"`
	ValidatedRequest map[string]interface{} `json:"validatedRequest"`
	ValidationErrors []ValidationError      `json:"validationErrors"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
