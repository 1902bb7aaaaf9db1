// internal/models/program.go
package models

const (
	AccountTypePremium  = "premium"
	AccountTypeStandard = "standard"
)

// AdvocacyProgram is the customer account a match request is billed against.
type AdvocacyProgram struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AccountType  string `json:"accountType"` // "premium" or "standard"
	MonthlyQuota int    `json:"monthlyQuota"`
	Active       bool   `json:"active"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}
