// internal/workers/infrastructure/validate-match-quota/models.go
package validatematchquota

type Input struct {
	ProgramID string `json:"programId"`
}

// Output represents the quota verdict handed to the rest of the workflow
type Output struct {
	QuotaOK       bool   `json:"quotaOk"`
	AccountTier   string `json:"accountTier"`
	MonthlyLimit  int    `json:"monthlyLimit"`
	UsedThisMonth int64  `json:"usedThisMonth"`
}

// Program is the advocacy program row consulted for tier and cap
type Program struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Tier              string `json:"tier"`
	MonthlyMatchLimit int    `json:"monthlyMatchLimit"`
	OwnerEmail        string `json:"ownerEmail"`
	Active            bool   `json:"active"`
}
