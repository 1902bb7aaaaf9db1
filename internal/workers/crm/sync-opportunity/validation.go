package syncopportunity

import "advocacy-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"opportunityId"},
		Properties: map[string]validation.Property{
			"opportunityId": {
				Type:        "string",
				Description: "CRM deal identifier of the opportunity",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(64),
			},
			"direction": {
				Type:        "string",
				Description: "Sync direction",
				Enum:        []string{"pull", "push"},
			},
			"programId": {
				Type:        "string",
				Description: "Advocacy program requesting the sync",
				MaxLength:   intPtr(64),
			},
			"primaryContact": {
				Type:        "object",
				Description: "Prospect contact to upsert into the CRM",
				Properties: map[string]validation.Property{
					"email": {
						Type:        "string",
						Description: "Contact email address",
					},
					"firstName": {
						Type:        "string",
						Description: "Contact first name",
					},
					"lastName": {
						Type:        "string",
						Description: "Contact last name",
					},
					"phone": {
						Type:        "string",
						Description: "Contact phone number",
					},
				},
				Required: []string{"email"},
			},
			"topMatch": {
				Type:        "object",
				Description: "Match result pushed back onto the deal",
			},
			"matchStatus": {
				Type:        "string",
				Description: "Match status written onto the deal",
				MaxLength:   intPtr(50),
			},
			"metadata": {
				Type:        "object",
				Description: "Additional metadata",
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "Whether the sync completed",
			},
			"message": {
				Type:        "string",
				Description: "Result message",
			},
			"opportunity": {
				Type:        "object",
				Description: "Opportunity mapped from the CRM deal",
			},
			"dealStage": {
				Type:        "string",
				Description: "CRM deal stage at sync time",
			},
			"contactId": {
				Type:        "string",
				Description: "CRM contact identifier of the prospect",
			},
			"crmProvider": {
				Type:        "string",
				Description: "CRM provider used",
			},
			"syncedAt": {
				Type:        "string",
				Description: "Timestamp when the sync completed",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
