package emailsend

import "advocacy-workers/internal/common/validation"

// GetInputSchema describes the variables an email-send job must carry.
// Recipient lists are comma-separated strings rather than arrays because
// that is how the BPMN templates populate them.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"to", "subject", "body"},
		Properties: map[string]validation.Property{
			"from": {
				Type:        "string",
				Description: "Sender mailbox; falls back to the configured program address",
				MaxLength:   intPtr(255),
			},
			"to": {
				Type:        "string",
				Description: "Mailbox the invitation goes to",
				MinLength:   intPtr(5),
				MaxLength:   intPtr(255),
			},
			"cc": {
				Type:        "string",
				Description: "Comma-separated addresses copied on the invitation",
				MaxLength:   intPtr(1000),
			},
			"bcc": {
				Type:        "string",
				Description: "Comma-separated addresses blind-copied, typically a program archive",
				MaxLength:   intPtr(1000),
			},
			"replyTo": {
				Type:        "string",
				Description: "Mailbox replies should land in, usually the success manager",
				MaxLength:   intPtr(255),
			},
			"subject": {
				Type:        "string",
				Description: "Invitation subject line",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(500),
			},
			"body": {
				Type:        "string",
				Description: "Invitation body, plain text or HTML",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(100000),
			},
			"isHtml": {
				Type:        "boolean",
				Description: "Body is HTML when true",
			},
			"priority": {
				Type:        "string",
				Description: "Delivery priority hint (high, normal, low)",
			},
			"outreachId": {
				Type:        "string",
				Description: "Outreach request this invitation belongs to",
				MaxLength:   intPtr(64),
			},
			"opportunityId": {
				Type:        "string",
				Description: "Opportunity the reference call is for",
				MaxLength:   intPtr(64),
			},
			"advocateId": {
				Type:        "string",
				Description: "Advocate being invited",
				MaxLength:   intPtr(64),
			},
			"metadata": {
				Type:        "object",
				Description: "Free-form tracking fields logged alongside the send",
			},
		},
		AdditionalProperties: false,
	}
}

// GetOutputSchema describes the variables merged back into the process
// after a successful send.
func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "True when the SMTP server accepted the message",
			},
			"message": {
				Type:        "string",
				Description: "Human-readable result",
			},
			"messageId": {
				Type:        "string",
				Description: "Identifier embedded in the outgoing message headers",
			},
			"provider": {
				Type:        "string",
				Description: "Transport that carried the message",
			},
			"sentAt": {
				Type:        "string",
				Description: "Send completion time",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
