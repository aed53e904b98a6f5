package models

import "time"

// Attachment is a single binary file carried by an EmailMessage.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EmailMessage is built fresh for every send.
type EmailMessage struct {
	From       string
	To         string
	Subject    string
	BodyText   string
	Attachment *Attachment
}

const TypePlanDelivered = "plan_delivered"

// FulfillmentEvent is published after a plan has been mailed to a buyer.
type FulfillmentEvent struct {
	Type           string    `json:"type"`
	Email          string    `json:"email"`
	ContactName    string    `json:"contact_name"`
	AttachmentName string    `json:"attachment_name"`
	RequestID      string    `json:"request_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"` // UTC event time
}
