package events

import "time"

const EmailRequestedTopic = "certportal.notification.email.v1"

// EmailRequestedEvent carries a fully composed email. The producer decides
// recipient and copy; the consumer only delivers.
type EmailRequestedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	HoldingID  string    `json:"holding_id,omitempty"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EmailTypeExpiresSoon      = "certification_expires_soon"
	EmailTypeRenewalRequested = "renewal_requested"
	EmailTypeRenewalInitiated = "renewal_initiated"
	EmailTypeRenewalConfirmed = "renewal_confirmed"
	EmailTypeRenewalPostponed = "renewal_postponed"
)
