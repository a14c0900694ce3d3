package models

type RecipientMode string

const (
	RecipientSingle   RecipientMode = "single"
	RecipientMultiple RecipientMode = "multiple"
	RecipientAll      RecipientMode = "all"
)

type NotificationPayloadType string

const (
	PayloadMessage NotificationPayloadType = "message"
	PayloadTest    NotificationPayloadType = "test"
	PayloadSystem  NotificationPayloadType = "system"
)

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// NotificationRequest is never stored; it is built from the dispatch form and sent once
type NotificationRequest struct {
	Mode       RecipientMode       `json:"-"`
	UserID     string              `json:"userId,omitempty"`
	UserIDs    []string            `json:"userIds,omitempty"`
	Title      string              `json:"title" validate:"required"`
	Body       string              `json:"body" validate:"required"`
	Data       NotificationPayload `json:"data"`
	Importance Importance          `json:"importance" validate:"oneof=low medium high"`
}

type NotificationPayload struct {
	Type   NotificationPayloadType `json:"type" validate:"oneof=message test system"`
	ChatID string                  `json:"chatId,omitempty"`
	TestID string                  `json:"testId,omitempty"`
}

// Recipients returns the resolved recipient ids for single/multiple modes
func (r *NotificationRequest) Recipients() []string {
	switch r.Mode {
	case RecipientSingle:
		if r.UserID == "" {
			return nil
		}
		return []string{r.UserID}
	case RecipientMultiple:
		return r.UserIDs
	}
	return nil
}

// NotificationResult is what the send endpoints answer
type NotificationResult struct {
	Message string `json:"message"`
	Sent    int    `json:"sent,omitempty"`
}
