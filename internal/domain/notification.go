package domain

import "time"

type EventKind string

const (
	EventCreated       EventKind = "sample_created"
	EventStatusChanged EventKind = "status_changed"
	EventResend        EventKind = "resend"
)

// NotificationEvent says that something happened to a sample request. It is
// not persisted; only the per-channel outcomes are.
type NotificationEvent struct {
	ID         string
	Kind       EventKind
	SampleID   string
	Status     Status
	Note       *string
	OccurredAt time.Time
}

// Recipient is the resolved target of a notification.
type Recipient struct {
	UserID string
	Name   string
	Email  *string
}

type Notification struct {
	ID              string
	UserID          string
	SampleRequestID string
	Type            string
	Title           string
	Body            string
	CreatedAt       time.Time
	ReadAt          *time.Time
}

type PushToken struct {
	Token     string
	UserID    string
	Platform  string
	CreatedAt time.Time
}
