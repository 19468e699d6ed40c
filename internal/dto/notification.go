package dto

import (
	"time"

	"samplehub/internal/domain"
)

type TriggerRequest struct {
	SampleID string `json:"sampleId"`
}

type RegisterTokenRequest struct {
	UserID   string `json:"userId"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type PushTokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationResponse struct {
	ID              string     `json:"id"`
	SampleRequestID string     `json:"sampleRequestId,omitempty"`
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Body            string     `json:"body"`
	CreatedAt       time.Time  `json:"createdAt"`
	ReadAt          *time.Time `json:"readAt,omitempty"`
}

type NotificationFeedResponse struct {
	UserID string                 `json:"userId"`
	Items  []NotificationResponse `json:"items"`
}

func NewPushTokenResponse(t domain.PushToken) PushTokenResponse {
	return PushTokenResponse{Token: t.Token, UserID: t.UserID, Platform: t.Platform, CreatedAt: t.CreatedAt}
}

func NewNotificationFeedResponse(userID string, items []domain.Notification) NotificationFeedResponse {
	out := NotificationFeedResponse{UserID: userID, Items: make([]NotificationResponse, 0, len(items))}
	for _, n := range items {
		out.Items = append(out.Items, NotificationResponse{
			ID:              n.ID,
			SampleRequestID: n.SampleRequestID,
			Type:            n.Type,
			Title:           n.Title,
			Body:            n.Body,
			CreatedAt:       n.CreatedAt,
			ReadAt:          n.ReadAt,
		})
	}
	return out
}
