package dto

import (
	"time"

	"samplehub/internal/domain"
)

type PromoteRequest struct {
	Quantity *int `json:"quantity,omitempty"`
}

type OrderResponse struct {
	ID              string    `json:"id"`
	SampleRequestID string    `json:"sampleRequestId"`
	BrandID         string    `json:"brandId"`
	FactoryID       string    `json:"factoryId"`
	RepID           string    `json:"repId"`
	Quantity        int       `json:"quantity"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		SampleRequestID: o.SampleRequestID,
		BrandID:         o.BrandID,
		FactoryID:       o.FactoryID,
		RepID:           o.RepID,
		Quantity:        o.Quantity,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
	}
}
