package dto

import (
	"time"

	"samplehub/internal/domain"
)

type CreateSampleRequest struct {
	BrandID            string   `json:"brandId"`
	FactoryID          string   `json:"factoryId"`
	ProductDescription string   `json:"productDescription"`
	Quantity           int      `json:"quantity"`
	PreferredMOQ       *int     `json:"preferredMoq,omitempty"`
	DeliveryAddress    string   `json:"deliveryAddress"`
	FileURLs           []string `json:"fileUrls,omitempty"`
}

type TransitionRequest struct {
	Status          string  `json:"status"`
	Note            *string `json:"note,omitempty"`
	ETA             string  `json:"eta,omitempty"`
	TrackingNumber  *string `json:"trackingNumber,omitempty"`
	PaymentIntentID *string `json:"paymentIntentId,omitempty"`
}

type InvoiceDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	DueDate  string `json:"dueDate"`
}

type SampleResponse struct {
	ID                 string      `json:"id"`
	BrandID            string      `json:"brandId"`
	FactoryID          string      `json:"factoryId"`
	RepID              string      `json:"repId"`
	Status             string      `json:"status"`
	ProductDescription string      `json:"productDescription"`
	Quantity           int         `json:"quantity"`
	PreferredMOQ       *int        `json:"preferredMoq,omitempty"`
	DeliveryAddress    string      `json:"deliveryAddress"`
	FileURLs           []string    `json:"fileUrls"`
	PaymentIntentID    *string     `json:"paymentIntentId,omitempty"`
	Invoice            *InvoiceDTO `json:"invoice,omitempty"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

type StatusEntryResponse struct {
	ID              string    `json:"id"`
	Seq             int       `json:"seq"`
	Status          string    `json:"status"`
	Note            *string   `json:"note,omitempty"`
	ETA             *string   `json:"eta,omitempty"`
	TrackingNumber  *string   `json:"trackingNumber,omitempty"`
	PaymentIntentID *string   `json:"paymentIntentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	Synthetic       bool      `json:"synthetic,omitempty"`
}

type HistoryResponse struct {
	SampleID string                `json:"sampleId"`
	Entries  []StatusEntryResponse `json:"entries"`
}

type TransitionResponse struct {
	TraceID string              `json:"traceId"`
	Sample  SampleResponse      `json:"sample"`
	Entry   StatusEntryResponse `json:"entry"`
}

func NewSampleResponse(s domain.SampleRequest) SampleResponse {
	resp := SampleResponse{
		ID:                 s.ID,
		BrandID:            s.BrandID,
		FactoryID:          s.FactoryID,
		RepID:              s.RepID,
		Status:             string(s.Status),
		ProductDescription: s.ProductDescription,
		Quantity:           s.Quantity,
		PreferredMOQ:       s.PreferredMOQ,
		DeliveryAddress:    s.DeliveryAddress,
		FileURLs:           s.FileURLs,
		PaymentIntentID:    s.PaymentIntentID,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if resp.FileURLs == nil {
		resp.FileURLs = []string{}
	}
	if s.Invoice != nil {
		resp.Invoice = &InvoiceDTO{
			Amount:   s.Invoice.Amount.StringFixed(domain.CurrencyExponent(s.Invoice.Currency)),
			Currency: s.Invoice.Currency,
			DueDate:  s.Invoice.DueDate.Format(domain.DateLayout),
		}
	}
	return resp
}

func NewStatusEntryResponse(e domain.StatusEntry) StatusEntryResponse {
	resp := StatusEntryResponse{
		ID:              e.ID,
		Seq:             e.Seq,
		Status:          string(e.Status),
		Note:            e.Note,
		TrackingNumber:  e.TrackingNumber,
		PaymentIntentID: e.PaymentIntentID,
		CreatedAt:       e.CreatedAt,
		Synthetic:       e.Synthetic,
	}
	if e.ETA != nil {
		eta := e.ETA.Format(domain.DateLayout)
		resp.ETA = &eta
	}
	return resp
}

func NewHistoryResponse(sampleID string, entries []domain.StatusEntry) HistoryResponse {
	out := make([]StatusEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = NewStatusEntryResponse(e)
	}
	return HistoryResponse{SampleID: sampleID, Entries: out}
}
