package dto

type InvoiceRequest struct {
	Amount   string  `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	DueDate  string  `json:"dueDate"`
	Note     *string `json:"note,omitempty"`
}

type InvoiceResponse struct {
	TraceID         string              `json:"traceId"`
	Sample          SampleResponse      `json:"sample"`
	Entry           StatusEntryResponse `json:"entry"`
	PaymentIntentID string              `json:"paymentIntentId"`
	ClientSecret    string              `json:"clientSecret,omitempty"`
}
