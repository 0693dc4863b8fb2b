package dto

type ReceiptResponse struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	ReferenceID string  `json:"reference_id"`
	Status      string  `json:"status"`
	Printer     *string `json:"printer"`
	PDFUrl      *string `json:"pdf_url"`
	RetryCount  int     `json:"retry_count"`
	LastError   *string `json:"last_error"`
	CreatedAt   string  `json:"created_at"`
}

type ReprintRequest struct {
	Printer *string `json:"printer" validate:"omitempty,max=100"`
}

type PrinterResponse struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}
