package dto

type RequestResponse struct {
	Row       int    `json:"row"`
	Recipient string `json:"recipient"`
	Postcode  string `json:"postcode"`
	Deadline  string `json:"deadline"`
	Notes     string `json:"notes,omitempty"`
}

type ListRequestsResponse struct {
	Requests []RequestResponse `json:"requests"`
}
