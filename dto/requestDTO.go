package dto

// PageRequest is the body of my-donation-request. Values may arrive as JSON
// numbers or numeric strings.
type PageRequest struct {
	ItemPerPage interface{} `json:"itemPerPage"`
	CurrentPage interface{} `json:"currentPage"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
