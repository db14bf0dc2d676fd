package dto

type DonorSearchRequest struct {
	Email    string `json:"email"`
	District string `json:"district"`
	Upazila  string `json:"upazila"`
	Blood    string `json:"blood"`
}
