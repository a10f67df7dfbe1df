package models

type SubscribeRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type TagsRequest struct {
	Email string   `json:"email" binding:"required"`
	Tags  []string `json:"tags" binding:"required"`
}

type BatchSubscribeRequest struct {
	Members []SubscribeRequest `json:"members" binding:"required"`
}

type SubscribeFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// BatchSubscribeResult summarises a batch subscribe; failures do not abort it.
type BatchSubscribeResult struct {
	Processed     int                `json:"processed"`
	Successful    int                `json:"successful"`
	Failed        int                `json:"failed"`
	FailedDetails []SubscribeFailure `json:"failedDetails"`
}
